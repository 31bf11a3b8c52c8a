package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/mrops-br/financial-products/internal/domain"
)

// VerifyMode selects how IDExists asks the server about an id.
type VerifyMode string

const (
	// VerifyByEndpoint calls GET {base}/verification/{id}, which answers a JSON boolean.
	VerifyByEndpoint VerifyMode = "verification"
	// VerifyByLookup calls GET {base}/{id}; a 404 means the id is free.
	VerifyByLookup VerifyMode = "lookup"
)

const requestIDHeader = "X-Request-ID"

// Client talks to the products REST API. Every method is a single request:
// no batching, no retries. Cancel through ctx.
type Client struct {
	httpClient *http.Client
	baseURL    *url.URL
	verifyMode VerifyMode
	tracer     trace.Tracer
	logger     *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client. The client is copied,
// so later options never change the caller's value; its transport is used as is.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		cp := *hc
		c.httpClient = &cp
	}
}

// WithTimeout sets the per-request timeout of the client in use.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

func WithVerifyMode(mode VerifyMode) Option {
	return func(c *Client) { c.verifyMode = mode }
}

func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

func WithTracer(tracer trace.Tracer) Option {
	return func(c *Client) { c.tracer = tracer }
}

// New creates a client for the collection at baseURL, e.g.
// http://localhost:8080/bp/products.
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid base url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid base url %q: scheme and host are required", baseURL)
	}

	c := &Client{
		httpClient: &http.Client{
			Timeout:   10 * time.Second,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		baseURL:    u,
		verifyMode: VerifyByEndpoint,
		tracer:     otel.Tracer("products-client"),
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}

	switch c.verifyMode {
	case VerifyByEndpoint, VerifyByLookup:
	default:
		return nil, fmt.Errorf("unknown verify mode %q", c.verifyMode)
	}

	return c, nil
}

type listResponse struct {
	Data []domain.Product `json:"data"`
}

type productEnvelope struct {
	Message string          `json:"message"`
	Data    *domain.Product `json:"data"`
}

// List returns every product.
func (c *Client) List(ctx context.Context) ([]domain.Product, error) {
	ctx, span := c.tracer.Start(ctx, "ProductClient.List")
	defer span.End()

	var resp listResponse
	if err := c.do(ctx, "list", http.MethodGet, "", nil, &resp); err != nil {
		return nil, c.fail(ctx, span, "list", err)
	}

	products := make([]domain.Product, len(resp.Data))
	for i, p := range resp.Data {
		products[i] = p.Normalized()
	}

	span.SetAttributes(attribute.Int("product.count", len(products)))
	span.SetStatus(codes.Ok, "Products listed")
	return products, nil
}

// Get returns one product. A missing product yields an error matching ErrNotFound.
func (c *Client) Get(ctx context.Context, id string) (*domain.Product, error) {
	ctx, span := c.tracer.Start(ctx, "ProductClient.Get")
	defer span.End()
	span.SetAttributes(attribute.String("product.id", id))

	var body json.RawMessage
	if err := c.do(ctx, "get", http.MethodGet, "/"+url.PathEscape(id), nil, &body); err != nil {
		return nil, c.fail(ctx, span, "get", err)
	}

	p, err := decodeProduct("get", body)
	if err != nil {
		return nil, c.fail(ctx, span, "get", err)
	}

	span.SetStatus(codes.Ok, "Product retrieved")
	return p, nil
}

// Create submits a new product and returns the stored record. Rejections with
// field violations come back as *ValidationError.
func (c *Client) Create(ctx context.Context, product domain.Product) (*domain.Product, error) {
	ctx, span := c.tracer.Start(ctx, "ProductClient.Create")
	defer span.End()
	span.SetAttributes(attribute.String("product.id", product.ID))

	var body json.RawMessage
	if err := c.do(ctx, "create", http.MethodPost, "", product, &body); err != nil {
		return nil, c.fail(ctx, span, "create", err)
	}

	p, err := decodeProduct("create", body)
	if err != nil {
		return nil, c.fail(ctx, span, "create", err)
	}

	c.logger.InfoContext(ctx, "Product created", slog.String("product_id", p.ID))
	span.SetStatus(codes.Ok, "Product created")
	return p, nil
}

// Update replaces the full record keyed by product.ID.
func (c *Client) Update(ctx context.Context, product domain.Product) (*domain.Product, error) {
	return c.Replace(ctx, product.ID, product)
}

// Replace sends product to PUT {base}/{id}. It differs from Update only when
// the record is being renamed, in which case id is the current key.
func (c *Client) Replace(ctx context.Context, id string, product domain.Product) (*domain.Product, error) {
	ctx, span := c.tracer.Start(ctx, "ProductClient.Update")
	defer span.End()
	span.SetAttributes(attribute.String("product.id", id))

	var body json.RawMessage
	if err := c.do(ctx, "update", http.MethodPut, "/"+url.PathEscape(id), product, &body); err != nil {
		return nil, c.fail(ctx, span, "update", err)
	}

	p, err := decodeProduct("update", body)
	if err != nil {
		return nil, c.fail(ctx, span, "update", err)
	}

	c.logger.InfoContext(ctx, "Product updated", slog.String("product_id", p.ID))
	span.SetStatus(codes.Ok, "Product updated")
	return p, nil
}

// Delete removes a product.
func (c *Client) Delete(ctx context.Context, id string) error {
	ctx, span := c.tracer.Start(ctx, "ProductClient.Delete")
	defer span.End()
	span.SetAttributes(attribute.String("product.id", id))

	if err := c.do(ctx, "delete", http.MethodDelete, "/"+url.PathEscape(id), nil, nil); err != nil {
		return c.fail(ctx, span, "delete", err)
	}

	c.logger.InfoContext(ctx, "Product deleted", slog.String("product_id", id))
	span.SetStatus(codes.Ok, "Product deleted")
	return nil
}

// IDExists reports whether a product with id is already stored. Transport
// failures and unexpected statuses are returned as errors; they never read
// as "id available".
func (c *Client) IDExists(ctx context.Context, id string) (bool, error) {
	ctx, span := c.tracer.Start(ctx, "ProductClient.IDExists")
	defer span.End()
	span.SetAttributes(
		attribute.String("product.id", id),
		attribute.String("verify.mode", string(c.verifyMode)),
	)

	var exists bool
	switch c.verifyMode {
	case VerifyByLookup:
		_, err := c.Get(ctx, id)
		switch {
		case err == nil:
			exists = true
		case errors.Is(err, ErrNotFound):
			exists = false
		default:
			return false, c.fail(ctx, span, "verify", err)
		}
	default:
		if err := c.do(ctx, "verify", http.MethodGet, "/verification/"+url.PathEscape(id), nil, &exists); err != nil {
			return false, c.fail(ctx, span, "verify", err)
		}
	}

	span.SetAttributes(attribute.Bool("product.exists", exists))
	span.SetStatus(codes.Ok, "Id verified")
	return exists, nil
}

func (c *Client) fail(ctx context.Context, span trace.Span, op string, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, op+" failed")

	level := slog.LevelError
	var verr *ValidationError
	if errors.As(err, &verr) || errors.Is(err, ErrNotFound) {
		level = slog.LevelWarn
	}
	c.logger.Log(ctx, level, "Products API call failed",
		slog.String("operation", op),
		slog.String("error", err.Error()),
	)
	return err
}

// do performs one request. A nil out discards a successful body.
func (c *Client) do(ctx context.Context, op, method, path string, body, out any) error {
	endpoint := c.baseURL.String() + path

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%s: failed to marshal request: %w", op, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("%s: failed to create request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	requestID := uuid.New().String()
	req.Header.Set(requestIDHeader, requestID)

	c.logger.DebugContext(ctx, "Outgoing request",
		slog.String("method", method),
		slog.String("endpoint", endpoint),
		slog.String("request_id", requestID),
	)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return &TransportError{Op: op, Err: fmt.Errorf("failed to read response: %w", err)}
	}

	c.logger.DebugContext(ctx, "Incoming response",
		slog.String("endpoint", endpoint),
		slog.String("request_id", requestID),
		slog.Int("status_code", resp.StatusCode),
	)

	if resp.StatusCode >= http.StatusBadRequest {
		return decodeFailure(op, resp.StatusCode, respBody)
	}

	if out == nil || len(bytes.TrimSpace(respBody)) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return &TransportError{Op: op, Err: fmt.Errorf("failed to decode response: %w", err)}
	}
	return nil
}

func decodeFailure(op string, status int, body []byte) error {
	var msg messageBody
	_ = json.Unmarshal(body, &msg)

	var eb errorBody
	if err := json.Unmarshal(body, &eb); err == nil && len(eb.Errors) > 0 {
		return &ValidationError{
			Op:         op,
			Status:     status,
			Message:    msg.Message,
			Violations: eb.Errors,
		}
	}

	return &StatusError{Op: op, Status: status, Message: msg.Message}
}

// decodeProduct accepts either {"message": ..., "data": {...}} or a bare product.
func decodeProduct(op string, body json.RawMessage) (*domain.Product, error) {
	var env productEnvelope
	if err := json.Unmarshal(body, &env); err == nil && env.Data != nil {
		p := env.Data.Normalized()
		return &p, nil
	}

	var p domain.Product
	if err := json.Unmarshal(body, &p); err != nil || p.ID == "" {
		if err == nil {
			err = errors.New("response carries no product")
		}
		return nil, &TransportError{Op: op, Err: fmt.Errorf("failed to decode product: %w", err)}
	}
	p = p.Normalized()
	return &p, nil
}
