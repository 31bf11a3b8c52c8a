package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/go-playground/validator/v10"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/mrops-br/financial-products/internal/app/dto"
	"github.com/mrops-br/financial-products/internal/domain"
	"github.com/mrops-br/financial-products/internal/pkg/clock"
)

// ProductService handles product use cases
type ProductService struct {
	repo                  domain.ProductRepository
	validate              *validator.Validate
	clock                 clock.Clock
	tracer                trace.Tracer
	logger                *slog.Logger
	productCreatedCounter metric.Int64Counter
	productOperations     metric.Int64Counter
}

// NewProductService creates a new product service
func NewProductService(
	repo domain.ProductRepository,
	clk clock.Clock,
	tracer trace.Tracer,
	meter metric.Meter,
	logger *slog.Logger,
) *ProductService {
	// Initialize metrics
	productCreatedCounter, _ := meter.Int64Counter(
		"products.created.total",
		metric.WithDescription("Total number of products created"),
	)

	productOperations, _ := meter.Int64Counter(
		"products.operations",
		metric.WithDescription("Total number of product operations"),
	)

	return &ProductService{
		repo:                  repo,
		validate:              newValidator(),
		clock:                 clk,
		tracer:                tracer,
		logger:                logger,
		productCreatedCounter: productCreatedCounter,
		productOperations:     productOperations,
	}
}

func (s *ProductService) record(ctx context.Context, operation, result string) {
	s.productOperations.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("operation", operation),
			attribute.String("result", result),
		),
	)
}

// resultOf classifies err for the operations counter
func resultOf(err error) string {
	var verr *ValidationError
	switch {
	case err == nil:
		return "success"
	case errors.As(err, &verr):
		return "invalid"
	case errors.Is(err, domain.ErrProductNotFound):
		return "not_found"
	default:
		return "failure"
	}
}

func (s *ProductService) fail(ctx context.Context, span trace.Span, operation string, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, operation+" failed")
	s.record(ctx, operation, resultOf(err))

	level := slog.LevelError
	if r := resultOf(err); r == "invalid" || r == "not_found" {
		level = slog.LevelWarn
	}
	s.logger.Log(ctx, level, "Product operation failed",
		slog.String("operation", operation),
		slog.String("error", err.Error()),
	)
	return err
}

func (s *ProductService) today() domain.Date {
	return domain.DateOf(s.clock.Now())
}

// CreateProduct validates and stores a new product
func (s *ProductService) CreateProduct(ctx context.Context, req *dto.ProductRequest) (*dto.ProductResponse, error) {
	ctx, span := s.tracer.Start(ctx, "ProductService.CreateProduct")
	defer span.End()

	span.SetAttributes(
		attribute.String("product.id", req.ID),
		attribute.String("product.name", req.Name),
	)

	s.logger.InfoContext(ctx, "Creating product",
		slog.String("product_id", req.ID),
		slog.String("name", req.Name),
	)

	product := req.ToDomain()

	vs := violations{}
	s.checkFields(req, vs)
	checkDates(product, s.today(), true, vs)
	if !vs.has(domain.FieldID) {
		exists, err := s.repo.Exists(ctx, product.ID)
		if err != nil {
			return nil, s.fail(ctx, span, "create", err)
		}
		if exists {
			vs.add(domain.FieldID, ruleUnique, "id already exists")
		}
	}
	if err := vs.err(); err != nil {
		return nil, s.fail(ctx, span, "create", err)
	}

	if err := s.repo.Create(ctx, product); err != nil {
		if errors.Is(err, domain.ErrProductAlreadyExists) {
			vs.add(domain.FieldID, ruleUnique, "id already exists")
			err = vs.err()
		}
		return nil, s.fail(ctx, span, "create", err)
	}

	// Record metrics
	s.productCreatedCounter.Add(ctx, 1)
	s.record(ctx, "create", "success")

	s.logger.InfoContext(ctx, "Product created successfully",
		slog.String("product_id", product.ID),
	)

	span.SetStatus(codes.Ok, "Product created successfully")
	return dto.ToProductResponse(product), nil
}

// UpdateProduct replaces the product stored under id. The request may carry
// a different id, which renames the product.
func (s *ProductService) UpdateProduct(ctx context.Context, id string, req *dto.ProductRequest) (*dto.ProductResponse, error) {
	ctx, span := s.tracer.Start(ctx, "ProductService.UpdateProduct")
	defer span.End()

	span.SetAttributes(
		attribute.String("product.id", id),
		attribute.String("product.new_id", req.ID),
	)

	s.logger.InfoContext(ctx, "Updating product",
		slog.String("product_id", id),
	)

	current, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.fail(ctx, span, "update", err)
	}

	product := req.ToDomain()
	renaming := product.ID != current.ID

	vs := violations{}
	s.checkFields(req, vs)
	checkDates(product, s.today(), false, vs)
	if renaming && !vs.has(domain.FieldID) {
		exists, err := s.repo.Exists(ctx, product.ID)
		if err != nil {
			return nil, s.fail(ctx, span, "update", err)
		}
		if exists {
			vs.add(domain.FieldID, ruleUnique, "id already exists")
		}
	}
	if err := vs.err(); err != nil {
		return nil, s.fail(ctx, span, "update", err)
	}

	if renaming {
		err = s.rename(ctx, current, product)
	} else {
		err = s.repo.Update(ctx, product)
	}
	if err != nil {
		return nil, s.fail(ctx, span, "update", err)
	}

	s.record(ctx, "update", "success")
	s.logger.InfoContext(ctx, "Product updated successfully",
		slog.String("product_id", product.ID),
	)

	span.SetStatus(codes.Ok, "Product updated successfully")
	return dto.ToProductResponse(product), nil
}

// rename moves current to product's id. The old record is restored if the
// new one cannot be stored.
func (s *ProductService) rename(ctx context.Context, current, product *domain.Product) error {
	if err := s.repo.Delete(ctx, current.ID); err != nil {
		return err
	}
	if err := s.repo.Create(ctx, product); err != nil {
		if restoreErr := s.repo.Create(ctx, current); restoreErr != nil {
			s.logger.ErrorContext(ctx, "Failed to restore product after rename",
				slog.String("product_id", current.ID),
				slog.String("error", restoreErr.Error()),
			)
		}
		if errors.Is(err, domain.ErrProductAlreadyExists) {
			vs := violations{}
			vs.add(domain.FieldID, ruleUnique, "id already exists")
			return vs.err()
		}
		return err
	}
	return nil
}

// DeleteProduct removes a product
func (s *ProductService) DeleteProduct(ctx context.Context, id string) error {
	ctx, span := s.tracer.Start(ctx, "ProductService.DeleteProduct")
	defer span.End()

	span.SetAttributes(attribute.String("product.id", id))

	if err := s.repo.Delete(ctx, id); err != nil {
		return s.fail(ctx, span, "delete", err)
	}

	s.record(ctx, "delete", "success")
	s.logger.InfoContext(ctx, "Product deleted successfully",
		slog.String("product_id", id),
	)

	span.SetStatus(codes.Ok, "Product deleted successfully")
	return nil
}

// GetProductByID retrieves a product by ID
func (s *ProductService) GetProductByID(ctx context.Context, id string) (*dto.ProductResponse, error) {
	ctx, span := s.tracer.Start(ctx, "ProductService.GetProductByID")
	defer span.End()

	span.SetAttributes(attribute.String("product.id", id))

	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.fail(ctx, span, "read", err)
	}

	s.record(ctx, "read", "success")
	span.SetStatus(codes.Ok, "Product retrieved successfully")
	return dto.ToProductResponse(product), nil
}

// VerifyID reports whether a product with id exists
func (s *ProductService) VerifyID(ctx context.Context, id string) (bool, error) {
	ctx, span := s.tracer.Start(ctx, "ProductService.VerifyID")
	defer span.End()

	span.SetAttributes(attribute.String("product.id", id))

	exists, err := s.repo.Exists(ctx, id)
	if err != nil {
		return false, s.fail(ctx, span, "verify", err)
	}

	s.record(ctx, "verify", "success")
	span.SetAttributes(attribute.Bool("product.exists", exists))
	span.SetStatus(codes.Ok, "Product id verified")
	return exists, nil
}

// ListProducts retrieves all products
func (s *ProductService) ListProducts(ctx context.Context) ([]*dto.ProductResponse, error) {
	ctx, span := s.tracer.Start(ctx, "ProductService.ListProducts")
	defer span.End()

	s.logger.InfoContext(ctx, "Listing all products")

	products, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, s.fail(ctx, span, "list", err)
	}

	span.SetAttributes(attribute.Int("product.count", len(products)))
	s.record(ctx, "list", "success")

	s.logger.InfoContext(ctx, "Products listed successfully",
		slog.Int("count", len(products)),
	)

	span.SetStatus(codes.Ok, "Products listed successfully")
	return dto.ToProductResponseList(products), nil
}
