// Package catalog drives the product list and product detail screens.
package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/mrops-br/financial-products/internal/app/remote"
	"github.com/mrops-br/financial-products/internal/app/screen"
	"github.com/mrops-br/financial-products/internal/domain"
)

// Lister fetches the full product list.
type Lister interface {
	List(ctx context.Context) ([]domain.Product, error)
}

// ListController holds the fetched list and a free-text filter on names.
// The list is owned by the controller and only replaced by Load.
type ListController struct {
	mu       sync.RWMutex
	products remote.Data[[]domain.Product]
	filter   string

	api    Lister
	logger *slog.Logger
}

// NewListController creates a list controller. Nothing is fetched until Load.
func NewListController(api Lister, _ screen.ListRoute, logger *slog.Logger) *ListController {
	if logger == nil {
		logger = slog.Default()
	}
	return &ListController{api: api, logger: logger}
}

// Load fetches the list once. Failures leave the controller in the Failed
// state and are returned to the caller.
func (c *ListController) Load(ctx context.Context) error {
	c.mu.Lock()
	c.products.Start()
	c.mu.Unlock()

	products, err := c.api.List(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.products.Fail(err)
		c.logger.ErrorContext(ctx, "Failed to load products", slog.String("error", err.Error()))
		return err
	}
	c.products.Succeed(products)
	c.logger.InfoContext(ctx, "Products loaded", slog.Int("count", len(products)))
	return nil
}

// Products exposes the load state of the unfiltered list. The list is a copy.
func (c *ListController) Products() remote.Data[[]domain.Product] {
	c.mu.RLock()
	defer c.mu.RUnlock()

	products, _ := c.products.Value()
	return c.products.WithValue(slices.Clone(products))
}

func (c *ListController) SetFilter(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.filter = text
}

func (c *ListController) Filter() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.filter
}

// Visible returns the loaded products whose name contains the filter,
// ignoring case. It is recomputed on every call.
func (c *ListController) Visible() []domain.Product {
	c.mu.RLock()
	defer c.mu.RUnlock()

	products, _ := c.products.Value()
	return FilterByName(products, c.filter)
}

// Select returns the route to the detail of the product with id.
func (c *ListController) Select(id string) (screen.DetailRoute, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	products, _ := c.products.Value()
	for _, p := range products {
		if p.ID == id {
			return screen.DetailRoute{Product: p}, nil
		}
	}
	return screen.DetailRoute{}, fmt.Errorf("%w: %s", domain.ErrProductNotFound, id)
}

// Create returns the route to the registration form.
func (c *ListController) Create() screen.CreateRoute {
	return screen.CreateRoute{}
}

// FilterByName keeps the products whose name contains term, case-insensitively.
// The input slice is not modified.
func FilterByName(products []domain.Product, term string) []domain.Product {
	out := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if p.NameContains(term) {
			out = append(out, p)
		}
	}
	return out
}
