package catalog

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/mrops-br/financial-products/internal/app/remote"
	"github.com/mrops-br/financial-products/internal/app/screen"
	"github.com/mrops-br/financial-products/internal/domain"
)

var ErrNotConfirmed = errors.New("catalog: delete not confirmed")

const (
	msgDeleted      = "Producto eliminado con éxito"
	msgDeleteFailed = "Hubo un error al eliminar el producto"
)

// Remover is the part of the products API the detail screen needs.
type Remover interface {
	Get(ctx context.Context, id string) (*domain.Product, error)
	Delete(ctx context.Context, id string) error
}

// DetailController shows one product and handles its deletion.
type DetailController struct {
	mu      sync.Mutex
	product remote.Data[domain.Product]
	deleted bool

	api    Remover
	logger *slog.Logger
}

func NewDetailController(api Remover, route screen.DetailRoute, logger *slog.Logger) *DetailController {
	if logger == nil {
		logger = slog.Default()
	}
	return &DetailController{
		product: remote.ReadyData(route.Product),
		api:     api,
		logger:  logger,
	}
}

// Product exposes the displayed product and its load state.
func (c *DetailController) Product() remote.Data[domain.Product] {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.product
}

// Reload fetches the product again.
func (c *DetailController) Reload(ctx context.Context) error {
	c.mu.Lock()
	current, _ := c.product.Value()
	c.product.Start()
	c.mu.Unlock()

	p, err := c.api.Get(ctx, current.ID)

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.product.Fail(err)
		return err
	}
	c.product.Succeed(*p)
	return nil
}

// Edit returns the route to the edit form for the displayed product.
func (c *DetailController) Edit() screen.EditRoute {
	c.mu.Lock()
	defer c.mu.Unlock()
	p, _ := c.product.Value()
	return screen.EditRoute{Product: p}
}

// Deleted reports whether the product was removed through this controller.
func (c *DetailController) Deleted() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.deleted
}

// Delete removes the product once the user has confirmed. Without
// confirmation it returns ErrNotConfirmed and no notice; otherwise the notice
// describes the outcome and err is non-nil when nothing was deleted.
func (c *DetailController) Delete(ctx context.Context, confirmed bool) (*screen.Notice, error) {
	if !confirmed {
		return nil, ErrNotConfirmed
	}

	c.mu.Lock()
	p, _ := c.product.Value()
	c.mu.Unlock()

	if err := c.api.Delete(ctx, p.ID); err != nil {
		c.logger.ErrorContext(ctx, "Error deleting product",
			slog.String("product_id", p.ID),
			slog.String("error", err.Error()),
		)
		return screen.Failure(msgDeleteFailed), err
	}

	c.mu.Lock()
	c.deleted = true
	c.mu.Unlock()

	c.logger.InfoContext(ctx, "Product deleted", slog.String("product_id", p.ID))
	return screen.Success(msgDeleted), nil
}
