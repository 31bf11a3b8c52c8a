package catalog_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/mrops-br/financial-products/internal/app/catalog"
	"github.com/mrops-br/financial-products/internal/app/remote"
	"github.com/mrops-br/financial-products/internal/app/screen"
	"github.com/mrops-br/financial-products/internal/domain"
)

func TestDetailController_DeleteRequiresConfirmation(t *testing.T) {
	api := new(MockAPI)
	c := catalog.NewDetailController(api, screen.DetailRoute{Product: domain.Product{ID: "visa-gold"}}, nil)

	notice, err := c.Delete(context.Background(), false)
	assert.ErrorIs(t, err, catalog.ErrNotConfirmed)
	assert.Nil(t, notice)
	api.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestDetailController_Delete(t *testing.T) {
	api := new(MockAPI)
	api.On("Delete", mock.Anything, "visa-gold").Return(nil).Once()

	c := catalog.NewDetailController(api, screen.DetailRoute{Product: domain.Product{ID: "visa-gold"}}, nil)
	notice, err := c.Delete(context.Background(), true)

	require.NoError(t, err)
	assert.Equal(t, &screen.Notice{Level: screen.LevelSuccess, Title: "Éxito", Message: "Producto eliminado con éxito"}, notice)
	assert.True(t, c.Deleted())
	api.AssertExpectations(t)
}

func TestDetailController_DeleteFailure(t *testing.T) {
	api := new(MockAPI)
	api.On("Delete", mock.Anything, "visa-gold").Return(errors.New("timeout")).Once()

	c := catalog.NewDetailController(api, screen.DetailRoute{Product: domain.Product{ID: "visa-gold"}}, nil)
	notice, err := c.Delete(context.Background(), true)

	assert.Error(t, err)
	assert.Equal(t, "Hubo un error al eliminar el producto", notice.Message)
	assert.Equal(t, screen.LevelError, notice.Level)
	assert.False(t, c.Deleted())
}

func TestDetailController_ReloadAndEdit(t *testing.T) {
	api := new(MockAPI)
	fresh := &domain.Product{ID: "visa-gold", Name: "Visa Gold renovada"}
	api.On("Get", mock.Anything, "visa-gold").Return(fresh, nil).Once()

	route := screen.DetailRoute{Product: domain.Product{ID: "visa-gold", Name: "Visa Gold"}}
	c := catalog.NewDetailController(api, route, nil)
	require.NoError(t, c.Reload(context.Background()))

	assert.Equal(t, remote.Ready, c.Product().State())
	assert.Equal(t, screen.EditRoute{Product: *fresh}, c.Edit())
	assert.Equal(t, "Visa Gold", route.Product.Name)
}
