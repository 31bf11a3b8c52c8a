// Package repotest holds the behaviour every domain.ProductRepository must
// share, run by each store's tests.
package repotest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrops-br/financial-products/internal/domain"
)

func product(id, name string) *domain.Product {
	return &domain.Product{
		ID:           id,
		Name:         name,
		Description:  "Descripción del producto " + id,
		Logo:         "https://example.com/" + id + ".png",
		DateRelease:  "2026-11-01",
		DateRevision: "2027-11-01",
	}
}

// RunContract exercises a fresh repository returned by newRepo for each subtest.
func RunContract(t *testing.T, newRepo func(t *testing.T) domain.ProductRepository) {
	ctx := context.Background()

	t.Run("create and find", func(t *testing.T) {
		repo := newRepo(t)
		require.NoError(t, repo.Create(ctx, product("visa", "Tarjeta Visa")))

		got, err := repo.FindByID(ctx, "visa")
		require.NoError(t, err)
		assert.Equal(t, product("visa", "Tarjeta Visa"), got)

		exists, err := repo.Exists(ctx, "visa")
		require.NoError(t, err)
		assert.True(t, exists)
	})

	t.Run("duplicate create", func(t *testing.T) {
		repo := newRepo(t)
		require.NoError(t, repo.Create(ctx, product("visa", "Tarjeta Visa")))
		assert.ErrorIs(t, repo.Create(ctx, product("visa", "Otra tarjeta")), domain.ErrProductAlreadyExists)
	})

	t.Run("find all ordered", func(t *testing.T) {
		repo := newRepo(t)
		require.NoError(t, repo.Create(ctx, product("zeta", "Cuenta Zeta")))
		require.NoError(t, repo.Create(ctx, product("alfa", "Cuenta Alfa")))

		all, err := repo.FindAll(ctx)
		require.NoError(t, err)
		require.Len(t, all, 2)
		assert.Equal(t, "alfa", all[0].ID)
		assert.Equal(t, "zeta", all[1].ID)
	})

	t.Run("update", func(t *testing.T) {
		repo := newRepo(t)
		require.NoError(t, repo.Create(ctx, product("visa", "Tarjeta Visa")))

		changed := product("visa", "Tarjeta Visa Platinum")
		require.NoError(t, repo.Update(ctx, changed))

		got, err := repo.FindByID(ctx, "visa")
		require.NoError(t, err)
		assert.Equal(t, "Tarjeta Visa Platinum", got.Name)

		assert.ErrorIs(t, repo.Update(ctx, product("nope", "Nadie")), domain.ErrProductNotFound)
	})

	t.Run("delete", func(t *testing.T) {
		repo := newRepo(t)
		require.NoError(t, repo.Create(ctx, product("visa", "Tarjeta Visa")))
		require.NoError(t, repo.Delete(ctx, "visa"))

		_, err := repo.FindByID(ctx, "visa")
		assert.ErrorIs(t, err, domain.ErrProductNotFound)
		assert.ErrorIs(t, repo.Delete(ctx, "visa"), domain.ErrProductNotFound)

		exists, err := repo.Exists(ctx, "visa")
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("returned products are copies", func(t *testing.T) {
		repo := newRepo(t)
		require.NoError(t, repo.Create(ctx, product("visa", "Tarjeta Visa")))

		got, err := repo.FindByID(ctx, "visa")
		require.NoError(t, err)
		got.Name = "mutated"

		again, err := repo.FindByID(ctx, "visa")
		require.NoError(t, err)
		assert.Equal(t, "Tarjeta Visa", again.Name)
	})
}
