package sqlstore

import (
	"fmt"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/mrops-br/financial-products/internal/domain"
	"github.com/mrops-br/financial-products/internal/infrastructure/repository/repotest"
)

func TestProductRepository(t *testing.T) {
	repotest.RunContract(t, func(t *testing.T) domain.ProductRepository {
		// One named in-memory database per subtest.
		name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
		db, err := Open("sqlite", fmt.Sprintf("file:%s?mode=memory&cache=shared", name))
		require.NoError(t, err)

		sqlDB, err := db.DB()
		require.NoError(t, err)
		t.Cleanup(func() { _ = sqlDB.Close() })

		return NewProductRepository(db, noop.NewTracerProvider().Tracer("test"), slog.New(slog.DiscardHandler))
	})
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, err := Open("oracle", "")
	require.ErrorContains(t, err, "unsupported store driver")
}
