package main

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	tracenoop "go.opentelemetry.io/otel/trace/noop"

	"github.com/mrops-br/financial-products/internal/app/catalog"
	"github.com/mrops-br/financial-products/internal/app/service"
	"github.com/mrops-br/financial-products/internal/domain"
	"github.com/mrops-br/financial-products/internal/infrastructure/http/handler"
	"github.com/mrops-br/financial-products/internal/infrastructure/repository/memory"
	"github.com/mrops-br/financial-products/internal/pkg/clock"
)

// newAPI serves the products routes on a test server and returns the
// collection URL.
func newAPI(t *testing.T) string {
	t.Helper()
	logger := slog.New(slog.DiscardHandler)
	tracer := tracenoop.NewTracerProvider().Tracer("test")

	repo := memory.NewProductRepository(tracer, logger)
	svc := service.NewProductService(repo, clock.RealClock{}, tracer, metricnoop.NewMeterProvider().Meter("test"), logger)

	r := chi.NewRouter()
	r.Route("/bp/products", handler.NewProductHandler(svc, logger).Routes)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv.URL + "/bp/products"
}

func run(t *testing.T, apiURL string, args ...string) (string, string, error) {
	t.Helper()
	return runWithInput(t, apiURL, "", args...)
}

func runWithInput(t *testing.T, apiURL, input string, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCmd(&out, &errOut)
	cmd.SetIn(strings.NewReader(input))
	cmd.SetArgs(append([]string{"--api-url=" + apiURL}, args...))
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func createArgs(id string) []string {
	return []string{
		"create",
		"--id", id,
		"--name", "Tarjeta de crédito",
		"--description", "Tarjeta de consumo bajo la modalidad de crédito",
		"--logo", "https://example.com/logo.png",
	}
}

func TestCreateListShowDelete(t *testing.T) {
	api := newAPI(t)

	out, _, err := run(t, api, createArgs("trj-crd")...)
	require.NoError(t, err)
	assert.Contains(t, out, "Éxito: Producto creado con éxito")
	assert.Contains(t, out, "id: trj-crd")
	assert.Contains(t, out, "date_release: "+domain.DateOf(time.Now()).String())

	out, _, err = run(t, api, "list", "--json")
	require.NoError(t, err)
	var listed []domain.Product
	require.NoError(t, json.Unmarshal([]byte(out), &listed))
	require.Len(t, listed, 1)
	assert.Equal(t, "trj-crd", listed[0].ID)

	out, _, err = run(t, api, "list", "--filter", "CRÉDITO")
	require.NoError(t, err)
	assert.Contains(t, out, "trj-crd")

	out, _, err = run(t, api, "list", "--filter", "seguro")
	require.NoError(t, err)
	assert.NotContains(t, out, "trj-crd")

	out, _, err = run(t, api, "show", "trj-crd")
	require.NoError(t, err)
	assert.Contains(t, out, "name: Tarjeta de crédito")

	out, _, err = run(t, api, "verify", "trj-crd")
	require.NoError(t, err)
	assert.Equal(t, "true\n", out)

	_, _, err = run(t, api, "delete", "trj-crd")
	assert.ErrorIs(t, err, catalog.ErrNotConfirmed)

	_, _, err = runWithInput(t, api, "n\n", "delete", "trj-crd")
	assert.ErrorIs(t, err, catalog.ErrNotConfirmed)

	out, _, err = run(t, api, "delete", "trj-crd", "--yes")
	require.NoError(t, err)
	assert.Contains(t, out, "Producto eliminado con éxito")

	out, _, err = run(t, api, "verify", "trj-crd")
	require.NoError(t, err)
	assert.Equal(t, "false\n", out)
}

func TestDelete_ConfirmedAtPrompt(t *testing.T) {
	api := newAPI(t)

	_, _, err := run(t, api, createArgs("del-01")...)
	require.NoError(t, err)

	out, _, err := runWithInput(t, api, "s\n", "delete", "del-01")
	require.NoError(t, err)
	assert.Contains(t, out, "¿Estás seguro de eliminar el producto del-01?")
	assert.Contains(t, out, "Éxito: Producto eliminado con éxito")
}

func TestCreate_PrintsFieldErrors(t *testing.T) {
	api := newAPI(t)

	_, errOut, err := run(t, api, createArgs("ab")...)
	require.ErrorIs(t, err, errReported)
	assert.Contains(t, errOut, "id: El ID debe tener al menos 3 caracteres.")

	_, _, err = run(t, api, createArgs("dup-01")...)
	require.NoError(t, err)

	_, errOut, err = run(t, api, createArgs("dup-01")...)
	require.ErrorIs(t, err, errReported)
	assert.Contains(t, errOut, "id: El ID ya existe.")
}

func TestCreate_RevisionMustFollowRelease(t *testing.T) {
	api := newAPI(t)
	release := domain.DateOf(time.Now()).AddDays(1)

	args := append(createArgs("rev-01"), "--release", release.String(), "--revision", release.String())
	_, errOut, err := run(t, api, args...)
	require.ErrorIs(t, err, errReported)
	assert.Contains(t, errOut, "date_revision: ")
}

func TestEdit_Rename(t *testing.T) {
	api := newAPI(t)

	_, _, err := run(t, api, createArgs("old-01")...)
	require.NoError(t, err)

	out, _, err := run(t, api, "edit", "old-01", "--new-id", "new-01", "--name", "Cuenta de ahorro")
	require.NoError(t, err)
	assert.Contains(t, out, "Producto actualizado con éxito")
	assert.Contains(t, out, "id: new-01")

	_, _, err = run(t, api, "show", "old-01")
	assert.Error(t, err)
}
