package middleware

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/metric/noop"
)

func TestRoutePattern(t *testing.T) {
	r := chi.NewRouter()
	var got string
	r.Get("/bp/products/{id}", func(w http.ResponseWriter, req *http.Request) {
		got = RoutePattern(req)
	})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/bp/products/abc", nil))
	assert.Equal(t, "/bp/products/{id}", got)

	bare := httptest.NewRequest(http.MethodGet, "/raw/path", nil)
	assert.Equal(t, "/raw/path", RoutePattern(bare))
}

func TestStructuredLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	r := chi.NewRouter()
	r.Use(StructuredLogger(logger))
	r.Get("/items/{id}", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/items/42", nil))

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "WARN", entry["level"])
	assert.Equal(t, "/items/{id}", entry["http.route"])
	assert.Equal(t, "/items/42", entry["url.path"])
	assert.EqualValues(t, http.StatusNotFound, entry["http.response.status_code"])
}

func TestMetricMiddlewaresPassThrough(t *testing.T) {
	meter := noop.NewMeterProvider().Meter("test")

	r := chi.NewRouter()
	r.Use(ActiveRequestsMiddleware(meter))
	r.Use(DurationMillisecondsMiddleware(meter))
	r.Use(HTTPRouteContext())
	r.Get("/ping", func(w http.ResponseWriter, req *http.Request) {
		_, _ = w.Write([]byte("pong"))
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "pong", rec.Body.String())
}
