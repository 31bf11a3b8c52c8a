package telemetry

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/mrops-br/financial-products/internal/infrastructure/config"
)

func TestNewLogger_InjectsTraceAndRoute(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf,
		&config.LogConfig{Level: slog.LevelInfo, Format: "json"},
		&config.OTLPConfig{ServiceName: "products-api", Environment: "test"},
	)

	tp := sdktrace.NewTracerProvider()
	ctx, span := tp.Tracer("test").Start(context.Background(), "op")
	defer span.End()
	ctx = WithHTTPRoute(ctx, "/bp/products/{id}")

	logger.InfoContext(ctx, "hello")

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "hello", record["msg"])
	assert.Equal(t, "products-api", record["service.name"])
	assert.Equal(t, "/bp/products/{id}", record["http.route"])
	assert.Equal(t, span.SpanContext().TraceID().String(), record["trace_id"])
}

func TestNewLogger_LevelFilter(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf,
		&config.LogConfig{Level: slog.LevelWarn, Format: "text"},
		&config.OTLPConfig{},
	)

	logger.Info("quiet")
	assert.Empty(t, buf.String())

	logger.Warn("loud")
	assert.Contains(t, buf.String(), "msg=loud")
}

func TestNewNoOpTelemetry(t *testing.T) {
	cfg := &config.Config{
		Log:  config.LogConfig{Level: slog.LevelError, Format: "json"},
		OTLP: config.OTLPConfig{ServiceName: "products-api"},
	}

	telem, err := NewTelemetry(cfg)
	require.NoError(t, err)
	require.NotNil(t, telem.Registry)

	counter, err := telem.MeterProvider.Meter("test").Int64Counter("test.counter")
	require.NoError(t, err)
	counter.Add(context.Background(), 1)

	families, err := telem.Registry.Gather()
	require.NoError(t, err)

	found := false
	for _, f := range families {
		if strings.HasPrefix(f.GetName(), "test_counter") {
			found = true
		}
	}
	assert.True(t, found, "counter not exported to the prometheus registry")

	assert.NoError(t, telem.Shutdown(context.Background()))
}
