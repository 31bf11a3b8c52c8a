package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/mrops-br/financial-products/internal/app/service"
	"github.com/mrops-br/financial-products/internal/domain"
	"github.com/mrops-br/financial-products/internal/infrastructure/config"
	"github.com/mrops-br/financial-products/internal/infrastructure/http"
	"github.com/mrops-br/financial-products/internal/infrastructure/http/handler"
	"github.com/mrops-br/financial-products/internal/infrastructure/repository/memory"
	"github.com/mrops-br/financial-products/internal/infrastructure/repository/sqlstore"
	"github.com/mrops-br/financial-products/internal/infrastructure/telemetry"
	"github.com/mrops-br/financial-products/internal/pkg/clock"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if err := cfg.Store.Validate(); err != nil {
		log.Fatalf("Invalid store configuration: %v", err)
	}

	// Initialize OpenTelemetry
	telem, err := telemetry.NewTelemetry(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize telemetry: %v", err)
	}

	// Ensure telemetry is shutdown on exit
	defer func() {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if err := telem.Shutdown(shutdownCtx); err != nil {
			log.Printf("Error shutting down telemetry: %v", err)
		}
	}()

	tracer := telem.TracerProvider.Tracer("products-api")
	meter := telem.MeterProvider.Meter("products-api")
	logger := telem.Logger

	logger.Info("Starting Products API", slog.String("store", cfg.Store.Driver))

	repo, db, err := openRepository(&cfg.Store, tracer, logger)
	if err != nil {
		logger.Error("Failed to open product store", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if db != nil {
		defer func() {
			if sqlDB, err := db.DB(); err == nil {
				_ = sqlDB.Close()
			}
		}()
	}

	productService := service.NewProductService(repo, clock.RealClock{}, tracer, meter, logger)
	productHandler := handler.NewProductHandler(productService, logger)
	server := http.NewServer(&cfg.Server, productHandler, logger, telem)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-quit:
		logger.Info("Shutting down server...")
	case err := <-errCh:
		if err != nil {
			logger.Error("Server error", slog.String("error", err.Error()))
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Server shutdown failed", slog.String("error", err.Error()))
	}

	logger.Info("Server stopped")
}

// openRepository selects the product store. db is nil for the memory store.
func openRepository(cfg *config.StoreConfig, tracer trace.Tracer, logger *slog.Logger) (domain.ProductRepository, *gorm.DB, error) {
	if cfg.Driver == "memory" {
		return memory.NewProductRepository(tracer, logger), nil, nil
	}

	db, err := sqlstore.Open(cfg.Driver, cfg.DSN)
	if err != nil {
		return nil, nil, err
	}
	return sqlstore.NewProductRepository(db, tracer, logger), db, nil
}
