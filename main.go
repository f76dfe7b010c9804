package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mrops-br/product-explorer/internal/app/service"
	"github.com/mrops-br/product-explorer/internal/domain"
	"github.com/mrops-br/product-explorer/internal/infrastructure/catalogapi"
	"github.com/mrops-br/product-explorer/internal/infrastructure/config"
	"github.com/mrops-br/product-explorer/internal/infrastructure/http"
	"github.com/mrops-br/product-explorer/internal/infrastructure/http/handler"
	"github.com/mrops-br/product-explorer/internal/infrastructure/repository/file"
	"github.com/mrops-br/product-explorer/internal/infrastructure/repository/memory"
	"github.com/mrops-br/product-explorer/internal/infrastructure/repository/redis"
	"github.com/mrops-br/product-explorer/internal/infrastructure/telemetry"
	"go.opentelemetry.io/otel/trace"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

// run wires the service and blocks until a signal or server failure
func run() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	telem, err := telemetry.NewTelemetry(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize telemetry: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	defer func() {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if err := telem.Shutdown(shutdownCtx); err != nil {
			log.Printf("Error shutting down telemetry: %v", err)
		}
	}()

	tracer := telem.TracerProvider.Tracer("product-explorer")
	meter := telem.MeterProvider.Meter("product-explorer")
	logger := telem.Logger

	logger.Info("Starting Product Explorer",
		slog.String("catalog", cfg.Catalog.BaseURL),
		slog.String("favorites_backend", cfg.Favorites.Backend),
	)

	store, closeStore, err := newFavoritesStore(cfg, tracer, logger)
	if err != nil {
		logger.Error("Failed to initialize favorites storage", "error", err.Error())
		return err
	}
	defer closeStore()

	client := catalogapi.NewClient(&cfg.Catalog, tracer, logger)
	catalog := catalogapi.NewCachedRepository(client, cfg.Catalog.CacheTTL, meter, logger)

	favoritesService := service.NewFavoritesService(store, cfg.Favorites.Key, tracer, meter, logger)
	catalogService := service.NewCatalogService(catalog, favoritesService, cfg.Catalog.PageSize, tracer, meter, logger)

	server := http.NewServer(
		&cfg.Server,
		handler.NewProductHandler(catalogService, logger),
		handler.NewFavoritesHandler(favoritesService, logger),
		telem.MeterProvider,
		telem.Registry,
		logger,
	)

	serveErr := make(chan error, 1)
	go func() {
		if err := server.Start(); err != nil {
			logger.Error("Server error", "error", err.Error())
			serveErr <- err
			cancel()
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-quit:
		logger.Info("Shutting down server...")
	case <-ctx.Done():
		logger.Info("Context cancelled, shutting down...")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown error", "error", err.Error())
	}

	logger.Info("Server stopped")

	select {
	case err := <-serveErr:
		return err
	default:
		return nil
	}
}

// newFavoritesStore selects the favorites backend. A nil store disables persistence.
func newFavoritesStore(cfg *config.Config, tracer trace.Tracer, logger *slog.Logger) (domain.KeyValueStore, func(), error) {
	noop := func() {}

	switch cfg.Favorites.Backend {
	case config.BackendFile:
		return file.NewKVStore(cfg.Favorites.File, tracer, logger), noop, nil
	case config.BackendMemory:
		return memory.NewKVStore(tracer, logger), noop, nil
	case config.BackendRedis:
		client := redis.NewClient(&cfg.Redis)
		closeClient := func() {
			if err := client.Close(); err != nil {
				logger.Warn("Failed to close redis client", "error", err.Error())
			}
		}
		return redis.NewKVStore(client, tracer, logger), closeClient, nil
	case config.BackendNone:
		logger.Warn("Favorites persistence disabled")
		return nil, noop, nil
	default:
		return nil, noop, fmt.Errorf("unknown favorites backend %q", cfg.Favorites.Backend)
	}
}
