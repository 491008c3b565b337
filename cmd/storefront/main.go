package main

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/tanvicrafts/storefront-backend/api/routes"
	"github.com/tanvicrafts/storefront-backend/internal/catalog"
	"github.com/tanvicrafts/storefront-backend/internal/enquiry"
	"github.com/tanvicrafts/storefront-backend/internal/session"
	"github.com/tanvicrafts/storefront-backend/pkg/config"
	"github.com/tanvicrafts/storefront-backend/pkg/kv"
	"github.com/tanvicrafts/storefront-backend/pkg/logger"
	"github.com/tanvicrafts/storefront-backend/pkg/metrics"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "storefront"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "storefront",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	storage, err := buildStorage(context.Background(), cfg, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap storage", err)
		os.Exit(1)
	}
	defer func() {
		if closer, ok := storage.(kv.Closer); ok {
			if err := closer.Close(); err != nil {
				logg.Error(context.Background(), "error closing storage", err)
			}
		}
	}()

	catalogClient, err := catalog.NewClient(cfg.Catalog, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to build catalog client", err)
		os.Exit(1)
	}

	sink, err := enquiry.NewHTTPSink(cfg.Enquiry, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to build enquiry sink", err)
		os.Exit(1)
	}

	promRegistry := prometheus.NewRegistry()
	storefrontMetrics := metrics.NewStorefrontMetrics(promRegistry)

	registry, err := session.NewRegistry(session.RegistryParams{
		Storage:        storage,
		StorageKey:     cfg.Cart.StorageKey,
		Sink:           sink,
		Products:       catalogClient,
		Logger:         logg,
		Metrics:        storefrontMetrics,
		TTL:            cfg.Session.TTL,
		SweepInterval:  cfg.Session.SweepInterval,
		SuccessDisplay: cfg.Enquiry.SuccessDisplay,
		ToastDuration:  cfg.Toast.DefaultDuration,
		SearchDebounce: cfg.Catalog.SearchDebounce,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to build session registry", err)
		os.Exit(1)
	}
	defer registry.Close()

	var storagePinger kv.Pinger
	if p, ok := storage.(kv.Pinger); ok {
		storagePinger = p
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":     cfg.App.Env,
		"addr":    addr,
		"storage": cfg.Storage.Kind(),
	})
	logg.Info(ctx, "starting storefront server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(
			cfg,
			logg,
			storagePinger,
			catalogClient,
			catalogClient,
			registry,
			sink,
			promRegistry,
		),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "storefront server stopped unexpectedly", err)
		os.Exit(1)
	}
}

// buildStorage picks the persistence tier. The sqlite and redis backends are
// wrapped with a memory shadow, so a failing primary degrades the cart to
// memory-only operation instead of breaking mutations.
func buildStorage(ctx context.Context, cfg *config.Config, logg *logger.Logger) (kv.Store, error) {
	switch cfg.Storage.Kind() {
	case config.StorageBackendMemory:
		return kv.NewMemory(), nil
	case config.StorageBackendSQLite:
		primary, err := kv.NewSQLite(cfg.Storage.SQLitePath)
		if err != nil {
			return nil, err
		}
		return kv.NewFallback(primary, logg)
	case config.StorageBackendRedis:
		primary, err := kv.NewRedis(ctx, cfg.Redis)
		if err != nil {
			return nil, err
		}
		return kv.NewFallback(primary, logg)
	}
	return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
}
