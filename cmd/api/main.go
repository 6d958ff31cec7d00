package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/multierr"

	"github.com/quickbite-app/quickbite-backend/api/routes"
	"github.com/quickbite-app/quickbite-backend/internal/cart"
	"github.com/quickbite-app/quickbite-backend/internal/catalog"
	"github.com/quickbite-app/quickbite-backend/internal/checkout"
	"github.com/quickbite-app/quickbite-backend/internal/identity"
	"github.com/quickbite-app/quickbite-backend/pkg/config"
	"github.com/quickbite-app/quickbite-backend/pkg/docdb"
	"github.com/quickbite-app/quickbite-backend/pkg/logger"
	"github.com/quickbite-app/quickbite-backend/pkg/metrics"
	"github.com/quickbite-app/quickbite-backend/pkg/redis"
)

const shutdownGrace = 15 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	docdbClient, err := docdb.New(cfg.Docdb)
	if err != nil {
		logg.Error(context.Background(), "failed to build document service client", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	cartMetrics := metrics.NewCartMetrics(registry)

	identityService, err := identity.NewService(docdbClient, docdbClient, redisClient, cfg.Docdb, cfg.JWT, cfg.Password, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create identity service", err)
		os.Exit(1)
	}

	catalogService, err := catalog.NewService(docdbClient, cfg.Docdb, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create catalog service", err)
		os.Exit(1)
	}

	checkoutService := checkout.NewService(cfg.Checkout, cartMetrics)
	cartRegistry := cart.NewRegistry()

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port

	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.Dependencies{
			Config:          cfg,
			Logger:          logg,
			Redis:           redisClient,
			DocdbPinger:     docdbClient,
			CartRegistry:    cartRegistry,
			CartMetrics:     cartMetrics,
			MetricsGatherer: registry,
			IdentityService: identityService,
			CatalogService:  catalogService,
			CheckoutService: checkoutService,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-runCtx.Done():
		logg.Info(ctx, "shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()

	var closeErr error
	closeErr = multierr.Append(closeErr, server.Shutdown(shutdownCtx))
	closeErr = multierr.Append(closeErr, redisClient.Close())
	if closeErr != nil {
		logg.Error(ctx, "shutdown finished with errors", closeErr)
		os.Exit(1)
	}
	logg.Info(ctx, "shutdown complete")
}
