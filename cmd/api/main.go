package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/gramkart/gramkart-backend/api/routes"
	"github.com/gramkart/gramkart-backend/internal/cart"
	"github.com/gramkart/gramkart-backend/internal/notify"
	"github.com/gramkart/gramkart-backend/internal/notify/instagram"
	"github.com/gramkart/gramkart-backend/internal/notify/sms"
	"github.com/gramkart/gramkart-backend/internal/orders"
	"github.com/gramkart/gramkart-backend/internal/products"
	"github.com/gramkart/gramkart-backend/internal/tenants"
	"github.com/gramkart/gramkart-backend/internal/webhooks/razorpay"
	"github.com/gramkart/gramkart-backend/pkg/config"
	"github.com/gramkart/gramkart-backend/pkg/db"
	"github.com/gramkart/gramkart-backend/pkg/logger"
	"github.com/gramkart/gramkart-backend/pkg/metrics"
	"github.com/gramkart/gramkart-backend/pkg/migrate"
	"github.com/gramkart/gramkart-backend/pkg/redis"
)

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

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	registry := prometheus.NewRegistry()
	webhookMetrics := metrics.NewWebhookMetrics(registry)

	notifier, err := notify.NewDispatcher(notify.DispatcherParams{
		Tenants:   tenants.NewRepository(dbClient.DB()),
		Instagram: instagram.NewClient(cfg.Instagram),
		SMS:       sms.NewClient(cfg.SMS),
		Logger:    logg,
		Metrics:   webhookMetrics,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create notification dispatcher", err)
		os.Exit(1)
	}

	razorpayService, err := razorpay.NewService(razorpay.ServiceParams{
		OrdersRepo:        orders.NewRepository(dbClient.DB()),
		ProductsRepo:      products.NewRepository(dbClient.DB()),
		CartRepo:          cart.NewRepository(dbClient.DB()),
		Notifier:          notifier,
		TransactionRunner: dbClient,
		FulfillmentEvent:  cfg.Razorpay.FulfillmentEvent,
		Logger:            logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create razorpay webhook service", err)
		os.Exit(1)
	}

	razorpayGuard, err := razorpay.NewIdempotencyGuard(redisClient, cfg.Razorpay.EventGuardTTL, "razorpay")
	if err != nil {
		logg.Error(context.Background(), "failed to create idempotency guard", err)
		os.Exit(1)
	}

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
		Handler: routes.NewRouter(
			cfg,
			logg,
			dbClient,
			redisClient,
			razorpayService,
			razorpayGuard,
			webhookMetrics,
			registry,
		),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
