package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/gramkart/gramkart-backend/api/controllers"
	webhookcontrollers "github.com/gramkart/gramkart-backend/api/controllers/webhooks"
	"github.com/gramkart/gramkart-backend/api/middleware"
	"github.com/gramkart/gramkart-backend/internal/webhooks/razorpay"
	"github.com/gramkart/gramkart-backend/pkg/config"
	"github.com/gramkart/gramkart-backend/pkg/db"
	"github.com/gramkart/gramkart-backend/pkg/logger"
	"github.com/gramkart/gramkart-backend/pkg/metrics"
	"github.com/gramkart/gramkart-backend/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *redis.Client,
	razorpayService *razorpay.Service,
	razorpayGuard *razorpay.IdempotencyGuard,
	webhookMetrics *metrics.WebhookMetrics,
	registry *prometheus.Registry,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisClient))
	})

	if registry != nil {
		r.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1/webhooks", func(r chi.Router) {
		r.Post("/razorpay", webhookcontrollers.RazorpayWebhook(
			razorpayService,
			cfg.Razorpay.WebhookSecret,
			razorpayGuard,
			webhookMetrics,
			logg,
		))
	})

	return r
}
