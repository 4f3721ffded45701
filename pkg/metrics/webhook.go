package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// WebhookMetrics records payment-webhook processing outcomes.
type WebhookMetrics struct {
	duration      *prometheus.HistogramVec
	processed     *prometheus.CounterVec
	failed        *prometheus.CounterVec
	notifications *prometheus.CounterVec
}

// NewWebhookMetrics registers the webhook metrics on the provided registerer.
func NewWebhookMetrics(reg prometheus.Registerer) *WebhookMetrics {
	if reg == nil {
		return &WebhookMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "webhook_event_duration_seconds",
		Help:    "Duration of webhook event handling in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"event"})
	processed := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "webhook_events_processed",
		Help: "Webhook events handled successfully.",
	}, []string{"event"})
	failed := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "webhook_events_failed",
		Help: "Webhook events that ended in a processing failure.",
	}, []string{"event"})
	notifications := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "order_notifications_sent",
		Help: "Order confirmations delivered, labeled by channel.",
	}, []string{"method"})
	reg.MustRegister(duration, processed, failed, notifications)
	return &WebhookMetrics{
		duration:      duration,
		processed:     processed,
		failed:        failed,
		notifications: notifications,
	}
}

// ObserveDuration records handling duration for the named event.
func (m *WebhookMetrics) ObserveDuration(event string, duration time.Duration) {
	if m == nil || m.duration == nil {
		return
	}
	m.duration.WithLabelValues(normalizeLabel(event)).Observe(duration.Seconds())
}

// IncProcessed increments the processed counter for the named event.
func (m *WebhookMetrics) IncProcessed(event string) {
	if m == nil || m.processed == nil {
		return
	}
	m.processed.WithLabelValues(normalizeLabel(event)).Inc()
}

// IncFailed increments the failure counter for the named event.
func (m *WebhookMetrics) IncFailed(event string) {
	if m == nil || m.failed == nil {
		return
	}
	m.failed.WithLabelValues(normalizeLabel(event)).Inc()
}

// IncNotification counts a delivered confirmation for the channel.
func (m *WebhookMetrics) IncNotification(method string) {
	if m == nil || m.notifications == nil {
		return
	}
	m.notifications.WithLabelValues(normalizeLabel(method)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
