package webhooks

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gramkart/gramkart-backend/api/responses"
	"github.com/gramkart/gramkart-backend/api/validators"
	"github.com/gramkart/gramkart-backend/internal/webhooks/razorpay"
	pkgerrors "github.com/gramkart/gramkart-backend/pkg/errors"
	"github.com/gramkart/gramkart-backend/pkg/logger"
	"github.com/gramkart/gramkart-backend/pkg/metrics"
	"github.com/gramkart/gramkart-backend/pkg/types"
)

const (
	signatureHeader = "X-Razorpay-Signature"
	eventIDHeader   = "X-Razorpay-Event-Id"
)

type RazorpayWebhookService interface {
	HandleEvent(ctx context.Context, event *razorpay.Event) error
}

type razorpayWebhookGuard interface {
	CheckAndMark(ctx context.Context, eventID string) (bool, error)
	Delete(ctx context.Context, eventID string) error
}

// RazorpayWebhook ingests payment events. The raw-body signature is verified
// before any parsing; an unverifiable request never touches the pipeline.
func RazorpayWebhook(svc RazorpayWebhookService, secret string, guard razorpayWebhookGuard, m *metrics.WebhookMetrics, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "webhook service unavailable"))
			return
		}
		if secret == "" {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "webhook secret not configured"))
			return
		}

		payload, err := io.ReadAll(r.Body)
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read request body"))
			return
		}

		signature := r.Header.Get(signatureHeader)
		if signature == "" {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "webhook signature missing"))
			return
		}
		if !verifySignature(payload, signature, secret) {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "webhook signature mismatch"))
			return
		}

		var event razorpay.Event
		if err := validators.DecodeRawJSON(payload, &event); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		if logg != nil {
			ctx = logg.WithEvent(ctx, event.Event)
		}

		eventID := r.Header.Get(eventIDHeader)
		if eventID != "" && guard != nil {
			alreadyProcessed, err := guard.CheckAndMark(ctx, eventID)
			if err != nil {
				responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check idempotency"))
				return
			}
			if alreadyProcessed {
				if logg != nil {
					logg.Info(ctx, "duplicate webhook delivery, acknowledging")
				}
				responses.WriteSuccess(w, ackBody(event.Event))
				return
			}
		}

		start := time.Now()
		if err := svc.HandleEvent(ctx, &event); err != nil {
			if eventID != "" && guard != nil {
				// Release the mark so the provider's redelivery gets another run.
				_ = guard.Delete(ctx, eventID)
			}
			m.IncFailed(event.Event)
			responses.WriteError(ctx, logg, w, err)
			return
		}
		m.ObserveDuration(event.Event, time.Since(start))
		m.IncProcessed(event.Event)

		if logg != nil {
			logg.Info(ctx, fmt.Sprintf("razorpay event %s processed", event.Event))
		}
		responses.WriteSuccess(w, ackBody(event.Event))
	}
}

func verifySignature(payload []byte, signature, secret string) bool {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}

func ackBody(event string) types.WebhookAck {
	return types.WebhookAck{
		Status:      "success",
		Event:       event,
		ProcessedAt: time.Now().UTC().Format(time.RFC3339),
	}
}
