package routes

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gramkart/gramkart-backend/pkg/config"
	"github.com/gramkart/gramkart-backend/pkg/logger"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	cfg := &config.Config{}
	cfg.App.Env = "test"
	cfg.Razorpay.WebhookSecret = "whsec_test"
	logg := logger.New(logger.Options{ServiceName: "test"})
	return NewRouter(cfg, logg, nil, nil, nil, nil, nil, nil)
}

func TestRouterHealthLive(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/live", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got := rec.Header().Get("X-Gramkart-Env"); got != "test" {
		t.Fatalf("expected env header, got %q", got)
	}
	if !strings.Contains(rec.Body.String(), `"live"`) {
		t.Fatalf("unexpected body %s", rec.Body.String())
	}
}

func TestRouterWebhookRouteRequiresSignature(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/webhooks/razorpay", strings.NewReader("{}"))
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError && rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected rejection, got %d", rec.Code)
	}
}

func TestRouterUnknownRoute(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}
