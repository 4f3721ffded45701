package notify

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/gramkart/gramkart-backend/internal/notify/sms"
	"github.com/gramkart/gramkart-backend/pkg/db/models"
	"github.com/gramkart/gramkart-backend/pkg/enums"
	"github.com/gramkart/gramkart-backend/pkg/logger"
)

type stubTenants struct {
	cred       *models.TenantCredential
	credErr    error
	profile    *models.MerchantProfile
	profileErr error
}

func (s *stubTenants) LatestCredential(ctx context.Context, tenantID uuid.UUID) (*models.TenantCredential, error) {
	return s.cred, s.credErr
}

func (s *stubTenants) LatestProfile(ctx context.Context, tenantID uuid.UUID) (*models.MerchantProfile, error) {
	return s.profile, s.profileErr
}

type stubIG struct {
	err   error
	calls int
	text  string
}

func (s *stubIG) SendText(ctx context.Context, accountID, accessToken, recipientID, text string) error {
	s.calls++
	s.text = text
	return s.err
}

type stubSMS struct {
	err   error
	calls int
	phone string
	vars  sms.TemplateVars
}

func (s *stubSMS) SendOrderConfirmation(ctx context.Context, phone string, vars sms.TemplateVars) error {
	s.calls++
	s.phone = phone
	s.vars = vars
	return s.err
}

func testOrder() *models.Order {
	phone := "9876543210"
	address := "12 MG Road Bangalore"
	return &models.Order{
		ID:          uuid.New(),
		OrderID:     "ORD-42",
		BillNo:      "INV-1001",
		TenantID:    uuid.New(),
		SenderID:    "ig-1337",
		Phone:       &phone,
		Address:     &address,
		TotalAmount: decimal.RequireFromString("2000.00"),
		Items: []models.OrderLineItem{
			{SKU: "SHIRT-RED-M", Name: "Red Shirt", UnitLabel: "M", Qty: 2},
		},
	}
}

func newDispatcher(t *testing.T, tn *stubTenants, ig *stubIG, smsc *stubSMS) *Dispatcher {
	t.Helper()
	d, err := NewDispatcher(DispatcherParams{
		Tenants:   tn,
		Instagram: ig,
		SMS:       smsc,
		Logger:    logger.New(logger.Options{ServiceName: "test"}),
	})
	if err != nil {
		t.Fatalf("new dispatcher: %v", err)
	}
	return d
}

func TestNotifyPrefersInstagram(t *testing.T) {
	t.Parallel()

	ig := &stubIG{}
	smsc := &stubSMS{}
	tn := &stubTenants{cred: &models.TenantCredential{AccessToken: "tok", IGAccountID: "acct-1"}}
	d := newDispatcher(t, tn, ig, smsc)

	outcome := d.NotifyOrderConfirmed(context.Background(), testOrder())
	if !outcome.Sent || outcome.Method != enums.NotificationMethodInstagram {
		t.Fatalf("expected instagram outcome, got %+v", outcome)
	}
	if ig.calls != 1 || smsc.calls != 0 {
		t.Fatalf("expected dm only, got dm=%d sms=%d", ig.calls, smsc.calls)
	}
	if !strings.Contains(ig.text, "ORD-42") || !strings.Contains(ig.text, "2000.00") {
		t.Fatalf("dm text missing order details: %q", ig.text)
	}
}

func TestNotifyFallsBackToSMS(t *testing.T) {
	t.Parallel()

	ig := &stubIG{err: errors.New("token revoked")}
	smsc := &stubSMS{}
	tn := &stubTenants{
		cred:    &models.TenantCredential{AccessToken: "tok", IGAccountID: "acct-1"},
		profile: &models.MerchantProfile{DisplayName: "Chai & Co"},
	}
	d := newDispatcher(t, tn, ig, smsc)

	outcome := d.NotifyOrderConfirmed(context.Background(), testOrder())
	if !outcome.Sent || outcome.Method != enums.NotificationMethodSMS {
		t.Fatalf("expected sms outcome, got %+v", outcome)
	}
	if smsc.calls != 1 {
		t.Fatalf("expected one sms send, got %d", smsc.calls)
	}
	if smsc.vars.MerchantName != "Chai & Co" {
		t.Fatalf("unexpected merchant name %q", smsc.vars.MerchantName)
	}
	if smsc.vars.Amount != "2000.00" {
		t.Fatalf("unexpected amount %q", smsc.vars.Amount)
	}
}

func TestNotifyMissingCredentialFallsBack(t *testing.T) {
	t.Parallel()

	smsc := &stubSMS{}
	tn := &stubTenants{
		credErr: errors.New("record not found"),
		profile: &models.MerchantProfile{DisplayName: "Chai & Co"},
	}
	d := newDispatcher(t, tn, &stubIG{}, smsc)

	outcome := d.NotifyOrderConfirmed(context.Background(), testOrder())
	if !outcome.Sent || outcome.Method != enums.NotificationMethodSMS {
		t.Fatalf("expected sms fallback, got %+v", outcome)
	}
}

func TestNotifyBothChannelsFail(t *testing.T) {
	t.Parallel()

	ig := &stubIG{err: errors.New("graph api status 401")}
	tn := &stubTenants{cred: &models.TenantCredential{AccessToken: "tok", IGAccountID: "acct-1"}}
	d := newDispatcher(t, tn, ig, &stubSMS{})

	order := testOrder()
	order.Phone = nil

	outcome := d.NotifyOrderConfirmed(context.Background(), order)
	if outcome.Sent {
		t.Fatal("expected sent=false")
	}
	if outcome.Method != enums.NotificationMethodNone {
		t.Fatalf("expected method none, got %s", outcome.Method)
	}
	if outcome.Error == nil {
		t.Fatal("expected combined error")
	}
	if !strings.Contains(*outcome.Error, "graph api status 401") ||
		!strings.Contains(*outcome.Error, "no phone number on order") {
		t.Fatalf("expected both failures in error, got %q", *outcome.Error)
	}
	if outcome.AttemptedAt.IsZero() {
		t.Fatal("expected attemptedAt to be set")
	}
}
