package notify

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/multierr"

	"github.com/gramkart/gramkart-backend/internal/notify/sms"
	"github.com/gramkart/gramkart-backend/internal/orders"
	"github.com/gramkart/gramkart-backend/internal/tenants"
	"github.com/gramkart/gramkart-backend/pkg/db/models"
	"github.com/gramkart/gramkart-backend/pkg/enums"
	pkgerrors "github.com/gramkart/gramkart-backend/pkg/errors"
	"github.com/gramkart/gramkart-backend/pkg/logger"
	"github.com/gramkart/gramkart-backend/pkg/metrics"
)

// InstagramSender delivers a text DM on behalf of a tenant account.
type InstagramSender interface {
	SendText(ctx context.Context, accountID, accessToken, recipientID, text string) error
}

// SMSSender fires the templated order-confirmation SMS.
type SMSSender interface {
	SendOrderConfirmation(ctx context.Context, phone string, vars sms.TemplateVars) error
}

// Notifier reports order confirmations to the buyer.
type Notifier interface {
	NotifyOrderConfirmed(ctx context.Context, order *models.Order) orders.NotificationOutcome
}

// DispatcherParams wires the fallback dispatcher.
type DispatcherParams struct {
	Tenants   tenants.Repository
	Instagram InstagramSender
	SMS       SMSSender
	Logger    *logger.Logger
	Metrics   *metrics.WebhookMetrics
}

// Dispatcher tries the Instagram DM channel first and falls back to SMS.
// It never fails the caller: every path yields an outcome to persist.
type Dispatcher struct {
	tenants tenants.Repository
	ig      InstagramSender
	sms     SMSSender
	logg    *logger.Logger
	metrics *metrics.WebhookMetrics
}

// NewDispatcher validates dependencies and builds a Dispatcher.
func NewDispatcher(params DispatcherParams) (*Dispatcher, error) {
	if params.Tenants == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "tenants repository is required")
	}
	if params.Instagram == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "instagram sender is required")
	}
	if params.SMS == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "sms sender is required")
	}
	if params.Logger == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "logger is required")
	}
	return &Dispatcher{
		tenants: params.Tenants,
		ig:      params.Instagram,
		sms:     params.SMS,
		logg:    params.Logger,
		metrics: params.Metrics,
	}, nil
}

// NotifyOrderConfirmed walks the DM-then-SMS chain and returns the outcome.
func (d *Dispatcher) NotifyOrderConfirmed(ctx context.Context, order *models.Order) orders.NotificationOutcome {
	ctx = d.logg.WithTenantID(ctx, order.TenantID.String())
	ctx = d.logg.WithBillNo(ctx, order.BillNo)
	attemptedAt := time.Now().UTC()

	dmErr := d.sendDM(ctx, order)
	if dmErr == nil {
		d.metrics.IncNotification(enums.NotificationMethodInstagram.String())
		return orders.NotificationOutcome{
			Sent:        true,
			Method:      enums.NotificationMethodInstagram,
			AttemptedAt: attemptedAt,
		}
	}
	d.logg.Warn(ctx, fmt.Sprintf("instagram dm failed, falling back to sms: %v", dmErr))

	smsErr := d.sendSMS(ctx, order)
	if smsErr == nil {
		d.metrics.IncNotification(enums.NotificationMethodSMS.String())
		return orders.NotificationOutcome{
			Sent:        true,
			Method:      enums.NotificationMethodSMS,
			AttemptedAt: attemptedAt,
		}
	}

	combined := multierr.Append(
		fmt.Errorf("dm: %w", dmErr),
		fmt.Errorf("sms: %w", smsErr),
	)
	d.logg.Error(ctx, "all notification channels failed", combined)
	errMsg := combined.Error()
	return orders.NotificationOutcome{
		Sent:        false,
		Method:      enums.NotificationMethodNone,
		Error:       &errMsg,
		AttemptedAt: attemptedAt,
	}
}

func (d *Dispatcher) sendDM(ctx context.Context, order *models.Order) error {
	cred, err := d.tenants.LatestCredential(ctx, order.TenantID)
	if err != nil {
		return fmt.Errorf("load tenant credential: %w", err)
	}
	if cred.TokenExpires != nil && cred.TokenExpires.Before(time.Now()) {
		return fmt.Errorf("tenant access token expired at %s", cred.TokenExpires.Format(time.RFC3339))
	}
	text := fmt.Sprintf("Your order %s is confirmed. Amount paid: ₹%s. We'll update you when it ships!",
		order.OrderID, sms.FormatAmount(order.TotalAmount))
	return d.ig.SendText(ctx, cred.IGAccountID, cred.AccessToken, order.SenderID, text)
}

func (d *Dispatcher) sendSMS(ctx context.Context, order *models.Order) error {
	if order.Phone == nil || *order.Phone == "" {
		return fmt.Errorf("no phone number on order")
	}

	merchantName := "your merchant"
	profile, err := d.tenants.LatestProfile(ctx, order.TenantID)
	if err != nil {
		d.logg.Warn(ctx, fmt.Sprintf("merchant profile lookup failed, using generic name: %v", err))
	} else {
		merchantName = profile.DisplayName
	}

	return d.sms.SendOrderConfirmation(ctx, *order.Phone, sms.BuildOrderVars(merchantName, order))
}
