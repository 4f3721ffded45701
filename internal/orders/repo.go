package orders

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/gramkart/gramkart-backend/pkg/db/models"
	"github.com/gramkart/gramkart-backend/pkg/enums"
)

// Repository exposes the order persistence surface used by the webhook
// pipeline.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindByBillNo(ctx context.Context, billNo string) (*models.Order, error)
	MarkPaid(ctx context.Context, id uuid.UUID, patch PaidUpdate) (bool, error)
	SetPaymentStatus(ctx context.Context, id uuid.UUID, status enums.PaymentStatus) error
	RecordNotification(ctx context.Context, id uuid.UUID, outcome NotificationOutcome) error
}

// PaidUpdate carries the provider-reported payment fields applied when an
// order transitions to PAID.
type PaidUpdate struct {
	TotalAmount       decimal.Decimal
	PaymentMethod     enums.PaymentMethod
	ProviderPaymentID *string
}

// NotificationOutcome is the bookkeeping written back to the order after the
// notification chain runs, regardless of whether any channel succeeded.
type NotificationOutcome struct {
	Sent        bool
	Method      enums.NotificationMethod
	Error       *string
	AttemptedAt time.Time
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds an orders repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) FindByBillNo(ctx context.Context, billNo string) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("bill_no = ?", billNo).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// MarkPaid transitions an order from PENDING to PAID in a single conditional
// update. Returns false when the order was no longer PENDING, so a concurrent
// delivery that already claimed the transition cannot be double-applied.
func (r *repository) MarkPaid(ctx context.Context, id uuid.UUID, patch PaidUpdate) (bool, error) {
	updates := map[string]any{
		"total_amount":   patch.TotalAmount,
		"payment_status": enums.PaymentStatusPaid,
		"order_status":   enums.OrderStatusProcessing,
		"payment_method": patch.PaymentMethod,
	}
	if patch.ProviderPaymentID != nil {
		updates["provider_payment_id"] = *patch.ProviderPaymentID
	}
	result := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ? AND payment_status = ?", id, enums.PaymentStatusPending).
		Updates(updates)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *repository) SetPaymentStatus(ctx context.Context, id uuid.UUID, status enums.PaymentStatus) error {
	return r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ?", id).
		Update("payment_status", status).Error
}

func (r *repository) RecordNotification(ctx context.Context, id uuid.UUID, outcome NotificationOutcome) error {
	return r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"notification_sent":         outcome.Sent,
			"notification_method":       outcome.Method,
			"notification_error":        outcome.Error,
			"notification_attempted_at": outcome.AttemptedAt,
		}).Error
}
