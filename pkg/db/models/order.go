package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/gramkart/gramkart-backend/pkg/enums"
)

// Order is the merchant-scoped order placed through the chat flow. BillNo is
// the merchant-facing reference the payment provider echoes back in webhook
// notes, and is the correlation key for the whole pipeline.
type Order struct {
	ID       uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID  string    `gorm:"column:order_id;not null"`
	BillNo   string    `gorm:"column:bill_no;not null;uniqueIndex"`
	TenantID uuid.UUID `gorm:"column:tenant_id;type:uuid;not null;index"`
	SenderID string    `gorm:"column:sender_id;not null"`

	CustomerName *string `gorm:"column:customer_name"`
	Phone        *string `gorm:"column:phone"`
	Address      *string `gorm:"column:address"`

	Items       []OrderLineItem `gorm:"foreignKey:OrderRef;constraint:OnDelete:CASCADE"`
	TotalAmount decimal.Decimal `gorm:"column:total_amount;type:numeric(12,2);not null"`

	PaymentStatus     enums.PaymentStatus  `gorm:"column:payment_status;type:text;not null;default:'PENDING'"`
	OrderStatus       enums.OrderStatus    `gorm:"column:order_status;type:text;not null;default:'CREATED'"`
	PaymentMethod     *enums.PaymentMethod `gorm:"column:payment_method;type:text"`
	ProviderPaymentID *string              `gorm:"column:provider_payment_id"`

	NotificationSent        bool                     `gorm:"column:notification_sent;not null;default:false"`
	NotificationMethod      enums.NotificationMethod `gorm:"column:notification_method;type:text;not null;default:'none'"`
	NotificationError       *string                  `gorm:"column:notification_error"`
	NotificationAttemptedAt *time.Time               `gorm:"column:notification_attempted_at"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// OrderLineItem snapshots one purchased unit within an order.
type OrderLineItem struct {
	ID        uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderRef  uuid.UUID       `gorm:"column:order_ref;type:uuid;not null;index"`
	SKU       string          `gorm:"column:sku;not null"`
	Name      string          `gorm:"column:name;not null"`
	UnitLabel string          `gorm:"column:unit_label;not null"`
	Qty       int             `gorm:"column:qty;not null"`
	UnitPrice decimal.Decimal `gorm:"column:unit_price;type:numeric(12,2);not null"`
	CreatedAt time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
