package models

import (
	"time"

	"github.com/google/uuid"
)

// MerchantProfile carries merchant-facing display data used in customer
// messaging. Latest row per tenant is authoritative.
type MerchantProfile struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	TenantID    uuid.UUID `gorm:"column:tenant_id;type:uuid;not null;index"`
	DisplayName string    `gorm:"column:display_name;not null"`
	SupportPhone *string  `gorm:"column:support_phone"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
