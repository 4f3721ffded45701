package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product is a tenant's catalog listing. Purchasable variants live in Units;
// the product-level SKU exists only as a resolution fallback for line items
// that carry a unit label instead of a unit SKU.
type Product struct {
	ID        uuid.UUID     `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	TenantID  uuid.UUID     `gorm:"column:tenant_id;type:uuid;not null;index"`
	SKU       string        `gorm:"column:sku;not null"`
	Title     string        `gorm:"column:title;not null"`
	IsActive  bool          `gorm:"column:is_active;not null;default:true"`
	Units     []ProductUnit `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time     `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time     `gorm:"column:updated_at;autoUpdateTime"`
}

// ProductUnit is one purchasable variant (size/weight/color) with its own SKU
// and stock count. QuantityInStock never goes below zero.
type ProductUnit struct {
	ID              uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ProductID       uuid.UUID       `gorm:"column:product_id;type:uuid;not null;index"`
	SKU             string          `gorm:"column:sku;not null;index"`
	Label           string          `gorm:"column:label;not null"`
	QuantityInStock int             `gorm:"column:quantity_in_stock;not null;default:0"`
	Threshold       int             `gorm:"column:threshold;not null;default:0"`
	Price           decimal.Decimal `gorm:"column:price;type:numeric(12,2);not null"`
	CreatedAt       time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
