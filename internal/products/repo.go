package products

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/gramkart/gramkart-backend/pkg/db/models"
)

// Repository resolves line-item SKUs to purchasable units and mutates stock.
// All methods are expected to run inside the caller's transaction when used
// from the confirmation pipeline.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	ResolveUnit(ctx context.Context, tenantID uuid.UUID, sku, unitLabel string) (*models.ProductUnit, error)
	DecrementStock(ctx context.Context, unitID uuid.UUID, qty int) (bool, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a product repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

// ResolveUnit matches a line item to a unit. Unit-level SKU wins; the
// product-level SKU plus the item's unit label is the fallback. Returns
// (nil, nil) when neither matches so callers can skip the item.
func (r *repository) ResolveUnit(ctx context.Context, tenantID uuid.UUID, sku, unitLabel string) (*models.ProductUnit, error) {
	var unit models.ProductUnit
	err := r.db.WithContext(ctx).
		Joins("JOIN products ON products.id = product_units.product_id").
		Where("products.tenant_id = ? AND product_units.sku = ?", tenantID, sku).
		First(&unit).Error
	if err == nil {
		return &unit, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	err = r.db.WithContext(ctx).
		Joins("JOIN products ON products.id = product_units.product_id").
		Where("products.tenant_id = ? AND products.sku = ? AND product_units.label = ?", tenantID, sku, unitLabel).
		First(&unit).Error
	if err == nil {
		return &unit, nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return nil, err
}

// DecrementStock applies a conditional decrement: stock is reduced only when
// the remaining quantity would stay non-negative. Returns false when the
// guard rejected the decrement.
func (r *repository) DecrementStock(ctx context.Context, unitID uuid.UUID, qty int) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.ProductUnit{}).
		Where("id = ? AND quantity_in_stock >= ?", unitID, qty).
		Update("quantity_in_stock", gorm.Expr("quantity_in_stock - ?", qty))
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
