package cart

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/gramkart/gramkart-backend/pkg/db/models"
)

// Repository exposes cart persistence for the confirmation pipeline.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Clear(ctx context.Context, tenantID uuid.UUID, senderID string) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a cart repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

// Clear empties the cart for the tenant/sender pair. A missing cart is not an
// error; payment confirmation must not fail because the customer never built
// a persisted cart.
func (r *repository) Clear(ctx context.Context, tenantID uuid.UUID, senderID string) error {
	var record models.Cart
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND sender_id = ?", tenantID, senderID).
		First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}

	if err := r.db.WithContext(ctx).
		Where("cart_id = ?", record.ID).
		Delete(&models.CartItem{}).Error; err != nil {
		return err
	}

	return r.db.WithContext(ctx).
		Model(&models.Cart{}).
		Where("id = ?", record.ID).
		Update("total_amount", decimal.Zero).Error
}
