package tenants

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/gramkart/gramkart-backend/pkg/db/models"
)

// Repository exposes per-tenant messaging data: the latest Instagram
// credential and the latest merchant profile.
type Repository interface {
	LatestCredential(ctx context.Context, tenantID uuid.UUID) (*models.TenantCredential, error)
	LatestProfile(ctx context.Context, tenantID uuid.UUID) (*models.MerchantProfile, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a tenants repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) LatestCredential(ctx context.Context, tenantID uuid.UUID) (*models.TenantCredential, error) {
	var cred models.TenantCredential
	err := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Order("created_at DESC").
		First(&cred).Error
	if err != nil {
		return nil, err
	}
	return &cred, nil
}

func (r *repository) LatestProfile(ctx context.Context, tenantID uuid.UUID) (*models.MerchantProfile, error) {
	var profile models.MerchantProfile
	err := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Order("created_at DESC").
		First(&profile).Error
	if err != nil {
		return nil, err
	}
	return &profile, nil
}
