package tenants

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/gramkart/gramkart-backend/pkg/db/models"
)

func TestLatestCredentialNewestWins(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	ctx := context.Background()
	tenantID := uuid.New()

	older := models.TenantCredential{
		ID:          uuid.New(),
		TenantID:    tenantID,
		AccessToken: "stale-token",
		IGAccountID: "acct-1",
		CreatedAt:   time.Now().Add(-48 * time.Hour),
	}
	newer := models.TenantCredential{
		ID:          uuid.New(),
		TenantID:    tenantID,
		AccessToken: "fresh-token",
		IGAccountID: "acct-1",
		CreatedAt:   time.Now().Add(-time.Hour),
	}
	for _, cred := range []models.TenantCredential{older, newer} {
		if err := db.Create(&cred).Error; err != nil {
			t.Fatalf("seed credential: %v", err)
		}
	}

	repo := NewRepository(db)
	cred, err := repo.LatestCredential(ctx, tenantID)
	if err != nil {
		t.Fatalf("latest credential: %v", err)
	}
	if cred.AccessToken != "fresh-token" {
		t.Fatalf("expected newest credential, got %q", cred.AccessToken)
	}
}

func TestLatestCredentialMissing(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	repo := NewRepository(db)
	if _, err := repo.LatestCredential(context.Background(), uuid.New()); err == nil {
		t.Fatal("expected error for missing credential")
	}
}

func TestLatestProfile(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	tenantID := uuid.New()
	profile := models.MerchantProfile{
		ID:          uuid.New(),
		TenantID:    tenantID,
		DisplayName: "Chai & Co",
	}
	if err := db.Create(&profile).Error; err != nil {
		t.Fatalf("seed profile: %v", err)
	}

	repo := NewRepository(db)
	found, err := repo.LatestProfile(context.Background(), tenantID)
	if err != nil {
		t.Fatalf("latest profile: %v", err)
	}
	if found.DisplayName != "Chai & Co" {
		t.Fatalf("unexpected profile %+v", found)
	}
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:tenants_" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(&models.TenantCredential{}, &models.MerchantProfile{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}
