package products

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/gramkart/gramkart-backend/pkg/db/models"
)

func TestResolveUnitPrefersUnitSKU(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	ctx := context.Background()
	tenantID := uuid.New()

	// Product A carries the SKU at product level with a unit labeled "M";
	// product B carries the same SKU on a unit. The unit-level match must win.
	productA := seedProduct(t, db, tenantID, "SHIRT-RED-M", []models.ProductUnit{
		{SKU: "SHIRT-RED-M-U", Label: "M", QuantityInStock: 9},
	})
	productB := seedProduct(t, db, tenantID, "SHIRT-RED", []models.ProductUnit{
		{SKU: "SHIRT-RED-M", Label: "L", QuantityInStock: 4},
	})

	repo := NewRepository(db)
	unit, err := repo.ResolveUnit(ctx, tenantID, "SHIRT-RED-M", "M")
	if err != nil {
		t.Fatalf("resolve unit: %v", err)
	}
	if unit == nil {
		t.Fatal("expected a resolved unit")
	}
	if unit.ProductID != productB.ID {
		t.Fatalf("expected unit-level SKU match on product %s, got product %s", productB.ID, unit.ProductID)
	}
	_ = productA
}

func TestResolveUnitFallsBackToProductSKUAndLabel(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	ctx := context.Background()
	tenantID := uuid.New()

	product := seedProduct(t, db, tenantID, "MASALA-CHAI", []models.ProductUnit{
		{SKU: "MC-250", Label: "250g", QuantityInStock: 12},
		{SKU: "MC-500", Label: "500g", QuantityInStock: 7},
	})

	repo := NewRepository(db)
	unit, err := repo.ResolveUnit(ctx, tenantID, "MASALA-CHAI", "500g")
	if err != nil {
		t.Fatalf("resolve unit: %v", err)
	}
	if unit == nil || unit.SKU != "MC-500" {
		t.Fatalf("expected fallback match on MC-500, got %+v", unit)
	}
	if unit.ProductID != product.ID {
		t.Fatalf("unexpected product %s", unit.ProductID)
	}
}

func TestResolveUnitUnmatchedReturnsNil(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	tenantID := uuid.New()
	seedProduct(t, db, tenantID, "MASALA-CHAI", []models.ProductUnit{
		{SKU: "MC-250", Label: "250g", QuantityInStock: 12},
	})

	repo := NewRepository(db)
	unit, err := repo.ResolveUnit(context.Background(), tenantID, "NO-SUCH-SKU", "250g")
	if err != nil {
		t.Fatalf("resolve unit: %v", err)
	}
	if unit != nil {
		t.Fatalf("expected nil for unmatched SKU, got %+v", unit)
	}
}

func TestResolveUnitScopedToTenant(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	otherTenant := uuid.New()
	seedProduct(t, db, otherTenant, "SHIRT-RED", []models.ProductUnit{
		{SKU: "SHIRT-RED-M", Label: "M", QuantityInStock: 4},
	})

	repo := NewRepository(db)
	unit, err := repo.ResolveUnit(context.Background(), uuid.New(), "SHIRT-RED-M", "M")
	if err != nil {
		t.Fatalf("resolve unit: %v", err)
	}
	if unit != nil {
		t.Fatalf("expected no cross-tenant match, got %+v", unit)
	}
}

func TestDecrementStockGuardsAgainstOversell(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	ctx := context.Background()
	tenantID := uuid.New()
	product := seedProduct(t, db, tenantID, "SHIRT-RED", []models.ProductUnit{
		{SKU: "SHIRT-RED-M", Label: "M", QuantityInStock: 5},
	})

	repo := NewRepository(db)
	unitID := product.Units[0].ID

	ok, err := repo.DecrementStock(ctx, unitID, 2)
	if err != nil {
		t.Fatalf("decrement: %v", err)
	}
	if !ok {
		t.Fatal("expected decrement to apply")
	}

	ok, err = repo.DecrementStock(ctx, unitID, 4)
	if err != nil {
		t.Fatalf("decrement: %v", err)
	}
	if ok {
		t.Fatal("expected guard to reject oversell")
	}

	var unit models.ProductUnit
	if err := db.First(&unit, "id = ?", unitID).Error; err != nil {
		t.Fatalf("load unit: %v", err)
	}
	if unit.QuantityInStock != 3 {
		t.Fatalf("expected stock 3, got %d", unit.QuantityInStock)
	}
}

func seedProduct(t *testing.T, db *gorm.DB, tenantID uuid.UUID, sku string, units []models.ProductUnit) *models.Product {
	t.Helper()
	product := &models.Product{
		ID:       uuid.New(),
		TenantID: tenantID,
		SKU:      sku,
		Title:    sku,
		IsActive: true,
	}
	if err := db.Create(product).Error; err != nil {
		t.Fatalf("seed product: %v", err)
	}
	for i := range units {
		units[i].ID = uuid.New()
		units[i].ProductID = product.ID
		units[i].Price = decimal.NewFromInt(100)
		if err := db.Create(&units[i]).Error; err != nil {
			t.Fatalf("seed unit: %v", err)
		}
	}
	product.Units = units
	return product
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:products_" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(&models.Product{}, &models.ProductUnit{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}
