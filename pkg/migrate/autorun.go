package migrate

import (
	"context"
	"fmt"

	"github.com/gramkart/gramkart-backend/pkg/config"
	"github.com/gramkart/gramkart-backend/pkg/db"
	"github.com/gramkart/gramkart-backend/pkg/db/models"
	"github.com/gramkart/gramkart-backend/pkg/logger"
)

// MaybeRunDev syncs the schema automatically when the app runs in dev mode
// with the feature flag enabled. Production schemas are managed out of band.
func MaybeRunDev(ctx context.Context, cfg *config.Config, logg *logger.Logger, client *db.Client) error {
	if !cfg.App.IsDev() || !cfg.FeatureFlags.AutoMigrate {
		return nil
	}

	ctx = logg.WithFields(ctx, map[string]any{"env": cfg.App.Env})
	logg.Info(ctx, "running schema auto-migration (dev auto-run)")

	err := client.DB().WithContext(ctx).AutoMigrate(
		&models.Order{},
		&models.OrderLineItem{},
		&models.Product{},
		&models.ProductUnit{},
		&models.Cart{},
		&models.CartItem{},
		&models.TenantCredential{},
		&models.MerchantProfile{},
	)
	if err != nil {
		return fmt.Errorf("auto-migrating schema: %w", err)
	}

	logg.Info(ctx, "schema auto-migration completed")
	return nil
}
