package migrate

import (
	"context"
	"fmt"

	"github.com/angelmondragon/gigboard-backend/pkg/config"
	"github.com/angelmondragon/gigboard-backend/pkg/db"
	"github.com/angelmondragon/gigboard-backend/pkg/db/models"
	"github.com/angelmondragon/gigboard-backend/pkg/logger"
)

// MaybeRunDev migrates the schema on startup when running in dev with the
// auto-migrate flag. Postgres runs the goose migrations; sqlite has no goose
// history, so the schema is derived from the models instead.
func MaybeRunDev(ctx context.Context, cfg *config.Config, logg *logger.Logger, client *db.Client) error {
	if !cfg.App.IsDev() || !cfg.FeatureFlags.AutoMigrate {
		return nil
	}

	if client.IsSQLite() {
		logg.Info(ctx, "running sqlite auto-migrate (dev auto-run)")
		if err := AutoMigrate(ctx, client); err != nil {
			return err
		}
		logg.Info(ctx, "sqlite auto-migrate completed")
		return nil
	}

	sqlDB, err := client.DB().DB()
	if err != nil {
		return fmt.Errorf("extracting sql.DB: %w", err)
	}
	migrator, err := NewMigrator(sqlDB, DefaultDir)
	if err != nil {
		return err
	}

	ctx = logg.WithFields(ctx, map[string]any{"env": cfg.App.Env, "dir": DefaultDir})
	applied, err := migrator.Up(ctx)
	if err != nil {
		return err
	}
	logg.Info(logg.WithField(ctx, "applied", applied), "goose migrations completed")
	return nil
}

// AutoMigrate derives the schema from the gorm models.
func AutoMigrate(ctx context.Context, client *db.Client) error {
	if err := client.DB().WithContext(ctx).AutoMigrate(models.All()...); err != nil {
		return fmt.Errorf("auto-migrate models: %w", err)
	}
	return nil
}
