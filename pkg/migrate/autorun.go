package migrate

import (
	"context"
	"fmt"

	"github.com/pdflex/pdflex-backend/pkg/config"
	"github.com/pdflex/pdflex-backend/pkg/db"
	"github.com/pdflex/pdflex-backend/pkg/logger"
)

// MaybeRunDev prepares the schema at startup. SQLite databases are always
// auto-migrated from the models; Postgres runs the embedded goose migrations
// only in dev with the AutoMigrate flag on.
func MaybeRunDev(ctx context.Context, cfg *config.Config, logg *logger.Logger, client *db.Client) error {
	if client.IsSQLite() {
		logg.Info(ctx, "preparing sqlite schema")
		if err := client.EnsureSQLiteSchema(ctx); err != nil {
			return fmt.Errorf("preparing sqlite schema: %w", err)
		}
		return nil
	}

	if !cfg.App.IsDev() || !cfg.FeatureFlags.AutoMigrate {
		return nil
	}

	sqlDB, err := client.DB().DB()
	if err != nil {
		return fmt.Errorf("extracting sql.DB: %w", err)
	}

	ctx = logg.WithFields(ctx, map[string]any{"env": cfg.App.Env, "source": "embedded"})
	logg.Info(ctx, "running goose migrations (dev auto-run)")

	if err := Run(ctx, sqlDB, "", "up"); err != nil {
		return fmt.Errorf("running goose up: %w", err)
	}

	logg.Info(ctx, "goose migrations completed")
	return nil
}
