// Command migrate creates or updates the Talk schema and exits.
package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"talk/config"
	logs "talk/internal/infra/log"
	"talk/internal/infra/persistence/postgres"

	"go.uber.org/fx"
	"gorm.io/gorm"
)

const migrateTimeout = 2 * time.Minute

func main() {
	if err := run(); err != nil {
		slog.Error("Migration failed", slog.Any("error", err))
		os.Exit(1)
	}
}

func run() error {
	app := fx.New(
		fx.Provide(
			config.New,
			logs.New,
			context.Background,
			postgres.New,
		),
		fx.Invoke(registerMigration),
		fx.NopLogger,
	)
	if err := app.Err(); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), migrateTimeout)
	defer cancel()

	// Start runs the hooks in order: the database ping, then the migration.
	if err := app.Start(ctx); err != nil {
		return err
	}

	return app.Stop(ctx)
}

func registerMigration(lc fx.Lifecycle, db *gorm.DB, logger *slog.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			logger.Info("Running schema migration")
			if err := postgres.Migrate(ctx, db); err != nil {
				return err
			}
			logger.Info("Schema migration finished")

			return nil
		},
	})
}
