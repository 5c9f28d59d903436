package postgres

import (
	"context"

	"talk/internal/errors"
	"talk/internal/infra/persistence/model"

	"gorm.io/gorm"
)

// Migrate creates or updates every table and index the repositories rely on.
func Migrate(ctx context.Context, db *gorm.DB) error {
	if err := db.WithContext(ctx).AutoMigrate(model.All()...); err != nil {
		return errors.Wrap(err, "failed to migrate schema")
	}

	return nil
}
