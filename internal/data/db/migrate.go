package db

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/weighbuddy/weighbuddy-backend/internal/domain/registry"
)

func AutoMigrateAll(db *gorm.DB) error {
	return db.AutoMigrate(
		&registry.Vehicle{},
		&registry.Caravan{},
		&registry.Submission{},
	)
}

// EnsureRegistryIndexes adds the lookup indexes gorm's tag-driven
// migration cannot express (case-insensitive make/model search).
func EnsureRegistryIndexes(db *gorm.DB) error {
	if err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_vehicle_make_model_lower
		ON vehicle (lower(make), lower(model))
		WHERE deleted_at IS NULL;
	`).Error; err != nil {
		return fmt.Errorf("create idx_vehicle_make_model_lower: %w", err)
	}
	if err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_caravan_make_model_lower
		ON caravan (lower(make), lower(model))
		WHERE deleted_at IS NULL;
	`).Error; err != nil {
		return fmt.Errorf("create idx_caravan_make_model_lower: %w", err)
	}
	if err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_submission_created_at
		ON submission (created_at DESC);
	`).Error; err != nil {
		return fmt.Errorf("create idx_submission_created_at: %w", err)
	}
	return nil
}

func (s *PostgresService) AutoMigrateAll() error {
	s.log.Info("Auto migrating postgres tables...")
	if err := AutoMigrateAll(s.db); err != nil {
		s.log.Error("Auto migration failed", "error", err)
		return err
	}
	if err := EnsureRegistryIndexes(s.db); err != nil {
		s.log.Error("Registry index migration failed", "error", err)
		return err
	}
	return nil
}
