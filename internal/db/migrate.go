package db

import (
	"fmt"

	"github.com/zulandar/sprintdeck/internal/models"
	"gorm.io/gorm"
)

// AllModels returns the list of all GORM models for migration.
func AllModels() []interface{} {
	return []interface{}{
		&models.UserRole{},
		&models.Team{},
		&models.Standup{},
		&models.Sprint{},
		&models.SprintSnapshot{},
		&models.SprintRisk{},
		&models.VelocityRecord{},
	}
}

// AutoMigrate creates or updates all tables and enforces the single-active-
// sprint constraint at write time via a partial unique index on Postgres.
// SQLite (tests) skips the index; the start transaction still maintains the
// invariant there.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(AllModels()...); err != nil {
		return fmt.Errorf("db: auto-migrate: %w", err)
	}

	if db.Dialector.Name() == "postgres" {
		idx := `CREATE UNIQUE INDEX IF NOT EXISTS idx_sprints_single_active
			ON sprints (status) WHERE status = 'active'`
		if err := db.Exec(idx).Error; err != nil {
			return fmt.Errorf("db: create active-sprint index: %w", err)
		}
	}
	return nil
}
