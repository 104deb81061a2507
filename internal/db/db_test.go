package db

import (
	"testing"

	"github.com/zulandar/sprintdeck/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestAllModels_Count(t *testing.T) {
	if got := len(AllModels()); got != 7 {
		t.Errorf("len(AllModels()) = %d, want 7", got)
	}
}

func TestAutoMigrate_SQLite(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := AutoMigrate(db); err != nil {
		t.Fatalf("auto-migrate: %v", err)
	}

	for _, m := range AllModels() {
		if !db.Migrator().HasTable(m) {
			t.Errorf("missing table for %T", m)
		}
	}

	// Round trip through one table to confirm the schema is usable.
	sprint := models.Sprint{Name: "Sprint 1", Status: models.SprintActive}
	if err := db.Create(&sprint).Error; err != nil {
		t.Fatalf("create sprint: %v", err)
	}
	var got models.Sprint
	if err := db.First(&got, sprint.ID).Error; err != nil {
		t.Fatalf("read sprint: %v", err)
	}
	if got.Name != "Sprint 1" {
		t.Errorf("Name = %q, want Sprint 1", got.Name)
	}
}
