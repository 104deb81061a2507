package models

import "time"

// Sprint is a fixed time-boxed unit of work with a goal and status.
// At most one sprint is active at a time; enforced both by the start
// transaction and by a partial unique index on Postgres.
type Sprint struct {
	ID        uint      `gorm:"primaryKey;autoIncrement"`
	Name      string    `gorm:"size:255;not null"`
	StartDate time.Time `gorm:"not null"`
	EndDate   time.Time `gorm:"not null"`
	Status    string    `gorm:"size:50;default:active;index"`
	Goal      string    `gorm:"type:text"`
	// ListID is the tracker list created for this sprint's committed tasks.
	ListID    string `gorm:"size:64"`
	CreatedAt time.Time
}

// Sprint status values.
const (
	SprintPlanned   = "planned"
	SprintActive    = "active"
	SprintCompleted = "completed"
)

// SprintSnapshot is a dated point-in-time measurement of completed vs.
// total scope, one row per sprint per date, used to plot burnup charts.
type SprintSnapshot struct {
	ID              uint      `gorm:"primaryKey;autoIncrement"`
	SprintID        uint      `gorm:"uniqueIndex:idx_snapshot_sprint_date"`
	Date            time.Time `gorm:"uniqueIndex:idx_snapshot_sprint_date"`
	TotalPoints     int       `gorm:"default:0"`
	CompletedPoints int       `gorm:"default:0"`
	RemainingPoints int       `gorm:"default:0"`
	CreatedAt       time.Time
}

// SprintRisk is an AI-derived sprint health assessment. Append-only
// history; the latest row per sprint is "current".
type SprintRisk struct {
	ID        uint   `gorm:"primaryKey;autoIncrement"`
	SprintID  uint   `gorm:"index"`
	RiskScore int
	RiskLevel string `gorm:"size:50"`
	Analysis  string `gorm:"type:text"`
	CreatedAt time.Time
}

// VelocityRecord is points completed for a finished sprint. Append-only;
// the last N records form the velocity trend.
type VelocityRecord struct {
	ID              uint   `gorm:"primaryKey;autoIncrement"`
	SprintName      string `gorm:"size:255"`
	PointsCompleted int    `gorm:"default:0"`
	CreatedAt       time.Time
}
