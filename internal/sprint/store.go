// Package sprint provides the sprint metrics store: active sprint
// progress, burnup snapshots, risk history, and velocity.
package sprint

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/zulandar/sprintdeck/internal/ai"
	"github.com/zulandar/sprintdeck/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Sentinel errors for metrics reads.
var (
	ErrNoActiveSprint = errors.New("sprint: no active sprint")
	ErrNotFound       = errors.New("sprint: not found")
)

// velocityWindow is the number of past sprints in the velocity trend.
const velocityWindow = 6

// fallbackTaskPoints is the estimate assumed for tasks without one when
// computing snapshot totals.
const fallbackTaskPoints = 3

// Store reads and writes sprint metrics rows.
type Store struct {
	db *gorm.DB
}

// NewStore creates a Store on the given database handle.
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// ActiveSprint is the active sprint plus its derived time progress.
type ActiveSprint struct {
	models.Sprint
	ProgressPct int `json:"progress_pct"`
}

// Active returns the single active sprint with a progress percentage
// derived from the date range, clamped to [0, 100] no matter how far now
// is outside it.
func (s *Store) Active(ctx context.Context, now time.Time) (ActiveSprint, error) {
	var sprint models.Sprint
	err := s.db.WithContext(ctx).
		Where("status = ?", models.SprintActive).
		Order("created_at DESC").
		First(&sprint).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ActiveSprint{}, ErrNoActiveSprint
		}
		return ActiveSprint{}, fmt.Errorf("sprint: active: %w", err)
	}
	return ActiveSprint{Sprint: sprint, ProgressPct: progressPct(sprint.StartDate, sprint.EndDate, now)}, nil
}

// progressPct maps now onto the sprint window as a clamped percentage.
func progressPct(start, end, now time.Time) int {
	total := end.Sub(start)
	if total <= 0 {
		return 100
	}
	pct := int(100 * now.Sub(start) / total)
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return pct
}

// Snapshots returns a sprint's burnup rows ordered by date.
func (s *Store) Snapshots(ctx context.Context, sprintID uint) ([]models.SprintSnapshot, error) {
	var rows []models.SprintSnapshot
	err := s.db.WithContext(ctx).
		Where("sprint_id = ?", sprintID).
		Order("date ASC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("sprint: snapshots: %w", err)
	}
	return rows, nil
}

// RecordSnapshot upserts the snapshot for a sprint and date.
func (s *Store) RecordSnapshot(ctx context.Context, snap models.SprintSnapshot) error {
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "sprint_id"}, {Name: "date"}},
		DoUpdates: clause.AssignmentColumns([]string{"total_points", "completed_points", "remaining_points"}),
	}).Create(&snap).Error
	if err != nil {
		return fmt.Errorf("sprint: record snapshot: %w", err)
	}
	return nil
}

// LatestRisk returns the most recent risk assessment for a sprint.
func (s *Store) LatestRisk(ctx context.Context, sprintID uint) (models.SprintRisk, error) {
	var risk models.SprintRisk
	err := s.db.WithContext(ctx).
		Where("sprint_id = ?", sprintID).
		Order("created_at DESC").
		First(&risk).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.SprintRisk{}, ErrNotFound
		}
		return models.SprintRisk{}, fmt.Errorf("sprint: latest risk: %w", err)
	}
	return risk, nil
}

// SaveRisk appends a validated assessment to the sprint's risk history.
func (s *Store) SaveRisk(ctx context.Context, sprintID uint, assessment ai.RiskAssessment) (models.SprintRisk, error) {
	risk := models.SprintRisk{
		SprintID:  sprintID,
		RiskScore: assessment.RiskScore,
		RiskLevel: assessment.RiskLevel,
		Analysis:  assessment.Analysis,
	}
	if err := s.db.WithContext(ctx).Create(&risk).Error; err != nil {
		return models.SprintRisk{}, fmt.Errorf("sprint: save risk: %w", err)
	}
	return risk, nil
}

// Velocity returns the recent velocity trend oldest-to-newest. Rows are
// stored newest-first; the window is reversed before returning.
func (s *Store) Velocity(ctx context.Context) ([]models.VelocityRecord, error) {
	var rows []models.VelocityRecord
	err := s.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(velocityWindow).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("sprint: velocity: %w", err)
	}
	for i, j := 0, len(rows)-1; i < j; i, j = i+1, j-1 {
		rows[i], rows[j] = rows[j], rows[i]
	}
	return rows, nil
}

// StartInput describes a new sprint to activate.
type StartInput struct {
	Name        string
	StartDate   time.Time
	EndDate     time.Time
	Goal        string
	ListID      string
	TotalPoints int
}

// Start activates a new sprint in one transaction: the currently active
// sprint (if any) is marked completed and its velocity recorded from its
// latest snapshot, then the new sprint is inserted as active with an
// initial snapshot. The partial unique index on Postgres backstops the
// single-active invariant under concurrency.
func (s *Store) Start(ctx context.Context, in StartInput) (models.Sprint, error) {
	var created models.Sprint
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var current models.Sprint
		err := tx.Where("status = ?", models.SprintActive).Order("created_at DESC").First(&current).Error
		switch {
		case err == nil:
			var last models.SprintSnapshot
			completed := 0
			if err := tx.Where("sprint_id = ?", current.ID).Order("date DESC").First(&last).Error; err == nil {
				completed = last.CompletedPoints
			}
			if err := tx.Model(&models.Sprint{}).Where("id = ?", current.ID).
				Update("status", models.SprintCompleted).Error; err != nil {
				return fmt.Errorf("complete sprint %d: %w", current.ID, err)
			}
			record := models.VelocityRecord{SprintName: current.Name, PointsCompleted: completed}
			if err := tx.Create(&record).Error; err != nil {
				return fmt.Errorf("velocity record for %q: %w", current.Name, err)
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
			// First sprint ever.
		default:
			return fmt.Errorf("find active sprint: %w", err)
		}

		created = models.Sprint{
			Name:      in.Name,
			StartDate: in.StartDate,
			EndDate:   in.EndDate,
			Status:    models.SprintActive,
			Goal:      in.Goal,
			ListID:    in.ListID,
		}
		if err := tx.Create(&created).Error; err != nil {
			return fmt.Errorf("create sprint: %w", err)
		}

		initial := models.SprintSnapshot{
			SprintID:        created.ID,
			Date:            in.StartDate,
			TotalPoints:     in.TotalPoints,
			CompletedPoints: 0,
			RemainingPoints: in.TotalPoints,
		}
		if err := tx.Create(&initial).Error; err != nil {
			return fmt.Errorf("initial snapshot: %w", err)
		}
		return nil
	})
	if err != nil {
		return models.Sprint{}, fmt.Errorf("sprint: start: %w", err)
	}
	return created, nil
}
