package sprint

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/zulandar/sprintdeck/internal/models"
	"github.com/zulandar/sprintdeck/internal/notify"
	"github.com/zulandar/sprintdeck/internal/tracker"
)

// cronParser uses standard 5-field cron expressions (minute, hour, dom, month, dow).
var cronParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// nextCronDuration parses a 5-field cron expression and returns the duration
// until the next fire time. Returns 0 on parse error.
func nextCronDuration(expr string) time.Duration {
	sched, err := cronParser.Parse(expr)
	if err != nil {
		return 0
	}
	next := sched.Next(time.Now())
	d := time.Until(next)
	if d < 0 {
		return 0
	}
	return d
}

// completedStatuses are tracker statuses that count as done for burnup math.
var completedStatuses = map[string]bool{
	"complete": true,
	"closed":   true,
	"done":     true,
}

// TaskSource provides the tasks of a tracker list. *tracker.Client satisfies it.
type TaskSource interface {
	GetTasks(ctx context.Context, listID string) ([]tracker.Task, error)
}

// Recorder takes a daily burnup snapshot of the active sprint and
// optionally pushes a digest to chat.
type Recorder struct {
	store    *Store
	tasks    TaskSource
	notifier notify.Adapter // nil when notifications are off
	cronExpr string
	now      func() time.Time
}

// NewRecorder creates a Recorder. notifier may be nil.
func NewRecorder(store *Store, tasks TaskSource, notifier notify.Adapter, cronExpr string) *Recorder {
	return &Recorder{
		store:    store,
		tasks:    tasks,
		notifier: notifier,
		cronExpr: cronExpr,
		now:      time.Now,
	}
}

// Run fires RecordOnce on the configured cron schedule until ctx is done.
// It returns immediately when no schedule is configured.
func (r *Recorder) Run(ctx context.Context) {
	if r.cronExpr == "" {
		return
	}
	d := nextCronDuration(r.cronExpr)
	if d <= 0 {
		log.Printf("sprint: invalid snapshot cron %q, recorder disabled", r.cronExpr)
		return
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
			if err := r.RecordOnce(ctx); err != nil {
				log.Printf("sprint: snapshot: %v", err)
			}
			if d := nextCronDuration(r.cronExpr); d > 0 {
				timer.Reset(d)
			} else {
				return
			}
		}
	}
}

// RecordOnce snapshots the active sprint from current tracker state and
// sends the digest when a notifier is configured. A missing active sprint
// is not an error; there is simply nothing to record.
func (r *Recorder) RecordOnce(ctx context.Context) error {
	now := r.now()
	active, err := r.store.Active(ctx, now)
	if err != nil {
		if errors.Is(err, ErrNoActiveSprint) {
			return nil
		}
		return err
	}
	if active.ListID == "" {
		log.Printf("sprint: %q has no tracker list, skipping snapshot", active.Name)
		return nil
	}

	tasks, err := r.tasks.GetTasks(ctx, active.ListID)
	if err != nil {
		return fmt.Errorf("sprint: fetch tasks for snapshot: %w", err)
	}

	total, completed := tallyPoints(tasks)
	snap := models.SprintSnapshot{
		SprintID:        active.ID,
		Date:            now.UTC().Truncate(24 * time.Hour),
		TotalPoints:     total,
		CompletedPoints: completed,
		RemainingPoints: total - completed,
	}
	if err := r.store.RecordSnapshot(ctx, snap); err != nil {
		return err
	}

	if r.notifier != nil {
		msg := digestMessage(active, snap)
		if err := r.notifier.Send(ctx, msg); err != nil {
			// Digest delivery is best-effort; the snapshot already landed.
			log.Printf("sprint: digest send: %v", err)
		}
	}
	return nil
}

// tallyPoints sums estimates over all tasks and over completed ones.
// Unestimated tasks count as fallbackTaskPoints.
func tallyPoints(tasks []tracker.Task) (total, completed int) {
	for _, t := range tasks {
		points := fallbackTaskPoints
		if t.Points != nil {
			points = int(*t.Points)
		}
		total += points
		if completedStatuses[strings.ToLower(t.Status.Status)] {
			completed += points
		}
	}
	return total, completed
}

// digestMessage formats one day's snapshot for chat delivery.
func digestMessage(active ActiveSprint, snap models.SprintSnapshot) notify.Message {
	return notify.Message{
		Title: fmt.Sprintf("Sprint Digest: %s", active.Name),
		Body:  fmt.Sprintf("%d of %d points complete, %d remaining.", snap.CompletedPoints, snap.TotalPoints, snap.RemainingPoints),
		Fields: []notify.Field{
			{Name: "Completed", Value: fmt.Sprintf("%d", snap.CompletedPoints)},
			{Name: "Remaining", Value: fmt.Sprintf("%d", snap.RemainingPoints)},
			{Name: "Time Elapsed", Value: fmt.Sprintf("%d%%", active.ProgressPct)},
		},
	}
}
