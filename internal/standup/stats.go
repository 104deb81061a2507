package standup

import (
	"math"
	"strings"

	"github.com/zulandar/sprintdeck/internal/models"
)

// blockerSentinels are the case-insensitive values that mean "no blocker"
// for statistics purposes. Any other non-empty value counts as a blocker.
var blockerSentinels = map[string]struct{}{
	"none":        {},
	"no":          {},
	"nil":         {},
	"n/a":         {},
	"nothing":     {},
	"no blockers": {},
	"no blocker":  {},
	"-":           {},
	"":            {},
}

// HasBlocker reports whether a blockers value counts as a real blocker.
func HasBlocker(blockers string) bool {
	normalized := strings.ToLower(strings.TrimSpace(blockers))
	_, sentinel := blockerSentinels[normalized]
	return !sentinel
}

// Stats summarizes a set of entries for dashboard display.
type Stats struct {
	TotalUpdates   int `json:"total_updates"`
	Blockers       int `json:"blockers"`
	CompletionRate int `json:"completion_rate"`
}

// ComputeStats counts blockers and derives the completion rate. An empty
// set never divides by zero: the rate is 100.
func ComputeStats(entries []models.Standup) Stats {
	st := Stats{TotalUpdates: len(entries)}
	for _, e := range entries {
		if HasBlocker(e.Blockers) {
			st.Blockers++
		}
	}
	if st.TotalUpdates == 0 {
		st.CompletionRate = 100
		return st
	}
	rate := 100 * float64(st.TotalUpdates-st.Blockers) / float64(st.TotalUpdates)
	st.CompletionRate = int(math.Round(rate))
	return st
}

// FilterByDate keeps entries created on the given calendar day, compared
// as an ISO date string in UTC. Pure and idempotent.
func FilterByDate(entries []models.Standup, date string) []models.Standup {
	if date == "" {
		return entries
	}
	filtered := make([]models.Standup, 0, len(entries))
	for _, e := range entries {
		if e.CreatedAt.UTC().Format("2006-01-02") == date {
			filtered = append(filtered, e)
		}
	}
	return filtered
}

// GroupByTeam buckets entries by their author's team name. Entries whose
// author has no team land under "Unassigned".
func GroupByTeam(entries []models.Standup, roles []models.UserRole) map[string][]models.Standup {
	teamByUser := make(map[string]string, len(roles))
	for _, r := range roles {
		if r.Team != nil {
			teamByUser[r.UserID] = r.Team.Name
		}
	}
	groups := make(map[string][]models.Standup)
	for _, e := range entries {
		team := teamByUser[e.UserID]
		if team == "" {
			team = "Unassigned"
		}
		groups[team] = append(groups[team], e)
	}
	return groups
}
