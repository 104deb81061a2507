package standup

import (
	"testing"
	"time"

	"github.com/zulandar/sprintdeck/internal/models"
)

func TestHasBlocker_SentinelSet(t *testing.T) {
	for _, v := range []string{"none", "No", "NIL", "n/a", "Nothing", "no blockers", "No Blocker", "-", "", "  none  "} {
		if HasBlocker(v) {
			t.Errorf("HasBlocker(%q) = true, want false", v)
		}
	}
	for _, v := range []string{"CI is red", "waiting on review", "blocked by infra", "no... actually yes"} {
		if !HasBlocker(v) {
			t.Errorf("HasBlocker(%q) = false, want true", v)
		}
	}
}

func TestComputeStats_Rounding(t *testing.T) {
	entries := []models.Standup{
		{Blockers: "None"},
		{Blockers: "stuck on migration"},
		{Blockers: "n/a"},
	}
	st := ComputeStats(entries)
	if st.TotalUpdates != 3 {
		t.Errorf("TotalUpdates = %d, want 3", st.TotalUpdates)
	}
	if st.Blockers != 1 {
		t.Errorf("Blockers = %d, want 1", st.Blockers)
	}
	// 100 * 2/3 = 66.67 → 67
	if st.CompletionRate != 67 {
		t.Errorf("CompletionRate = %d, want 67", st.CompletionRate)
	}
}

func TestComputeStats_EmptyNeverDividesByZero(t *testing.T) {
	st := ComputeStats(nil)
	if st.CompletionRate != 100 {
		t.Errorf("CompletionRate = %d, want 100 for zero entries", st.CompletionRate)
	}
}

func TestFilterByDate_Idempotent(t *testing.T) {
	day := time.Date(2026, 8, 27, 15, 30, 0, 0, time.UTC)
	entries := []models.Standup{
		{ID: 1, CreatedAt: day},
		{ID: 2, CreatedAt: day.Add(-24 * time.Hour)},
		{ID: 3, CreatedAt: day.Add(2 * time.Hour)},
	}

	once := FilterByDate(entries, "2026-08-27")
	twice := FilterByDate(once, "2026-08-27")

	if len(once) != 2 {
		t.Fatalf("len(once) = %d, want 2", len(once))
	}
	if len(twice) != len(once) {
		t.Fatalf("filter not idempotent: %d then %d", len(once), len(twice))
	}
	for i := range once {
		if once[i].ID != twice[i].ID {
			t.Errorf("entry %d differs between passes", i)
		}
	}
}

func TestFilterByDate_UsesUTCCalendarDay(t *testing.T) {
	// 23:30 UTC-5 is 04:30 UTC the next day; the UTC day wins.
	loc := time.FixedZone("UTC-5", -5*3600)
	entry := models.Standup{ID: 1, CreatedAt: time.Date(2026, 8, 26, 23, 30, 0, 0, loc)}

	if got := FilterByDate([]models.Standup{entry}, "2026-08-27"); len(got) != 1 {
		t.Errorf("entry at 2026-08-26T23:30-05:00 should fall on 2026-08-27 UTC")
	}
	if got := FilterByDate([]models.Standup{entry}, "2026-08-26"); len(got) != 0 {
		t.Errorf("entry should not match its local calendar day")
	}
}

func TestFilterByDate_EmptyDateReturnsAll(t *testing.T) {
	entries := []models.Standup{{ID: 1}, {ID: 2}}
	if got := FilterByDate(entries, ""); len(got) != 2 {
		t.Errorf("len = %d, want 2 when no date given", len(got))
	}
}

func TestGroupByTeam(t *testing.T) {
	core := models.Team{ID: 1, Name: "Core"}
	roles := []models.UserRole{
		{UserID: "u1", Team: &core},
		{UserID: "u2"},
	}
	entries := []models.Standup{
		{ID: 1, UserID: "u1"},
		{ID: 2, UserID: "u2"},
		{ID: 3, UserID: "u1"},
		{ID: 4, UserID: "ghost"},
	}

	groups := GroupByTeam(entries, roles)
	if len(groups["Core"]) != 2 {
		t.Errorf("Core group = %d entries, want 2", len(groups["Core"]))
	}
	if len(groups["Unassigned"]) != 2 {
		t.Errorf("Unassigned group = %d entries, want 2", len(groups["Unassigned"]))
	}
}
