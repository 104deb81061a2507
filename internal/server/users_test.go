package server

import (
	"net/http"
	"testing"

	"github.com/zulandar/sprintdeck/internal/models"
)

func seedUser(t *testing.T, h *handlers, userID, email, role string, teamID *uint) {
	t.Helper()
	row := models.UserRole{UserID: userID, Email: email, Role: role, TeamID: teamID}
	if err := h.db.Create(&row).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
}

func seedTeam(t *testing.T, h *handlers, name string) models.Team {
	t.Helper()
	team := models.Team{Name: name}
	if err := h.db.Create(&team).Error; err != nil {
		t.Fatalf("seed team: %v", err)
	}
	return team
}

func TestCreateTeam_AdminOnly(t *testing.T) {
	h := newTestHandlers(t, openTestDB(t), newFakeTracker(), &fakeGen{})

	w := doJSON(t, newTestRouter(h, employeeID), http.MethodPost, "/api/teams", map[string]string{"name": "Platform"})
	if w.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403 for non-admin", w.Code)
	}
	var count int64
	h.db.Model(&models.Team{}).Count(&count)
	if count != 0 {
		t.Errorf("team rows = %d, want 0 after rejected create", count)
	}

	w = doJSON(t, newTestRouter(h, adminID), http.MethodPost, "/api/teams", map[string]string{"name": "Platform"})
	if w.Code != http.StatusCreated {
		t.Errorf("status = %d, want 201 for admin", w.Code)
	}
	h.db.Model(&models.Team{}).Count(&count)
	if count != 1 {
		t.Errorf("team rows = %d, want 1", count)
	}
}

func TestCreateTeam_RequiresName(t *testing.T) {
	h := newTestHandlers(t, openTestDB(t), newFakeTracker(), &fakeGen{})
	w := doJSON(t, newTestRouter(h, adminID), http.MethodPost, "/api/teams", map[string]string{"name": " "})
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestListTeams_AnyRole(t *testing.T) {
	h := newTestHandlers(t, openTestDB(t), newFakeTracker(), &fakeGen{})
	seedTeam(t, h, "Core")

	w := doJSON(t, newTestRouter(h, employeeID), http.MethodGet, "/api/teams", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var body struct {
		Teams []models.Team `json:"teams"`
	}
	decodeBody(t, w, &body)
	if len(body.Teams) != 1 || body.Teams[0].Name != "Core" {
		t.Errorf("teams = %+v", body.Teams)
	}
}

func TestListUsers_ResolvesTeamNames(t *testing.T) {
	h := newTestHandlers(t, openTestDB(t), newFakeTracker(), &fakeGen{})
	team := seedTeam(t, h, "Core")
	seedUser(t, h, employeeID.UserID, employeeID.Email, models.RoleEmployee, &team.ID)
	seedUser(t, h, adminID.UserID, adminID.Email, models.RoleAdmin, nil)

	w := doJSON(t, newTestRouter(h, employeeID), http.MethodGet, "/api/users", nil)
	if w.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403 for non-admin", w.Code)
	}

	w = doJSON(t, newTestRouter(h, adminID), http.MethodGet, "/api/users", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var body struct {
		Users []userView `json:"users"`
	}
	decodeBody(t, w, &body)
	if len(body.Users) != 2 {
		t.Fatalf("users = %d, want 2", len(body.Users))
	}
	byEmail := map[string]userView{}
	for _, u := range body.Users {
		byEmail[u.Email] = u
	}
	if byEmail[employeeID.Email].TeamName != "Core" {
		t.Errorf("employee team = %q, want Core", byEmail[employeeID.Email].TeamName)
	}
	if byEmail[adminID.Email].TeamName != "" {
		t.Errorf("admin team = %q, want empty", byEmail[adminID.Email].TeamName)
	}
}

func TestAssignUserTeam(t *testing.T) {
	h := newTestHandlers(t, openTestDB(t), newFakeTracker(), &fakeGen{})
	team := seedTeam(t, h, "Core")
	seedUser(t, h, employeeID.UserID, employeeID.Email, models.RoleEmployee, nil)
	router := newTestRouter(h, adminID)

	w := doJSON(t, router, http.MethodPut, "/api/users/not-a-uuid/team", map[string]uint{"team_id": team.ID})
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400 for malformed uuid", w.Code)
	}

	w = doJSON(t, router, http.MethodPut, "/api/users/"+employeeID.UserID+"/team", map[string]uint{"team_id": team.ID})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	var row models.UserRole
	if err := h.db.Where("user_id = ?", employeeID.UserID).First(&row).Error; err != nil {
		t.Fatalf("reload user: %v", err)
	}
	if row.TeamID == nil || *row.TeamID != team.ID {
		t.Errorf("team_id = %v, want %d", row.TeamID, team.ID)
	}

	// Unknown team id is a 404.
	w = doJSON(t, router, http.MethodPut, "/api/users/"+employeeID.UserID+"/team", map[string]uint{"team_id": 999})
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404 for unknown team", w.Code)
	}

	// Unknown user is a 404.
	w = doJSON(t, router, http.MethodPut, "/api/users/33333333-3333-3333-3333-333333333333/team", map[string]uint{"team_id": team.ID})
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404 for unknown user", w.Code)
	}
}

func TestCurrentUser(t *testing.T) {
	h := newTestHandlers(t, openTestDB(t), newFakeTracker(), &fakeGen{})
	w := doJSON(t, newTestRouter(h, employeeID), http.MethodGet, "/api/users/me", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var body struct {
		UserID string `json:"user_id"`
		Role   string `json:"role"`
	}
	decodeBody(t, w, &body)
	if body.UserID != employeeID.UserID || body.Role != models.RoleEmployee {
		t.Errorf("profile = %+v", body)
	}
}

func TestUpdateCurrentUser_CreatesRowOnFirstWrite(t *testing.T) {
	h := newTestHandlers(t, openTestDB(t), newFakeTracker(), &fakeGen{})
	router := newTestRouter(h, employeeID)

	w := doJSON(t, router, http.MethodPut, "/api/users/me", map[string]string{"name": "Devi"})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}

	var row models.UserRole
	if err := h.db.Where("user_id = ?", employeeID.UserID).First(&row).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if row.Name != "Devi" || row.Role != models.RoleEmployee {
		t.Errorf("row = %+v", row)
	}

	w = doJSON(t, router, http.MethodPut, "/api/users/me", map[string]string{})
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400 for empty update", w.Code)
	}
}
