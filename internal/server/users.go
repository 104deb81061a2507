package server

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/zulandar/sprintdeck/internal/models"
	"gorm.io/gorm"
)

// listTeams returns all teams.
func (h *handlers) listTeams(c *gin.Context) {
	var teams []models.Team
	if err := h.db.WithContext(c.Request.Context()).Order("name ASC").Find(&teams).Error; err != nil {
		writeError(c, fmt.Errorf("server: list teams: %w", err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"teams": teams})
}

// createTeam adds a team. Admin-only; the route table enforces it.
func (h *handlers) createTeam(c *gin.Context) {
	var in struct {
		Name string `json:"name"`
	}
	if err := c.ShouldBindJSON(&in); err != nil || strings.TrimSpace(in.Name) == "" {
		writeError(c, fmt.Errorf("%w: name is required", errBadRequest))
		return
	}

	team := models.Team{Name: strings.TrimSpace(in.Name)}
	if err := h.db.WithContext(c.Request.Context()).Create(&team).Error; err != nil {
		writeError(c, fmt.Errorf("server: create team: %w", err))
		return
	}
	c.JSON(http.StatusCreated, gin.H{"team": team})
}

// userView is one row of the admin user listing.
type userView struct {
	UserID   string `json:"user_id"`
	Email    string `json:"email"`
	Name     string `json:"name"`
	Role     string `json:"role"`
	TeamID   *uint  `json:"team_id"`
	TeamName string `json:"team_name,omitempty"`
}

// listUsers returns every known user with their team name resolved.
func (h *handlers) listUsers(c *gin.Context) {
	var roles []models.UserRole
	if err := h.db.WithContext(c.Request.Context()).Preload("Team").Order("email ASC").Find(&roles).Error; err != nil {
		writeError(c, fmt.Errorf("server: list users: %w", err))
		return
	}

	views := make([]userView, 0, len(roles))
	for _, r := range roles {
		v := userView{UserID: r.UserID, Email: r.Email, Name: r.Name, Role: r.Role, TeamID: r.TeamID}
		if r.Team != nil {
			v.TeamName = r.Team.Name
		}
		views = append(views, v)
	}
	c.JSON(http.StatusOK, gin.H{"users": views})
}

// assignUserTeam moves a user to a team (or out of any team with a null
// team_id). The path id must be a well-formed UUID.
func (h *handlers) assignUserTeam(c *gin.Context) {
	userID := c.Param("id")
	if _, err := uuid.Parse(userID); err != nil {
		writeError(c, fmt.Errorf("%w: user id must be a uuid", errBadRequest))
		return
	}

	var in struct {
		TeamID *uint `json:"team_id"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	ctx := c.Request.Context()
	if in.TeamID != nil {
		var team models.Team
		if err := h.db.WithContext(ctx).First(&team, *in.TeamID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				writeError(c, fmt.Errorf("%w: team %d", gorm.ErrRecordNotFound, *in.TeamID))
				return
			}
			writeError(c, fmt.Errorf("server: load team: %w", err))
			return
		}
	}

	res := h.db.WithContext(ctx).Model(&models.UserRole{}).
		Where("user_id = ?", userID).
		Update("team_id", in.TeamID)
	if res.Error != nil {
		writeError(c, fmt.Errorf("server: assign team: %w", res.Error))
		return
	}
	if res.RowsAffected == 0 {
		writeError(c, fmt.Errorf("%w: user %s", gorm.ErrRecordNotFound, userID))
		return
	}
	c.JSON(http.StatusOK, gin.H{"user_id": userID, "team_id": in.TeamID})
}

// currentUser returns the caller's resolved identity profile.
func (h *handlers) currentUser(c *gin.Context) {
	id, ok := identity(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"user_id":   id.UserID,
		"email":     id.Email,
		"role":      id.Role,
		"team_id":   id.TeamID,
		"team_name": id.TeamName,
	})
}

// updateCurrentUser updates the caller's own display name and email. The
// row is created on first write for users who authenticated before any
// admin assigned them a role.
func (h *handlers) updateCurrentUser(c *gin.Context) {
	id, ok := identity(c)
	if !ok {
		return
	}

	var in struct {
		Name  string `json:"name"`
		Email string `json:"email"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if strings.TrimSpace(in.Name) == "" && strings.TrimSpace(in.Email) == "" {
		writeError(c, fmt.Errorf("%w: name or email is required", errBadRequest))
		return
	}

	ctx := c.Request.Context()
	var row models.UserRole
	err := h.db.WithContext(ctx).Where("user_id = ?", id.UserID).First(&row).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		row = models.UserRole{UserID: id.UserID, Email: id.Email, Role: id.Role}
	case err != nil:
		writeError(c, fmt.Errorf("server: load profile: %w", err))
		return
	}

	if strings.TrimSpace(in.Name) != "" {
		row.Name = strings.TrimSpace(in.Name)
	}
	if strings.TrimSpace(in.Email) != "" {
		row.Email = strings.TrimSpace(in.Email)
	}
	if err := h.db.WithContext(ctx).Save(&row).Error; err != nil {
		writeError(c, fmt.Errorf("server: save profile: %w", err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"user_id": row.UserID, "name": row.Name, "email": row.Email})
}
