package auth

import (
	"context"
	"fmt"
	"log"

	"github.com/zulandar/sprintdeck/internal/models"
	"gorm.io/gorm"
)

// Identity is the resolved caller attached to every authenticated request.
type Identity struct {
	UserID   string `json:"user_id"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	TeamID   *uint  `json:"team_id"`
	TeamName string `json:"team_name,omitempty"`
}

// IsAdmin reports whether the caller holds the admin role.
func (id Identity) IsAdmin() bool { return id.Role == models.RoleAdmin }

// Resolver turns a bearer token into an Identity: provider verification
// followed by a role/team lookup.
type Resolver struct {
	verifier TokenVerifier
	db       *gorm.DB
	// denyUnknown rejects users without a role row instead of defaulting
	// them to employee.
	denyUnknown bool
}

// NewResolver creates a Resolver. policy is "default" or "deny" (validated
// by config).
func NewResolver(verifier TokenVerifier, db *gorm.DB, policy string) *Resolver {
	return &Resolver{verifier: verifier, db: db, denyUnknown: policy == "deny"}
}

// Resolve verifies the token and loads the caller's role and team. A user
// with no role row is a distinct, logged condition: depending on policy it
// either defaults to employee or fails with ErrNoRole.
func (r *Resolver) Resolve(ctx context.Context, token string) (Identity, error) {
	user, err := r.verifier.Verify(ctx, token)
	if err != nil {
		return Identity{}, err
	}

	var row struct {
		Role     string
		TeamID   *uint
		TeamName *string
	}
	result := r.db.WithContext(ctx).Model(&models.UserRole{}).
		Select("user_roles.role, user_roles.team_id, teams.name as team_name").
		Joins("LEFT JOIN teams ON teams.id = user_roles.team_id").
		Where("user_roles.user_id = ?", user.ID).
		Scan(&row)
	if result.Error != nil {
		return Identity{}, fmt.Errorf("auth: role lookup: %w", result.Error)
	}

	identity := Identity{UserID: user.ID, Email: user.Email, Role: row.Role, TeamID: row.TeamID}
	if row.TeamName != nil {
		identity.TeamName = *row.TeamName
	}

	if result.RowsAffected == 0 {
		if r.denyUnknown {
			log.Printf("auth: no role record for user %s, denying (policy=deny)", user.ID)
			return Identity{}, ErrNoRole
		}
		log.Printf("auth: no role record for user %s, defaulting to employee (policy=default)", user.ID)
		identity.Role = models.RoleEmployee
	}
	return identity, nil
}
