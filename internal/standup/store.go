// Package standup provides role-scoped access to daily standup entries
// and the statistics derived from them.
package standup

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/zulandar/sprintdeck/internal/auth"
	"github.com/zulandar/sprintdeck/internal/models"
	"gorm.io/gorm"
)

// ErrValidation marks a missing or unusable field on input. Wrapped errors
// carry the field name.
var ErrValidation = errors.New("standup: validation failed")

// listLimit caps the number of entries returned by List. Older entries are
// unreachable through this interface.
const listLimit = 50

// Store reads and writes standup entries.
type Store struct {
	db *gorm.DB
}

// NewStore creates a Store on the given database handle.
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// List returns entries newest-first up to the page limit. Admins see all
// entries; employees only their own.
func (s *Store) List(ctx context.Context, identity auth.Identity) ([]models.Standup, error) {
	q := s.db.WithContext(ctx).Order("created_at DESC").Limit(listLimit)
	if !identity.IsAdmin() {
		q = q.Where("user_id = ?", identity.UserID)
	}
	var entries []models.Standup
	if err := q.Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("standup: list: %w", err)
	}
	return entries, nil
}

// Recent returns the newest n entries regardless of owner, for prompt
// context assembly. Caller is responsible for scoping.
func (s *Store) Recent(ctx context.Context, n int) ([]models.Standup, error) {
	var entries []models.Standup
	if err := s.db.WithContext(ctx).Order("created_at DESC").Limit(n).Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("standup: recent: %w", err)
	}
	return entries, nil
}

// CreateInput is the client-supplied portion of a new entry.
type CreateInput struct {
	UserName  string `json:"user_name"`
	Yesterday string `json:"yesterday"`
	Today     string `json:"today"`
	Blockers  string `json:"blockers"`
}

// Create persists a new entry owned by the authenticated caller. Yesterday
// and today are required; blank blockers become the "None" sentinel. The
// user id always comes from the identity, never from the request body.
func (s *Store) Create(ctx context.Context, identity auth.Identity, in CreateInput) (models.Standup, error) {
	if strings.TrimSpace(in.Yesterday) == "" {
		return models.Standup{}, fmt.Errorf("%w: yesterday is required", ErrValidation)
	}
	if strings.TrimSpace(in.Today) == "" {
		return models.Standup{}, fmt.Errorf("%w: today is required", ErrValidation)
	}

	blockers := strings.TrimSpace(in.Blockers)
	if blockers == "" {
		blockers = models.NoBlockersSentinel
	}
	name := strings.TrimSpace(in.UserName)
	if name == "" {
		name = displayNameFromEmail(identity.Email)
	}

	entry := models.Standup{
		UserID:    identity.UserID,
		UserName:  name,
		Yesterday: in.Yesterday,
		Today:     in.Today,
		Blockers:  blockers,
	}
	if err := s.db.WithContext(ctx).Create(&entry).Error; err != nil {
		return models.Standup{}, fmt.Errorf("standup: create: %w", err)
	}
	return entry, nil
}

// displayNameFromEmail falls back to the local part of the caller's email
// when no display name was supplied.
func displayNameFromEmail(email string) string {
	if at := strings.IndexByte(email, '@'); at > 0 {
		return email[:at]
	}
	return email
}
