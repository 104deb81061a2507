// Package auth resolves bearer tokens into role- and team-scoped identities.
package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/zulandar/sprintdeck/internal/config"
)

// Sentinel errors surfaced by this package. The route boundary maps them
// to HTTP statuses.
var (
	ErrUnauthorized = errors.New("auth: invalid or expired token")
	ErrNoRole       = errors.New("auth: no role record for user")
	ErrForbidden    = errors.New("auth: role insufficient")
)

// VerifiedUser is the identity provider's view of a token holder.
type VerifiedUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// TokenVerifier validates a bearer token against an identity provider.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (VerifiedUser, error)
}

// SupabaseVerifier verifies tokens against the Supabase auth endpoint.
// Stateless and safe for concurrent use.
type SupabaseVerifier struct {
	baseURL string
	anonKey string
	client  *http.Client
}

// NewSupabaseVerifier creates a verifier for the configured Supabase project.
func NewSupabaseVerifier(cfg config.SupabaseConfig) *SupabaseVerifier {
	return &SupabaseVerifier{
		baseURL: cfg.URL,
		anonKey: cfg.AnonKey,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

// Verify calls GET /auth/v1/user with the caller's token. Any non-200
// response is treated as an authentication failure, not an upstream error:
// Supabase returns 401/403 for bad tokens and we have nothing useful to
// retry on other statuses.
func (v *SupabaseVerifier) Verify(ctx context.Context, token string) (VerifiedUser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, v.baseURL+"/auth/v1/user", nil)
	if err != nil {
		return VerifiedUser{}, fmt.Errorf("auth: build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("apikey", v.anonKey)

	resp, err := v.client.Do(req)
	if err != nil {
		return VerifiedUser{}, fmt.Errorf("auth: verify token: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return VerifiedUser{}, ErrUnauthorized
	}

	var user VerifiedUser
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return VerifiedUser{}, fmt.Errorf("auth: decode user: %w", err)
	}
	if user.ID == "" {
		return VerifiedUser{}, ErrUnauthorized
	}
	return user, nil
}
