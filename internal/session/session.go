package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/PangeranJJ4321/coffee-shop-app-fix-sub000/internal/domain"
	"github.com/PangeranJJ4321/coffee-shop-app-fix-sub000/internal/storage"
)

// Storage keys mirror the old client's localStorage entries: one token, one
// cached profile, plain key to JSON-string pairs.
const (
	tokenKey   = "auth:token"
	profileKey = "auth:profile"
)

// Manager holds the bearer token and cached user profile in durable local
// storage. The token is re-read on every upstream request, so a login from
// another process sharing the store takes effect immediately.
type Manager struct {
	storage storage.Store
}

func NewManager(st storage.Store) *Manager {
	return &Manager{storage: st}
}

// Token implements upstream.TokenSource. No stored token means an anonymous
// request, not an error.
func (m *Manager) Token(ctx context.Context) (string, error) {
	data, err := m.storage.Get(ctx, tokenKey)
	if errors.Is(err, storage.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read token: %w", err)
	}

	var token string
	if errUnmarshal := json.Unmarshal(data, &token); errUnmarshal != nil {
		return "", fmt.Errorf("token entry unreadable: %w", errUnmarshal)
	}
	return token, nil
}

func (m *Manager) SetToken(ctx context.Context, token string) error {
	data, err := json.Marshal(token)
	if err != nil {
		return fmt.Errorf("marshal token: %w", err)
	}
	return m.storage.Set(ctx, tokenKey, data)
}

func (m *Manager) Profile(ctx context.Context) (*domain.UserProfile, error) {
	data, err := m.storage.Get(ctx, profileKey)
	if err != nil {
		return nil, err
	}
	var profile domain.UserProfile
	if errUnmarshal := json.Unmarshal(data, &profile); errUnmarshal != nil {
		return nil, fmt.Errorf("profile entry unreadable: %w", errUnmarshal)
	}
	return &profile, nil
}

func (m *Manager) SetProfile(ctx context.Context, profile *domain.UserProfile) error {
	data, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("marshal profile: %w", err)
	}
	return m.storage.Set(ctx, profileKey, data)
}

// Clear drops both entries; logout.
func (m *Manager) Clear(ctx context.Context) error {
	if err := m.storage.Delete(ctx, tokenKey); err != nil {
		return err
	}
	return m.storage.Delete(ctx, profileKey)
}

// Authenticated reports whether a token is present and not past its exp
// claim. Verification stays with the backend; this only avoids sending
// requests that are guaranteed to 401.
func (m *Manager) Authenticated(ctx context.Context) bool {
	token, err := m.Token(ctx)
	if err != nil || token == "" {
		return false
	}
	expiry, err := tokenExpiry(token)
	if err != nil {
		// Opaque (non-JWT) tokens are passed through as-is.
		return true
	}
	return expiry.IsZero() || time.Now().Before(expiry)
}

// tokenExpiry extracts the exp claim without verifying the signature; the
// gateway holds no signing key.
func tokenExpiry(token string) (time.Time, error) {
	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return time.Time{}, err
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, nil
	}
	return claims.ExpiresAt.Time, nil
}
