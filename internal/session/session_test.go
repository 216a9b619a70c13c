package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PangeranJJ4321/coffee-shop-app-fix-sub000/internal/domain"
	"github.com/PangeranJJ4321/coffee-shop-app-fix-sub000/internal/storage"
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	st, err := storage.NewFileStore(t.TempDir())
	require.NoError(t, err)
	return NewManager(st)
}

func signedToken(t *testing.T, expiresAt time.Time) string {
	t.Helper()
	claims := jwt.RegisteredClaims{
		Subject:   "u-1",
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("backend-secret"))
	require.NoError(t, err)
	return token
}

func TestManager_TokenRoundTrip(t *testing.T) {
	m := newTestManager(t)
	ctx := context.Background()

	token, err := m.Token(ctx)
	require.NoError(t, err)
	assert.Empty(t, token, "no stored token means anonymous")

	require.NoError(t, m.SetToken(ctx, "tok-123"))
	token, err = m.Token(ctx)
	require.NoError(t, err)
	assert.Equal(t, "tok-123", token)
}

func TestManager_ProfileRoundTrip(t *testing.T) {
	m := newTestManager(t)
	ctx := context.Background()

	_, err := m.Profile(ctx)
	assert.True(t, errors.Is(err, storage.ErrNotFound))

	require.NoError(t, m.SetProfile(ctx, &domain.UserProfile{ID: "u-1", Name: "Sari", Role: "admin"}))

	profile, err := m.Profile(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Sari", profile.Name)
	assert.Equal(t, "admin", profile.Role)
}

func TestManager_Authenticated(t *testing.T) {
	m := newTestManager(t)
	ctx := context.Background()

	assert.False(t, m.Authenticated(ctx), "no token")

	require.NoError(t, m.SetToken(ctx, signedToken(t, time.Now().Add(time.Hour))))
	assert.True(t, m.Authenticated(ctx))

	require.NoError(t, m.SetToken(ctx, signedToken(t, time.Now().Add(-time.Minute))))
	assert.False(t, m.Authenticated(ctx), "expired token")

	// opaque tokens are passed through without local expiry judgment
	require.NoError(t, m.SetToken(ctx, "opaque-token"))
	assert.True(t, m.Authenticated(ctx))
}

func TestManager_ClearDropsBothEntries(t *testing.T) {
	m := newTestManager(t)
	ctx := context.Background()

	require.NoError(t, m.SetToken(ctx, "tok"))
	require.NoError(t, m.SetProfile(ctx, &domain.UserProfile{ID: "u-1"}))
	require.NoError(t, m.Clear(ctx))

	token, err := m.Token(ctx)
	require.NoError(t, err)
	assert.Empty(t, token)

	_, err = m.Profile(ctx)
	assert.True(t, errors.Is(err, storage.ErrNotFound))
}
