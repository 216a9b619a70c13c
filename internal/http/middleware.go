package http

import (
	"errors"
	"net/http"

	"github.com/PangeranJJ4321/coffee-shop-app-fix-sub000/internal/session"
	"github.com/PangeranJJ4321/coffee-shop-app-fix-sub000/internal/storage"
)

// RequireAuth rejects requests when no live token sits in the session store.
// The backend still has the final word; this only spares it requests that
// are guaranteed to 401.
func RequireAuth(sessions *session.Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !sessions.Authenticated(r.Context()) {
				respondError(w, http.StatusUnauthorized, "unauthorized", "login required")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAdmin additionally checks the cached profile's role.
func RequireAdmin(sessions *session.Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			profile, err := sessions.Profile(r.Context())
			if err != nil {
				if errors.Is(err, storage.ErrNotFound) {
					respondError(w, http.StatusUnauthorized, "unauthorized", "login required")
					return
				}
				respondError(w, http.StatusInternalServerError, "internal_error", "could not read session")
				return
			}
			if profile.Role != "admin" {
				respondError(w, http.StatusForbidden, "permission_denied", "admin access required")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
