package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"github.com/PangeranJJ4321/coffee-shop-app-fix-sub000/internal/session"
	"github.com/PangeranJJ4321/coffee-shop-app-fix-sub000/internal/storage"
	"github.com/PangeranJJ4321/coffee-shop-app-fix-sub000/internal/upstream"
)

type AuthHandler struct {
	api      *upstream.Client
	sessions *session.Manager
	validate *validator.Validate
	log      *logrus.Logger
}

func NewAuthHandler(api *upstream.Client, sessions *session.Manager, log *logrus.Logger) *AuthHandler {
	return &AuthHandler{
		api:      api,
		sessions: sessions,
		validate: validator.New(),
		log:      log,
	}
}

type LoginRequestDTO struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type RegisterRequestDTO struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// Login exchanges credentials upstream and persists the token and profile
// entries in durable local storage.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	result, err := h.api.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		handleUpstreamError(w, err)
		return
	}

	if errSave := h.sessions.SetToken(r.Context(), result.Token); errSave != nil {
		h.log.WithError(errSave).Error("failed to persist token")
		respondError(w, http.StatusInternalServerError, "internal_error", "could not persist session")
		return
	}
	if errSave := h.sessions.SetProfile(r.Context(), &result.User); errSave != nil {
		h.log.WithError(errSave).Warn("failed to cache profile")
	}

	respondJSON(w, http.StatusOK, result)
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	user, err := h.api.Register(r.Context(), upstream.RegisterRequest{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		handleUpstreamError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, user)
}

// Me serves the cached profile, refreshing it upstream when the cache is
// cold.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	profile, err := h.sessions.Profile(r.Context())
	if err == nil {
		respondJSON(w, http.StatusOK, profile)
		return
	}
	if !errors.Is(err, storage.ErrNotFound) {
		respondError(w, http.StatusInternalServerError, "internal_error", "could not read session")
		return
	}

	fresh, errFetch := h.api.Me(r.Context())
	if errFetch != nil {
		handleUpstreamError(w, errFetch)
		return
	}
	if errSave := h.sessions.SetProfile(r.Context(), fresh); errSave != nil {
		h.log.WithError(errSave).Warn("failed to cache profile")
	}
	respondJSON(w, http.StatusOK, fresh)
}

// Logout drops the token and profile entries.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Clear(r.Context()); err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "could not clear session")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "logged out"})
}
