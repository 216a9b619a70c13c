package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker/v2"

	"github.com/PangeranJJ4321/coffee-shop-app-fix-sub000/internal/upstream"
)

type ErrorResponse struct {
	Error   string   `json:"error"`
	Code    string   `json:"code,omitempty"`
	Details []string `json:"details,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logrus.WithError(err).Warn("failed to encode response")
	}
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, ErrorResponse{Error: message, Code: code})
}

// respondValidationError turns field-level validation failures into per-field
// messages. These never reach the backend.
func respondValidationError(w http.ResponseWriter, err error) {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		details := make([]string, 0, len(validationErrors))
		for _, fieldError := range validationErrors {
			field := lowerCamel(fieldError.Field())
			switch fieldError.Tag() {
			case "required":
				details = append(details, fmt.Sprintf("%s is required", field))
			case "min":
				details = append(details, fmt.Sprintf("%s is below the minimum of %s", field, fieldError.Param()))
			case "email":
				details = append(details, fmt.Sprintf("%s must be a valid email", field))
			default:
				details = append(details, fmt.Sprintf("%s is invalid", field))
			}
		}
		respondJSON(w, http.StatusBadRequest, ErrorResponse{Error: "validation failed", Code: "validation_failed", Details: details})
		return
	}
	respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
}

func lowerCamel(field string) string {
	if field == "" {
		return field
	}
	return strings.ToLower(field[:1]) + field[1:]
}

// handleUpstreamError maps backend failures onto this surface. The backend's
// own message is surfaced when present; a tripped breaker or transport error
// reads as the backend being unavailable.
func handleUpstreamError(w http.ResponseWriter, err error) {
	var apiErr *upstream.APIError
	if errors.As(err, &apiErr) {
		message := apiErr.Message
		if message == "" {
			message = "request failed"
		}
		respondError(w, apiErr.StatusCode, apiErr.Code, message)
		return
	}
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		respondError(w, http.StatusServiceUnavailable, "backend_unavailable", "backend is temporarily unavailable")
		return
	}
	respondError(w, http.StatusBadGateway, "backend_error", "could not reach backend")
}
