package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/PangeranJJ4321/coffee-shop-app-fix-sub000/internal/payment"
)

// PaymentHandler maps the payment view lifecycle onto the poll controller
// manager: watch on activation, unwatch on deactivation, state for renders.
type PaymentHandler struct {
	payments *payment.Manager
	validate *validator.Validate
}

func NewPaymentHandler(payments *payment.Manager) *PaymentHandler {
	return &PaymentHandler{
		payments: payments,
		validate: validator.New(),
	}
}

type WatchRequestDTO struct {
	Method string `json:"payment_method" validate:"required,oneof=qris va"`
}

// Watch activates the payment view for an order. Re-watching an already
// active order reuses its controller; initialization never runs twice.
func (h *PaymentHandler) Watch(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "order_id")

	var req WatchRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	ctrl, err := h.payments.Watch(r.Context(), orderID, req.Method)
	if err != nil {
		// The controller holds the error state; the snapshot carries it so
		// the view can offer a retry.
		respondJSON(w, http.StatusBadGateway, ctrl.Snapshot())
		return
	}
	respondJSON(w, http.StatusOK, ctrl.Snapshot())
}

func (h *PaymentHandler) State(w http.ResponseWriter, r *http.Request) {
	ctrl, ok := h.payments.Get(chi.URLParam(r, "order_id"))
	if !ok {
		respondError(w, http.StatusNotFound, "not_found", "payment view is not active for this order")
		return
	}
	respondJSON(w, http.StatusOK, ctrl.Snapshot())
}

// Refresh triggers an immediate out-of-band status poll.
func (h *PaymentHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	ctrl, ok := h.payments.Get(chi.URLParam(r, "order_id"))
	if !ok {
		respondError(w, http.StatusNotFound, "not_found", "payment view is not active for this order")
		return
	}
	ctrl.Refresh()
	respondJSON(w, http.StatusAccepted, ctrl.Snapshot())
}

// Retry re-runs initialization after an unrecoverable failure.
func (h *PaymentHandler) Retry(w http.ResponseWriter, r *http.Request) {
	ctrl, ok := h.payments.Get(chi.URLParam(r, "order_id"))
	if !ok {
		respondError(w, http.StatusNotFound, "not_found", "payment view is not active for this order")
		return
	}
	if err := ctrl.Retry(r.Context()); err != nil {
		respondJSON(w, http.StatusBadGateway, ctrl.Snapshot())
		return
	}
	respondJSON(w, http.StatusOK, ctrl.Snapshot())
}

// Unwatch deactivates the payment view and cancels its timers.
func (h *PaymentHandler) Unwatch(w http.ResponseWriter, r *http.Request) {
	h.payments.Release(chi.URLParam(r, "order_id"))
	respondJSON(w, http.StatusOK, map[string]string{"status": "released"})
}
