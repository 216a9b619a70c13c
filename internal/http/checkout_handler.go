package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/PangeranJJ4321/coffee-shop-app-fix-sub000/internal/checkout"
)

type CheckoutHandler struct {
	checkout *checkout.Service
	validate *validator.Validate
}

func NewCheckoutHandler(service *checkout.Service) *CheckoutHandler {
	return &CheckoutHandler{
		checkout: service,
		validate: validator.New(),
	}
}

type CheckoutRequestDTO struct {
	PromoCode string `json:"promo_code"`
	Notes     string `json:"notes" validate:"max=500"`
}

// Estimate previews totals with the local promo table applied.
func (h *CheckoutHandler) Estimate(w http.ResponseWriter, r *http.Request) {
	promoCode := r.URL.Query().Get("promo_code")
	respondJSON(w, http.StatusOK, h.checkout.Estimate(promoCode))
}

// Submit converts the cart into a backend order. On failure the cart is left
// untouched; on success it is cleared and the caller moves to the payment
// view.
func (h *CheckoutHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req CheckoutRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	order, err := h.checkout.Submit(r.Context(), req.PromoCode, req.Notes)
	if errors.Is(err, checkout.ErrEmptyCart) {
		respondError(w, http.StatusBadRequest, "empty_cart", "cart is empty, nothing to checkout")
		return
	}
	if err != nil {
		handleUpstreamError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, order)
}
