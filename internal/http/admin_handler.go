package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/PangeranJJ4321/coffee-shop-app-fix-sub000/internal/analytics"
	"github.com/PangeranJJ4321/coffee-shop-app-fix-sub000/internal/domain"
	"github.com/PangeranJJ4321/coffee-shop-app-fix-sub000/internal/money"
	"github.com/PangeranJJ4321/coffee-shop-app-fix-sub000/internal/upstream"
)

// AdminHandler is the back-office surface: menu and variant management,
// order management and the analytics dashboard.
type AdminHandler struct {
	api      *upstream.Client
	validate *validator.Validate
}

func NewAdminHandler(api *upstream.Client) *AdminHandler {
	return &AdminHandler{
		api:      api,
		validate: validator.New(),
	}
}

type MenuItemRequestDTO struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description" validate:"max=1000"`
	Category    string `json:"category"`
	UnitPrice   int64  `json:"unit_price" validate:"required,min=1"`
	ImageURL    string `json:"image_url" validate:"omitempty,url"`
	Available   bool   `json:"available"`
}

func (dto MenuItemRequestDTO) toRequest() upstream.MenuItemRequest {
	return upstream.MenuItemRequest{
		Name:        dto.Name,
		Description: dto.Description,
		Category:    dto.Category,
		UnitPrice:   dto.UnitPrice,
		ImageURL:    dto.ImageURL,
		Available:   dto.Available,
	}
}

func (h *AdminHandler) CreateMenuItem(w http.ResponseWriter, r *http.Request) {
	var req MenuItemRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	product, err := h.api.CreateMenuItem(r.Context(), req.toRequest())
	if err != nil {
		handleUpstreamError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, product)
}

func (h *AdminHandler) UpdateMenuItem(w http.ResponseWriter, r *http.Request) {
	var req MenuItemRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	product, err := h.api.UpdateMenuItem(r.Context(), chi.URLParam(r, "product_id"), req.toRequest())
	if upstream.IsNotFound(err) {
		respondError(w, http.StatusNotFound, "not_found", "menu item not found")
		return
	}
	if err != nil {
		handleUpstreamError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, product)
}

func (h *AdminHandler) DeleteMenuItem(w http.ResponseWriter, r *http.Request) {
	if err := h.api.DeleteMenuItem(r.Context(), chi.URLParam(r, "product_id")); err != nil {
		handleUpstreamError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

type VariantRequestDTO struct {
	Name            string `json:"name" validate:"required"`
	AdditionalPrice int64  `json:"additional_price" validate:"min=0"`
}

func (h *AdminHandler) CreateVariant(w http.ResponseWriter, r *http.Request) {
	var req VariantRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	option, err := h.api.CreateVariant(r.Context(), chi.URLParam(r, "product_id"), upstream.VariantRequest{
		Name:            req.Name,
		AdditionalPrice: req.AdditionalPrice,
	})
	if err != nil {
		handleUpstreamError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, option)
}

func (h *AdminHandler) UpdateVariant(w http.ResponseWriter, r *http.Request) {
	var req VariantRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	option, err := h.api.UpdateVariant(r.Context(), chi.URLParam(r, "product_id"), chi.URLParam(r, "variant_id"), upstream.VariantRequest{
		Name:            req.Name,
		AdditionalPrice: req.AdditionalPrice,
	})
	if err != nil {
		handleUpstreamError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, option)
}

func (h *AdminHandler) DeleteVariant(w http.ResponseWriter, r *http.Request) {
	if err := h.api.DeleteVariant(r.Context(), chi.URLParam(r, "product_id"), chi.URLParam(r, "variant_id")); err != nil {
		handleUpstreamError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *AdminHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.api.ListAllOrders(r.Context(), r.URL.Query().Get("from"), r.URL.Query().Get("to"))
	if err != nil {
		handleUpstreamError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, orders)
}

type UpdateOrderStatusRequestDTO struct {
	Status string `json:"status" validate:"required,oneof=PAID PREPARING COMPLETED CANCELLED"`
}

func (h *AdminHandler) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	var req UpdateOrderStatusRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	order, err := h.api.UpdateOrderStatus(r.Context(), chi.URLParam(r, "order_id"), domain.OrderStatus(req.Status))
	if upstream.IsNotFound(err) {
		respondError(w, http.StatusNotFound, "not_found", "order not found")
		return
	}
	if err != nil {
		handleUpstreamError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, order)
}

// Dashboard fetches the order list upstream and folds it into the analytics
// summary the admin charts render.
func (h *AdminHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	orders, err := h.api.ListAllOrders(r.Context(), r.URL.Query().Get("from"), r.URL.Query().Get("to"))
	if err != nil {
		handleUpstreamError(w, err)
		return
	}

	summary := analytics.Summarize(orders)
	respondJSON(w, http.StatusOK, struct {
		analytics.Summary
		RevenueDisplay string `json:"revenue_display"`
	}{
		Summary:        summary,
		RevenueDisplay: money.FormatIDR(summary.Revenue),
	})
}
