package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/PangeranJJ4321/coffee-shop-app-fix-sub000/internal/upstream"
)

type OrderHandler struct {
	api *upstream.Client
}

func NewOrderHandler(api *upstream.Client) *OrderHandler {
	return &OrderHandler{api: api}
}

// History lists the authenticated user's orders.
func (h *OrderHandler) History(w http.ResponseWriter, r *http.Request) {
	orders, err := h.api.ListMyOrders(r.Context())
	if err != nil {
		handleUpstreamError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, orders)
}

func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	order, err := h.api.GetOrder(r.Context(), chi.URLParam(r, "order_id"))
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

func (h *OrderHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	if err := h.api.CancelOrder(r.Context(), chi.URLParam(r, "order_id")); err != nil {
		handleUpstreamError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "cancelled"})
}
