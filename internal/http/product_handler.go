package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/PangeranJJ4321/coffee-shop-app-fix-sub000/internal/money"
	"github.com/PangeranJJ4321/coffee-shop-app-fix-sub000/internal/upstream"
)

type ProductHandler struct {
	api *upstream.Client
}

func NewProductHandler(api *upstream.Client) *ProductHandler {
	return &ProductHandler{api: api}
}

type priceDisplay struct {
	UnitPrice        int64  `json:"unit_price"`
	UnitPriceDisplay string `json:"unit_price_display"`
}

func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	products, err := h.api.ListProducts(r.Context(), r.URL.Query().Get("category"))
	if err != nil {
		handleUpstreamError(w, err)
		return
	}

	type productView struct {
		ID          string `json:"id"`
		Name        string `json:"name"`
		Description string `json:"description,omitempty"`
		Category    string `json:"category,omitempty"`
		ImageURL    string `json:"image_url,omitempty"`
		Available   bool   `json:"available"`
		priceDisplay
	}

	views := make([]productView, 0, len(products))
	for _, p := range products {
		views = append(views, productView{
			ID:          p.ID,
			Name:        p.Name,
			Description: p.Description,
			Category:    p.Category,
			ImageURL:    p.ImageURL,
			Available:   p.Available,
			priceDisplay: priceDisplay{
				UnitPrice:        p.UnitPrice,
				UnitPriceDisplay: money.FormatIDR(p.UnitPrice),
			},
		})
	}
	respondJSON(w, http.StatusOK, views)
}

func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	product, err := h.api.GetProduct(r.Context(), chi.URLParam(r, "product_id"))
	if upstream.IsNotFound(err) {
		respondError(w, http.StatusNotFound, "not_found", "product not found")
		return
	}
	if err != nil {
		handleUpstreamError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, product)
}
