package http

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/PangeranJJ4321/coffee-shop-app-fix-sub000/internal/cart"
	"github.com/PangeranJJ4321/coffee-shop-app-fix-sub000/internal/domain"
	"github.com/PangeranJJ4321/coffee-shop-app-fix-sub000/internal/money"
	"github.com/PangeranJJ4321/coffee-shop-app-fix-sub000/internal/upstream"
)

// ProductFetcher resolves a catalog product so the cart can denormalize its
// add-time snapshot.
type ProductFetcher interface {
	GetProduct(ctx context.Context, id string) (*domain.Product, error)
}

type CartHandler struct {
	cart     *cart.Store
	products ProductFetcher
	validate *validator.Validate
}

func NewCartHandler(cartStore *cart.Store, products ProductFetcher) *CartHandler {
	return &CartHandler{
		cart:     cartStore,
		products: products,
		validate: validator.New(),
	}
}

type AddItemRequestDTO struct {
	ProductID string   `json:"product_id" validate:"required"`
	OptionIDs []string `json:"option_ids"`
	Quantity  int      `json:"quantity" validate:"omitempty,min=1,max=99"`
}

type UpdateQuantityRequestDTO struct {
	Quantity int `json:"quantity" validate:"max=99"`
}

type ContainsRequestDTO struct {
	ProductID string   `json:"product_id" validate:"required"`
	OptionIDs []string `json:"option_ids"`
}

type CartItemView struct {
	domain.CartLineItem
	LineTotalDisplay string `json:"line_total_display"`
}

type CartView struct {
	Items             []CartItemView `json:"items"`
	ItemCount         int            `json:"item_count"`
	TotalItemCount    int            `json:"total_item_count"`
	TotalPrice        int64          `json:"total_price"`
	TotalPriceDisplay string         `json:"total_price_display"`
}

func (h *CartHandler) view() CartView {
	items := h.cart.Items()
	view := CartView{
		Items:          make([]CartItemView, 0, len(items)),
		ItemCount:      len(items),
		TotalItemCount: h.cart.TotalItemCount(),
		TotalPrice:     h.cart.TotalPrice(),
	}
	for _, item := range items {
		view.Items = append(view.Items, CartItemView{
			CartLineItem:     item,
			LineTotalDisplay: money.FormatIDR(item.LineTotal),
		})
	}
	view.TotalPriceDisplay = money.FormatIDR(view.TotalPrice)
	return view
}

func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.view())
}

// resolveOptions maps chosen option ids onto the product's option list,
// preserving the catalog's option order.
func resolveOptions(product *domain.Product, optionIDs []string) ([]domain.SelectedOption, error) {
	wanted := make(map[string]bool, len(optionIDs))
	for _, id := range optionIDs {
		wanted[id] = true
	}

	selected := make([]domain.SelectedOption, 0, len(optionIDs))
	for _, opt := range product.Options {
		if wanted[opt.ID] {
			selected = append(selected, domain.SelectedOption{
				Name:            opt.Name,
				AdditionalPrice: opt.AdditionalPrice,
			})
			delete(wanted, opt.ID)
		}
	}
	for id := range wanted {
		return nil, fmt.Errorf("unknown option %q for product %s", id, product.ID)
	}
	return selected, nil
}

func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req AddItemRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	product, err := h.products.GetProduct(r.Context(), req.ProductID)
	if upstream.IsNotFound(err) {
		respondError(w, http.StatusNotFound, "not_found", "product not found")
		return
	}
	if err != nil {
		handleUpstreamError(w, err)
		return
	}

	options, errResolve := resolveOptions(product, req.OptionIDs)
	if errResolve != nil {
		respondError(w, http.StatusBadRequest, "invalid_option", errResolve.Error())
		return
	}

	h.cart.AddItem(r.Context(), product.ID, product.Snapshot(), options, req.Quantity)
	respondJSON(w, http.StatusCreated, h.view())
}

// UpdateQuantity sets a line item's quantity; zero or below removes the
// line. An unknown id leaves the cart untouched, matching the store's no-op
// contract.
func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	lineItemID := chi.URLParam(r, "item_id")

	var req UpdateQuantityRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	h.cart.UpdateQuantity(r.Context(), lineItemID, req.Quantity)
	respondJSON(w, http.StatusOK, h.view())
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	h.cart.RemoveItem(r.Context(), chi.URLParam(r, "item_id"))
	respondJSON(w, http.StatusOK, h.view())
}

func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	h.cart.Clear(r.Context())
	respondJSON(w, http.StatusOK, h.view())
}

// ContainsVariant lets the product view flag configurations already in the
// cart before the user adds a duplicate.
func (h *CartHandler) ContainsVariant(w http.ResponseWriter, r *http.Request) {
	var req ContainsRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	product, err := h.products.GetProduct(r.Context(), req.ProductID)
	if upstream.IsNotFound(err) {
		respondError(w, http.StatusNotFound, "not_found", "product not found")
		return
	}
	if err != nil {
		handleUpstreamError(w, err)
		return
	}

	options, errResolve := resolveOptions(product, req.OptionIDs)
	if errResolve != nil {
		respondError(w, http.StatusBadRequest, "invalid_option", errResolve.Error())
		return
	}

	respondJSON(w, http.StatusOK, map[string]bool{
		"contains": h.cart.ContainsVariant(req.ProductID, options),
	})
}
