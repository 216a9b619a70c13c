package checkout

import (
	"context"
	"errors"

	"github.com/PangeranJJ4321/coffee-shop-app-fix-sub000/internal/cart"
	"github.com/PangeranJJ4321/coffee-shop-app-fix-sub000/internal/domain"
	"github.com/PangeranJJ4321/coffee-shop-app-fix-sub000/internal/upstream"
)

var ErrEmptyCart = errors.New("cart is empty, nothing to checkout")

// OrderCreator is the one backend call checkout needs.
type OrderCreator interface {
	CreateOrder(ctx context.Context, req upstream.CreateOrderRequest) (*domain.Order, error)
}

// Service converts the local cart into a backend order. The cart is cleared
// only after the order call succeeds, so a failed submit leaves prior state
// untouched.
type Service struct {
	cart *cart.Store
	api  OrderCreator
}

func NewService(cartStore *cart.Store, api OrderCreator) *Service {
	return &Service{cart: cartStore, api: api}
}

// Estimate previews the order total for the cart view: subtotal, the local
// promo-table discount and the resulting total. Display only; the backend
// reprices everything at submit.
type Estimate struct {
	Subtotal int64 `json:"subtotal"`
	Discount int64 `json:"discount"`
	Total    int64 `json:"total"`
	// PromoValid is false when the code was given but not in the table.
	PromoValid bool `json:"promo_valid"`
}

func (s *Service) Estimate(promoCode string) Estimate {
	subtotal := s.cart.TotalPrice()
	est := Estimate{Subtotal: subtotal, Total: subtotal, PromoValid: true}
	if promoCode == "" {
		return est
	}

	discount, ok := LookupPromo(promoCode)
	if !ok {
		est.PromoValid = false
		return est
	}
	est.Discount = discount.Apply(subtotal)
	est.Total = subtotal - est.Discount
	return est
}

// Submit creates the order from the current cart contents.
func (s *Service) Submit(ctx context.Context, promoCode, notes string) (*domain.Order, error) {
	items := s.cart.Items()
	if len(items) == 0 {
		return nil, ErrEmptyCart
	}

	req := upstream.CreateOrderRequest{
		Items:     make([]domain.OrderItem, 0, len(items)),
		PromoCode: promoCode,
		Notes:     notes,
	}
	for _, item := range items {
		req.Items = append(req.Items, domain.OrderItem{
			ProductID:       item.ProductID,
			Name:            item.Product.Name,
			UnitPrice:       item.Product.UnitPrice,
			SelectedOptions: item.SelectedOptions,
			Quantity:        item.Quantity,
			LineTotal:       item.LineTotal,
		})
	}

	order, err := s.api.CreateOrder(ctx, req)
	if err != nil {
		return nil, err
	}

	s.cart.Clear(ctx)
	return order, nil
}
