package upstream

import (
	"context"
	"net/http"
	"net/url"

	"github.com/PangeranJJ4321/coffee-shop-app-fix-sub000/internal/domain"
)

// CreateOrderRequest is the checkout payload: denormalized cart lines plus
// the chosen promo code. The backend remains the pricing authority and
// recomputes every amount.
type CreateOrderRequest struct {
	Items     []domain.OrderItem `json:"items"`
	PromoCode string             `json:"promo_code,omitempty"`
	Notes     string             `json:"notes,omitempty"`
}

func (c *Client) CreateOrder(ctx context.Context, req CreateOrderRequest) (*domain.Order, error) {
	var order domain.Order
	if err := c.do(ctx, http.MethodPost, "/orders/", req, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

func (c *Client) GetOrder(ctx context.Context, id string) (*domain.Order, error) {
	var order domain.Order
	if err := c.do(ctx, http.MethodGet, "/orders/"+url.PathEscape(id), nil, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// ListMyOrders returns the authenticated user's order history.
func (c *Client) ListMyOrders(ctx context.Context) ([]domain.Order, error) {
	var orders []domain.Order
	if err := c.do(ctx, http.MethodGet, "/orders/", nil, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (c *Client) CancelOrder(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/orders/"+url.PathEscape(id), nil, nil)
}

// ListAllOrders is the admin view across users, optionally bounded by
// RFC 3339 dates. Feeds the analytics projection.
func (c *Client) ListAllOrders(ctx context.Context, from, to string) ([]domain.Order, error) {
	path := "/admin/orders/"
	query := url.Values{}
	if from != "" {
		query.Set("from", from)
	}
	if to != "" {
		query.Set("to", to)
	}
	if len(query) > 0 {
		path += "?" + query.Encode()
	}

	var orders []domain.Order
	if err := c.do(ctx, http.MethodGet, path, nil, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (c *Client) UpdateOrderStatus(ctx context.Context, id string, status domain.OrderStatus) (*domain.Order, error) {
	req := map[string]string{"status": string(status)}
	var order domain.Order
	if err := c.do(ctx, http.MethodPut, "/admin/orders/"+url.PathEscape(id)+"/status", req, &order); err != nil {
		return nil, err
	}
	return &order, nil
}
