package domain

import "time"

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "PENDING"
	OrderStatusPaid      OrderStatus = "PAID"
	OrderStatusPreparing OrderStatus = "PREPARING"
	OrderStatusCompleted OrderStatus = "COMPLETED"
	OrderStatusCancelled OrderStatus = "CANCELLED"
	OrderStatusExpired   OrderStatus = "EXPIRED"
)

// Resolved reports whether payment for the order is already settled one way
// or the other, meaning no new payment session may be created for it.
func (s OrderStatus) Resolved() bool {
	switch s {
	case OrderStatusPending:
		return false
	default:
		return true
	}
}

// PaymentOutcome maps a resolved order status onto the payment state the
// payment view should show. Only meaningful when Resolved() is true.
func (s OrderStatus) PaymentOutcome() PaymentStatus {
	switch s {
	case OrderStatusPaid, OrderStatusPreparing, OrderStatusCompleted:
		return PaymentStatusSuccess
	case OrderStatusExpired:
		return PaymentStatusExpired
	default:
		return PaymentStatusFailed
	}
}

// OrderItem is the denormalized line the backend stores on an order. Prices
// are the add-time snapshot, not live catalog values.
type OrderItem struct {
	ProductID       string           `json:"product_id"`
	Name            string           `json:"name"`
	UnitPrice       int64            `json:"unit_price"`
	SelectedOptions []SelectedOption `json:"selected_options,omitempty"`
	Quantity        int              `json:"quantity"`
	LineTotal       int64            `json:"line_total"`
}

// Order is the backend order projection this layer renders; the backend is
// the authority on every field.
type Order struct {
	ID          string      `json:"id"`
	UserID      string      `json:"user_id"`
	Status      OrderStatus `json:"status"`
	Items       []OrderItem `json:"items"`
	Subtotal    int64       `json:"subtotal"`
	Discount    int64       `json:"discount"`
	TotalAmount int64       `json:"total_amount"`
	PromoCode   string      `json:"promo_code,omitempty"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}
