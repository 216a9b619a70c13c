package upstream

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/PangeranJJ4321/coffee-shop-app-fix-sub000/internal/domain"
)

// ErrNoPaymentSession means the backend has no payment session for the
// order yet. It is a normal branch of initialization, not a failure.
var ErrNoPaymentSession = errors.New("no payment session for order")

// GetTransactionDetails looks up the existing payment session for an order.
// A backend 404 maps to ErrNoPaymentSession.
func (c *Client) GetTransactionDetails(ctx context.Context, orderID string) (*domain.PaymentSession, error) {
	var session domain.PaymentSession
	path := fmt.Sprintf("/payments/%s/transaction-details", url.PathEscape(orderID))
	err := c.do(ctx, http.MethodGet, path, nil, &session)
	if IsNotFound(err) {
		return nil, ErrNoPaymentSession
	}
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// CreatePayment asks the backend to open a payment session with the QR/VA
// gateway. Not idempotent: the poll controller guards against calling it
// twice for the same live session.
func (c *Client) CreatePayment(ctx context.Context, orderID, method string) (*domain.PaymentSession, error) {
	req := map[string]string{"order_id": orderID, "payment_method": method}
	var session domain.PaymentSession
	if err := c.do(ctx, http.MethodPost, "/payments/create", req, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

// GetPaymentStatus polls the settlement state for an order.
func (c *Client) GetPaymentStatus(ctx context.Context, orderID string) (domain.PaymentStatus, error) {
	var result struct {
		Status domain.PaymentStatus `json:"status"`
	}
	path := fmt.Sprintf("/payments/%s/status", url.PathEscape(orderID))
	if err := c.do(ctx, http.MethodGet, path, nil, &result); err != nil {
		return "", err
	}
	return result.Status, nil
}
