package domain

import "time"

type PaymentStatus string

const (
	PaymentStatusPending    PaymentStatus = "PENDING"
	PaymentStatusProcessing PaymentStatus = "PROCESSING"
	PaymentStatusSuccess    PaymentStatus = "SUCCESS"
	PaymentStatusFailed     PaymentStatus = "FAILED"
	PaymentStatusExpired    PaymentStatus = "EXPIRED"
)

func (s PaymentStatus) IsTerminal() bool {
	return s == PaymentStatusSuccess || s == PaymentStatusFailed || s == PaymentStatusExpired
}

// Active reports whether the session still warrants countdown and polling.
// PROCESSING is pending-equivalent for timer purposes; it only renders
// differently.
func (s PaymentStatus) Active() bool {
	return s == PaymentStatusPending || s == PaymentStatusProcessing
}

// String representation (for logging)
func (s PaymentStatus) String() string {
	return string(s)
}

// VirtualAccount is one bank transfer destination returned by the gateway,
// display data only.
type VirtualAccount struct {
	Bank   string `json:"bank"`
	Number string `json:"va_number"`
}

// PaymentSession is the client-side projection of the gateway's payment
// state for one order. QRPayload and VirtualAccounts are opaque render data.
type PaymentSession struct {
	OrderID         string           `json:"order_id"`
	Status          PaymentStatus    `json:"status"`
	Method          string           `json:"method"`
	QRPayload       string           `json:"qr_payload,omitempty"`
	VirtualAccounts []VirtualAccount `json:"virtual_accounts,omitempty"`
	ExpiryTime      time.Time        `json:"expiry_time"`
}

// SecondsRemaining derives the local countdown from ExpiryTime. It is never
// the authority on expiry: a terminal poll result always overrides it.
func (p *PaymentSession) SecondsRemaining(now time.Time) int {
	if !now.Before(p.ExpiryTime) {
		return 0
	}
	return int(p.ExpiryTime.Sub(now).Round(time.Second) / time.Second)
}

// Expired reports whether the session deadline has passed locally.
func (p *PaymentSession) Expired(now time.Time) bool {
	return !now.Before(p.ExpiryTime)
}
