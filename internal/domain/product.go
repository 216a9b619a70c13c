package domain

import "time"

// ProductOption is one selectable variant of a product (size, temperature,
// extra shot) as the catalog defines it.
type ProductOption struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	AdditionalPrice int64  `json:"additional_price"`
}

type Product struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Category    string          `json:"category,omitempty"`
	UnitPrice   int64           `json:"unit_price"`
	ImageURL    string          `json:"image_url,omitempty"`
	Options     []ProductOption `json:"options,omitempty"`
	Available   bool            `json:"available"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// Snapshot captures the fields a cart line item denormalizes at add-time.
func (p *Product) Snapshot() ProductSnapshot {
	return ProductSnapshot{
		Name:      p.Name,
		UnitPrice: p.UnitPrice,
		ImageURL:  p.ImageURL,
	}
}

// UserProfile is the cached projection of GET /users/me.
type UserProfile struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}
