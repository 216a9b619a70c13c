package domain

// ProductSnapshot is the slice of catalog data a line item needs for display
// and pricing. It is captured when the item is added and is deliberately not
// kept in sync with later catalog changes.
type ProductSnapshot struct {
	Name      string `json:"name"`
	UnitPrice int64  `json:"unit_price"`
	ImageURL  string `json:"image_url,omitempty"`
}

// SelectedOption is one chosen product option (size, temperature, extra shot)
// with its price surcharge per unit.
type SelectedOption struct {
	Name            string `json:"name"`
	AdditionalPrice int64  `json:"additional_price"`
}

type CartLineItem struct {
	ID              string           `json:"id"`
	ProductID       string           `json:"product_id"`
	Product         ProductSnapshot  `json:"product"`
	SelectedOptions []SelectedOption `json:"selected_options"`
	Quantity        int              `json:"quantity"`
	// LineTotal is a cache of UnitTotal() * Quantity, refreshed by Recalc on
	// every mutation. Readers must never observe it stale.
	LineTotal int64 `json:"line_total"`
}

// UnitTotal is the per-unit price including option surcharges.
func (li *CartLineItem) UnitTotal() int64 {
	total := li.Product.UnitPrice
	for _, opt := range li.SelectedOptions {
		total += opt.AdditionalPrice
	}
	return total
}

// Recalc refreshes LineTotal from its inputs.
func (li *CartLineItem) Recalc() {
	li.LineTotal = li.UnitTotal() * int64(li.Quantity)
}

// SameOptions reports whether the item's option selection matches opts
// exactly (same names, same surcharges, same order). Selections are resolved
// in option-group order upstream, so ordering is stable.
func (li *CartLineItem) SameOptions(opts []SelectedOption) bool {
	if len(li.SelectedOptions) != len(opts) {
		return false
	}
	for i, o := range opts {
		if li.SelectedOptions[i] != o {
			return false
		}
	}
	return true
}

// Cart is the aggregate persisted as one JSON value under the cart key.
// Insertion order of Items is preserved for display.
type Cart struct {
	Items []CartLineItem `json:"items"`
}

// TotalItemCount sums quantities across all line items.
func (c *Cart) TotalItemCount() int {
	count := 0
	for i := range c.Items {
		count += c.Items[i].Quantity
	}
	return count
}

// TotalPrice sums line totals across all line items.
func (c *Cart) TotalPrice() int64 {
	var total int64
	for i := range c.Items {
		total += c.Items[i].LineTotal
	}
	return total
}
