package checkout

import "strings"

// Discount is a display-level promo estimate. The backend revalidates the
// code and owns the final amount; this table only previews the discount in
// the cart view.
type Discount struct {
	Percent int
	Flat    int64
}

// Apply returns the discount amount for a subtotal, never exceeding it.
func (d Discount) Apply(subtotal int64) int64 {
	discount := d.Flat + subtotal*int64(d.Percent)/100
	if discount > subtotal {
		return subtotal
	}
	return discount
}

var promoTable = map[string]Discount{
	"KOPI10":    {Percent: 10},
	"NGOPI15":   {Percent: 15},
	"HEMAT5000": {Flat: 5000},
}

// LookupPromo resolves a promo code from the static table. Codes are
// case-insensitive.
func LookupPromo(code string) (Discount, bool) {
	d, ok := promoTable[strings.ToUpper(strings.TrimSpace(code))]
	return d, ok
}
