// Package money renders rupiah amounts for display. Amounts are whole IDR
// in int64; there is no multi-currency support.
package money

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.Indonesian)

// FormatIDR renders an amount the way the storefront shows prices,
// e.g. 25000 -> "Rp25.000".
func FormatIDR(amount int64) string {
	return printer.Sprintf("Rp%d", amount)
}
