package utils

import "github.com/shopspring/decimal"

// FormatAmount renders a money value with exactly two decimal places.
// Internal math keeps full precision; this is the display boundary.
func FormatAmount(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// FormatPrice prepends the currency symbol, e.g. "$157.50".
func FormatPrice(currency string, d decimal.Decimal) string {
	return currency + FormatAmount(d)
}
