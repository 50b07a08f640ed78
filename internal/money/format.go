package money

import (
	"strings"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// FormatCurrency renders d as dollars with grouped thousands and exactly two
// decimals, e.g. "$24,352.82" or "-$12.00".
func FormatCurrency(d decimal.Decimal) string {
	fixed := d.Abs().StringFixed(2)
	intPart, fracPart, _ := strings.Cut(fixed, ".")

	out := "$" + groupThousands(intPart) + "." + fracPart
	if d.Round(2).IsNegative() {
		return "-" + out
	}
	return out
}

// FormatPercent renders p, already expressed in percent, with one decimal
// and a trailing "%".
func FormatPercent(p decimal.Decimal) string {
	return p.StringFixed(1) + "%"
}

// Percent returns part/whole*100, or zero when whole is not positive.
func Percent(part, whole decimal.Decimal) decimal.Decimal {
	if !whole.IsPositive() {
		return decimal.Zero
	}
	return part.Div(whole).Mul(hundred)
}
