// Package money parses and formats user-entered currency amounts.
package money

import (
	"math/big"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

// FormatAmountInput normalizes text typed into an amount field. It keeps
// digits and dots, strips leading zeros and groups thousands with commas.
// The fraction is whatever sits between the first and second dot, truncated
// to two digits. A trailing "." is preserved so the user can keep typing
// cents. The result is stable when fed back in.
func FormatAmountInput(raw string) string {
	cleaned := keepDigitsAndDots(raw)

	intPart, fracPart, hasDot := strings.Cut(cleaned, ".")
	intPart = strings.TrimLeft(intPart, "0")
	if intPart == "" {
		intPart = "0"
	}

	out := groupThousands(intPart)
	if !hasDot {
		return out
	}

	fracPart, _, _ = strings.Cut(fracPart, ".")
	if len(fracPart) > 2 {
		fracPart = fracPart[:2]
	}
	return out + "." + fracPart
}

// ParseFormattedAmount converts display text such as "$1,234.56" to a
// decimal. Anything that is not a digit or a dot is discarded first, so a
// leading minus sign is dropped and "-5" parses as 5. Text that holds no
// number parses as zero.
func ParseFormattedAmount(text string) decimal.Decimal {
	cleaned := keepDigitsAndDots(text)

	// "1.2.3" parses as 1.2, matching a float parser that stops at the first
	// character it cannot use.
	if first := strings.IndexByte(cleaned, '.'); first >= 0 {
		if second := strings.IndexByte(cleaned[first+1:], '.'); second >= 0 {
			cleaned = cleaned[:first+1+second]
		}
	}
	cleaned = strings.TrimSuffix(cleaned, ".")
	if cleaned == "" || cleaned == "." {
		return decimal.Zero
	}
	if strings.HasPrefix(cleaned, ".") {
		cleaned = "0" + cleaned
	}

	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero
	}
	return d
}

func keepDigitsAndDots(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == '.' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// groupThousands inserts commas into a string of decimal digits.
func groupThousands(digits string) string {
	n, ok := new(big.Int).SetString(digits, 10)
	if !ok {
		return digits
	}
	return humanize.BigComma(n)
}
