package money

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFormatAmountInput(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", "0"},
		{"plain integer", "1234", "1,234"},
		{"leading zeros", "000042", "42"},
		{"only zeros", "000", "0"},
		{"currency noise", "$1,234,567.8", "1,234,567.8"},
		{"truncates cents", "1234.567", "1,234.56"},
		{"no rounding", "9.999", "9.99"},
		{"trailing dot kept", "12.", "12."},
		{"bare dot", ".", "0."},
		{"leading dot", ".5", "0.5"},
		{"second dot ends fraction", "1.2.3", "1.2"},
		{"letters dropped", "abc", "0"},
		{"minus dropped", "-5", "5"},
		{"large", "123456789012345678901234", "123,456,789,012,345,678,901,234"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FormatAmountInput(tt.in)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, got, FormatAmountInput(got), "not idempotent")
		})
	}
}

func TestParseFormattedAmount(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", "0"},
		{"letters", "abc", "0"},
		{"minus sign stripped", "-5", "5"},
		{"currency", "$24,352.82", "24352.82"},
		{"trailing dot", "12.", "12"},
		{"leading dot", ".75", "0.75"},
		{"bare dot", ".", "0"},
		{"multiple dots", "1.2.3", "1.2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseFormattedAmount(tt.in)
			assert.True(t, got.Equal(decimal.RequireFromString(tt.want)), "got %s", got)
		})
	}
}

func TestParseFormatRoundTrip(t *testing.T) {
	got := ParseFormattedAmount(FormatAmountInput("1234.567"))
	assert.Equal(t, "1234.56", got.String())

	for _, in := range []string{"0", "7", "1000", "1000.5", "99.99", "1234567.1"} {
		assert.True(t,
			ParseFormattedAmount(FormatAmountInput(in)).Equal(ParseFormattedAmount(in)),
			"round trip %q", in)
	}
}

func TestFormatCurrency(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"24352.82", "$24,352.82"},
		{"0", "$0.00"},
		{"5", "$5.00"},
		{"1000000", "$1,000,000.00"},
		{"-12", "-$12.00"},
		{"46.18937644", "$46.19"},
		{"-0.001", "$0.00"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatCurrency(decimal.RequireFromString(tt.in)))
		})
	}
}

func TestFormatPercent(t *testing.T) {
	assert.Equal(t, "25.0%", FormatPercent(decimal.NewFromInt(25)))
	assert.Equal(t, "33.3%", FormatPercent(Percent(decimal.NewFromInt(1), decimal.NewFromInt(3))))
	assert.Equal(t, "0.0%", FormatPercent(Percent(decimal.NewFromInt(1), decimal.Zero)))
}
