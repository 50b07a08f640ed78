package budget

import (
	"testing"

	"github.com/Veraticus/safe-to-spend/internal/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestWeeklyAmount(t *testing.T) {
	amount := d("1000")
	tests := []struct {
		recurrence model.Recurrence
		want       decimal.Decimal
	}{
		{model.Weekly, d("1000")},
		{model.BiWeekly, d("500")},
		{model.TwiceAMonth, d("2000").Div(d("4.33"))},
		{model.Monthly, d("1000").Div(d("4.33"))},
		{model.Quarterly, d("1000").Div(d("13"))},
		{model.SemiAnnual, d("1000").Div(d("26"))},
		{model.Yearly, d("1000").Div(d("52"))},
		{model.OneTime, decimal.Zero},
		{model.Recurrence("Hourly"), decimal.Zero},
		{model.Recurrence(""), decimal.Zero},
	}

	for _, tt := range tests {
		t.Run(string(tt.recurrence), func(t *testing.T) {
			got := WeeklyAmount(amount, tt.recurrence)
			assert.True(t, got.Equal(tt.want), "got %s want %s", got, tt.want)
		})
	}
}

func TestWeeklyAmount_KnownValues(t *testing.T) {
	assert.Equal(t, "346.42", WeeklyAmount(d("1500"), model.Monthly).StringFixed(2))
	assert.Equal(t, "46.19", WeeklyAmount(d("200"), model.Monthly).StringFixed(2))
	assert.Equal(t, "92.38", WeeklyAmount(d("200"), model.TwiceAMonth).StringFixed(2))
	assert.Equal(t, "10.00", WeeklyAmount(d("520"), model.Yearly).StringFixed(2))
}

func TestWeeklyAmount_Linear(t *testing.T) {
	for _, r := range model.Recurrences {
		for _, a := range []string{"0", "1", "19.99", "1234.56", "100000"} {
			single := WeeklyAmount(d(a), r)
			double := WeeklyAmount(d(a).Mul(two), r)
			assert.True(t, double.Round(8).Equal(single.Mul(two).Round(8)),
				"%s %s: %s vs %s", r, a, double, single.Mul(two))
		}
	}
}

func TestEquivalents(t *testing.T) {
	assert.True(t, MonthlyEquivalent(d("100")).Equal(d("433")))
	assert.True(t, YearlyEquivalent(d("100")).Equal(d("5200")))
}
