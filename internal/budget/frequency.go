package budget

import (
	"github.com/Veraticus/safe-to-spend/internal/model"
	"github.com/shopspring/decimal"
)

// Conversion constants. A month is counted as 4.33 weeks.
var (
	WeeksPerMonth = decimal.RequireFromString("4.33")
	WeeksPerYear  = decimal.NewFromInt(52)

	two       = decimal.NewFromInt(2)
	thirteen  = decimal.NewFromInt(13)
	twentySix = decimal.NewFromInt(26)
)

// WeeklyAmount converts amount paid once per recurrence period to its weekly
// equivalent. OneTime and unrecognized recurrences contribute zero.
func WeeklyAmount(amount decimal.Decimal, r model.Recurrence) decimal.Decimal {
	switch r {
	case model.Weekly:
		return amount
	case model.BiWeekly:
		return amount.Div(two)
	case model.TwiceAMonth:
		return amount.Mul(two).Div(WeeksPerMonth)
	case model.Monthly:
		return amount.Div(WeeksPerMonth)
	case model.Quarterly:
		return amount.Div(thirteen)
	case model.SemiAnnual:
		return amount.Div(twentySix)
	case model.Yearly:
		return amount.Div(WeeksPerYear)
	default:
		return decimal.Zero
	}
}

// MonthlyEquivalent scales a weekly amount to a month.
func MonthlyEquivalent(weekly decimal.Decimal) decimal.Decimal {
	return weekly.Mul(WeeksPerMonth)
}

// YearlyEquivalent scales a weekly amount to a year.
func YearlyEquivalent(weekly decimal.Decimal) decimal.Decimal {
	return weekly.Mul(WeeksPerYear)
}
