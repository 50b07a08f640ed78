package sheets

import (
	"fmt"

	"github.com/Veraticus/safe-to-spend/internal/money"
	"github.com/shopspring/decimal"
)

// TabValues renders data as cell values keyed by tab name. Every tab starts
// with a header row.
func TabValues(data TabData) map[string][][]any {
	return map[string][][]any{
		TabSummary:       summaryValues(data),
		TabBudget:        budgetValues(data),
		TabOverBudget:    overBudgetValues(data),
		TabWeeklySummary: weekValues(data),
	}
}

func summaryValues(data TabData) [][]any {
	t := data.Totals
	return [][]any{
		{"Budget Report", fmt.Sprintf("%s - %s", data.RangeStart.Format("Jan 2, 2006"), data.RangeEnd.Format("Jan 2, 2006"))},
		{"Weekly income", cell(t.TotalWeeklyIncome)},
		{"Required expenses", cell(t.TotalWeeklyRequired)},
		{"Discretionary (planned)", cell(t.TotalWeeklyDiscretionaryRaw)},
		{"Discretionary (weekly)", cell(t.TotalWeeklyDiscretionary)},
		{"Loan payments", cell(t.TotalWeeklyLoanPayments)},
		{"Planned savings", cell(t.WeeklyPlannedSavings)},
		{"Safe to spend", cell(t.SafeToSpend)},
		{"Income balance", cell(t.IncomeBalance)},
		{"Debt balance", cell(t.TotalDebtBalance)},
		{"Debt paid", cell(t.TotalDebtPaid)},
		{"Debt progress", money.FormatPercent(t.DebtProgress())},
		{"Saved", cell(t.TotalSaved)},
		{"Savings target", cell(t.TotalSavingsTarget)},
		{"Savings progress", money.FormatPercent(t.SavingsProgress())},
	}
}

func budgetValues(data TabData) [][]any {
	values := make([][]any, 0, len(data.Budget)+1)
	values = append(values, []any{"Category", "Weekly", "Monthly", "Yearly", "In Range", "Spent", "Remaining"})
	for _, row := range data.Budget {
		values = append(values, []any{
			row.Category,
			cell(row.Weekly),
			cell(row.Monthly),
			cell(row.Yearly),
			cell(row.InRange),
			cell(row.Spent),
			cell(row.InRange.Sub(row.Spent)),
		})
	}
	return values
}

func overBudgetValues(data TabData) [][]any {
	values := make([][]any, 0, len(data.OverBudget)+1)
	values = append(values, []any{"Week", "Category", "Available", "Spent", "Over Budget"})
	for _, row := range data.OverBudget {
		values = append(values, []any{
			row.WeekLabel,
			row.Category,
			cell(row.Available),
			cell(row.Spent),
			cell(row.OverBudget),
		})
	}
	return values
}

func weekValues(data TabData) [][]any {
	values := make([][]any, 0, len(data.Weeks)+1)
	values = append(values, []any{"Week Start", "Week End", "Income", "Expenses", "Net"})
	for _, row := range data.Weeks {
		values = append(values, []any{
			row.WeekStart.Format("2006-01-02"),
			row.WeekEnd.Format("2006-01-02"),
			cell(row.Income),
			cell(row.Expenses),
			cell(row.Net),
		})
	}
	return values
}

// cell converts a money amount to a number the Sheets API accepts.
func cell(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}
