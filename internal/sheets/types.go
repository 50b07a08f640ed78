package sheets

import (
	"time"

	"github.com/Veraticus/safe-to-spend/internal/budget"
	"github.com/Veraticus/safe-to-spend/internal/report"
	"github.com/shopspring/decimal"
)

// Tab names, in spreadsheet order.
const (
	TabSummary       = "Summary"
	TabBudget        = "Budget"
	TabOverBudget    = "Over Budget"
	TabWeeklySummary = "Weekly Summary"
)

// Tabs lists every tab the writer maintains.
var Tabs = []string{TabSummary, TabBudget, TabOverBudget, TabWeeklySummary}

// BudgetRow is one line of the Budget tab.
type BudgetRow struct {
	Category string
	Weekly   decimal.Decimal
	Monthly  decimal.Decimal
	Yearly   decimal.Decimal
	InRange  decimal.Decimal // Weekly scaled to the report range
	Spent    decimal.Decimal // Over the report range
}

// WeekRow is one line of the Weekly Summary tab.
type WeekRow struct {
	WeekStart time.Time
	WeekEnd   time.Time
	Income    decimal.Decimal
	Expenses  decimal.Decimal
	Net       decimal.Decimal
}

// TabData holds everything written to the spreadsheet.
type TabData struct {
	RangeStart time.Time
	RangeEnd   time.Time
	Totals     budget.Totals
	Budget     []BudgetRow
	OverBudget []budget.OverBudgetRow
	Weeks      []WeekRow // Most recent first
}

// NewTabData flattens a report into rows.
func NewTabData(rep *report.Report) TabData {
	data := TabData{
		RangeStart: rep.RangeStart,
		RangeEnd:   rep.RangeEnd,
		Totals:     rep.Totals,
		OverBudget: rep.OverBudget,
	}

	for _, name := range rep.BudgetCategories() {
		weekly := rep.Budgets[name]
		data.Budget = append(data.Budget, BudgetRow{
			Category: name,
			Weekly:   weekly,
			Monthly:  budget.MonthlyEquivalent(weekly),
			Yearly:   budget.YearlyEquivalent(weekly),
			InRange:  rep.RangeBudget(name),
			Spent:    rep.Spending[name],
		})
	}

	for i := len(rep.Weeks) - 1; i >= 0; i-- {
		w := rep.Weeks[i]
		data.Weeks = append(data.Weeks, WeekRow{
			WeekStart: w.WeekStart,
			WeekEnd:   w.WeekEnd,
			Income:    w.TotalIncome,
			Expenses:  w.TotalExpenses,
			Net:       w.NetChange,
		})
	}

	return data
}
