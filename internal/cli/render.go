package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/Veraticus/safe-to-spend/internal/budget"
	"github.com/Veraticus/safe-to-spend/internal/model"
	"github.com/Veraticus/safe-to-spend/internal/money"
	"github.com/Veraticus/safe-to-spend/internal/report"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/shopspring/decimal"
)

const dateLayout = "Jan 02, 2006"

// RenderTotals renders the weekly totals block.
func RenderTotals(t budget.Totals) string {
	lines := []struct {
		label string
		value string
	}{
		{"Weekly income", money.FormatCurrency(t.TotalWeeklyIncome)},
		{"Required expenses", money.FormatCurrency(t.TotalWeeklyRequired)},
		{"Discretionary", money.FormatCurrency(t.TotalWeeklyDiscretionary)},
		{"Loan payments", money.FormatCurrency(t.TotalWeeklyLoanPayments)},
		{"Planned savings", money.FormatCurrency(t.WeeklyPlannedSavings)},
		{"Income balance", money.FormatCurrency(t.IncomeBalance)},
		{"Debt remaining", money.FormatCurrency(t.TotalDebtBalance)},
		{"Debt repaid", money.FormatPercent(t.DebtProgress())},
		{"Savings progress", money.FormatPercent(t.SavingsProgress())},
	}

	var b strings.Builder
	for _, l := range lines {
		fmt.Fprintf(&b, "%-20s %14s\n", l.label, l.value)
	}

	safe := money.FormatCurrency(t.SafeToSpend)
	style := SuccessStyle
	if t.SafeToSpend.IsNegative() {
		style = ErrorStyle
	}
	fmt.Fprintf(&b, "%-20s %14s", BoldStyle.Render("Safe to spend"), style.Render(safe))
	return b.String()
}

// RenderBudgetTable renders weekly budget against range spending per budget line.
func RenderBudgetTable(rep *report.Report) string {
	names := rep.BudgetCategories()
	for name := range rep.Spending {
		if _, ok := rep.Budgets[name]; !ok {
			names = append(names, name)
		}
	}

	rows := make([][]string, 0, len(names))
	over := make(map[int]bool)
	for i, name := range names {
		weekly := rep.Budgets[name]
		remaining := rep.Remaining(name)
		if remaining.IsNegative() {
			over[i] = true
		}
		rows = append(rows, []string{
			name,
			money.FormatCurrency(weekly),
			money.FormatCurrency(budget.MonthlyEquivalent(weekly)),
			money.FormatCurrency(budget.YearlyEquivalent(weekly)),
			money.FormatCurrency(rep.RangeBudget(name)),
			money.FormatCurrency(rep.Spending[name]),
			money.FormatCurrency(remaining),
		})
	}

	return newTable(over).
		Headers("Budget", "Weekly", "Monthly", "Yearly", "In range", "Spent", "Remaining").
		Rows(rows...).
		Render()
}

// RenderOverBudget renders the over-budget rows.
func RenderOverBudget(rows []budget.OverBudgetRow) string {
	if len(rows) == 0 {
		return SuccessStyle.Render(SuccessIcon + " No budget lines over budget")
	}

	data := make([][]string, 0, len(rows))
	for _, r := range rows {
		data = append(data, []string{
			r.WeekLabel,
			r.Category,
			money.FormatCurrency(r.Available),
			money.FormatCurrency(r.Spent),
			money.FormatCurrency(r.OverBudget),
		})
	}
	return newTable(nil).
		Headers("Week", "Budget", "Available", "Spent", "Over").
		Rows(data...).
		Render()
}

// RenderWeeks renders weekly income, expenses and net, most recent first.
func RenderWeeks(weeks []model.WeeklySummary) string {
	if len(weeks) == 0 {
		return SubtleStyle.Render("No transactions in range")
	}

	rows := make([][]string, 0, len(weeks))
	negative := make(map[int]bool)
	for i := len(weeks) - 1; i >= 0; i-- {
		w := weeks[i]
		if w.NetChange.IsNegative() {
			negative[len(rows)] = true
		}
		rows = append(rows, []string{
			w.WeekStart.Format(dateLayout) + " - " + w.WeekEnd.Format(dateLayout),
			money.FormatCurrency(w.TotalIncome),
			money.FormatCurrency(w.TotalExpenses),
			money.FormatCurrency(w.NetChange),
		})
	}
	return newTable(negative).
		Headers("Week", "Income", "Expenses", "Net").
		Rows(rows...).
		Render()
}

// RenderReport writes every section of rep to w.
func RenderReport(w io.Writer, rep *report.Report) error {
	sections := []string{
		FormatTitle(fmt.Sprintf("Budget report %s - %s",
			rep.RangeStart.Format(dateLayout), rep.RangeEnd.Format(dateLayout))),
		RenderBox("Weekly totals", RenderTotals(rep.Totals)),
		"",
		TitleStyle.Render(ChartIcon + " Budget vs spending"),
		RenderBudgetTable(rep),
		"",
		TitleStyle.Render("Over budget"),
		RenderOverBudget(rep.OverBudget),
		"",
		TitleStyle.Render("Weekly summary"),
		RenderWeeks(rep.Weeks),
		renderRangeTotals(rep.RangeTotals),
	}
	if advice := RenderAdvice(rep); advice != "" {
		sections = append(sections, "", advice)
	}

	_, err := fmt.Fprintln(w, strings.Join(sections, "\n"))
	return err
}

// RenderAdvice renders suggestions and the alert, or a warning when advice
// failed. It returns "" when there is nothing to show.
func RenderAdvice(rep *report.Report) string {
	if rep.AdviceErr != nil {
		return FormatWarning("Advice unavailable: " + rep.AdviceErr.Error())
	}

	var parts []string
	if rep.Suggestions != "" {
		parts = append(parts, RenderBox(RobotIcon+" Suggestions", rep.Suggestions))
	}
	if rep.Alert != "" {
		parts = append(parts, RenderBox(WarningIcon+" Alert", rep.Alert))
	}
	return strings.Join(parts, "\n")
}

func renderRangeTotals(t model.WeekTotals) string {
	return SubtleStyle.Render(fmt.Sprintf("Range: income %s, expenses %s, net %s",
		money.FormatCurrency(t.TotalIncome),
		money.FormatCurrency(t.TotalExpenses),
		money.FormatCurrency(t.NetChange)))
}

// RenderAmountLine formats a labeled amount for list output.
func RenderAmountLine(label string, amount decimal.Decimal, detail string) string {
	line := fmt.Sprintf("%-28s %12s", label, money.FormatCurrency(amount))
	if detail != "" {
		line += "  " + SubtleStyle.Render(detail)
	}
	return line
}

// newTable builds a table whose data rows in highlight render in ErrorColor.
func newTable(highlight map[int]bool) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(SubtleStyle).
		StyleFunc(func(row, _ int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return TableHeaderStyle
			case highlight[row]:
				return TableCellStyle.Foreground(ErrorColor)
			default:
				return TableCellStyle
			}
		})
}
