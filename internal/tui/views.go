package tui

import (
	"fmt"
	"strings"

	"github.com/Veraticus/safe-to-spend/internal/budget"
	"github.com/Veraticus/safe-to-spend/internal/model"
	"github.com/Veraticus/safe-to-spend/internal/money"
	"github.com/Veraticus/safe-to-spend/internal/report"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
)

// headerHeight is the number of lines above the table.
const headerHeight = 7

// View renders the UI.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if m.report == nil {
		return m.renderLoading()
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader(),
		m.renderTabs(),
		m.table.View(),
		m.renderStatus(),
		m.help.View(m.keymap),
	)
}

func (m Model) renderLoading() string {
	text := m.spinner.View() + " Loading budget..."
	if m.lastErr != nil {
		text = m.theme.Negative.Render("Failed to load report: " + m.lastErr.Error())
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
		lipgloss.JoinVertical(lipgloss.Center, text, "", m.help.View(m.keymap)))
}

func (m Model) renderHeader() string {
	t := m.report.Totals
	safe := m.theme.Positive
	if t.SafeToSpend.IsNegative() {
		safe = m.theme.Negative
	}

	title := m.theme.Title.Render(fmt.Sprintf("%s  %s - %s",
		m.Range().Description(),
		m.report.RangeStart.Format("Jan 02, 2006"),
		m.report.RangeEnd.Format("Jan 02, 2006")))

	left := strings.Join([]string{
		"Safe to spend  " + safe.Render(money.FormatCurrency(t.SafeToSpend)),
		"Weekly income  " + money.FormatCurrency(t.TotalWeeklyIncome),
		"Weekly budget  " + money.FormatCurrency(m.report.WeeklySpendingBudget()),
	}, "\n")
	right := strings.Join([]string{
		"This week spent  " + money.FormatCurrency(m.report.CurrentWeek.TotalExpenses),
		"Savings          " + money.FormatPercent(t.SavingsProgress()),
		"Debt repaid      " + money.FormatPercent(t.DebtProgress()),
	}, "\n")

	return lipgloss.JoinVertical(lipgloss.Left,
		title,
		lipgloss.JoinHorizontal(lipgloss.Top, m.theme.Box.Render(left), " ", m.theme.Box.Render(right)),
	)
}

func (m Model) renderTabs() string {
	tabs := make([]string, len(tabNames))
	for i, name := range tabNames {
		if Tab(i) == m.tab {
			tabs[i] = m.theme.ActiveTab.Render(name)
		} else {
			tabs[i] = m.theme.InactiveTab.Render(name)
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) renderStatus() string {
	switch {
	case m.loading:
		return m.spinner.View() + m.theme.Status.Render(" refreshing...")
	case m.lastErr != nil:
		return m.theme.Negative.Render("Refresh failed: " + m.lastErr.Error())
	case m.tab == TabOverBudget && len(m.report.OverBudget) == 0:
		return m.theme.Positive.Render("Nothing over budget")
	default:
		return m.theme.Status.Render(fmt.Sprintf("%d over budget", len(m.report.OverBudget)))
	}
}

// tableFor returns the columns and rows of a dashboard tab sized to width.
func tableFor(tab Tab, rep *report.Report, width int) ([]table.Column, []table.Row) {
	switch tab {
	case TabOverBudget:
		return columns(width, "Week", "Budget", "Available", "Spent", "Over"), overBudgetRows(rep.OverBudget)
	case TabWeeks:
		return columns(width, "Week", "Income", "Expenses", "Net"), weekRows(rep.Weeks)
	default:
		return columns(width, "Budget", "Weekly", "In range", "Spent", "Remaining"), budgetRows(rep)
	}
}

// columns splits width evenly, giving the first column double share.
func columns(width int, titles ...string) []table.Column {
	unit := width / (len(titles) + 1)
	if unit < 10 {
		unit = 10
	}
	cols := make([]table.Column, len(titles))
	for i, title := range titles {
		w := unit
		if i == 0 {
			w = unit * 2
		}
		cols[i] = table.Column{Title: title, Width: w - 2}
	}
	return cols
}

func budgetRows(rep *report.Report) []table.Row {
	rows := make([]table.Row, 0, len(rep.Budgets))
	for _, name := range rep.BudgetCategories() {
		rows = append(rows, table.Row{
			name,
			money.FormatCurrency(rep.Budgets[name]),
			money.FormatCurrency(rep.RangeBudget(name)),
			money.FormatCurrency(rep.Spending[name]),
			money.FormatCurrency(rep.Remaining(name)),
		})
	}
	return rows
}

func overBudgetRows(over []budget.OverBudgetRow) []table.Row {
	rows := make([]table.Row, 0, len(over))
	for _, r := range over {
		rows = append(rows, table.Row{
			r.WeekLabel,
			r.Category,
			money.FormatCurrency(r.Available),
			money.FormatCurrency(r.Spent),
			money.FormatCurrency(r.OverBudget),
		})
	}
	return rows
}

func weekRows(weeks []model.WeeklySummary) []table.Row {
	rows := make([]table.Row, 0, len(weeks))
	for i := len(weeks) - 1; i >= 0; i-- {
		w := weeks[i]
		rows = append(rows, table.Row{
			budget.Week{Start: w.WeekStart, End: w.WeekEnd}.Label(),
			money.FormatCurrency(w.TotalIncome),
			money.FormatCurrency(w.TotalExpenses),
			money.FormatCurrency(w.NetChange),
		})
	}
	return rows
}
