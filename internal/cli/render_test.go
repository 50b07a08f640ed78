package cli

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/Veraticus/safe-to-spend/internal/budget"
	"github.com/Veraticus/safe-to-spend/internal/common"
	"github.com/Veraticus/safe-to-spend/internal/model"
	"github.com/Veraticus/safe-to-spend/internal/report"
	"github.com/Veraticus/safe-to-spend/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(m time.Month, d int) time.Time {
	return time.Date(2024, m, d, 0, 0, 0, 0, time.UTC)
}

func sampleReport() *report.Report {
	return report.Compute(report.Input{
		RangeStart: day(time.March, 3),
		RangeEnd:   day(time.March, 16),
		Snapshot:   testutil.ScenarioSnapshot(),
		WeekStart:  time.Sunday,
		Transactions: []model.Transaction{
			testutil.Expense(day(time.March, 5), "Groceries", "180"),
			testutil.Income(day(time.March, 8), "Salary", "346"),
			testutil.Expense(day(time.March, 12), "Dining Out", "40"),
			testutil.Expense(day(time.March, 13), "Coffee", "10"),
		},
	})
}

func TestRenderTotals(t *testing.T) {
	out := RenderTotals(sampleReport().Totals)

	assert.Contains(t, out, "Weekly income")
	assert.Contains(t, out, "$346.42")
	assert.Contains(t, out, "Safe to spend")
	assert.Contains(t, out, "%")
}

func TestRenderBudgetTable(t *testing.T) {
	out := RenderBudgetTable(sampleReport())

	for _, want := range []string{"Budget", "Yearly", "In range", "Remaining", "Groceries", "$150.00", "$7,800.00", "$180.00", "Coffee", "-$10.00"} {
		assert.Contains(t, out, want)
	}
}

func TestRenderBudgetTable_ComparesRangeBudget(t *testing.T) {
	// Two weeks at $150/week: $180 spent leaves $120, not -$30.
	out := RenderBudgetTable(sampleReport())
	assert.Contains(t, out, "$300.00")
	assert.Contains(t, out, "$120.00")
	assert.NotContains(t, out, "-$30.00")

	fourWeeks := report.Compute(report.Input{
		RangeStart:   day(time.February, 18),
		RangeEnd:     day(time.March, 16),
		Snapshot:     testutil.ScenarioSnapshot(),
		WeekStart:    time.Sunday,
		Transactions: []model.Transaction{testutil.Expense(day(time.March, 12), "Groceries", "650")},
	})
	out = RenderBudgetTable(fourWeeks)
	assert.Contains(t, out, "$600.00")
	assert.Contains(t, out, "-$50.00")
}

func TestRenderOverBudget(t *testing.T) {
	assert.Contains(t, RenderOverBudget(nil), "No budget lines over budget")

	out := RenderOverBudget(sampleReport().OverBudget)
	assert.Contains(t, out, "Mar 10 - Mar 16, 2024")
	assert.Contains(t, out, "Coffee")
	assert.Contains(t, out, "$30.00")
}

func TestRenderWeeks(t *testing.T) {
	assert.Contains(t, RenderWeeks(nil), "No transactions")

	out := RenderWeeks(sampleReport().Weeks)
	recent := bytes.Index([]byte(out), []byte("Mar 10, 2024"))
	older := bytes.Index([]byte(out), []byte("Mar 03, 2024"))
	require.NotEqual(t, -1, recent)
	require.NotEqual(t, -1, older)
	assert.Less(t, recent, older, "most recent week first")
	assert.Contains(t, out, "$166.00")
}

func TestRenderAdvice(t *testing.T) {
	tests := []struct {
		name    string
		rep     report.Report
		want    []string
		wantOut bool
	}{
		{
			name: "nothing requested",
		},
		{
			name:    "suggestions and alert",
			rep:     report.Report{Suggestions: "Cook at home.", Alert: "You are over on coffee."},
			want:    []string{"Suggestions", "Cook at home.", "Alert", "over on coffee"},
			wantOut: true,
		},
		{
			name:    "failure",
			rep:     report.Report{AdviceErr: common.ErrAdvisorUnavailable, Suggestions: "ignored"},
			want:    []string{"Advice unavailable", "advisor unavailable"},
			wantOut: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := RenderAdvice(&tt.rep)
			if !tt.wantOut {
				assert.Empty(t, out)
				return
			}
			for _, w := range tt.want {
				assert.Contains(t, out, w)
			}
			assert.NotContains(t, out, "ignored")
		})
	}
}

func TestRenderReport(t *testing.T) {
	rep := sampleReport()
	rep.Suggestions = "Skip the coffee."

	var buf bytes.Buffer
	require.NoError(t, RenderReport(&buf, rep))

	out := buf.String()
	for _, want := range []string{
		"Budget report Mar 03, 2024 - Mar 16, 2024",
		"Weekly totals",
		"Budget vs spending",
		"Over budget",
		"Weekly summary",
		"Range: income $346.00, expenses $230.00",
		"Skip the coffee.",
	} {
		assert.Contains(t, out, want)
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("closed") }

func TestRenderReport_WriteError(t *testing.T) {
	assert.Error(t, RenderReport(failingWriter{}, &report.Report{Totals: budget.Totals{}}))
}

func TestRenderAmountLine(t *testing.T) {
	line := RenderAmountLine("Groceries", testutil.Amount("1234.5"), "Weekly")
	assert.Contains(t, line, "Groceries")
	assert.Contains(t, line, "$1,234.50")
	assert.Contains(t, line, "Weekly")
	assert.NotContains(t, RenderAmountLine("Rent", testutil.Amount("1"), ""), "  Weekly")
}
