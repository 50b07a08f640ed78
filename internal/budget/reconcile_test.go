package budget

import (
	"testing"
	"time"

	"github.com/Veraticus/safe-to-spend/internal/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, dd int) time.Time {
	return time.Date(y, m, dd, 0, 0, 0, 0, time.UTC)
}

func expense(date time.Time, category, amount string) model.Transaction {
	return model.Transaction{Type: model.TypeExpense, Date: date, Category: category, Amount: d(amount)}
}

// March 3 2024 is a Sunday.
var (
	rangeStart = day(2024, time.March, 3)
	rangeEnd   = day(2024, time.March, 16)
)

func reconcileFixture() (map[string]decimal.Decimal, *AliasIndex) {
	s := model.Snapshot{
		RequiredExpenses: []model.RequiredExpense{
			{Category: "Groceries", Amount: d("150"), Recurrence: model.Weekly},
		},
		DiscretionaryExpenses: []model.DiscretionaryExpense{
			{Category: "Dining Out", Name: "Dining", PlannedAmount: d("50")},
		},
	}
	return CategoryBudgets(s), NewAliasIndex(s)
}

func TestWeeks(t *testing.T) {
	tests := []struct {
		name      string
		start     time.Time
		end       time.Time
		weekStart time.Weekday
		want      []time.Time
	}{
		{
			name:      "aligned sunday weeks",
			weekStart: time.Sunday,
			start:     rangeStart,
			end:       rangeEnd,
			want:      []time.Time{day(2024, time.March, 3), day(2024, time.March, 10)},
		},
		{
			name:      "monday weeks start before the range",
			weekStart: time.Monday,
			start:     day(2024, time.March, 6),
			end:       day(2024, time.March, 12),
			want:      []time.Time{day(2024, time.March, 4), day(2024, time.March, 11)},
		},
		{
			name:      "single day",
			weekStart: time.Saturday,
			start:     day(2024, time.March, 6),
			end:       day(2024, time.March, 6),
			want:      []time.Time{day(2024, time.March, 2)},
		},
		{
			name:      "inverted range",
			weekStart: time.Sunday,
			start:     rangeEnd,
			end:       rangeStart,
			want:      nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			weeks := Weeks(tt.weekStart, tt.start, tt.end)
			require.Len(t, weeks, len(tt.want))
			for i, w := range weeks {
				assert.True(t, w.Start.Equal(tt.want[i]), "week %d starts %s", i, w.Start)
				assert.Equal(t, tt.weekStart, w.Start.Weekday())
				assert.True(t, w.End.Equal(w.Start.AddDate(0, 0, 6)))
			}
		})
	}
}

func TestWeek_ContainsWholeLastDay(t *testing.T) {
	w := Weeks(time.Sunday, rangeStart, rangeStart)[0]

	assert.True(t, w.Contains(rangeStart))
	assert.True(t, w.Contains(day(2024, time.March, 9).Add(23*time.Hour+59*time.Minute)))
	assert.False(t, w.Contains(day(2024, time.March, 10)))
	assert.False(t, w.Contains(rangeStart.Add(-time.Second)))
	assert.Equal(t, "Mar 03 - Mar 09, 2024", w.Label())
}

func TestOverBudgetRows_ExactBudgetAndEpsilon(t *testing.T) {
	budgets, idx := reconcileFixture()
	txns := []model.Transaction{
		expense(day(2024, time.March, 4), "Groceries", "100"),
		expense(day(2024, time.March, 6), "Groceries", "50"),
		expense(day(2024, time.March, 11), "Groceries", "150.02"),
	}

	rows := OverBudgetRows(txns, budgets, idx, time.Sunday, rangeStart, rangeEnd)

	require.Len(t, rows, 1)
	assert.Equal(t, "Groceries", rows[0].Category)
	assert.True(t, rows[0].OverBudget.Equal(d("0.02")))
	assert.True(t, rows[0].Spent.Equal(d("150.02")))
	assert.True(t, rows[0].Available.Equal(d("150")))
	assert.Equal(t, "Mar 10 - Mar 16, 2024", rows[0].WeekLabel)
}

func TestOverBudgetRows_AtEpsilonIsOnBudget(t *testing.T) {
	budgets, idx := reconcileFixture()
	txns := []model.Transaction{expense(day(2024, time.March, 4), "Groceries", "150.01")}

	assert.Empty(t, OverBudgetRows(txns, budgets, idx, time.Sunday, rangeStart, rangeEnd))
}

func TestOverBudgetRows_EmptyWeeksProduceNothing(t *testing.T) {
	budgets, idx := reconcileFixture()
	txns := []model.Transaction{
		expense(day(2024, time.March, 12), "Dining Out", "80"),
		{Type: model.TypeIncome, Date: day(2024, time.March, 5), Category: "Groceries", Amount: d("900")},
	}

	rows := OverBudgetRows(txns, budgets, idx, time.Sunday, rangeStart, rangeEnd)

	require.Len(t, rows, 1)
	assert.True(t, rows[0].WeekStart.Equal(day(2024, time.March, 10)))
	assert.Equal(t, "Dining", rows[0].Category)
	assert.True(t, rows[0].OverBudget.Equal(d("30")))
}

func TestOverBudgetRows_SortedWeekDescThenCategory(t *testing.T) {
	budgets, idx := reconcileFixture()
	txns := []model.Transaction{
		expense(day(2024, time.March, 5), "Groceries", "200"),
		expense(day(2024, time.March, 13), "Dining", "60"),
		expense(day(2024, time.March, 4), "Dining Out", "70"),
		expense(day(2024, time.March, 12), "Groceries", "151"),
	}

	rows := OverBudgetRows(txns, budgets, idx, time.Sunday, rangeStart, rangeEnd)

	require.Len(t, rows, 4)
	got := make([]string, len(rows))
	for i, r := range rows {
		got[i] = r.WeekStart.Format("01-02") + " " + r.Category
	}
	assert.Equal(t, []string{
		"03-10 Dining",
		"03-10 Groceries",
		"03-03 Dining",
		"03-03 Groceries",
	}, got)
}

func TestOverBudgetRows_UnmatchedAndUnknownTypes(t *testing.T) {
	budgets, idx := reconcileFixture()
	txns := []model.Transaction{
		expense(day(2024, time.March, 4), "Parking", "12"),
		{Type: model.TransactionType("Refund"), Date: day(2024, time.March, 4), Category: "Parking", Amount: d("3")},
	}

	rows := OverBudgetRows(txns, budgets, idx, time.Sunday, rangeStart, rangeEnd)

	require.Len(t, rows, 1)
	assert.Equal(t, "Parking", rows[0].Category)
	assert.True(t, rows[0].Available.IsZero())
	assert.True(t, rows[0].Spent.Equal(d("15")))
}

func TestOverBudgetRows_NilIndexAndOutOfRange(t *testing.T) {
	txns := []model.Transaction{
		expense(day(2024, time.February, 1), "Groceries", "500"),
		expense(day(2024, time.March, 4), "Groceries", "5"),
	}

	rows := OverBudgetRows(txns, nil, nil, time.Sunday, rangeStart, rangeEnd)

	require.Len(t, rows, 1)
	assert.True(t, rows[0].Spent.Equal(d("5")))
}
