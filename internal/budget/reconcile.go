package budget

import (
	"sort"
	"time"

	"github.com/Veraticus/safe-to-spend/internal/model"
	"github.com/shopspring/decimal"
)

// OverBudgetEpsilon is the smallest overspend reported. Anything at or below
// it is treated as on budget.
var OverBudgetEpsilon = decimal.New(1, -2)

// Week is one calendar week. Start is midnight of the first day and End is
// midnight of the seventh; the whole of the End day belongs to the week.
type Week struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether t falls on any day of the week.
func (w Week) Contains(t time.Time) bool {
	return !t.Before(w.Start) && t.Before(w.End.AddDate(0, 0, 1))
}

// Label renders the week as "Jan 02 - Jan 08, 2006".
func (w Week) Label() string {
	return w.Start.Format("Jan 02") + " - " + w.End.Format("Jan 02, 2006")
}

// Weeks partitions [rangeStart, rangeEnd] into calendar weeks beginning on
// weekStart. The first week starts on or before rangeStart and the last one
// contains rangeEnd, so edge weeks may extend past the range. Days are
// computed in rangeStart's location. An inverted range yields no weeks.
func Weeks(weekStart time.Weekday, rangeStart, rangeEnd time.Time) []Week {
	if rangeEnd.Before(rangeStart) {
		return nil
	}

	loc := rangeStart.Location()
	day := startOfDay(rangeStart)
	offset := (int(day.Weekday()) - int(weekStart) + 7) % 7
	start := day.AddDate(0, 0, -offset)
	last := startOfDay(rangeEnd.In(loc))

	var weeks []Week
	for !start.After(last) {
		weeks = append(weeks, Week{Start: start, End: start.AddDate(0, 0, 6)})
		start = start.AddDate(0, 0, 7)
	}
	return weeks
}

// OverBudgetRow is one week and category where spending exceeded the weekly budget.
type OverBudgetRow struct {
	WeekStart  time.Time
	WeekEnd    time.Time
	WeekLabel  string
	Category   string
	Available  decimal.Decimal
	Spent      decimal.Decimal
	OverBudget decimal.Decimal
}

// OverBudgetRows buckets expense transactions into the weeks of the range,
// sums spending per budget line and returns every week and category whose
// spending beats its weekly budget by more than OverBudgetEpsilon.
//
// Categories that resolve to no budget line are kept under their own name
// with nothing available. Income transactions are ignored; any other type
// counts as an expense. Rows are ordered most recent week first, then by
// category.
func OverBudgetRows(
	txns []model.Transaction,
	budgets map[string]decimal.Decimal,
	index *AliasIndex,
	weekStart time.Weekday,
	rangeStart, rangeEnd time.Time,
) []OverBudgetRow {
	if index == nil {
		index = &AliasIndex{}
	}

	var rows []OverBudgetRow
	for _, week := range Weeks(weekStart, rangeStart, rangeEnd) {
		spent := make(map[string]decimal.Decimal)
		for _, txn := range txns {
			if txn.Type.IsIncome() || !week.Contains(txn.Date) {
				continue
			}
			bucket := index.Bucket(txn.Category)
			spent[bucket] = spent[bucket].Add(txn.Amount)
		}

		for category, amount := range spent {
			available := budgets[category]
			over := amount.Sub(available)
			if !over.GreaterThan(OverBudgetEpsilon) {
				continue
			}
			rows = append(rows, OverBudgetRow{
				WeekStart:  week.Start,
				WeekEnd:    week.End,
				WeekLabel:  week.Label(),
				Category:   category,
				Available:  available,
				Spent:      amount,
				OverBudget: over,
			})
		}
	}

	sort.Slice(rows, func(i, j int) bool {
		if !rows[i].WeekStart.Equal(rows[j].WeekStart) {
			return rows[i].WeekStart.After(rows[j].WeekStart)
		}
		return rows[i].Category < rows[j].Category
	})

	return rows
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
