package budget

import (
	"time"

	"github.com/Veraticus/safe-to-spend/internal/model"
)

// Summarize totals income and expenses across txns. Any type other than
// Income counts as an expense. Callers filter by date beforehand.
func Summarize(txns []model.Transaction) model.WeekTotals {
	var totals model.WeekTotals
	for _, txn := range txns {
		if txn.Type.IsIncome() {
			totals.TotalIncome = totals.TotalIncome.Add(txn.Amount)
		} else {
			totals.TotalExpenses = totals.TotalExpenses.Add(txn.Amount)
		}
	}
	totals.NetChange = totals.TotalIncome.Sub(totals.TotalExpenses)
	return totals
}

// WeeklySummaries summarizes txns for every week of the range, including
// weeks without transactions. Results are oldest first.
func WeeklySummaries(txns []model.Transaction, weekStart time.Weekday, rangeStart, rangeEnd time.Time) []model.WeeklySummary {
	weeks := Weeks(weekStart, rangeStart, rangeEnd)
	summaries := make([]model.WeeklySummary, 0, len(weeks))

	for _, week := range weeks {
		var inWeek []model.Transaction
		for _, txn := range txns {
			if week.Contains(txn.Date) {
				inWeek = append(inWeek, txn)
			}
		}
		summaries = append(summaries, model.WeeklySummary{
			WeekStart:  week.Start,
			WeekEnd:    week.End,
			WeekTotals: Summarize(inWeek),
		})
	}

	return summaries
}

// CompletedWeeks returns the weeks of the range that ended before now.
func CompletedWeeks(weekStart time.Weekday, rangeStart, now time.Time) []Week {
	var done []Week
	for _, w := range Weeks(weekStart, rangeStart, now) {
		if w.End.AddDate(0, 0, 1).After(now) {
			break
		}
		done = append(done, w)
	}
	return done
}
