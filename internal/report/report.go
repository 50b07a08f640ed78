// Package report assembles the budget numbers for a date range and, when
// asked, decorates them with advice. Numbers are always computed first;
// advice failures are recorded on the report and never change them.
package report

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/Veraticus/safe-to-spend/internal/advisor"
	"github.com/Veraticus/safe-to-spend/internal/budget"
	"github.com/Veraticus/safe-to-spend/internal/model"
	"github.com/Veraticus/safe-to-spend/internal/money"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// DefaultAdviceTimeout bounds the advice requests made by Build.
const DefaultAdviceTimeout = 45 * time.Second

// maxHistoryRows caps the over-budget rows sent along with an alert request.
const maxHistoryRows = 5

// Input is everything needed to build a report.
type Input struct {
	RangeStart   time.Time
	RangeEnd     time.Time
	Snapshot     model.Snapshot
	Transactions []model.Transaction
	WeekStart    time.Weekday
	Advise       bool
}

// Report is the computed view of a user's budget over a range.
type Report struct {
	RangeStart  time.Time
	RangeEnd    time.Time
	AdviceErr   error // Set when advice was requested but could not be fetched
	Budgets     map[string]decimal.Decimal
	Spending    map[string]decimal.Decimal // Expense totals per budget bucket within the range
	RangeWeeks  decimal.Decimal            // Calendar days in the range divided by seven
	Suggestions string
	Alert       string
	OverBudget  []budget.OverBudgetRow // Whole weeks overlapping the range
	Weeks       []model.WeeklySummary  // Whole weeks overlapping the range, oldest first
	Totals      budget.Totals
	RangeTotals model.WeekTotals
	CurrentWeek model.WeekTotals // Totals for the week containing RangeEnd
}

// WeeklySpendingBudget is the weekly amount planned for required and
// discretionary spending.
func (r *Report) WeeklySpendingBudget() decimal.Decimal {
	return r.Totals.TotalWeeklyRequired.Add(r.Totals.TotalWeeklyDiscretionary)
}

// RangeBudget scales a weekly budget to the length of the report range so it
// can be compared with Spending.
func (r *Report) RangeBudget(name string) decimal.Decimal {
	return r.Budgets[name].Mul(r.RangeWeeks).Round(2)
}

// Remaining is the range budget for name minus what was spent against it.
func (r *Report) Remaining(name string) decimal.Decimal {
	return r.RangeBudget(name).Sub(r.Spending[name])
}

// BudgetCategories returns the budget names sorted alphabetically.
func (r *Report) BudgetCategories() []string {
	names := make([]string, 0, len(r.Budgets))
	for name := range r.Budgets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Builder builds reports, fetching advice through a Gateway.
type Builder struct {
	advisor advisor.Gateway
	logger  *slog.Logger
	timeout time.Duration
}

// NewBuilder creates a Builder. A nil gateway disables advice.
func NewBuilder(gateway advisor.Gateway, timeout time.Duration, logger *slog.Logger) *Builder {
	if gateway == nil {
		gateway = advisor.Noop{}
	}
	if timeout <= 0 {
		timeout = DefaultAdviceTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Builder{advisor: gateway, timeout: timeout, logger: logger.With("component", "report")}
}

// Build computes the report for in. It never fails: advice errors are
// stored in Report.AdviceErr.
func (b *Builder) Build(ctx context.Context, in Input) *Report {
	rep := Compute(in)
	if !in.Advise {
		return rep
	}

	adviceCtx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	suggestions, alert, err := b.advise(adviceCtx, rep)
	rep.Suggestions = suggestions
	rep.Alert = alert
	if err != nil {
		b.logger.Warn("advice unavailable", "error", err)
		rep.AdviceErr = err
	}
	return rep
}

// Compute builds the numeric part of a report.
func Compute(in Input) *Report {
	rangeStart := effectiveStart(in.RangeStart, in.Transactions)
	inRange := filterRange(in.Transactions, rangeStart, in.RangeEnd)
	index := budget.NewAliasIndex(in.Snapshot)
	budgets := budget.CategoryBudgets(in.Snapshot)

	rep := &Report{
		RangeStart:  rangeStart,
		RangeEnd:    in.RangeEnd,
		Totals:      budget.Aggregate(in.Snapshot),
		Budgets:     budgets,
		Spending:    spendingByBucket(inRange, index),
		RangeWeeks:  rangeWeeks(rangeStart, in.RangeEnd),
		OverBudget:  budget.OverBudgetRows(in.Transactions, budgets, index, in.WeekStart, rangeStart, in.RangeEnd),
		Weeks:       budget.WeeklySummaries(in.Transactions, in.WeekStart, rangeStart, in.RangeEnd),
		RangeTotals: budget.Summarize(inRange),
	}
	if n := len(rep.Weeks); n > 0 {
		rep.CurrentWeek = rep.Weeks[n-1].WeekTotals
	}
	return rep
}

func (b *Builder) advise(ctx context.Context, rep *Report) (string, string, error) {
	spendingJSON, err := json.Marshal(spendingFloats(rep.Spending))
	if err != nil {
		return "", "", fmt.Errorf("failed to encode spending: %w", err)
	}

	var suggestions advisor.Suggestions
	var alert advisor.Alert
	var suggestErr, alertErr error

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		suggestions, suggestErr = b.advisor.SuggestBudgetImprovements(gctx, string(spendingJSON), rep.WeeklySpendingBudget())
		return nil
	})
	g.Go(func() error {
		alert, alertErr = b.advisor.BudgetAlert(gctx, rep.WeeklySpendingBudget(), rep.CurrentWeek.TotalExpenses, historySummary(rep.OverBudget))
		return nil
	})
	_ = g.Wait()

	return suggestions.Text, alert.Message, errors.Join(suggestErr, alertErr)
}

// effectiveStart moves an AllTime start forward to the earliest transaction
// so it does not produce decades of empty weeks. Bounded ranges keep their
// start.
func effectiveStart(start time.Time, txns []model.Transaction) time.Time {
	if len(txns) == 0 || start.After(budget.Epoch) {
		return start
	}
	earliest := txns[0].Date
	for _, txn := range txns[1:] {
		if txn.Date.Before(earliest) {
			earliest = txn.Date
		}
	}
	if earliest.After(start) {
		return time.Date(earliest.Year(), earliest.Month(), earliest.Day(), 0, 0, 0, 0, start.Location())
	}
	return start
}

func rangeWeeks(start, end time.Time) decimal.Decimal {
	from := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
	to := time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, time.UTC)
	if to.Before(from) {
		return decimal.Zero
	}
	days := int64(to.Sub(from)/(24*time.Hour)) + 1
	return decimal.NewFromInt(days).Div(decimal.NewFromInt(7))
}

func filterRange(txns []model.Transaction, start, end time.Time) []model.Transaction {
	endExclusive := time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, end.Location()).AddDate(0, 0, 1)
	out := make([]model.Transaction, 0, len(txns))
	for _, txn := range txns {
		if txn.Date.Before(start) || !txn.Date.Before(endExclusive) {
			continue
		}
		out = append(out, txn)
	}
	return out
}

func spendingByBucket(txns []model.Transaction, index *budget.AliasIndex) map[string]decimal.Decimal {
	spent := make(map[string]decimal.Decimal)
	for _, txn := range txns {
		if txn.Type.IsIncome() {
			continue
		}
		bucket := index.Bucket(txn.Category)
		spent[bucket] = spent[bucket].Add(txn.Amount)
	}
	return spent
}

func spendingFloats(spent map[string]decimal.Decimal) map[string]float64 {
	out := make(map[string]float64, len(spent))
	for k, v := range spent {
		out[k] = v.Round(2).InexactFloat64()
	}
	return out
}

func historySummary(rows []budget.OverBudgetRow) string {
	var sb strings.Builder
	for i, row := range rows {
		if i == maxHistoryRows {
			break
		}
		fmt.Fprintf(&sb, "%s: %s spent %s of %s\n",
			row.WeekLabel, row.Category, money.FormatCurrency(row.Spent), money.FormatCurrency(row.Available))
	}
	return strings.TrimSpace(sb.String())
}
