// Package advisor requests free-text budget advice from a text generation
// service. Advice is best effort: callers must treat ErrAdvisorUnavailable as
// recoverable and keep any numbers they have already computed.
package advisor

import (
	"context"
	"fmt"

	"github.com/Veraticus/safe-to-spend/internal/budget"
	"github.com/Veraticus/safe-to-spend/internal/common"
	"github.com/Veraticus/safe-to-spend/internal/model"
	"github.com/shopspring/decimal"
)

// Suggestions is free-text advice on improving a budget.
type Suggestions struct {
	Text string
}

// Alert is a short message warning about current spending.
type Alert struct {
	Message string
}

// Gateway is the boundary to an external advice service.
type Gateway interface {
	SuggestBudgetImprovements(ctx context.Context, spendingDataJSON string, weeklyBudget decimal.Decimal) (Suggestions, error)
	BudgetAlert(ctx context.Context, weeklyBudget, currentSpending decimal.Decimal, historySummary string) (Alert, error)
	SummarizeWeek(ctx context.Context, txns []model.Transaction) (model.WeekTotals, error)
}

// Noop is a Gateway that returns empty advice.
type Noop struct{}

var _ Gateway = Noop{}

// SuggestBudgetImprovements returns empty suggestions.
func (Noop) SuggestBudgetImprovements(context.Context, string, decimal.Decimal) (Suggestions, error) {
	return Suggestions{}, nil
}

// BudgetAlert returns an empty alert.
func (Noop) BudgetAlert(context.Context, decimal.Decimal, decimal.Decimal, string) (Alert, error) {
	return Alert{}, nil
}

// SummarizeWeek computes the totals locally.
func (Noop) SummarizeWeek(ctx context.Context, txns []model.Transaction) (model.WeekTotals, error) {
	return summarize(ctx, txns)
}

func summarize(ctx context.Context, txns []model.Transaction) (model.WeekTotals, error) {
	if err := ctx.Err(); err != nil {
		return model.WeekTotals{}, unavailable(err)
	}
	return budget.Summarize(txns), nil
}

func unavailable(err error) error {
	return fmt.Errorf("%w: %w", common.ErrAdvisorUnavailable, err)
}
