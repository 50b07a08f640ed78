// Package service defines the interfaces for all application services.
package service

import (
	"context"
	"time"

	"github.com/Veraticus/safe-to-spend/internal/model"
)

// TransactionFilter defines filtering options for transaction queries.
type TransactionFilter struct {
	StartDate *time.Time
	EndDate   *time.Time
	Type      model.TransactionType
	Limit     int
	Offset    int
}

// Storage defines the contract for our persistence layer. Every call is
// scoped to the user the store was opened for.
type Storage interface {
	// Budget entities
	SaveIncomeSource(ctx context.Context, src *model.IncomeSource) error
	ListIncomeSources(ctx context.Context) ([]model.IncomeSource, error)
	SaveRequiredExpense(ctx context.Context, expense *model.RequiredExpense) error
	ListRequiredExpenses(ctx context.Context) ([]model.RequiredExpense, error)
	SaveDiscretionaryExpense(ctx context.Context, expense *model.DiscretionaryExpense) error
	ListDiscretionaryExpenses(ctx context.Context) ([]model.DiscretionaryExpense, error)
	SaveLoan(ctx context.Context, loan *model.Loan) error
	ListLoans(ctx context.Context) ([]model.Loan, error)
	SaveSavingsGoal(ctx context.Context, goal *model.SavingsGoal) error
	ListSavingsGoals(ctx context.Context) ([]model.SavingsGoal, error)
	DeleteEntity(ctx context.Context, kind EntityKind, id string) error
	LoadSnapshot(ctx context.Context) (model.Snapshot, error)

	// Ledger
	SaveTransactions(ctx context.Context, transactions []model.Transaction) (int, error)
	GetTransactions(ctx context.Context, filter TransactionFilter) ([]model.Transaction, error)
	DeleteTransaction(ctx context.Context, id string) error

	// Weekly summaries
	SaveWeeklySummary(ctx context.Context, summary model.WeeklySummary) error
	GetWeeklySummaries(ctx context.Context, limit int) ([]model.WeeklySummary, error)

	// Settings
	GetWeekStart(ctx context.Context) (time.Weekday, error)
	SetWeekStart(ctx context.Context, day time.Weekday) error

	// Database management
	Migrate(ctx context.Context) error
	Close() error
}

// EntityKind names one of the five budget entity collections.
type EntityKind string

// Entity collections.
const (
	EntityIncome        EntityKind = "income"
	EntityRequired      EntityKind = "expense"
	EntityDiscretionary EntityKind = "discretionary"
	EntityLoan          EntityKind = "loan"
	EntitySavings       EntityKind = "savings"
)

// RetryOptions configures retry behavior for operations.
type RetryOptions struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}

// WithDefaults fills unset fields: 3 attempts, 100ms initial delay doubling
// up to 30s.
func (o RetryOptions) WithDefaults() RetryOptions {
	if o.MaxAttempts <= 0 {
		o.MaxAttempts = 3
	}
	if o.InitialDelay <= 0 {
		o.InitialDelay = 100 * time.Millisecond
	}
	if o.MaxDelay <= 0 {
		o.MaxDelay = 30 * time.Second
	}
	if o.Multiplier <= 0 {
		o.Multiplier = 2.0
	}
	return o
}
