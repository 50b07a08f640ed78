// Package model defines the core domain models used throughout the application.
package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// IncomeSource is a recurring inflow such as a paycheck.
type IncomeSource struct {
	DueDate     *time.Time
	ID          string
	Name        string
	Description string
	Recurrence  Recurrence
	Amount      decimal.Decimal
}

// RequiredExpense is an essential recurring expense.
type RequiredExpense struct {
	DueDate     *time.Time
	ID          string
	Category    string
	Name        string // Optional; defaults to Category
	Description string // Mandatory for Miscellaneous
	Recurrence  Recurrence
	Amount      decimal.Decimal
}

// DisplayName returns the name, falling back to the category.
func (e RequiredExpense) DisplayName() string {
	return displayName(e.Name, e.Category)
}

// DiscretionaryExpense is a planned, non-essential expense.
type DiscretionaryExpense struct {
	DueDate       *time.Time
	ID            string
	Category      string
	Name          string
	Description   string
	Recurrence    Recurrence // Empty means Weekly
	PlannedAmount decimal.Decimal
}

// DisplayName returns the name, falling back to the category.
func (e DiscretionaryExpense) DisplayName() string {
	return displayName(e.Name, e.Category)
}

// Loan is an outstanding debt repaid on a schedule.
type Loan struct {
	DueDate           *time.Time
	ID                string
	Name              string
	Category          string
	Description       string
	PaymentRecurrence Recurrence
	TotalBalance      decimal.Decimal // Remaining principal
	PaidAmount        decimal.Decimal
	InterestRate      decimal.Decimal // Percent
	// PaymentAmount is the scheduled payment. When zero, TotalBalance is used
	// as the recurring payment figure, matching records created before the
	// field existed.
	PaymentAmount decimal.Decimal
}

// DisplayName returns the name, falling back to the category.
func (l Loan) DisplayName() string {
	return displayName(l.Name, l.Category)
}

// Payment returns the amount paid per PaymentRecurrence period.
func (l Loan) Payment() decimal.Decimal {
	if l.PaymentAmount.IsPositive() {
		return l.PaymentAmount
	}
	return l.TotalBalance
}

// PercentPaid returns paid / (paid + balance) as a percentage in [0, 100].
func (l Loan) PercentPaid() decimal.Decimal {
	total := l.PaidAmount.Add(l.TotalBalance)
	if !total.IsPositive() {
		return decimal.Zero
	}
	return l.PaidAmount.Div(total).Mul(decimal.NewFromInt(100))
}

// SavingsGoal is a target balance built up by regular contributions.
type SavingsGoal struct {
	ID                 string
	Name               string
	Category           string
	Description        string
	Recurrence         Recurrence // Empty means Weekly
	TargetAmount       decimal.Decimal
	CurrentAmount      decimal.Decimal
	WeeklyContribution decimal.Decimal // Contribution per Recurrence period
}

// DisplayName returns the name, falling back to the category.
func (g SavingsGoal) DisplayName() string {
	return displayName(g.Name, g.Category)
}

// IsIncomeBalance reports whether g is the synthetic Income Balance goal.
func (g SavingsGoal) IsIncomeBalance() bool {
	return g.Category == IncomeBalanceCategory
}

// Snapshot is one user's full set of budget entities at a point in time.
// Nil slices are treated as empty.
type Snapshot struct {
	IncomeSources         []IncomeSource
	RequiredExpenses      []RequiredExpense
	DiscretionaryExpenses []DiscretionaryExpense
	Loans                 []Loan
	SavingsGoals          []SavingsGoal
}

func displayName(name, category string) string {
	if name != "" {
		return name
	}
	return category
}
