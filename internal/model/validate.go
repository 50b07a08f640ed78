package model

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Validation errors returned by the entity Validate methods.
var (
	ErrInvalidAmount      = errors.New("amount must be greater than zero")
	ErrNegativeAmount     = errors.New("amount cannot be negative")
	ErrMissingName        = errors.New("name is required")
	ErrMissingDescription = errors.New("description is required for Miscellaneous")
	ErrSyntheticCategory  = errors.New("income balance is computed and cannot be edited")
	ErrUnknownCategory    = errors.New("unknown category")
	ErrInvalidRecurrence  = errors.New("invalid recurrence")
	ErrInvalidType        = errors.New("invalid transaction type")
	ErrMissingDate        = errors.New("date is required")
)

// Validate checks an income source before it is stored.
func (s IncomeSource) Validate() error {
	if strings.TrimSpace(s.Name) == "" {
		return ErrMissingName
	}
	if err := requirePositive("amount", s.Amount); err != nil {
		return err
	}
	return requireRecurrence(s.Recurrence)
}

// Validate checks a required expense before it is stored.
func (e RequiredExpense) Validate() error {
	if err := requireCategory(KindRequired, e.Category, e.Description); err != nil {
		return err
	}
	if err := requirePositive("amount", e.Amount); err != nil {
		return err
	}
	return requireRecurrence(e.Recurrence)
}

// Validate checks a discretionary expense before it is stored.
func (e DiscretionaryExpense) Validate() error {
	if err := requireCategory(KindDiscretionary, e.Category, e.Description); err != nil {
		return err
	}
	if err := requirePositive("planned amount", e.PlannedAmount); err != nil {
		return err
	}
	if e.Recurrence == "" {
		return nil
	}
	return requireRecurrence(e.Recurrence)
}

// Validate checks a loan before it is stored.
func (l Loan) Validate() error {
	if strings.TrimSpace(l.Name) == "" {
		return ErrMissingName
	}
	if err := requireCategory(KindLoan, l.Category, l.Description); err != nil {
		return err
	}
	if err := requirePositive("total balance", l.TotalBalance); err != nil {
		return err
	}
	if err := requireNonNegative(
		namedAmount{"paid amount", l.PaidAmount},
		namedAmount{"interest rate", l.InterestRate},
		namedAmount{"payment amount", l.PaymentAmount},
	); err != nil {
		return err
	}
	return requireRecurrence(l.PaymentRecurrence)
}

// Validate checks a savings goal before it is stored. The Income Balance
// goal is always rejected.
func (g SavingsGoal) Validate() error {
	if g.IsIncomeBalance() {
		return ErrSyntheticCategory
	}
	if strings.TrimSpace(g.Name) == "" {
		return ErrMissingName
	}
	if err := requireCategory(KindSavings, g.Category, g.Description); err != nil {
		return err
	}
	if err := requireNonNegative(
		namedAmount{"target amount", g.TargetAmount},
		namedAmount{"current amount", g.CurrentAmount},
		namedAmount{"weekly contribution", g.WeeklyContribution},
	); err != nil {
		return err
	}
	if g.Recurrence == "" {
		return nil
	}
	return requireRecurrence(g.Recurrence)
}

// Validate checks a transaction before it is stored.
func (t Transaction) Validate() error {
	if t.Type != TypeIncome && t.Type != TypeExpense {
		return fmt.Errorf("%w: %q", ErrInvalidType, t.Type)
	}
	if t.Date.IsZero() {
		return ErrMissingDate
	}
	if strings.TrimSpace(t.Category) == "" {
		return fmt.Errorf("%w: category", ErrMissingName)
	}
	return requirePositive("amount", t.Amount)
}

func requirePositive(field string, v decimal.Decimal) error {
	if !v.IsPositive() {
		return fmt.Errorf("%w: %s", ErrInvalidAmount, field)
	}
	return nil
}

func requireRecurrence(r Recurrence) error {
	if !r.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidRecurrence, r)
	}
	return nil
}

func requireCategory(kind CategoryKind, category, description string) error {
	if category == IncomeBalanceCategory {
		return ErrSyntheticCategory
	}
	if !IsCategory(kind, category) {
		return fmt.Errorf("%w: %s category %q", ErrUnknownCategory, kind, category)
	}
	if category == Miscellaneous && strings.TrimSpace(description) == "" {
		return ErrMissingDescription
	}
	return nil
}

type namedAmount struct {
	field string
	value decimal.Decimal
}

// requireNonNegative reports the first negative amount in declaration order.
func requireNonNegative(amounts ...namedAmount) error {
	for _, a := range amounts {
		if a.value.IsNegative() {
			return fmt.Errorf("%w: %s", ErrNegativeAmount, a.field)
		}
	}
	return nil
}
