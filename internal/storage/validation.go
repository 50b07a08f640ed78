package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Veraticus/safe-to-spend/internal/model"
)

// Validation errors.
var (
	ErrNilContext       = errors.New("context cannot be nil")
	ErrEmptyString      = errors.New("string parameter cannot be empty")
	ErrNilParameter     = errors.New("parameter cannot be nil")
	ErrEmptySlice       = errors.New("slice cannot be empty")
	ErrInvalidDateRange = errors.New("start date must be before end date")
	ErrInvalidWeekday   = errors.New("week start must be between 0 (Sunday) and 6 (Saturday)")
	ErrUnknownEntity    = errors.New("unknown entity kind")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

// validatable is implemented by every model entity.
type validatable interface {
	Validate() error
}

// validateEntity checks ctx, rejects nil pointers and runs the entity's own
// validation.
func validateEntity[T validatable](ctx context.Context, entity *T, name string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if entity == nil {
		return fmt.Errorf("%w: %s", ErrNilParameter, name)
	}
	if err := (*entity).Validate(); err != nil {
		return fmt.Errorf("invalid %s: %w", name, err)
	}
	return nil
}

// validateTransactions validates a slice of transactions.
func validateTransactions(transactions []model.Transaction) error {
	if transactions == nil {
		return fmt.Errorf("%w: transactions", ErrNilParameter)
	}
	if len(transactions) == 0 {
		return fmt.Errorf("%w: transactions", ErrEmptySlice)
	}

	for i, txn := range transactions {
		if err := txn.Validate(); err != nil {
			return fmt.Errorf("transaction at index %d: %w", i, err)
		}
	}
	return nil
}
