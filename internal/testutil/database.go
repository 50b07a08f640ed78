// Package testutil provides shared fixtures for package tests: a migrated
// SQLite store and a small, fully populated budget scenario.
package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/Veraticus/safe-to-spend/internal/model"
	"github.com/Veraticus/safe-to-spend/internal/storage"
	"github.com/shopspring/decimal"
)

// TestUser is the tenant used by SetupTestDB.
const TestUser = "test-user"

// SetupTestDB creates a migrated in-memory store and closes it when the test ends.
func SetupTestDB(t *testing.T) *storage.SQLiteStorage {
	t.Helper()

	store, err := storage.NewSQLiteStorage(":memory:", TestUser)
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	if err := store.Migrate(context.Background()); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}
	return store
}

// SeedSnapshot saves every entity in snap to store.
func SeedSnapshot(t *testing.T, store *storage.SQLiteStorage, snap model.Snapshot) {
	t.Helper()
	ctx := context.Background()

	for i := range snap.IncomeSources {
		if err := store.SaveIncomeSource(ctx, &snap.IncomeSources[i]); err != nil {
			t.Fatalf("failed to seed income source: %v", err)
		}
	}
	for i := range snap.RequiredExpenses {
		if err := store.SaveRequiredExpense(ctx, &snap.RequiredExpenses[i]); err != nil {
			t.Fatalf("failed to seed required expense: %v", err)
		}
	}
	for i := range snap.DiscretionaryExpenses {
		if err := store.SaveDiscretionaryExpense(ctx, &snap.DiscretionaryExpenses[i]); err != nil {
			t.Fatalf("failed to seed discretionary expense: %v", err)
		}
	}
	for i := range snap.Loans {
		if err := store.SaveLoan(ctx, &snap.Loans[i]); err != nil {
			t.Fatalf("failed to seed loan: %v", err)
		}
	}
	for i := range snap.SavingsGoals {
		if err := store.SaveSavingsGoal(ctx, &snap.SavingsGoals[i]); err != nil {
			t.Fatalf("failed to seed savings goal: %v", err)
		}
	}
}

// Amount parses a decimal literal, panicking on bad input.
func Amount(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// ScenarioSnapshot is a one-of-each budget: $1500 monthly income, $150
// weekly groceries, $50 weekly dining, a $200 monthly car payment and a $25
// weekly vacation contribution.
func ScenarioSnapshot() model.Snapshot {
	return model.Snapshot{
		IncomeSources: []model.IncomeSource{
			{Name: "Salary", Amount: Amount("1500"), Recurrence: model.Monthly},
		},
		RequiredExpenses: []model.RequiredExpense{
			{Category: "Groceries", Amount: Amount("150"), Recurrence: model.Weekly},
		},
		DiscretionaryExpenses: []model.DiscretionaryExpense{
			{Category: "Dining Out", Name: "Dining", PlannedAmount: Amount("50")},
		},
		Loans: []model.Loan{
			{
				Name:              "Car",
				Category:          "Auto Loan",
				TotalBalance:      Amount("9000"),
				PaidAmount:        Amount("3000"),
				PaymentAmount:     Amount("200"),
				PaymentRecurrence: model.Monthly,
			},
		},
		SavingsGoals: []model.SavingsGoal{
			{
				Name:               "Vacation",
				Category:           "Vacation",
				TargetAmount:       Amount("2000"),
				CurrentAmount:      Amount("500"),
				WeeklyContribution: Amount("25"),
			},
		},
	}
}

// Expense builds an expense transaction.
func Expense(date time.Time, category, amount string) model.Transaction {
	return model.Transaction{
		Type:     model.TypeExpense,
		Date:     date,
		Category: category,
		Amount:   Amount(amount),
		Source:   model.SourceManual,
	}
}

// Income builds an income transaction.
func Income(date time.Time, category, amount string) model.Transaction {
	txn := Expense(date, category, amount)
	txn.Type = model.TypeIncome
	return txn
}
