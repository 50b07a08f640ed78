package budget

import (
	"testing"

	"github.com/Veraticus/safe-to-spend/internal/model"
	"github.com/stretchr/testify/assert"
)

func TestAliasIndex_Resolve(t *testing.T) {
	idx := NewAliasIndex(scenarioSnapshot())

	tests := []struct {
		category string
		want     string
		wantOK   bool
	}{
		{"Groceries", "Groceries", true},
		{"Dining Out", "Dining", true},
		{"Dining", "Dining", true},
		{"Auto Loan", "Car", true},
		{"Loan: Auto Loan", "Car", true},
		{"Car", "Car", true},
		{"Savings: Vacation", "Vacation", true},
		{"  Groceries  ", "Groceries", true},
		{"groceries", "Groceries", true},
		{"Parking", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.category, func(t *testing.T) {
			got, ok := idx.Resolve(tt.category)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAliasIndex_FirstRegisteredWins(t *testing.T) {
	s := model.Snapshot{
		Loans: []model.Loan{
			{Name: "Car", Category: "Auto Loan", TotalBalance: d("5000"), PaymentRecurrence: model.Monthly},
		},
		RequiredExpenses: []model.RequiredExpense{
			{Category: "Transportation", Name: "Auto Loan", Amount: d("60"), Recurrence: model.Weekly},
		},
	}
	idx := NewAliasIndex(s)

	got, ok := idx.Resolve("Auto Loan")
	assert.True(t, ok)
	assert.Equal(t, "Auto Loan", got, "required expenses register before loans")

	got, _ = idx.Resolve("Loan: Auto Loan")
	assert.Equal(t, "Car", got)
	assert.Equal(t, []aliasEntry{
		{name: "Auto Loan", aliases: []string{"Transportation", "Auto Loan"}},
		{name: "Car", aliases: []string{"Auto Loan", "Loan: Auto Loan", "Car"}},
	}, idx.entries)
}

func TestAliasIndex_ExactBeatsCaseInsensitive(t *testing.T) {
	s := model.Snapshot{
		RequiredExpenses: []model.RequiredExpense{
			{Category: "Phone", Name: "COFFEE", Amount: d("1"), Recurrence: model.Weekly},
		},
		DiscretionaryExpenses: []model.DiscretionaryExpense{
			{Category: "Coffee", PlannedAmount: d("10")},
		},
	}
	idx := NewAliasIndex(s)

	got, _ := idx.Resolve("Coffee")
	assert.Equal(t, "Coffee", got)
	got, _ = idx.Resolve("coffee")
	assert.Equal(t, "COFFEE", got)
}

func TestAliasIndex_MergesDuplicateNames(t *testing.T) {
	s := model.Snapshot{
		RequiredExpenses: []model.RequiredExpense{
			{Category: "Utilities", Name: "House", Amount: d("1"), Recurrence: model.Weekly},
			{Category: "Internet", Name: "House", Amount: d("1"), Recurrence: model.Weekly},
		},
		SavingsGoals: []model.SavingsGoal{
			{Name: "Income Balance", Category: model.IncomeBalanceCategory},
		},
	}
	idx := NewAliasIndex(s)

	assert.Equal(t, []aliasEntry{{name: "House", aliases: []string{"Utilities", "House", "Internet"}}}, idx.entries)
	assert.NotContains(t, idx.byName, "Income Balance")

	assert.Equal(t, "House", idx.Bucket("Internet"))
	assert.Equal(t, "Parking", idx.Bucket(" Parking "))
}
