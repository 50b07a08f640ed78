package budget

import (
	"testing"

	"github.com/Veraticus/safe-to-spend/internal/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scenarioSnapshot() model.Snapshot {
	return model.Snapshot{
		IncomeSources: []model.IncomeSource{
			{Name: "Salary", Amount: d("1500"), Recurrence: model.Monthly},
		},
		RequiredExpenses: []model.RequiredExpense{
			{Category: "Groceries", Amount: d("150"), Recurrence: model.Weekly},
		},
		DiscretionaryExpenses: []model.DiscretionaryExpense{
			{Category: "Dining Out", Name: "Dining", PlannedAmount: d("50")},
		},
		Loans: []model.Loan{
			{Name: "Car", Category: "Auto Loan", PaymentAmount: d("200"), TotalBalance: d("9000"), PaymentRecurrence: model.Monthly},
		},
		SavingsGoals: []model.SavingsGoal{
			{Name: "Vacation", Category: "Vacation", TargetAmount: d("2000"), CurrentAmount: d("500"), WeeklyContribution: d("25")},
		},
	}
}

func TestAggregate_Empty(t *testing.T) {
	totals := Aggregate(model.Snapshot{})

	for name, v := range map[string]decimal.Decimal{
		"income":            totals.TotalWeeklyIncome,
		"required":          totals.TotalWeeklyRequired,
		"discretionary":     totals.TotalWeeklyDiscretionary,
		"discretionary raw": totals.TotalWeeklyDiscretionaryRaw,
		"loan payments":     totals.TotalWeeklyLoanPayments,
		"debt":              totals.TotalDebtBalance,
		"savings target":    totals.TotalSavingsTarget,
		"saved":             totals.TotalSaved,
		"planned savings":   totals.WeeklyPlannedSavings,
		"income balance":    totals.IncomeBalance,
		"safe to spend":     totals.SafeToSpend,
		"savings progress":  totals.SavingsProgress(),
		"debt progress":     totals.DebtProgress(),
	} {
		assert.True(t, v.IsZero(), "%s = %s", name, v)
	}
	assert.Empty(t, CategoryBudgets(model.Snapshot{}))
}

func TestAggregate_Scenario(t *testing.T) {
	s := scenarioSnapshot()
	totals := Aggregate(s)

	assert.Equal(t, "346.42", totals.TotalWeeklyIncome.StringFixed(2))
	assert.True(t, totals.TotalWeeklyRequired.Equal(d("150")))
	assert.True(t, totals.TotalWeeklyDiscretionary.Equal(d("50")))
	assert.True(t, totals.TotalWeeklyDiscretionaryRaw.Equal(d("50")))
	assert.Equal(t, "46.19", totals.TotalWeeklyLoanPayments.StringFixed(2))
	assert.True(t, totals.TotalDebtBalance.Equal(d("9000")))
	assert.True(t, totals.WeeklyPlannedSavings.Equal(d("25")))
	assert.Equal(t, "146.42", totals.SafeToSpend.StringFixed(2))
	assert.Equal(t, "121.42", totals.IncomeBalance.StringFixed(2))
	assert.Equal(t, "25.0", totals.SavingsProgress().StringFixed(1))

	budgets := CategoryBudgets(s)
	require.Len(t, budgets, 4)
	assert.Equal(t, "150.00", budgets["Groceries"].StringFixed(2))
	assert.Equal(t, "50.00", budgets["Dining"].StringFixed(2))
	assert.Equal(t, "46.19", budgets["Car"].StringFixed(2))
	assert.Equal(t, "25.00", budgets["Vacation"].StringFixed(2))
}

func TestAggregate_IncomeBalanceNeverNegative(t *testing.T) {
	s := model.Snapshot{
		IncomeSources:    []model.IncomeSource{{Name: "Part time", Amount: d("100"), Recurrence: model.Weekly}},
		RequiredExpenses: []model.RequiredExpense{{Category: "Rent/Mortgage", Amount: d("2000"), Recurrence: model.Monthly}},
		SavingsGoals:     []model.SavingsGoal{{Name: "Rainy day", Category: "Emergency Fund", WeeklyContribution: d("50")}},
	}
	totals := Aggregate(s)

	assert.True(t, totals.IncomeBalance.IsZero())
	assert.True(t, totals.SafeToSpend.IsNegative())
}

func TestAggregate_DiscretionaryRawVersusNormalized(t *testing.T) {
	s := model.Snapshot{
		DiscretionaryExpenses: []model.DiscretionaryExpense{
			{Category: "Subscriptions", PlannedAmount: d("43.30"), Recurrence: model.Monthly},
			{Category: "Coffee", PlannedAmount: d("20")},
		},
	}
	totals := Aggregate(s)

	assert.True(t, totals.TotalWeeklyDiscretionaryRaw.Equal(d("63.30")))
	assert.True(t, totals.TotalWeeklyDiscretionary.Equal(d("30")))
}

func TestAggregate_IncomeBalanceGoalExcluded(t *testing.T) {
	s := model.Snapshot{
		SavingsGoals: []model.SavingsGoal{
			{Name: "Income Balance", Category: model.IncomeBalanceCategory, TargetAmount: d("999"), CurrentAmount: d("999"), WeeklyContribution: d("999")},
			{Name: "Retirement", Category: "Retirement", TargetAmount: d("100"), CurrentAmount: d("10"), WeeklyContribution: d("10")},
		},
	}
	totals := Aggregate(s)

	assert.True(t, totals.TotalSavingsTarget.Equal(d("100")))
	assert.True(t, totals.TotalSaved.Equal(d("10")))
	assert.True(t, totals.WeeklyPlannedSavings.Equal(d("10")))

	budgets := CategoryBudgets(s)
	assert.NotContains(t, budgets, "Income Balance")
	assert.Contains(t, budgets, "Retirement")
}

func TestCategoryBudgets_MergesDuplicateNames(t *testing.T) {
	s := model.Snapshot{
		RequiredExpenses: []model.RequiredExpense{
			{Category: "Utilities", Amount: d("40"), Recurrence: model.Weekly},
			{Category: "Utilities", Amount: d("80"), Recurrence: model.BiWeekly},
		},
		Loans: []model.Loan{
			{Name: "Student", Category: "Student Loan", TotalBalance: d("520"), PaymentRecurrence: model.Yearly},
			{Name: "Once", Category: "Credit Card", TotalBalance: d("300"), PaymentRecurrence: model.OneTime},
		},
	}
	budgets := CategoryBudgets(s)

	assert.True(t, budgets["Utilities"].Equal(d("80")))
	assert.True(t, budgets["Student"].Equal(d("10")), "balance stands in for a missing payment amount")
	assert.True(t, budgets["Once"].IsZero())
}
