package budget

import (
	"github.com/Veraticus/safe-to-spend/internal/model"
	"github.com/Veraticus/safe-to-spend/internal/money"
	"github.com/shopspring/decimal"
)

// Totals are the weekly figures derived from one user's budget entities.
type Totals struct {
	TotalWeeklyIncome   decimal.Decimal
	TotalWeeklyRequired decimal.Decimal
	// TotalWeeklyDiscretionaryRaw sums PlannedAmount as entered, treating every
	// discretionary expense as already weekly. Kept for the budget overview,
	// which has always shown it this way; prefer TotalWeeklyDiscretionary.
	TotalWeeklyDiscretionaryRaw decimal.Decimal
	TotalWeeklyDiscretionary    decimal.Decimal
	TotalWeeklyLoanPayments     decimal.Decimal
	TotalDebtBalance            decimal.Decimal
	TotalDebtPaid               decimal.Decimal
	TotalSavingsTarget          decimal.Decimal
	TotalSaved                  decimal.Decimal
	WeeklyPlannedSavings        decimal.Decimal
	IncomeBalance               decimal.Decimal
	SafeToSpend                 decimal.Decimal
}

// SavingsProgress returns saved/target as a percentage, or zero without a target.
func (t Totals) SavingsProgress() decimal.Decimal {
	return money.Percent(t.TotalSaved, t.TotalSavingsTarget)
}

// DebtProgress returns the share of all loans already repaid as a percentage.
func (t Totals) DebtProgress() decimal.Decimal {
	return money.Percent(t.TotalDebtPaid, t.TotalDebtPaid.Add(t.TotalDebtBalance))
}

// Aggregate computes the weekly totals for s. Missing collections count as
// empty. Inputs are assumed to be valid.
func Aggregate(s model.Snapshot) Totals {
	var t Totals

	for _, src := range s.IncomeSources {
		t.TotalWeeklyIncome = t.TotalWeeklyIncome.Add(WeeklyAmount(src.Amount, src.Recurrence))
	}
	for _, e := range s.RequiredExpenses {
		t.TotalWeeklyRequired = t.TotalWeeklyRequired.Add(WeeklyAmount(e.Amount, e.Recurrence))
	}
	for _, e := range s.DiscretionaryExpenses {
		t.TotalWeeklyDiscretionaryRaw = t.TotalWeeklyDiscretionaryRaw.Add(e.PlannedAmount)
		t.TotalWeeklyDiscretionary = t.TotalWeeklyDiscretionary.Add(discretionaryWeekly(e))
	}
	for _, l := range s.Loans {
		t.TotalDebtBalance = t.TotalDebtBalance.Add(l.TotalBalance)
		t.TotalDebtPaid = t.TotalDebtPaid.Add(l.PaidAmount)
		t.TotalWeeklyLoanPayments = t.TotalWeeklyLoanPayments.Add(loanWeekly(l))
	}
	for _, g := range s.SavingsGoals {
		if g.IsIncomeBalance() {
			continue
		}
		t.TotalSavingsTarget = t.TotalSavingsTarget.Add(g.TargetAmount)
		t.TotalSaved = t.TotalSaved.Add(g.CurrentAmount)
		t.WeeklyPlannedSavings = t.WeeklyPlannedSavings.Add(savingsWeekly(g))
	}

	committed := t.TotalWeeklyRequired.Add(t.TotalWeeklyDiscretionary)
	t.SafeToSpend = t.TotalWeeklyIncome.Sub(committed)
	t.IncomeBalance = decimal.Max(decimal.Zero, t.SafeToSpend.Sub(t.WeeklyPlannedSavings))

	return t
}

// CategoryBudgets returns the weekly budget per display name across required
// expenses, discretionary expenses, loan payments and savings contributions.
// Entities sharing a display name are summed.
func CategoryBudgets(s model.Snapshot) map[string]decimal.Decimal {
	budgets := make(map[string]decimal.Decimal)
	add := func(name string, amount decimal.Decimal) {
		budgets[name] = budgets[name].Add(amount)
	}

	for _, e := range s.RequiredExpenses {
		add(e.DisplayName(), WeeklyAmount(e.Amount, e.Recurrence))
	}
	for _, e := range s.DiscretionaryExpenses {
		add(e.DisplayName(), discretionaryWeekly(e))
	}
	for _, l := range s.Loans {
		add(l.DisplayName(), loanWeekly(l))
	}
	for _, g := range s.SavingsGoals {
		if g.IsIncomeBalance() {
			continue
		}
		add(g.DisplayName(), savingsWeekly(g))
	}

	return budgets
}

func discretionaryWeekly(e model.DiscretionaryExpense) decimal.Decimal {
	return WeeklyAmount(e.PlannedAmount, e.Recurrence.OrWeekly())
}

func loanWeekly(l model.Loan) decimal.Decimal {
	return WeeklyAmount(l.Payment(), l.PaymentRecurrence)
}

func savingsWeekly(g model.SavingsGoal) decimal.Decimal {
	return WeeklyAmount(g.WeeklyContribution, g.Recurrence.OrWeekly())
}
