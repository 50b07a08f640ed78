package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/Veraticus/safe-to-spend/internal/common"
	"github.com/Veraticus/safe-to-spend/internal/model"
	"github.com/Veraticus/safe-to-spend/internal/service"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestStorage(t *testing.T) *SQLiteStorage {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")

	store, err := NewSQLiteStorage(dbPath, "alice")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	require.NoError(t, store.Migrate(context.Background()))
	return store
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestNewSQLiteStorage_Validation(t *testing.T) {
	_, err := NewSQLiteStorage("", "alice")
	assert.ErrorIs(t, err, ErrEmptyString)

	_, err = NewSQLiteStorage(filepath.Join(t.TempDir(), "x.db"), " ")
	assert.ErrorIs(t, err, ErrEmptyString)
}

func TestMigrate_Idempotent(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	require.NoError(t, store.Migrate(ctx))

	v, err := store.SchemaVersion()
	require.NoError(t, err)
	assert.Equal(t, uint(ExpectedSchemaVersion), v)
}

func TestMigrate_InMemory(t *testing.T) {
	store, err := NewSQLiteStorage(":memory:", DefaultUser)
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	require.NoError(t, store.Migrate(context.Background()))
	_, err = store.ListLoans(context.Background())
	assert.NoError(t, err)
}

func TestEntities_SaveListDelete(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()
	due := time.Date(2024, time.April, 1, 0, 0, 0, 0, time.UTC)

	income := &model.IncomeSource{Name: "Salary", Amount: dec("1500"), Recurrence: model.Monthly, DueDate: &due}
	require.NoError(t, store.SaveIncomeSource(ctx, income))
	assert.NotEmpty(t, income.ID)

	require.NoError(t, store.SaveRequiredExpense(ctx, &model.RequiredExpense{
		Category: "Groceries", Amount: dec("150"), Recurrence: model.Weekly,
	}))
	require.NoError(t, store.SaveDiscretionaryExpense(ctx, &model.DiscretionaryExpense{
		Category: "Dining Out", Name: "Dining", PlannedAmount: dec("50"),
	}))
	loan := &model.Loan{
		Name: "Car", Category: "Auto Loan", TotalBalance: dec("9000"), PaidAmount: dec("1000"),
		InterestRate: dec("4.9"), PaymentAmount: dec("200"), PaymentRecurrence: model.Monthly,
	}
	require.NoError(t, store.SaveLoan(ctx, loan))
	require.NoError(t, store.SaveSavingsGoal(ctx, &model.SavingsGoal{
		Name: "Vacation", Category: "Vacation", TargetAmount: dec("2000"), WeeklyContribution: dec("25"),
	}))

	snap, err := store.LoadSnapshot(ctx)
	require.NoError(t, err)
	require.Len(t, snap.IncomeSources, 1)
	require.Len(t, snap.RequiredExpenses, 1)
	require.Len(t, snap.DiscretionaryExpenses, 1)
	require.Len(t, snap.Loans, 1)
	require.Len(t, snap.SavingsGoals, 1)

	assert.True(t, snap.IncomeSources[0].Amount.Equal(dec("1500")))
	require.NotNil(t, snap.IncomeSources[0].DueDate)
	assert.True(t, snap.IncomeSources[0].DueDate.Equal(due))
	assert.Equal(t, model.Monthly, snap.IncomeSources[0].Recurrence)
	assert.Equal(t, model.Recurrence(""), snap.DiscretionaryExpenses[0].Recurrence)
	assert.True(t, snap.Loans[0].InterestRate.Equal(dec("4.9")))
	assert.True(t, snap.Loans[0].PaymentAmount.Equal(dec("200")))
	assert.Nil(t, snap.Loans[0].DueDate)

	// Update in place.
	loan.PaidAmount = dec("1200")
	require.NoError(t, store.SaveLoan(ctx, loan))
	loans, err := store.ListLoans(ctx)
	require.NoError(t, err)
	require.Len(t, loans, 1)
	assert.True(t, loans[0].PaidAmount.Equal(dec("1200")))

	require.NoError(t, store.DeleteEntity(ctx, service.EntityLoan, loan.ID))
	err = store.DeleteEntity(ctx, service.EntityLoan, loan.ID)
	assert.ErrorIs(t, err, common.ErrNotFound)

	err = store.DeleteEntity(ctx, service.EntityKind("pets"), "x")
	assert.ErrorIs(t, err, ErrUnknownEntity)
}

func TestEntities_ValidationRejected(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	err := store.SaveSavingsGoal(ctx, &model.SavingsGoal{Name: "Leftover", Category: model.IncomeBalanceCategory})
	assert.ErrorIs(t, err, model.ErrSyntheticCategory)

	err = store.SaveRequiredExpense(ctx, &model.RequiredExpense{Category: model.Miscellaneous, Amount: dec("5"), Recurrence: model.Weekly})
	assert.ErrorIs(t, err, model.ErrMissingDescription)

	err = store.SaveIncomeSource(ctx, nil)
	assert.ErrorIs(t, err, ErrNilParameter)

	goals, err := store.ListSavingsGoals(ctx)
	require.NoError(t, err)
	assert.Empty(t, goals)
}

func TestEntities_ScopedByUser(t *testing.T) {
	alice := createTestStorage(t)
	ctx := context.Background()

	bob, err := NewSQLiteStorage(alice.dbPath, "bob")
	require.NoError(t, err)
	t.Cleanup(func() { _ = bob.Close() })
	assert.Equal(t, "bob", bob.UserID())

	src := &model.IncomeSource{Name: "Salary", Amount: dec("100"), Recurrence: model.Weekly}
	require.NoError(t, alice.SaveIncomeSource(ctx, src))

	bobIncome, err := bob.ListIncomeSources(ctx)
	require.NoError(t, err)
	assert.Empty(t, bobIncome)

	// Bob cannot overwrite or delete Alice's record by ID.
	hijack := *src
	hijack.Amount = dec("1")
	assert.ErrorIs(t, bob.SaveIncomeSource(ctx, &hijack), common.ErrDuplicateEntry)
	assert.ErrorIs(t, bob.DeleteEntity(ctx, service.EntityIncome, src.ID), common.ErrNotFound)

	aliceIncome, err := alice.ListIncomeSources(ctx)
	require.NoError(t, err)
	require.Len(t, aliceIncome, 1)
	assert.True(t, aliceIncome[0].Amount.Equal(dec("100")))
}

func TestTransactions(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()
	day := func(d int) time.Time { return time.Date(2024, time.March, d, 12, 0, 0, 0, time.UTC) }

	txns := []model.Transaction{
		{Type: model.TypeExpense, Date: day(4), Category: "Groceries", Amount: dec("42.10")},
		{Type: model.TypeExpense, Date: day(4), Category: "Groceries", Amount: dec("42.10")},
		{Type: model.TypeIncome, Date: day(8), Category: "Salary", Amount: dec("1000"), Source: model.SourceOFX, ExternalID: "FIT1"},
	}
	n, err := store.SaveTransactions(ctx, txns)
	require.NoError(t, err)
	assert.Equal(t, 3, n, "manual duplicates are distinct purchases")
	assert.NotEmpty(t, txns[0].ID)
	assert.Equal(t, model.SourceManual, txns[0].Source)

	again := []model.Transaction{
		{Type: model.TypeIncome, Date: day(8), Category: "Salary", Amount: dec("1000"), Source: model.SourceOFX, ExternalID: "FIT1"},
	}
	n, err = store.SaveTransactions(ctx, again)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	all, err := store.GetTransactions(ctx, service.TransactionFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.True(t, all[0].Date.Equal(day(4)))
	assert.True(t, all[0].Amount.Equal(dec("42.10")))

	start, end := day(5), day(10)
	ranged, err := store.GetTransactions(ctx, service.TransactionFilter{StartDate: &start, EndDate: &end})
	require.NoError(t, err)
	require.Len(t, ranged, 1)
	assert.Equal(t, "FIT1", ranged[0].ExternalID)

	expenses, err := store.GetTransactions(ctx, service.TransactionFilter{Type: model.TypeExpense, Limit: 1})
	require.NoError(t, err)
	assert.Len(t, expenses, 1)

	_, err = store.GetTransactions(ctx, service.TransactionFilter{StartDate: &end, EndDate: &start})
	assert.ErrorIs(t, err, ErrInvalidDateRange)

	require.NoError(t, store.DeleteTransaction(ctx, all[0].ID))
	assert.ErrorIs(t, store.DeleteTransaction(ctx, all[0].ID), common.ErrNotFound)

	_, err = store.SaveTransactions(ctx, []model.Transaction{{Type: "Refund", Date: day(1), Category: "x", Amount: dec("1")}})
	assert.ErrorIs(t, err, model.ErrInvalidType)
	_, err = store.SaveTransactions(ctx, []model.Transaction{})
	assert.ErrorIs(t, err, ErrEmptySlice)
}

func TestWeeklySummariesAndSettings(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	day, err := store.GetWeekStart(ctx)
	require.NoError(t, err)
	assert.Equal(t, time.Sunday, day)

	require.NoError(t, store.SetWeekStart(ctx, time.Monday))
	day, err = store.GetWeekStart(ctx)
	require.NoError(t, err)
	assert.Equal(t, time.Monday, day)
	assert.ErrorIs(t, store.SetWeekStart(ctx, time.Weekday(9)), ErrInvalidWeekday)

	week := func(d int) model.WeeklySummary {
		start := time.Date(2024, time.March, d, 0, 0, 0, 0, time.UTC)
		return model.WeeklySummary{
			WeekStart: start,
			WeekEnd:   start.AddDate(0, 0, 6),
			WeekTotals: model.WeekTotals{
				TotalIncome:   dec("1000"),
				TotalExpenses: dec("400"),
				NetChange:     dec("600"),
			},
		}
	}
	require.NoError(t, store.SaveWeeklySummary(ctx, week(4)))
	require.NoError(t, store.SaveWeeklySummary(ctx, week(11)))

	replaced := week(4)
	replaced.TotalExpenses = dec("500")
	replaced.NetChange = dec("500")
	require.NoError(t, store.SaveWeeklySummary(ctx, replaced))

	got, err := store.GetWeeklySummaries(ctx, 0)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, 11, got[0].WeekStart.Day())
	assert.True(t, got[1].NetChange.Equal(dec("500")))

	latest, err := store.GetWeeklySummaries(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, latest, 1)
}
