package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Veraticus/safe-to-spend/internal/common"
	"github.com/Veraticus/safe-to-spend/internal/model"
	"github.com/Veraticus/safe-to-spend/internal/service"
	"github.com/google/uuid"
)

var entityTables = map[service.EntityKind]string{
	service.EntityIncome:        "income_sources",
	service.EntityRequired:      "required_expenses",
	service.EntityDiscretionary: "discretionary_expenses",
	service.EntityLoan:          "loans",
	service.EntitySavings:       "savings_goals",
}

// SaveIncomeSource inserts src, or updates it when its ID already exists.
// A missing ID is filled in.
func (s *SQLiteStorage) SaveIncomeSource(ctx context.Context, src *model.IncomeSource) error {
	if err := validateEntity(ctx, src, "income source"); err != nil {
		return err
	}
	assignID(&src.ID)

	return s.upsert(ctx, "income source", `
		INSERT INTO income_sources (id, user_id, name, description, recurrence, amount, due_date)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			description = excluded.description,
			recurrence = excluded.recurrence,
			amount = excluded.amount,
			due_date = excluded.due_date,
			updated_at = CURRENT_TIMESTAMP
		WHERE income_sources.user_id = excluded.user_id`,
		src.ID, s.userID, src.Name, src.Description, src.Recurrence, src.Amount, nullTime(src.DueDate))
}

// ListIncomeSources returns the user's income sources in creation order.
func (s *SQLiteStorage) ListIncomeSources(ctx context.Context) ([]model.IncomeSource, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, description, recurrence, amount, due_date
		FROM income_sources WHERE user_id = ? ORDER BY created_at, rowid`, s.userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query income sources: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []model.IncomeSource
	for rows.Next() {
		var src model.IncomeSource
		var due sql.NullTime
		if err := rows.Scan(&src.ID, &src.Name, &src.Description, &src.Recurrence, &src.Amount, &due); err != nil {
			return nil, fmt.Errorf("failed to scan income source: %w", err)
		}
		src.DueDate = timePtr(due)
		out = append(out, src)
	}
	return out, rows.Err()
}

// SaveRequiredExpense inserts or updates a required expense.
func (s *SQLiteStorage) SaveRequiredExpense(ctx context.Context, e *model.RequiredExpense) error {
	if err := validateEntity(ctx, e, "required expense"); err != nil {
		return err
	}
	assignID(&e.ID)

	return s.upsert(ctx, "required expense", `
		INSERT INTO required_expenses (id, user_id, category, name, description, recurrence, amount, due_date)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			category = excluded.category,
			name = excluded.name,
			description = excluded.description,
			recurrence = excluded.recurrence,
			amount = excluded.amount,
			due_date = excluded.due_date,
			updated_at = CURRENT_TIMESTAMP
		WHERE required_expenses.user_id = excluded.user_id`,
		e.ID, s.userID, e.Category, e.Name, e.Description, e.Recurrence, e.Amount, nullTime(e.DueDate))
}

// ListRequiredExpenses returns the user's required expenses in creation order.
func (s *SQLiteStorage) ListRequiredExpenses(ctx context.Context) ([]model.RequiredExpense, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, category, name, description, recurrence, amount, due_date
		FROM required_expenses WHERE user_id = ? ORDER BY created_at, rowid`, s.userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query required expenses: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []model.RequiredExpense
	for rows.Next() {
		var e model.RequiredExpense
		var due sql.NullTime
		if err := rows.Scan(&e.ID, &e.Category, &e.Name, &e.Description, &e.Recurrence, &e.Amount, &due); err != nil {
			return nil, fmt.Errorf("failed to scan required expense: %w", err)
		}
		e.DueDate = timePtr(due)
		out = append(out, e)
	}
	return out, rows.Err()
}

// SaveDiscretionaryExpense inserts or updates a discretionary expense.
func (s *SQLiteStorage) SaveDiscretionaryExpense(ctx context.Context, e *model.DiscretionaryExpense) error {
	if err := validateEntity(ctx, e, "discretionary expense"); err != nil {
		return err
	}
	assignID(&e.ID)

	return s.upsert(ctx, "discretionary expense", `
		INSERT INTO discretionary_expenses (id, user_id, category, name, description, recurrence, planned_amount, due_date)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			category = excluded.category,
			name = excluded.name,
			description = excluded.description,
			recurrence = excluded.recurrence,
			planned_amount = excluded.planned_amount,
			due_date = excluded.due_date,
			updated_at = CURRENT_TIMESTAMP
		WHERE discretionary_expenses.user_id = excluded.user_id`,
		e.ID, s.userID, e.Category, e.Name, e.Description, e.Recurrence, e.PlannedAmount, nullTime(e.DueDate))
}

// ListDiscretionaryExpenses returns the user's discretionary expenses in creation order.
func (s *SQLiteStorage) ListDiscretionaryExpenses(ctx context.Context) ([]model.DiscretionaryExpense, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, category, name, description, recurrence, planned_amount, due_date
		FROM discretionary_expenses WHERE user_id = ? ORDER BY created_at, rowid`, s.userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query discretionary expenses: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []model.DiscretionaryExpense
	for rows.Next() {
		var e model.DiscretionaryExpense
		var due sql.NullTime
		if err := rows.Scan(&e.ID, &e.Category, &e.Name, &e.Description, &e.Recurrence, &e.PlannedAmount, &due); err != nil {
			return nil, fmt.Errorf("failed to scan discretionary expense: %w", err)
		}
		e.DueDate = timePtr(due)
		out = append(out, e)
	}
	return out, rows.Err()
}

// SaveLoan inserts or updates a loan.
func (s *SQLiteStorage) SaveLoan(ctx context.Context, l *model.Loan) error {
	if err := validateEntity(ctx, l, "loan"); err != nil {
		return err
	}
	assignID(&l.ID)

	return s.upsert(ctx, "loan", `
		INSERT INTO loans (id, user_id, name, category, description, payment_recurrence,
			total_balance, paid_amount, interest_rate, payment_amount, due_date)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			category = excluded.category,
			description = excluded.description,
			payment_recurrence = excluded.payment_recurrence,
			total_balance = excluded.total_balance,
			paid_amount = excluded.paid_amount,
			interest_rate = excluded.interest_rate,
			payment_amount = excluded.payment_amount,
			due_date = excluded.due_date,
			updated_at = CURRENT_TIMESTAMP
		WHERE loans.user_id = excluded.user_id`,
		l.ID, s.userID, l.Name, l.Category, l.Description, l.PaymentRecurrence,
		l.TotalBalance, l.PaidAmount, l.InterestRate, l.PaymentAmount, nullTime(l.DueDate))
}

// ListLoans returns the user's loans in creation order.
func (s *SQLiteStorage) ListLoans(ctx context.Context) ([]model.Loan, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, category, description, payment_recurrence,
			total_balance, paid_amount, interest_rate, payment_amount, due_date
		FROM loans WHERE user_id = ? ORDER BY created_at, rowid`, s.userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query loans: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []model.Loan
	for rows.Next() {
		var l model.Loan
		var due sql.NullTime
		if err := rows.Scan(&l.ID, &l.Name, &l.Category, &l.Description, &l.PaymentRecurrence,
			&l.TotalBalance, &l.PaidAmount, &l.InterestRate, &l.PaymentAmount, &due); err != nil {
			return nil, fmt.Errorf("failed to scan loan: %w", err)
		}
		l.DueDate = timePtr(due)
		out = append(out, l)
	}
	return out, rows.Err()
}

// SaveSavingsGoal inserts or updates a savings goal. The Income Balance goal
// is computed and always rejected.
func (s *SQLiteStorage) SaveSavingsGoal(ctx context.Context, g *model.SavingsGoal) error {
	if err := validateEntity(ctx, g, "savings goal"); err != nil {
		return err
	}
	assignID(&g.ID)

	return s.upsert(ctx, "savings goal", `
		INSERT INTO savings_goals (id, user_id, name, category, description, recurrence,
			target_amount, current_amount, weekly_contribution)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			category = excluded.category,
			description = excluded.description,
			recurrence = excluded.recurrence,
			target_amount = excluded.target_amount,
			current_amount = excluded.current_amount,
			weekly_contribution = excluded.weekly_contribution,
			updated_at = CURRENT_TIMESTAMP
		WHERE savings_goals.user_id = excluded.user_id`,
		g.ID, s.userID, g.Name, g.Category, g.Description, g.Recurrence,
		g.TargetAmount, g.CurrentAmount, g.WeeklyContribution)
}

// ListSavingsGoals returns the user's savings goals in creation order.
func (s *SQLiteStorage) ListSavingsGoals(ctx context.Context) ([]model.SavingsGoal, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, category, description, recurrence,
			target_amount, current_amount, weekly_contribution
		FROM savings_goals WHERE user_id = ? ORDER BY created_at, rowid`, s.userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query savings goals: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []model.SavingsGoal
	for rows.Next() {
		var g model.SavingsGoal
		if err := rows.Scan(&g.ID, &g.Name, &g.Category, &g.Description, &g.Recurrence,
			&g.TargetAmount, &g.CurrentAmount, &g.WeeklyContribution); err != nil {
			return nil, fmt.Errorf("failed to scan savings goal: %w", err)
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

// DeleteEntity removes one of the user's budget entities.
func (s *SQLiteStorage) DeleteEntity(ctx context.Context, kind service.EntityKind, id string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(id, "id"); err != nil {
		return err
	}
	table, ok := entityTables[kind]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownEntity, kind)
	}

	// table comes from entityTables, never from input.
	res, err := s.db.ExecContext(ctx, "DELETE FROM "+table+" WHERE id = ? AND user_id = ?", id, s.userID)
	if err != nil {
		return fmt.Errorf("failed to delete %s: %w", kind, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check deleted rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%s %s: %w", kind, id, common.ErrNotFound)
	}
	return nil
}

// upsert executes an insert-or-update statement. An ID owned by another user
// leaves zero rows affected and is reported as a duplicate.
func (s *SQLiteStorage) upsert(ctx context.Context, what, query string, args ...any) error {
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to save %s: %w", what, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check saved rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%s %v: %w", what, args[0], common.ErrDuplicateEntry)
	}
	return nil
}

func assignID(id *string) {
	if *id == "" {
		*id = uuid.NewString()
	}
}
