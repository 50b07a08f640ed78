package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/Veraticus/safe-to-spend/internal/model"
)

// SaveWeeklySummary stores the totals for a week, replacing any earlier
// summary for the same week start.
func (s *SQLiteStorage) SaveWeeklySummary(ctx context.Context, summary model.WeeklySummary) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if summary.WeekEnd.Before(summary.WeekStart) {
		return ErrInvalidDateRange
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO weekly_summaries (user_id, week_start, week_end, total_income, total_expenses, net_change)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id, week_start) DO UPDATE SET
			week_end = excluded.week_end,
			total_income = excluded.total_income,
			total_expenses = excluded.total_expenses,
			net_change = excluded.net_change,
			created_at = CURRENT_TIMESTAMP`,
		s.userID, summary.WeekStart.UTC(), summary.WeekEnd.UTC(),
		summary.TotalIncome, summary.TotalExpenses, summary.NetChange)
	if err != nil {
		return fmt.Errorf("failed to save weekly summary: %w", err)
	}
	return nil
}

// GetWeeklySummaries returns stored summaries, most recent week first.
// A limit of zero returns all of them.
func (s *SQLiteStorage) GetWeeklySummaries(ctx context.Context, limit int) ([]model.WeeklySummary, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	query := `
		SELECT week_start, week_end, total_income, total_expenses, net_change
		FROM weekly_summaries WHERE user_id = ? ORDER BY week_start DESC`
	args := []any{s.userID}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query weekly summaries: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []model.WeeklySummary
	for rows.Next() {
		var ws model.WeeklySummary
		if err := rows.Scan(&ws.WeekStart, &ws.WeekEnd, &ws.TotalIncome, &ws.TotalExpenses, &ws.NetChange); err != nil {
			return nil, fmt.Errorf("failed to scan weekly summary: %w", err)
		}
		out = append(out, ws)
	}
	return out, rows.Err()
}

// GetWeekStart returns the user's configured first day of the week,
// defaulting to Sunday.
func (s *SQLiteStorage) GetWeekStart(ctx context.Context) (time.Weekday, error) {
	if err := validateContext(ctx); err != nil {
		return time.Sunday, err
	}

	var day int
	err := s.db.QueryRowContext(ctx,
		"SELECT week_start FROM user_settings WHERE user_id = ?", s.userID).Scan(&day)
	if err != nil {
		if isNoRows(err) {
			return time.Sunday, nil
		}
		return time.Sunday, fmt.Errorf("failed to read week start: %w", err)
	}
	return time.Weekday(day), nil
}

// SetWeekStart stores the user's first day of the week.
func (s *SQLiteStorage) SetWeekStart(ctx context.Context, day time.Weekday) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if day < time.Sunday || day > time.Saturday {
		return fmt.Errorf("%w: %d", ErrInvalidWeekday, day)
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO user_settings (user_id, week_start) VALUES (?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			week_start = excluded.week_start,
			updated_at = CURRENT_TIMESTAMP`,
		s.userID, int(day))
	if err != nil {
		return fmt.Errorf("failed to save week start: %w", err)
	}
	return nil
}
