package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Veraticus/safe-to-spend/internal/model"
	"golang.org/x/sync/errgroup"
)

// LoadSnapshot reads all five budget collections for the user. The reads run
// concurrently and the first failure cancels the rest.
func (s *SQLiteStorage) LoadSnapshot(ctx context.Context) (model.Snapshot, error) {
	if err := validateContext(ctx); err != nil {
		return model.Snapshot{}, err
	}

	var snap model.Snapshot
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() (err error) {
		snap.IncomeSources, err = s.ListIncomeSources(ctx)
		return err
	})
	g.Go(func() (err error) {
		snap.RequiredExpenses, err = s.ListRequiredExpenses(ctx)
		return err
	})
	g.Go(func() (err error) {
		snap.DiscretionaryExpenses, err = s.ListDiscretionaryExpenses(ctx)
		return err
	})
	g.Go(func() (err error) {
		snap.Loans, err = s.ListLoans(ctx)
		return err
	})
	g.Go(func() (err error) {
		snap.SavingsGoals, err = s.ListSavingsGoals(ctx)
		return err
	})

	if err := g.Wait(); err != nil {
		return model.Snapshot{}, fmt.Errorf("failed to load budget snapshot: %w", err)
	}
	return snap, nil
}

func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}
