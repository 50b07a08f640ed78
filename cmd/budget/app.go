package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Veraticus/safe-to-spend/internal/advisor"
	"github.com/Veraticus/safe-to-spend/internal/budget"
	"github.com/Veraticus/safe-to-spend/internal/config"
	"github.com/Veraticus/safe-to-spend/internal/llm"
	"github.com/Veraticus/safe-to-spend/internal/report"
	"github.com/Veraticus/safe-to-spend/internal/service"
	"github.com/Veraticus/safe-to-spend/internal/storage"
	"github.com/spf13/viper"
)

// now is replaced in tests.
var now = time.Now

// openStore opens and migrates the configured database for the configured user.
func openStore(ctx context.Context) (*storage.SQLiteStorage, error) {
	store, err := storage.NewSQLiteStorage(config.DatabasePath(viper.GetViper()), config.User(viper.GetViper()))
	if err != nil {
		return nil, err
	}
	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	return store, nil
}

// weekStart returns budget.week_start when configured, else the stored setting.
func weekStart(ctx context.Context, store service.Storage) (time.Weekday, error) {
	day, ok, err := config.WeekStart(viper.GetViper())
	if err != nil || ok {
		return day, err
	}
	return store.GetWeekStart(ctx)
}

func today() time.Time {
	t := now()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// newAdvisor builds the LLM advisor from config. The returned closer releases
// the client's background workers.
func newAdvisor(logger *slog.Logger) (advisor.Gateway, func(), error) {
	cfg, err := config.LoadLLMConfig(viper.GetViper())
	if err != nil {
		return nil, nil, err
	}
	client, err := llm.NewClient(cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	return advisor.NewLLMAdvisor(client, logger), func() { _ = client.Close() }, nil
}

type reportOptions struct {
	preset  budget.RangePreset
	gateway advisor.Gateway
	advise  bool
}

// loadReport reads the snapshot and the ledger for the preset window and
// builds the report.
func loadReport(ctx context.Context, store service.Storage, opts reportOptions) (*report.Report, error) {
	snapshot, err := store.LoadSnapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load budget: %w", err)
	}

	day, err := weekStart(ctx, store)
	if err != nil {
		return nil, err
	}

	end := today()
	start := opts.preset.Start(end)

	// Edge weeks reach up to six days before the range.
	from := start.AddDate(0, 0, -7)
	txns, err := store.GetTransactions(ctx, service.TransactionFilter{StartDate: &from})
	if err != nil {
		return nil, fmt.Errorf("failed to load transactions: %w", err)
	}

	builder := report.NewBuilder(opts.gateway, viper.GetDuration("advice.timeout"), slog.Default())
	return builder.Build(ctx, report.Input{
		RangeStart:   start,
		RangeEnd:     end,
		Snapshot:     snapshot,
		Transactions: txns,
		WeekStart:    day,
		Advise:       opts.advise,
	}), nil
}
