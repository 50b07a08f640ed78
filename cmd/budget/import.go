package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Veraticus/safe-to-spend/internal/cli"
	"github.com/Veraticus/safe-to-spend/internal/common"
	"github.com/Veraticus/safe-to-spend/internal/config"
	"github.com/Veraticus/safe-to-spend/internal/model"
	"github.com/Veraticus/safe-to-spend/internal/ofx"
	"github.com/Veraticus/safe-to-spend/internal/plaid"
	"github.com/Veraticus/safe-to-spend/internal/simplefin"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func importOFXCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import-ofx <files...>",
		Short: "Import transactions from OFX/QFX files",
		Long: `Import transactions from OFX or QFX files exported from your bank.
Entries already imported are skipped.

Examples:
  budget import-ofx ~/Downloads/checking_mar_2024.qfx
  budget import-ofx ~/Downloads/*.qfx`,
		Args: cobra.MinimumNArgs(1),
		RunE: runImportOFX,
	}
	cmd.Flags().BoolP("dry-run", "d", false, "parse without saving")
	return cmd
}

func runImportOFX(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	out := cmd.OutOrStdout()

	files, err := expandFiles(args)
	if err != nil {
		return err
	}

	parser := ofx.NewParser(slog.Default(), config.CategoryRules(viper.GetViper())...)
	progress := cli.NewProgress(cmd.ErrOrStderr(), len(files), "Importing OFX files")

	var all []model.Transaction
	failed := 0
	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return err
		}
		txns, err := parseOFXFile(cmd, parser, path)
		progress.Step(filepath.Base(path))
		if err != nil {
			failed++
			common.LogError(ctx, err, "Failed to parse OFX file", common.Fields{"file": path})
			continue
		}
		all = append(all, txns...)
	}
	progress.Done()

	if len(all) == 0 {
		if failed > 0 {
			return common.NewUserError("no file could be imported", errors.New("all files failed to parse"))
		}
		_, err := fmt.Fprintln(out, cli.FormatWarning("No transactions found"))
		return err
	}

	if dryRun {
		_, err := fmt.Fprintln(out, cli.FormatInfo(fmt.Sprintf("Dry run: parsed %d transactions from %d files", len(all), len(files)-failed)))
		return err
	}

	store, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	added, err := store.SaveTransactions(ctx, all)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, cli.FormatSuccess(fmt.Sprintf("Imported %d new transactions (%d already present)", added, len(all)-added)))
	return err
}

func parseOFXFile(cmd *cobra.Command, parser *ofx.Parser, path string) ([]model.Transaction, error) {
	f, err := os.Open(path) //nolint:gosec // path is supplied by the user
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	stmt, err := parser.Parse(cmd.Context(), f)
	if err != nil {
		return nil, err
	}
	common.LogDebug(cmd.Context(), "Parsed OFX file", common.Fields{
		"file":         filepath.Base(path),
		"accounts":     stmt.Accounts,
		"transactions": len(stmt.Transactions),
	})
	return stmt.Transactions, nil
}

// expandFiles resolves globs, keeping plain paths that match nothing.
func expandFiles(patterns []string) ([]string, error) {
	var files []string
	for _, pattern := range patterns {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %s: %w", pattern, err)
		}
		if len(matches) == 0 {
			if _, err := os.Stat(pattern); err != nil {
				slog.Warn("No files found matching pattern", "pattern", pattern)
				continue
			}
			matches = []string{pattern}
		}
		files = append(files, matches...)
	}
	if len(files) == 0 {
		return nil, common.NewUserError("no files found to import", common.ErrNotFound)
	}
	return files, nil
}

// newFetcher is replaced in tests.
var newFetcher = func(cfg plaid.Config) (plaid.TransactionFetcher, error) {
	return plaid.NewClient(cfg, slog.Default())
}

// newSimpleFINFetcher is replaced in tests.
var newSimpleFINFetcher = func(cmd *cobra.Command, cfg simplefin.Config) (plaid.TransactionFetcher, error) {
	return simplefin.NewClient(cmd.Context(), cfg, slog.Default())
}

func syncPlaidCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sync-plaid",
		Short: "Fetch recent transactions from Plaid",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.LoadPlaidConfig(viper.GetViper())
			if err != nil {
				return common.NewUserError("plaid is not configured", err)
			}
			return runSync(cmd, "Plaid", func() (plaid.TransactionFetcher, error) { return newFetcher(cfg) })
		},
	}
	cmd.Flags().Int("days", 30, "number of days to fetch")
	return cmd
}

func syncSimpleFINCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sync-simplefin",
		Short: "Fetch recent transactions from a SimpleFIN Bridge",
		Long: `Fetch recent transactions from SimpleFIN. The first run claims the setup
token from simplefin.token or SIMPLEFIN_TOKEN and saves the access URL.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.LoadSimpleFINConfig(viper.GetViper())
			if err != nil {
				return common.NewUserError("simplefin is not configured", err)
			}
			return runSync(cmd, "SimpleFIN", func() (plaid.TransactionFetcher, error) { return newSimpleFINFetcher(cmd, cfg) })
		},
	}
	cmd.Flags().Int("days", 30, "number of days to fetch")
	return cmd
}

// runSync fetches the last --days of transactions and stores the new ones.
func runSync(cmd *cobra.Command, source string, connect func() (plaid.TransactionFetcher, error)) error {
	ctx := cmd.Context()
	days, _ := cmd.Flags().GetInt("days")
	if days <= 0 {
		return common.NewUserError("--days must be positive", common.ErrInvalidConfig)
	}

	fetcher, err := connect()
	if err != nil {
		return common.NewUserError("could not connect to "+source, err)
	}

	end := today()
	start := end.AddDate(0, 0, -days)
	txns, err := fetcher.GetTransactions(ctx, start, end)
	if errors.Is(err, common.ErrNoTransactions) {
		_, err := fmt.Fprintln(cmd.OutOrStdout(), cli.FormatInfo("No new transactions from "+source))
		return err
	}
	if err != nil {
		return common.NewUserError(strings.ToLower(source)+" sync failed", err)
	}

	store, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	added, err := store.SaveTransactions(ctx, txns)
	if err != nil {
		return err
	}
	common.LogInfo(ctx, "Saved synced transactions", common.Fields{
		"source":  source,
		"fetched": len(txns),
		"added":   added,
	})
	_, err = fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf(
		"Synced %d new transactions from %s to %s", added, start.Format(time.DateOnly), end.Format(time.DateOnly))))
	return err
}
