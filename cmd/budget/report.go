package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Veraticus/safe-to-spend/internal/budget"
	"github.com/Veraticus/safe-to-spend/internal/cli"
	"github.com/Veraticus/safe-to-spend/internal/common"
	"github.com/Veraticus/safe-to-spend/internal/config"
	"github.com/Veraticus/safe-to-spend/internal/notify"
	"github.com/Veraticus/safe-to-spend/internal/report"
	"github.com/Veraticus/safe-to-spend/internal/sheets"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func reportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Show weekly totals, budgets and overspending",
		Long: `Show what is safe to spend, each budget line against actual spending,
the weeks where a budget line was exceeded and income/expense totals per week.

Ranges: 4w, 8w, 3m, 6m, ytd, all.`,
		Args: cobra.NoArgs,
		RunE: runReport,
	}
	cmd.Flags().StringP("range", "r", string(budget.Last8Weeks), "reporting range")
	cmd.Flags().Bool("advise", false, "ask the configured LLM for suggestions and an alert")
	cmd.Flags().Bool("export", false, "write the report to Google Sheets")
	cmd.Flags().Bool("publish", false, "publish over-budget alerts to AMQP")

	_ = viper.BindPFlag("report.range", cmd.Flags().Lookup("range"))
	return cmd
}

func runReport(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()
	advise, _ := cmd.Flags().GetBool("advise")
	export, _ := cmd.Flags().GetBool("export")
	publish, _ := cmd.Flags().GetBool("publish")

	preset, err := budget.ParseRangePreset(viper.GetString("report.range"))
	if err != nil {
		return common.NewUserError("invalid --range", err)
	}

	opts := reportOptions{preset: preset, advise: advise}
	if advise {
		gateway, closeFn, err := newAdvisor(slog.Default())
		if err != nil {
			_, _ = fmt.Fprintln(cmd.ErrOrStderr(), cli.FormatWarning("Advice disabled: "+err.Error()))
			opts.advise = false
		} else {
			defer closeFn()
			opts.gateway = gateway
		}
	}

	store, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	rep, err := loadReport(ctx, store, opts)
	if err != nil {
		return err
	}
	if err := cli.RenderReport(out, rep); err != nil {
		return err
	}

	if export {
		if err := exportReport(cmd, rep); err != nil {
			return err
		}
	}
	if publish {
		return publishAlerts(cmd, rep, store.UserID())
	}
	return nil
}

// newSheetsWriter is replaced in tests.
var newSheetsWriter = func(cmd *cobra.Command, cfg sheets.Config) (sheets.ReportWriter, error) {
	return sheets.NewWriter(cmd.Context(), cfg, slog.Default())
}

func exportReport(cmd *cobra.Command, rep *report.Report) error {
	cfg, err := config.LoadSheetsConfig(viper.GetViper())
	if err != nil {
		return common.NewUserError("google sheets is not configured", err)
	}
	writer, err := newSheetsWriter(cmd, *cfg)
	if err != nil {
		return common.NewUserError("could not connect to google sheets", err)
	}
	id, err := writer.WriteReport(cmd.Context(), rep)
	if err != nil {
		return common.NewUserError("export failed", err)
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(
		"Exported to https://docs.google.com/spreadsheets/d/"+id))
	return err
}

// alertPublisher is the part of notify.Publisher the report command uses.
type alertPublisher interface {
	PublishOverBudget(ctx context.Context, userID string, rows []budget.OverBudgetRow, message string) (int, error)
	Close() error
}

// newPublisher is replaced in tests.
var newPublisher = func(cfg notify.Config) (alertPublisher, error) {
	return notify.NewPublisher(cfg, slog.Default())
}

func publishAlerts(cmd *cobra.Command, rep *report.Report, userID string) error {
	if len(rep.OverBudget) == 0 {
		_, err := fmt.Fprintln(cmd.OutOrStdout(), cli.FormatInfo("Nothing over budget, no alerts published"))
		return err
	}

	cfg, err := config.LoadNotifyConfig(viper.GetViper())
	if err != nil {
		return common.NewUserError("amqp is not configured", err)
	}
	pub, err := newPublisher(cfg)
	if err != nil {
		return common.NewUserError("could not connect to the message broker", err)
	}
	defer func() { _ = pub.Close() }()

	n, err := pub.PublishOverBudget(cmd.Context(), userID, rep.OverBudget, rep.Alert)
	if err != nil {
		return common.NewUserError(fmt.Sprintf("published %d of %d alerts", n, len(rep.OverBudget)), err)
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Published %d over-budget alerts", n)))
	return err
}
