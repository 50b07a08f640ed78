package main

import (
	"fmt"
	"time"

	"github.com/Veraticus/safe-to-spend/internal/advisor"
	"github.com/Veraticus/safe-to-spend/internal/budget"
	"github.com/Veraticus/safe-to-spend/internal/cli"
	"github.com/Veraticus/safe-to-spend/internal/common"
	"github.com/Veraticus/safe-to-spend/internal/model"
	"github.com/Veraticus/safe-to-spend/internal/service"
	"github.com/spf13/cobra"
)

func summariesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "summaries",
		Short: "Record and review weekly income/expense summaries",
	}

	closeWeeks := &cobra.Command{
		Use:   "close-weeks",
		Short: "Store summaries for every completed week",
		Long: `Summarize each completed week since the last stored summary, or since
--since, and store the result. Re-running is safe; existing weeks are updated.`,
		Args: cobra.NoArgs,
		RunE: runCloseWeeks,
	}
	closeWeeks.Flags().String("since", "", "first date to summarize (YYYY-MM-DD)")

	list := &cobra.Command{
		Use:   "list",
		Short: "Show stored weekly summaries",
		Args:  cobra.NoArgs,
		RunE:  runListSummaries,
	}
	list.Flags().Int("limit", 12, "number of weeks, 0 for all")

	cmd.AddCommand(closeWeeks, list)
	return cmd
}

func runCloseWeeks(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	store, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	day, err := weekStart(ctx, store)
	if err != nil {
		return err
	}

	since, err := closeWeeksSince(cmd, store)
	if err != nil {
		return err
	}
	if since.IsZero() {
		_, err := fmt.Fprintln(cmd.OutOrStdout(), cli.FormatInfo("No transactions to summarize"))
		return err
	}

	weeks := budget.CompletedWeeks(day, since, today())
	if len(weeks) == 0 {
		_, err := fmt.Fprintln(cmd.OutOrStdout(), cli.FormatInfo("No completed weeks to close"))
		return err
	}

	from := weeks[0].Start
	txns, err := store.GetTransactions(ctx, service.TransactionFilter{StartDate: &from})
	if err != nil {
		return err
	}

	var summarizer advisor.Gateway = advisor.Noop{}
	for _, week := range weeks {
		var inWeek []model.Transaction
		for _, t := range txns {
			if week.Contains(t.Date) {
				inWeek = append(inWeek, t)
			}
		}
		totals, err := summarizer.SummarizeWeek(ctx, inWeek)
		if err != nil {
			return err
		}
		summary := model.WeeklySummary{WeekStart: week.Start, WeekEnd: week.End, WeekTotals: totals}
		if err := store.SaveWeeklySummary(ctx, summary); err != nil {
			return err
		}
	}

	_, err = fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Closed %d weeks (%s to %s)",
		len(weeks), weeks[0].Label(), weeks[len(weeks)-1].Label())))
	return err
}

// closeWeeksSince picks the first day to summarize: --since, the day after
// the latest stored summary, or the first transaction. Zero means there is
// nothing to do.
func closeWeeksSince(cmd *cobra.Command, store service.Storage) (time.Time, error) {
	if s, _ := cmd.Flags().GetString("since"); s != "" {
		d, err := time.Parse(time.DateOnly, s)
		if err != nil {
			return time.Time{}, common.NewUserError("--since must look like 2024-03-15", err)
		}
		return d, nil
	}

	latest, err := store.GetWeeklySummaries(cmd.Context(), 1)
	if err != nil {
		return time.Time{}, err
	}
	if len(latest) > 0 {
		return latest[0].WeekEnd.AddDate(0, 0, 1), nil
	}

	first, err := store.GetTransactions(cmd.Context(), service.TransactionFilter{Limit: 1})
	if err != nil {
		return time.Time{}, err
	}
	if len(first) == 0 {
		return time.Time{}, nil
	}
	return first[0].Date, nil
}

func runListSummaries(cmd *cobra.Command, _ []string) error {
	limit, _ := cmd.Flags().GetInt("limit")
	store, err := openStore(cmd.Context())
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	summaries, err := store.GetWeeklySummaries(cmd.Context(), limit)
	if err != nil {
		return err
	}
	if len(summaries) == 0 {
		return writeLines(cmd.OutOrStdout(), nil, "No weekly summaries; run: budget summaries close-weeks")
	}

	// Stored newest first; RenderWeeks expects oldest first.
	ordered := make([]model.WeeklySummary, len(summaries))
	for i, s := range summaries {
		ordered[len(summaries)-1-i] = s
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), cli.RenderWeeks(ordered))
	return err
}
