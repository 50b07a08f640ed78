package main

import (
	"context"

	"github.com/Veraticus/safe-to-spend/internal/budget"
	"github.com/Veraticus/safe-to-spend/internal/report"
	"github.com/Veraticus/safe-to-spend/internal/tui"
	"github.com/Veraticus/safe-to-spend/internal/tui/themes"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func dashboardCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Open the interactive budget dashboard",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			rangeFlag, _ := cmd.Flags().GetString("range")
			preset, err := budget.ParseRangePreset(rangeFlag)
			if err != nil {
				return err
			}

			store, err := openStore(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			loader := func(ctx context.Context, p budget.RangePreset) (*report.Report, error) {
				return loadReport(ctx, store, reportOptions{preset: p})
			}
			return tui.Run(ctx, loader,
				tui.WithRange(preset),
				tui.WithTheme(themes.ByName(viper.GetString("dashboard.theme"))),
			)
		},
	}
	cmd.Flags().StringP("range", "r", string(budget.Last8Weeks), "initial range")
	return cmd
}
