package main

import (
	"fmt"

	"github.com/Veraticus/safe-to-spend/internal/budget"
	"github.com/Veraticus/safe-to-spend/internal/cli"
	"github.com/Veraticus/safe-to-spend/internal/common"
	"github.com/spf13/cobra"
)

func settingsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "View or change per-user settings",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "week-start [day]",
		Short: "Show or set the first day of the budget week",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, err := openStore(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if len(args) == 0 {
				day, err := weekStart(ctx, store)
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), "Weeks start on "+day.String())
				return err
			}

			day, err := budget.ParseWeekday(args[0])
			if err != nil {
				return common.NewUserError("invalid day", err)
			}
			if err := store.SetWeekStart(ctx, day); err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess("Weeks now start on "+day.String()))
			return err
		},
	})
	return cmd
}
