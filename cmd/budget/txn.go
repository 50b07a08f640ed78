package main

import (
	"fmt"
	"time"

	"github.com/Veraticus/safe-to-spend/internal/cli"
	"github.com/Veraticus/safe-to-spend/internal/common"
	"github.com/Veraticus/safe-to-spend/internal/model"
	"github.com/Veraticus/safe-to-spend/internal/money"
	"github.com/Veraticus/safe-to-spend/internal/service"
	"github.com/spf13/cobra"
)

func txnCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "txn",
		Aliases: []string{"transaction"},
		Short:   "Log and review transactions",
	}

	add := &cobra.Command{
		Use:   "add",
		Short: "Log a transaction",
		Args:  cobra.NoArgs,
		RunE:  runTxnAdd,
	}
	add.Flags().String("type", "expense", "income or expense")
	add.Flags().String("amount", "", "amount")
	add.Flags().String("category", "", "budget name or category")
	add.Flags().String("description", "", "description")
	add.Flags().String("date", "", "date (YYYY-MM-DD, default today)")

	list := &cobra.Command{
		Use:   "list",
		Short: "List transactions",
		Args:  cobra.NoArgs,
		RunE:  runTxnList,
	}
	list.Flags().String("from", "", "first date (YYYY-MM-DD)")
	list.Flags().String("to", "", "last date (YYYY-MM-DD)")
	list.Flags().String("type", "", "income or expense")
	list.Flags().Int("limit", 50, "maximum rows, 0 for all")

	del := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a transaction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()
			if err := store.DeleteTransaction(cmd.Context(), args[0]); err != nil {
				return common.NewUserError("could not delete transaction "+args[0], err)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess("Deleted transaction "+args[0]))
			return err
		},
	}

	cmd.AddCommand(add, list, del)
	return cmd
}

func runTxnAdd(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	typ, _ := cmd.Flags().GetString("type")
	category, _ := cmd.Flags().GetString("category")
	description, _ := cmd.Flags().GetString("description")
	dateStr, _ := cmd.Flags().GetString("date")

	date := today()
	if dateStr != "" {
		d, err := time.Parse(time.DateOnly, dateStr)
		if err != nil {
			return common.NewUserError("date must look like 2024-03-15", err)
		}
		date = d
	}

	var amountStr string
	amountStr, _ = cmd.Flags().GetString("amount")
	amount := money.ParseFormattedAmount(amountStr)
	if !cmd.Flags().Changed("amount") {
		var err error
		amount, err = cli.NewPrompter(cmd.InOrStdin(), cmd.OutOrStdout()).AskAmount(ctx, "Amount")
		if err != nil {
			return err
		}
	}

	txn := model.Transaction{
		Type:        model.ParseTransactionType(typ),
		Amount:      amount,
		Date:        date,
		Category:    category,
		Description: description,
		Source:      model.SourceManual,
	}
	if err := txn.Validate(); err != nil {
		return common.NewUserError("invalid transaction", err)
	}

	store, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	txns := []model.Transaction{txn}
	if _, err := store.SaveTransactions(ctx, txns); err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Logged %s %s %s on %s (%s)",
		txn.Type, money.FormatCurrency(txn.Amount), txn.Category, txn.Date.Format(time.DateOnly), txns[0].ID)))
	return err
}

func runTxnList(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	filter := service.TransactionFilter{}
	filter.Limit, _ = cmd.Flags().GetInt("limit")
	if typ, _ := cmd.Flags().GetString("type"); typ != "" {
		filter.Type = model.ParseTransactionType(typ)
	}
	for flag, dst := range map[string]**time.Time{"from": &filter.StartDate, "to": &filter.EndDate} {
		s, _ := cmd.Flags().GetString(flag)
		if s == "" {
			continue
		}
		d, err := time.Parse(time.DateOnly, s)
		if err != nil {
			return common.NewUserError("--"+flag+" must look like 2024-03-15", err)
		}
		*dst = &d
	}

	store, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	txns, err := store.GetTransactions(ctx, filter)
	if err != nil {
		return err
	}

	lines := make([]string, 0, len(txns))
	for _, t := range txns {
		amount := money.FormatCurrency(t.Amount)
		if t.Type.IsIncome() {
			amount = cli.SuccessStyle.Render("+" + amount)
		}
		lines = append(lines, fmt.Sprintf("%s  %s  %-20s %12s  %s",
			cli.SubtleStyle.Render(t.ID), t.Date.Format(time.DateOnly), t.Category, amount, t.Description))
	}
	return writeLines(cmd.OutOrStdout(), lines, "No transactions")
}
