package main

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/Veraticus/safe-to-spend/internal/budget"
	"github.com/Veraticus/safe-to-spend/internal/cli"
	"github.com/Veraticus/safe-to-spend/internal/common"
	"github.com/Veraticus/safe-to-spend/internal/model"
	"github.com/Veraticus/safe-to-spend/internal/money"
	"github.com/Veraticus/safe-to-spend/internal/service"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

// entityKind describes one of the five budget collections for the generic
// add/list/delete commands.
type entityKind struct {
	kind   service.EntityKind
	short  string
	flags  func(*cobra.Command)
	add    func(ctx context.Context, in *entityInput, store service.Storage) (string, error)
	list   func(ctx context.Context, store service.Storage, w io.Writer) error
	recurs model.Recurrence
}

var entityKinds = []entityKind{
	{
		kind:   service.EntityIncome,
		short:  "Manage income sources",
		recurs: model.BiWeekly,
		add:    addIncome,
		list:   listIncome,
	},
	{
		kind:   service.EntityRequired,
		short:  "Manage required expenses",
		recurs: model.Monthly,
		add:    addRequired,
		list:   listRequired,
	},
	{
		kind:   service.EntityDiscretionary,
		short:  "Manage discretionary expenses",
		recurs: model.Weekly,
		add:    addDiscretionary,
		list:   listDiscretionary,
	},
	{
		kind:   service.EntityLoan,
		short:  "Manage loans",
		recurs: model.Monthly,
		flags: func(cmd *cobra.Command) {
			cmd.Flags().String("balance", "", "remaining balance")
			cmd.Flags().String("paid", "", "amount already repaid")
			cmd.Flags().String("rate", "", "interest rate in percent")
			cmd.Flags().String("payment", "", "scheduled payment per period")
		},
		add:  addLoan,
		list: listLoans,
	},
	{
		kind:   service.EntitySavings,
		short:  "Manage savings goals",
		recurs: model.Weekly,
		flags: func(cmd *cobra.Command) {
			cmd.Flags().String("target", "", "target amount")
			cmd.Flags().String("current", "", "amount saved so far")
			cmd.Flags().String("contribution", "", "contribution per period")
		},
		add:  addSavings,
		list: listSavings,
	},
}

// entityInput holds the parsed add flags.
type entityInput struct {
	cmd         *cobra.Command
	due         *time.Time
	name        string
	category    string
	description string
	recurrence  model.Recurrence
}

func (in *entityInput) amount(flag string) decimal.Decimal {
	raw, _ := in.cmd.Flags().GetString(flag)
	return money.ParseFormattedAmount(raw)
}

// requiredAmount reads flag, prompting for it when it was not given.
func (in *entityInput) requiredAmount(ctx context.Context, flag, label string) (decimal.Decimal, error) {
	if in.cmd.Flags().Changed(flag) {
		return in.amount(flag), nil
	}
	return cli.NewPrompter(in.cmd.InOrStdin(), in.cmd.OutOrStdout()).AskAmount(ctx, label)
}

func entityCmd(k entityKind) *cobra.Command {
	cmd := &cobra.Command{
		Use:   string(k.kind),
		Short: k.short,
	}

	add := &cobra.Command{
		Use:   "add",
		Short: "Add an entry",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runEntityAdd(cmd, k)
		},
	}
	add.Flags().String("name", "", "display name")
	add.Flags().String("category", "", "category ("+categoryHint(k.kind)+")")
	add.Flags().String("description", "", "description, required for Miscellaneous")
	add.Flags().String("amount", "", "amount per period")
	add.Flags().String("recurrence", string(k.recurs), "Weekly, BiWeekly, TwiceAMonth, Monthly, Quarterly, SemiAnnual, Yearly or OneTime")
	add.Flags().String("due", "", "next due date (YYYY-MM-DD)")
	if k.flags != nil {
		k.flags(add)
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List entries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()
			return k.list(cmd.Context(), store, cmd.OutOrStdout())
		},
	}

	del := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEntityDelete(cmd, k.kind, args[0])
		},
	}
	del.Flags().BoolP("yes", "y", false, "skip confirmation")

	cmd.AddCommand(add, list, del)
	return cmd
}

func categoryHint(kind service.EntityKind) string {
	var cat model.CategoryKind
	switch kind {
	case service.EntityRequired:
		cat = model.KindRequired
	case service.EntityDiscretionary:
		cat = model.KindDiscretionary
	case service.EntityLoan:
		cat = model.KindLoan
	case service.EntitySavings:
		cat = model.KindSavings
	default:
		return "unused"
	}
	return strings.Join(model.Categories(cat), ", ")
}

func runEntityAdd(cmd *cobra.Command, k entityKind) error {
	ctx := cmd.Context()
	in, err := parseEntityInput(cmd)
	if err != nil {
		return err
	}

	store, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	label, err := k.add(ctx, in, store)
	if err != nil {
		return common.NewUserError(fmt.Sprintf("could not save %s", k.kind), err)
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Saved %s %s", k.kind, label)))
	return err
}

func parseEntityInput(cmd *cobra.Command) (*entityInput, error) {
	in := &entityInput{cmd: cmd}
	in.name, _ = cmd.Flags().GetString("name")
	in.category, _ = cmd.Flags().GetString("category")
	in.description, _ = cmd.Flags().GetString("description")

	rec, _ := cmd.Flags().GetString("recurrence")
	in.recurrence = model.ParseRecurrence(rec)

	if due, _ := cmd.Flags().GetString("due"); due != "" {
		t, err := time.Parse(time.DateOnly, due)
		if err != nil {
			return nil, common.NewUserError("due date must look like 2024-03-15", err)
		}
		in.due = &t
	}
	return in, nil
}

func runEntityDelete(cmd *cobra.Command, kind service.EntityKind, id string) error {
	ctx := cmd.Context()
	if yes, _ := cmd.Flags().GetBool("yes"); !yes {
		ok, err := cli.NewPrompter(cmd.InOrStdin(), cmd.OutOrStdout()).
			Confirm(ctx, fmt.Sprintf("Delete %s %s?", kind, id))
		if err != nil {
			return err
		}
		if !ok {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), cli.FormatInfo("Nothing deleted"))
			return err
		}
	}

	store, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	if err := store.DeleteEntity(ctx, kind, id); err != nil {
		return common.NewUserError(fmt.Sprintf("could not delete %s %s", kind, id), err)
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Deleted %s %s", kind, id)))
	return err
}

func addIncome(ctx context.Context, in *entityInput, store service.Storage) (string, error) {
	amount, err := in.requiredAmount(ctx, "amount", "Amount")
	if err != nil {
		return "", err
	}
	src := &model.IncomeSource{
		Name:        in.name,
		Description: in.description,
		Recurrence:  in.recurrence,
		Amount:      amount,
		DueDate:     in.due,
	}
	if err := src.Validate(); err != nil {
		return "", err
	}
	return src.Name, store.SaveIncomeSource(ctx, src)
}

func addRequired(ctx context.Context, in *entityInput, store service.Storage) (string, error) {
	amount, err := in.requiredAmount(ctx, "amount", "Amount")
	if err != nil {
		return "", err
	}
	e := &model.RequiredExpense{
		Category:    in.category,
		Name:        in.name,
		Description: in.description,
		Recurrence:  in.recurrence,
		Amount:      amount,
		DueDate:     in.due,
	}
	if err := e.Validate(); err != nil {
		return "", err
	}
	return e.DisplayName(), store.SaveRequiredExpense(ctx, e)
}

func addDiscretionary(ctx context.Context, in *entityInput, store service.Storage) (string, error) {
	amount, err := in.requiredAmount(ctx, "amount", "Planned amount")
	if err != nil {
		return "", err
	}
	e := &model.DiscretionaryExpense{
		Category:      in.category,
		Name:          in.name,
		Description:   in.description,
		Recurrence:    in.recurrence,
		PlannedAmount: amount,
		DueDate:       in.due,
	}
	if err := e.Validate(); err != nil {
		return "", err
	}
	return e.DisplayName(), store.SaveDiscretionaryExpense(ctx, e)
}

func addLoan(ctx context.Context, in *entityInput, store service.Storage) (string, error) {
	balance, err := in.requiredAmount(ctx, "balance", "Remaining balance")
	if err != nil {
		return "", err
	}
	l := &model.Loan{
		Name:              in.name,
		Category:          in.category,
		Description:       in.description,
		PaymentRecurrence: in.recurrence,
		TotalBalance:      balance,
		PaidAmount:        in.amount("paid"),
		InterestRate:      in.amount("rate"),
		PaymentAmount:     in.amount("payment"),
		DueDate:           in.due,
	}
	if err := l.Validate(); err != nil {
		return "", err
	}
	return l.DisplayName(), store.SaveLoan(ctx, l)
}

func addSavings(ctx context.Context, in *entityInput, store service.Storage) (string, error) {
	g := &model.SavingsGoal{
		Name:               in.name,
		Category:           in.category,
		Description:        in.description,
		Recurrence:         in.recurrence,
		TargetAmount:       in.amount("target"),
		CurrentAmount:      in.amount("current"),
		WeeklyContribution: in.amount("contribution"),
	}
	if err := g.Validate(); err != nil {
		return "", err
	}
	return g.DisplayName(), store.SaveSavingsGoal(ctx, g)
}

func writeLines(w io.Writer, lines []string, empty string) error {
	if len(lines) == 0 {
		_, err := fmt.Fprintln(w, cli.SubtleStyle.Render(empty))
		return err
	}
	_, err := fmt.Fprintln(w, strings.Join(lines, "\n"))
	return err
}

func entityLine(id, label string, amount decimal.Decimal, r model.Recurrence, detail string) string {
	weekly := budget.WeeklyAmount(amount, r)
	info := fmt.Sprintf("%s, %s/week", r, money.FormatCurrency(weekly))
	if detail != "" {
		info += ", " + detail
	}
	return cli.SubtleStyle.Render(id) + "  " + cli.RenderAmountLine(label, amount, info)
}

func listIncome(ctx context.Context, store service.Storage, w io.Writer) error {
	items, err := store.ListIncomeSources(ctx)
	if err != nil {
		return err
	}
	lines := make([]string, 0, len(items))
	for _, s := range items {
		lines = append(lines, entityLine(s.ID, s.Name, s.Amount, s.Recurrence, ""))
	}
	return writeLines(w, lines, "No income sources")
}

func listRequired(ctx context.Context, store service.Storage, w io.Writer) error {
	items, err := store.ListRequiredExpenses(ctx)
	if err != nil {
		return err
	}
	lines := make([]string, 0, len(items))
	for _, e := range items {
		lines = append(lines, entityLine(e.ID, e.DisplayName(), e.Amount, e.Recurrence, e.Category))
	}
	return writeLines(w, lines, "No required expenses")
}

func listDiscretionary(ctx context.Context, store service.Storage, w io.Writer) error {
	items, err := store.ListDiscretionaryExpenses(ctx)
	if err != nil {
		return err
	}
	lines := make([]string, 0, len(items))
	for _, e := range items {
		lines = append(lines, entityLine(e.ID, e.DisplayName(), e.PlannedAmount, e.Recurrence.OrWeekly(), e.Category))
	}
	return writeLines(w, lines, "No discretionary expenses")
}

func listLoans(ctx context.Context, store service.Storage, w io.Writer) error {
	items, err := store.ListLoans(ctx)
	if err != nil {
		return err
	}
	lines := make([]string, 0, len(items))
	for _, l := range items {
		detail := fmt.Sprintf("balance %s, %s repaid",
			money.FormatCurrency(l.TotalBalance), money.FormatPercent(l.PercentPaid()))
		lines = append(lines, entityLine(l.ID, l.DisplayName(), l.Payment(), l.PaymentRecurrence, detail))
	}
	return writeLines(w, lines, "No loans")
}

func listSavings(ctx context.Context, store service.Storage, w io.Writer) error {
	items, err := store.ListSavingsGoals(ctx)
	if err != nil {
		return err
	}
	lines := make([]string, 0, len(items))
	for _, g := range items {
		detail := fmt.Sprintf("%s of %s saved",
			money.FormatCurrency(g.CurrentAmount), money.FormatCurrency(g.TargetAmount))
		lines = append(lines, entityLine(g.ID, g.DisplayName(), g.WeeklyContribution, g.Recurrence.OrWeekly(), detail))
	}
	return writeLines(w, lines, "No savings goals")
}
