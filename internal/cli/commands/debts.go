package commands

import (
	"context"
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/debtdesk/debtdesk/internal/cli/client"
	"github.com/debtdesk/debtdesk/internal/cli/router"
)

// NewDebtsCmd creates the debts command group
func NewDebtsCmd(load Loader) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "debts",
		Aliases: []string{"debt"},
		Short:   "Manage debts",
	}

	var output, filter string
	ls := &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List debts",
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := load(cmd.Context())
			if err != nil {
				return err
			}
			return runDebtsList(cmd.Context(), env, filter, output)
		},
	}
	ls.Flags().StringVar(&filter, "filter", client.DebtFilterAll, "Which debts to list: all or overdue")
	ls.Flags().StringVarP(&output, "output", "o", formatTable, "Output format: table, json or yaml")

	var req client.CreateDebtRequest
	add := &cobra.Command{
		Use:   "add",
		Short: "Record a debt for a client",
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := load(cmd.Context())
			if err != nil {
				return err
			}
			return runDebtsAdd(cmd.Context(), env, req)
		},
	}
	add.Flags().StringVar(&req.Customer, "client", "", "Client ID")
	add.Flags().StringVar(&req.TotalAmount, "amount", "", "Total amount owed")
	add.Flags().StringVar(&req.DueDate, "due", "", "Due date (YYYY-MM-DD, defaults to the server's default term)")

	var showOutput string
	show := &cobra.Command{
		Use:   "show <debt-id>",
		Short: "Show a debt",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := load(cmd.Context())
			if err != nil {
				return err
			}
			return runDebtShow(cmd.Context(), env, args[0], showOutput)
		},
	}
	show.Flags().StringVarP(&showOutput, "output", "o", formatTable, "Output format: table, json or yaml")

	rm := &cobra.Command{
		Use:     "rm <debt-id>",
		Aliases: []string{"delete"},
		Short:   "Delete a debt",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := load(cmd.Context())
			if err != nil {
				return err
			}
			return runDebtDelete(cmd.Context(), env, args[0])
		},
	}

	var update client.UpdateDebtRequest
	edit := &cobra.Command{
		Use:   "edit <debt-id>",
		Short: "Change the amount, due date or client of a debt",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := load(cmd.Context())
			if err != nil {
				return err
			}
			return runDebtEdit(cmd.Context(), env, args[0], update)
		},
	}
	edit.Flags().StringVar(&update.TotalAmount, "amount", "", "Total amount owed")
	edit.Flags().StringVar(&update.DueDate, "due", "", "Due date (YYYY-MM-DD)")
	edit.Flags().StringVar(&update.Customer, "client", "", "Client ID")

	var paymentsOutput string
	payments := &cobra.Command{
		Use:   "payments <debt-id>",
		Short: "List the payments made against a debt",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := load(cmd.Context())
			if err != nil {
				return err
			}
			return runDebtPayments(cmd.Context(), env, args[0], paymentsOutput)
		},
	}
	payments.Flags().StringVarP(&paymentsOutput, "output", "o", formatTable, "Output format: table, json or yaml")

	cmd.AddCommand(ls, add, show, edit, rm, payments)
	return cmd
}

func parseDebtID(s string) (int, error) {
	id, err := strconv.Atoi(s)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid debt ID %q", s)
	}
	return id, nil
}

func runDebtsList(ctx context.Context, env *Env, filter, output string) error {
	if _, err := env.navigate(ctx, router.PathDebts); err != nil {
		return err
	}

	debts, err := env.API.ListDebts(ctx, filter)
	if err = env.check(ctx, err); err != nil {
		return err
	}

	if len(debts) == 0 && output == formatTable {
		fmt.Fprintln(env.Out, "No debts found.")
		return nil
	}

	return renderDebts(env, output, debts)
}

func runDebtsAdd(ctx context.Context, env *Env, req client.CreateDebtRequest) error {
	if _, err := env.navigate(ctx, router.PathDebts); err != nil {
		return err
	}

	debt, err := env.API.CreateDebt(ctx, req)
	if err = env.check(ctx, err); err != nil {
		return err
	}

	fmt.Fprintf(env.Out, "✓ Recorded debt %d of %s due %s\n", debt.ID, debt.TotalAmount, debt.DueDate)
	return nil
}

func runDebtShow(ctx context.Context, env *Env, rawID, output string) error {
	id, err := parseDebtID(rawID)
	if err != nil {
		return err
	}
	if _, err := env.navigate(ctx, router.PathDebts); err != nil {
		return err
	}

	debt, err := env.API.GetDebt(ctx, id)
	if err = env.check(ctx, err); err != nil {
		return err
	}

	return renderDebts(env, output, []client.Debt{*debt})
}

func runDebtEdit(ctx context.Context, env *Env, rawID string, req client.UpdateDebtRequest) error {
	id, err := parseDebtID(rawID)
	if err != nil {
		return err
	}
	if _, err := env.navigate(ctx, router.PathDebts); err != nil {
		return err
	}

	debt, err := env.API.UpdateDebt(ctx, id, req)
	if err = env.check(ctx, err); err != nil {
		return err
	}

	fmt.Fprintf(env.Out, "✓ Updated debt %d: %s due %s\n", debt.ID, debt.TotalAmount, debt.DueDate)
	return nil
}

func runDebtDelete(ctx context.Context, env *Env, rawID string) error {
	id, err := parseDebtID(rawID)
	if err != nil {
		return err
	}
	if _, err := env.navigate(ctx, router.PathDebts); err != nil {
		return err
	}

	if err := env.check(ctx, env.API.DeleteDebt(ctx, id)); err != nil {
		return err
	}

	fmt.Fprintf(env.Out, "✓ Deleted debt %d\n", id)
	return nil
}

func runDebtPayments(ctx context.Context, env *Env, rawID, output string) error {
	id, err := parseDebtID(rawID)
	if err != nil {
		return err
	}

	path := router.Build(router.PathDebtPayments, map[string]string{"id": rawID})
	if _, err := env.navigate(ctx, path); err != nil {
		return err
	}

	payments, err := env.API.ListDebtPayments(ctx, id)
	if err = env.check(ctx, err); err != nil {
		return err
	}

	if len(payments) == 0 && output == formatTable {
		fmt.Fprintln(env.Out, "No payments recorded for this debt.")
		return nil
	}

	return renderPayments(env, output, payments)
}

func renderDebts(env *Env, output string, debts []client.Debt) error {
	return render(env.Out, output, debts, func(w *tabwriter.Writer) {
		fmt.Fprintln(w, "ID\tCLIENT\tTOTAL\tREMAINING\tDUE\tPAID")
		fmt.Fprintln(w, "──\t──────\t─────\t─────────\t───\t────")
		for _, d := range debts {
			customer := d.Customer.ID
			if d.Customer.Name != "" {
				customer = d.Customer.Name
			}
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n",
				d.ID,
				customer,
				d.TotalAmount,
				d.RemainingAmount,
				d.DueDate,
				paidLabel(d.IsPaid),
			)
		}
	})
}
