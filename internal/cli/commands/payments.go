package commands

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/debtdesk/debtdesk/internal/cli/client"
	"github.com/debtdesk/debtdesk/internal/cli/router"
)

// NewPaymentsCmd creates the payments command group
func NewPaymentsCmd(load Loader) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "payments",
		Aliases: []string{"payment"},
		Short:   "Manage payments",
	}

	var output string
	ls := &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List all payments",
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := load(cmd.Context())
			if err != nil {
				return err
			}
			return runPaymentsList(cmd.Context(), env, output)
		},
	}
	ls.Flags().StringVarP(&output, "output", "o", formatTable, "Output format: table, json or yaml")

	var req client.CreatePaymentRequest
	add := &cobra.Command{
		Use:   "add",
		Short: "Record a payment against a debt",
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := load(cmd.Context())
			if err != nil {
				return err
			}
			return runPaymentsAdd(cmd.Context(), env, req)
		},
	}
	add.Flags().IntVar(&req.Debt, "debt", 0, "Debt ID")
	add.Flags().StringVar(&req.Amount, "amount", "", "Amount paid")

	cmd.AddCommand(ls, add)
	return cmd
}

func runPaymentsList(ctx context.Context, env *Env, output string) error {
	if _, err := env.navigate(ctx, router.PathPayments); err != nil {
		return err
	}

	payments, err := env.API.ListPayments(ctx)
	if err = env.check(ctx, err); err != nil {
		return err
	}

	if len(payments) == 0 && output == formatTable {
		fmt.Fprintln(env.Out, "No payments found.")
		return nil
	}

	return renderPayments(env, output, payments)
}

func runPaymentsAdd(ctx context.Context, env *Env, req client.CreatePaymentRequest) error {
	if _, err := env.navigate(ctx, router.PathPayments); err != nil {
		return err
	}

	payment, err := env.API.CreatePayment(ctx, req)
	if err = env.check(ctx, err); err != nil {
		return err
	}

	fmt.Fprintf(env.Out, "✓ Recorded payment of %s against debt %d\n", payment.Amount, payment.Debt)
	return nil
}

func renderPayments(env *Env, output string, payments []client.Payment) error {
	return render(env.Out, output, payments, func(w *tabwriter.Writer) {
		fmt.Fprintln(w, "ID\tDEBT\tAMOUNT\tBY\tCREATED AT")
		fmt.Fprintln(w, "──\t────\t──────\t──\t──────────")
		for _, p := range payments {
			fmt.Fprintf(w, "%s\t%d\t%s\t%s\t%s\n", p.ID, p.Debt, p.Amount, p.UserEmail, p.CreatedAt)
		}
	})
}
