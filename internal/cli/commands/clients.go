package commands

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/debtdesk/debtdesk/internal/cli/client"
	"github.com/debtdesk/debtdesk/internal/cli/router"
)

// NewClientsCmd creates the clients command group
func NewClientsCmd(load Loader) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "clients",
		Aliases: []string{"client"},
		Short:   "Manage clients (debtors)",
	}

	var output string
	ls := &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List all clients",
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := load(cmd.Context())
			if err != nil {
				return err
			}
			return runClientsList(cmd.Context(), env, output)
		},
	}
	ls.Flags().StringVarP(&output, "output", "o", formatTable, "Output format: table, json or yaml")

	var req client.CreateCustomerRequest
	add := &cobra.Command{
		Use:   "add",
		Short: "Add a client",
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := load(cmd.Context())
			if err != nil {
				return err
			}
			return runClientsAdd(cmd.Context(), env, req)
		},
	}
	add.Flags().StringVar(&req.Name, "name", "", "Client name")
	add.Flags().StringVar(&req.Phone, "phone", "", "Phone number")
	add.Flags().StringVar(&req.Balance, "balance", "", "Opening balance")

	var debtsOutput string
	debts := &cobra.Command{
		Use:   "debts <client-id>",
		Short: "List the debts of a client",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := load(cmd.Context())
			if err != nil {
				return err
			}
			return runClientDebts(cmd.Context(), env, args[0], debtsOutput)
		},
	}
	debts.Flags().StringVarP(&debtsOutput, "output", "o", formatTable, "Output format: table, json or yaml")

	cmd.AddCommand(ls, add, debts)
	return cmd
}

func runClientsList(ctx context.Context, env *Env, output string) error {
	if _, err := env.navigate(ctx, router.PathClients); err != nil {
		return err
	}

	customers, err := env.API.ListCustomers(ctx)
	if err = env.check(ctx, err); err != nil {
		return err
	}

	if len(customers) == 0 && output == formatTable {
		fmt.Fprintln(env.Out, "No clients found.")
		fmt.Fprintln(env.Out, "\nAdd one with: debtdesk clients add --name <name> --phone <phone>")
		return nil
	}

	return render(env.Out, output, customers, func(w *tabwriter.Writer) {
		fmt.Fprintln(w, "ID\tNAME\tPHONE\tBALANCE")
		fmt.Fprintln(w, "──\t────\t─────\t───────")
		for _, c := range customers {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", c.ID, c.Name, c.Phone, c.Balance)
		}
	})
}

func runClientsAdd(ctx context.Context, env *Env, req client.CreateCustomerRequest) error {
	if _, err := env.navigate(ctx, router.PathClients); err != nil {
		return err
	}

	customer, err := env.API.CreateCustomer(ctx, req)
	if err = env.check(ctx, err); err != nil {
		return err
	}

	fmt.Fprintf(env.Out, "✓ Added client %s (%s)\n", customer.Name, customer.ID)
	return nil
}

func runClientDebts(ctx context.Context, env *Env, customerID, output string) error {
	path := router.Build(router.PathClientDebt, map[string]string{"id": customerID})
	if _, err := env.navigate(ctx, path); err != nil {
		return err
	}

	resp, err := env.API.ListCustomerDebts(ctx, customerID)
	if err = env.check(ctx, err); err != nil {
		return err
	}

	if output != formatTable && output != "" {
		return render(env.Out, output, resp, nil)
	}

	c := resp.Customer
	fmt.Fprintf(env.Out, "Client: %s (%s)\n", c.Name, c.ID)
	fmt.Fprintf(env.Out, "  Phone:   %s\n", c.Phone)
	fmt.Fprintf(env.Out, "  Balance: %s\n\n", c.Balance)

	if len(resp.Debts) == 0 {
		fmt.Fprintln(env.Out, "No debts found for this client.")
		return nil
	}

	return renderDebts(env, output, resp.Debts)
}
