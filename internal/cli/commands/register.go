package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/debtdesk/debtdesk/internal/cli/client"
	"github.com/debtdesk/debtdesk/internal/cli/router"
)

type registerOptions struct {
	email    string
	username string
	password string
	role     string
}

// NewRegisterCmd creates the register command
func NewRegisterCmd(load Loader) *cobra.Command {
	var opts registerOptions

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create a new account",
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := load(cmd.Context())
			if err != nil {
				return err
			}
			return runRegister(cmd.Context(), env, opts)
		},
	}

	cmd.Flags().StringVar(&opts.email, "email", "", "Email address")
	cmd.Flags().StringVar(&opts.username, "username", "", "Username")
	cmd.Flags().StringVar(&opts.password, "password", "", "Password (will prompt if not provided)")
	cmd.Flags().StringVar(&opts.role, "role", "", "Role: seller or manager (will prompt if not provided)")

	return cmd
}

func runRegister(ctx context.Context, env *Env, opts registerOptions) error {
	if opts.email == "" {
		return fmt.Errorf("email is required (use --email flag)")
	}
	if opts.username == "" {
		opts.username = opts.email
	}

	if _, err := env.navigate(ctx, router.PathRegister); err != nil {
		return err
	}

	confirm := opts.password
	if opts.password == "" {
		var err error
		if opts.password, err = readPassword("Password"); err != nil {
			return err
		}
		if confirm, err = readPassword("Confirm password"); err != nil {
			return err
		}
	}

	if opts.role == "" {
		if stdinIsTerminal() {
			role, err := promptRole()
			if err != nil {
				return err
			}
			opts.role = role
		} else {
			opts.role = roleOptions[0].Value
		}
	}

	user, err := env.API.Register(ctx, client.RegisterRequest{
		Email:           opts.email,
		Username:        opts.username,
		Password:        opts.password,
		ConfirmPassword: confirm,
		Role:            opts.role,
	})
	if err != nil {
		return fmt.Errorf("registration failed: %w", err)
	}

	fmt.Fprintf(env.Out, "✓ Registered %s (%s)\n", user.Email, user.Role)
	fmt.Fprintln(env.Out, "\nRun 'debtdesk login' to authenticate")
	return nil
}
