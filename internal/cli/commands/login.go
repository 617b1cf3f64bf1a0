package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/debtdesk/debtdesk/internal/cli/router"
)

// NewLoginCmd creates the login command
func NewLoginCmd(load Loader) *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Authenticate with the debtdesk API",
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := load(cmd.Context())
			if err != nil {
				return err
			}
			return runLogin(cmd.Context(), env, email, password)
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Email address (or set DEBTDESK_EMAIL)")
	cmd.Flags().StringVar(&password, "password", "", "Password (or set DEBTDESK_PASSWORD, will prompt if not provided)")

	return cmd
}

func runLogin(ctx context.Context, env *Env, email, password string) error {
	// Check for environment variables (useful for CI/CD)
	if email == "" {
		email = os.Getenv("DEBTDESK_EMAIL")
	}
	if password == "" {
		password = os.Getenv("DEBTDESK_PASSWORD")
	}

	// Validate email
	if email == "" {
		return fmt.Errorf("email is required (use --email flag or DEBTDESK_EMAIL env var)")
	}

	if _, err := env.navigate(ctx, router.PathLogin); err != nil {
		return err
	}

	// Prompt for password if not provided via flag or env var
	if password == "" {
		var err error
		password, err = readPassword("Password")
		if err != nil {
			return err
		}
	}

	fmt.Fprintf(env.Out, "Logging in to %s...\n", env.API.BaseURL())

	loginResp, err := env.API.Login(ctx, email, password)
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}

	// Persist the token and load the profile through it
	if err := env.Session.SetToken(ctx, loginResp.Access); err != nil {
		return fmt.Errorf("login failed: %w", err)
	}
	if loginResp.Refresh != "" {
		if err := env.Session.SetRefreshToken(ctx, loginResp.Refresh); err != nil {
			return err
		}
	}

	if _, err := env.navigate(ctx, router.PathHome); err != nil {
		return err
	}

	user := env.Session.User()
	fmt.Fprintln(env.Out, "✓ Login successful!")
	fmt.Fprintf(env.Out, "  User: %s (%s)\n", displayName(user.FullName, user.Email), user.Email)
	if user.Role != "" {
		fmt.Fprintf(env.Out, "  Role: %s\n", user.Role)
	}

	return nil
}

func displayName(fullName, fallback string) string {
	if fullName == "" || fullName == " " {
		return fallback
	}
	return fullName
}
