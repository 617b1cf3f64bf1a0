package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/debtdesk/debtdesk/internal/cli/router"
	"github.com/debtdesk/debtdesk/internal/cli/session"
)

// NewWhoamiCmd creates the whoami command
func NewWhoamiCmd(load Loader) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the logged in user",
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := load(cmd.Context())
			if err != nil {
				return err
			}
			return runWhoami(cmd.Context(), env)
		},
	}
}

func runWhoami(ctx context.Context, env *Env) error {
	if _, err := env.navigate(ctx, router.PathHome); err != nil {
		return err
	}

	if err := env.Session.FetchUser(ctx); err != nil {
		if errors.Is(err, session.ErrNoToken) {
			return errNotAuthenticated
		}
		return fmt.Errorf("session expired. Please run 'debtdesk login' again: %w", err)
	}

	user := env.Session.User()
	fmt.Fprintf(env.Out, "User:  %s (%s)\n", displayName(user.FullName, user.Email), user.Email)
	fmt.Fprintf(env.Out, "ID:    %s\n", user.ID)
	if user.Role != "" {
		fmt.Fprintf(env.Out, "Role:  %s\n", user.Role)
	}
	fmt.Fprintf(env.Out, "API:   %s\n", env.API.BaseURL())
	if exp, ok := env.Session.Expiry(); ok {
		fmt.Fprintf(env.Out, "Token: expires %s\n", exp.Local().Format(time.RFC1123))
	}

	return nil
}
