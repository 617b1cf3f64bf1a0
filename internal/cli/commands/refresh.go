package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/debtdesk/debtdesk/internal/cli/session"
)

// NewRefreshCmd creates the refresh command
func NewRefreshCmd(load Loader) *cobra.Command {
	return &cobra.Command{
		Use:   "refresh",
		Short: "Exchange the stored refresh token for a new access token",
		Long: `Exchange the refresh token saved at login for a new access token.

Requests never refresh on their own: a rejected token still logs you out.
Run this before the access token expires to extend the session.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := load(cmd.Context())
			if err != nil {
				return err
			}
			return runRefresh(cmd.Context(), env)
		},
	}
}

func runRefresh(ctx context.Context, env *Env) error {
	refresh, err := env.Session.RefreshToken(ctx)
	if errors.Is(err, session.ErrNoRefreshToken) {
		return errNotAuthenticated
	}
	if err != nil {
		return err
	}

	access, err := env.API.Refresh(ctx, refresh)
	if err != nil {
		return fmt.Errorf("refresh failed: %w", err)
	}

	if err := env.Session.SetToken(ctx, access); err != nil {
		return fmt.Errorf("refresh failed: %w", err)
	}

	fmt.Fprintln(env.Out, "✓ Access token refreshed")
	if exp, ok := env.Session.Expiry(); ok {
		fmt.Fprintf(env.Out, "Token: expires %s\n", exp.Local().Format(time.RFC1123))
	}
	return nil
}
