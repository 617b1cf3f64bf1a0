package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// NewLogoutCmd creates the logout command
func NewLogoutCmd(load Loader) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored access token",
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := load(cmd.Context())
			if err != nil {
				return err
			}
			return runLogout(cmd.Context(), env)
		},
	}
}

func runLogout(ctx context.Context, env *Env) error {
	if err := env.Session.Logout(ctx); err != nil {
		return err
	}
	fmt.Fprintln(env.Out, "✓ Logged out")
	return nil
}
