package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/debtdesk/debtdesk/internal/cli/commands"
	"github.com/debtdesk/debtdesk/internal/config"
	"github.com/debtdesk/debtdesk/internal/logger"
)

var version = "dev" // Will be set during build

func newRootCmd() (*cobra.Command, func()) {
	var flags config.Overrides
	var env *commands.Env

	// load builds the environment once per invocation, after flags are parsed
	load := func(ctx context.Context) (*commands.Env, error) {
		if env != nil {
			return env, nil
		}

		cfg, err := config.Load(flags)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}

		log := logger.Init(cfg.Logging.Level, cfg.Logging.Format)

		env, err = commands.NewEnv(ctx, cfg, log, os.Stdout)
		if err != nil {
			return nil, err
		}
		return env, nil
	}

	cleanup := func() {
		if env != nil {
			_ = env.Close()
		}
	}

	rootCmd := &cobra.Command{
		Use:   "debtdesk",
		Short: "debtdesk - debts and payments from the terminal",
		Long: `debtdesk CLI - Track clients, debts and payments against a debtdesk server.

Log in once; the access token is kept in the configured session storage and
sent with every request until you log out or the server rejects it.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&flags.APIURL, "api-url", "", "API server URL (overrides config and DEBTDESK_API_URL)")
	rootCmd.PersistentFlags().StringVar(&flags.WebURL, "web-url", "", "Web app URL used by open (overrides config and DEBTDESK_WEB_URL)")
	rootCmd.PersistentFlags().StringVar(&flags.Storage, "storage", "", "Session storage backend (overrides config and DEBTDESK_STORAGE)")
	rootCmd.PersistentFlags().StringVar(&flags.StoragePath, "storage-path", "", "Session storage file (overrides config and DEBTDESK_STORAGE_PATH)")

	// Add version command
	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("debtdesk version %s\n", version)
		},
	})

	// Add all subcommands
	rootCmd.AddCommand(commands.NewInitCmd())
	rootCmd.AddCommand(commands.NewLoginCmd(load))
	rootCmd.AddCommand(commands.NewRegisterCmd(load))
	rootCmd.AddCommand(commands.NewLogoutCmd(load))
	rootCmd.AddCommand(commands.NewRefreshCmd(load))
	rootCmd.AddCommand(commands.NewWhoamiCmd(load))
	rootCmd.AddCommand(commands.NewOpenCmd(load))
	rootCmd.AddCommand(commands.NewClientsCmd(load))
	rootCmd.AddCommand(commands.NewDebtsCmd(load))
	rootCmd.AddCommand(commands.NewPaymentsCmd(load))

	return rootCmd, cleanup
}

// Execute runs the root command
func Execute() error {
	rootCmd, cleanup := newRootCmd()
	defer cleanup()

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}
