package commands

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"
	"strings"

	"github.com/spf13/cobra"

	"github.com/debtdesk/debtdesk/internal/cli/router"
)

// NewOpenCmd creates the open command
func NewOpenCmd(load Loader) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "open [path]",
		Short: "Open a page of the web app in browser",
		Long: `Open a page of the web app in browser.

Protected pages require a login first, exactly like in the browser.

Examples:
  $ debtdesk open                      # Home page
  $ debtdesk open /debts               # Debts page
  $ debtdesk open /debts/12/payments   # Payments of debt 12`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := router.PathHome
			if len(args) > 0 {
				path = args[0]
			}
			env, err := load(cmd.Context())
			if err != nil {
				return err
			}
			return runOpen(cmd.Context(), env, path)
		},
	}

	return cmd
}

func runOpen(ctx context.Context, env *Env, path string) error {
	loc, err := env.navigate(ctx, path)
	if err != nil {
		return err
	}

	pageURL := strings.TrimRight(env.Config.Web.URL, "/") + loc.Path

	fmt.Fprintf(env.Out, "Opening %s (%s)...\n", loc.Route.Name, pageURL)

	if err := env.openURL(pageURL); err != nil {
		return fmt.Errorf("failed to open browser: %w\nPlease visit: %s", err, pageURL)
	}

	return nil
}

// openBrowser opens the URL in the default browser
func openBrowser(url string) error {
	var cmd *exec.Cmd

	switch runtime.GOOS {
	case "linux":
		cmd = exec.Command("xdg-open", url)
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		return fmt.Errorf("unsupported platform: %s", runtime.GOOS)
	}

	return cmd.Start()
}
