package commands

import (
	"fmt"
	"io"
	"net/url"

	"github.com/spf13/cobra"

	"github.com/debtdesk/debtdesk/internal/cli/userconfig"
)

var storageBackends = map[string]bool{"memory": true, "file": true, "keyring": true, "encrypted": true, "sqlite": true}

type initOptions struct {
	apiURL      string
	webURL      string
	storage     string
	storagePath string
}

// NewInitCmd creates the init command
func NewInitCmd() *cobra.Command {
	var opts initOptions

	cmd := &cobra.Command{
		Use:   "init <api-url>",
		Short: "Point debtdesk at an API server",
		Long: `Save the API server and session storage backend to ~/.config/debtdesk/config.json.

Storage backends:
  file       JSON file next to the config (default)
  keyring    OS keychain / credential manager
  encrypted  passphrase-sealed file (set DEBTDESK_PASSPHRASE)
  sqlite     local SQLite database
  memory     nothing persisted`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.apiURL = args[0]
			path, err := userconfig.GetConfigPath()
			if err != nil {
				return err
			}
			return runInit(cmd.OutOrStdout(), path, opts)
		},
	}

	cmd.Flags().StringVar(&opts.webURL, "web-url", "", "Web app URL opened by 'debtdesk open' (defaults to the API URL)")
	cmd.Flags().StringVar(&opts.storage, "storage", "", "Session storage backend")
	cmd.Flags().StringVar(&opts.storagePath, "storage-path", "", "Location for file based storage backends")

	return cmd
}

func runInit(out io.Writer, configPath string, opts initOptions) error {
	if !isHTTPURL(opts.apiURL) {
		return fmt.Errorf("invalid API URL %q (expected http(s)://host[:port])", opts.apiURL)
	}
	if opts.webURL != "" && !isHTTPURL(opts.webURL) {
		return fmt.Errorf("invalid web URL %q (expected http(s)://host[:port])", opts.webURL)
	}

	if opts.storage != "" && !storageBackends[opts.storage] {
		return fmt.Errorf("unknown storage backend %q", opts.storage)
	}

	cfg, err := userconfig.LoadFrom(configPath)
	if err != nil {
		return err
	}

	cfg.APIURL = opts.apiURL
	if opts.webURL != "" {
		cfg.WebURL = opts.webURL
	}
	if opts.storage != "" {
		cfg.Storage = opts.storage
	}
	if opts.storagePath != "" {
		cfg.StoragePath = opts.storagePath
	}

	if err := userconfig.SaveTo(configPath, cfg); err != nil {
		return err
	}

	fmt.Fprintf(out, "✓ Saved API server %s to %s\n", cfg.APIURL, configPath)
	if cfg.WebURL != "" {
		fmt.Fprintf(out, "  Web app: %s\n", cfg.WebURL)
	}
	if cfg.Storage != "" {
		fmt.Fprintf(out, "  Session storage: %s\n", cfg.Storage)
	}
	fmt.Fprintln(out, "\nNext steps:")
	fmt.Fprintln(out, "  Run 'debtdesk login' to authenticate")

	return nil
}

func isHTTPURL(raw string) bool {
	u, err := url.Parse(raw)
	return err == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
