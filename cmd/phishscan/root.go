package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nao1215/phishscan/internal/config"
)

// NewRootCmd creates the root command for phishscan.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "phishscan",
		Short: "Check URLs against a phishing prediction service",
		Long: `phishscan submits URLs to a phishing prediction service and reports
the label and confidence of each result.

The last 8 results are kept as a scan history per prediction endpoint.
The history is shared by the scan command and the web UI started with
'phishscan serve'.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	flags := cmd.PersistentFlags()
	flags.BoolP("verbose", "v", false, "Enable verbose logging")
	flags.Bool("log-json", false, "Write logs as JSON")
	flags.StringP("config", "c", "",
		"Configuration file path (default: .phishscan in current or home directory)")
	flags.StringP("endpoint", "e", config.DefaultEndpoint,
		"Base URL of the prediction service")
	flags.String("action", config.DefaultAction,
		"Form action, relative to the endpoint or absolute")
	flags.String("proxy", "",
		"SOCKS5 proxy address (e.g., 127.0.0.1:9050)")
	flags.DurationP("timeout", "t", config.DefaultTimeout,
		"Timeout for each request to the prediction service")
	flags.String("locale", config.DefaultLocale,
		"Locale of history timestamps (e.g., en-US, en-GB, de, ja)")
	flags.String("tz", config.DefaultTimeZone,
		"Time zone of history timestamps (IANA name, Local or UTC)")
	flags.String("db-dir", "",
		"Directory of the history database (default: XDG data directory)")

	// Add subcommands
	cmd.AddCommand(NewScanCmd())
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
