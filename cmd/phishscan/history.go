package main

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/nao1215/phishscan/internal/config"
	"github.com/nao1215/phishscan/internal/model"
)

// NewHistoryCmd creates the history command.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show the recent scans",
		Long: `History shows the last 8 scan results recorded for the prediction
endpoint, newest first. Results recorded by the web UI and by the scan
command are shown together.

Each prediction endpoint (scheme, host and port) has its own history.

Examples:
  # Show the history of the default endpoint
  phishscan history

  # Show the history of another endpoint as JSON
  phishscan history -e http://10.0.0.5:5000 --json

  # List the endpoints that have a history
  phishscan history --origins`,
		Args: cobra.NoArgs,
		RunE: runHistoryCmd,
	}

	cmd.Flags().BoolP("json", "j", false,
		"Output JSON report (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown report (mutually exclusive with --json)")
	cmd.Flags().StringP("output", "o", "",
		"Write report to specified file path (creates directories if needed)")
	cmd.Flags().Bool("no-color", false,
		"Disable colored output")
	cmd.Flags().Bool("origins", false,
		"List the endpoints that have a stored history")

	return cmd
}

// runHistoryCmd executes the history command.
func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	if err := applyHistoryFlags(cmd, cfg); err != nil {
		return err
	}

	logger := setupLogger(cfg, cmd.ErrOrStderr())
	a, err := newApp(cfg, logger)
	if err != nil {
		return err
	}
	defer a.close()

	listOrigins, err := cmd.Flags().GetBool("origins")
	if err != nil {
		return err
	}
	if listOrigins {
		return printOrigins(cmd, a, cmd.OutOrStdout())
	}

	noColor, err := cmd.Flags().GetBool("no-color")
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	scanReport := model.NewScanReport(a.origin, time.Now(), nil, a.history.Read(ctx))
	return writeReport(scanReport, reportOptions{
		path:    cfg.ReportFile,
		format:  reportFormat(cfg),
		noColor: noColor,
		stdout:  cmd.OutOrStdout(),
	}, a.formatter)
}

// applyHistoryFlags copies the report flags into cfg.
func applyHistoryFlags(cmd *cobra.Command, cfg *config.Config) error {
	var err error
	if cfg.JSONReport, err = cmd.Flags().GetBool("json"); err != nil {
		return err
	}
	if cfg.MarkdownReport, err = cmd.Flags().GetBool("markdown"); err != nil {
		return err
	}
	if cfg.ReportFile, err = cmd.Flags().GetString("output"); err != nil {
		return err
	}
	return nil
}

// printOrigins lists the endpoints with a stored history.
func printOrigins(cmd *cobra.Command, a *app, w io.Writer) error {
	origins, err := a.db.ListOrigins(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list endpoints: %w", err)
	}
	if len(origins) == 0 {
		fmt.Fprintln(w, "No scan history found")
		return nil
	}
	for _, origin := range origins {
		marker := " "
		if origin == a.origin {
			marker = "*"
		}
		fmt.Fprintf(w, "%s %s\n", marker, origin)
	}
	return nil
}
