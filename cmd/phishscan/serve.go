package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nao1215/phishscan/internal/config"
	"github.com/nao1215/phishscan/internal/server"
)

// NewServeCmd creates the serve command.
func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the scan web UI",
		Long: `Serve starts a local web UI with the scan form and the recent scans.

Submitted URLs are forwarded to the prediction service and its result
page is shown with the confidence bar filled in and the history updated.
The web UI and the scan command share the same history.

Examples:
  # Serve on the default address
  phishscan serve

  # Serve on all interfaces, port 9000
  phishscan serve -l 0.0.0.0:9000`,
		Args: cobra.NoArgs,
		RunE: runServeCmd,
	}

	cmd.Flags().StringP("listen", "l", config.DefaultListenAddress,
		"Address the web UI listens on")

	return cmd
}

// runServeCmd executes the serve command.
func runServeCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	if cfg.ListenAddress, err = cmd.Flags().GetString("listen"); err != nil {
		return err
	}

	logger := setupLogger(cfg, cmd.ErrOrStderr())
	a, err := newApp(cfg, logger)
	if err != nil {
		return err
	}
	defer a.close()

	ctx, cancel := signalContext(cmd.Context(), logger)
	defer cancel()

	submitter, err := a.newSubmitter(ctx)
	if err != nil {
		return err
	}
	extractor, err := a.newExtractor()
	if err != nil {
		return err
	}

	srv := server.New(a.history, submitter,
		server.WithAddr(cfg.ListenAddress),
		server.WithAction(cfg.Action),
		server.WithExtractor(extractor),
		server.WithLogger(logger),
	)
	done, err := srv.Start(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Serving phishscan on http://%s (prediction endpoint: %s)\n",
		srv.Addr(), cfg.Endpoint)
	fmt.Fprintln(cmd.OutOrStdout(), "Press Ctrl+C to stop.")

	<-done
	return nil
}
