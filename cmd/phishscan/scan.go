package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"github.com/nao1215/phishscan/internal/config"
	"github.com/nao1215/phishscan/internal/history"
	"github.com/nao1215/phishscan/internal/model"
	"github.com/nao1215/phishscan/internal/pipeline"
)

// NewScanCmd creates the scan command.
func NewScanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan [url...]",
		Short: "Submit URLs to the prediction service",
		Long: `Scan submits each URL to the prediction service the same way the scan
form does, reads the label and confidence from the result page and records
the result in the scan history.

Inputs that do not look like a URL (empty, containing whitespace, or
without a dot) are rejected without contacting the service. When the
asynchronous submission fails, the form is posted again as a plain form
submission and the returned page is reported without a history entry.

Examples:
  # Scan a single URL
  phishscan scan paypa1-login.example/verify

  # Scan several URLs, four at a time
  phishscan scan -b 4 example.com example.org login.example.net

  # Scan URLs listed in a file (one per line, # starts a comment)
  phishscan scan --list urls.txt

  # Use another prediction endpoint
  phishscan scan -e http://10.0.0.5:5000 example.com

  # Output a Markdown report to a file
  phishscan scan --markdown -o reports/scan.md example.com

Configuration file (.phishscan) example:
  endpoint: http://127.0.0.1:5000
  sites:
    "127.0.0.1:5000":
      cookie: "session=abc123"
      headers:
        Authorization: "Bearer token"`,
		Args: cobra.ArbitraryArgs,
		RunE: runScanCmd,
	}

	cmd.Flags().StringP("list", "l", "",
		"Read URLs from a file, one per line")
	cmd.Flags().IntP("batch", "b", config.DefaultBatchSize,
		"Number of concurrent submissions")

	// Report flags
	cmd.Flags().BoolP("json", "j", false,
		"Output JSON report (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown report (mutually exclusive with --json)")
	cmd.Flags().StringP("output", "o", "",
		"Write report to specified file path (creates directories if needed)")
	cmd.Flags().Bool("no-color", false,
		"Disable colored output")

	return cmd
}

// runScanCmd executes the scan command.
func runScanCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	if err := applyScanFlags(cmd, cfg, args); err != nil {
		return err
	}
	if err := cfg.ValidateScan(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := setupLogger(cfg, cmd.ErrOrStderr())

	a, err := newApp(cfg, logger)
	if err != nil {
		return err
	}
	defer a.close()

	ctx, cancel := signalContext(cmd.Context(), logger)
	defer cancel()

	noColor, err := cmd.Flags().GetBool("no-color")
	if err != nil {
		return err
	}

	return runScan(ctx, a, cmd.ErrOrStderr(), reportOptions{
		path:    cfg.ReportFile,
		format:  reportFormat(cfg),
		noColor: noColor,
		stdout:  cmd.OutOrStdout(),
	})
}

// applyScanFlags copies the scan flags and targets into cfg.
func applyScanFlags(cmd *cobra.Command, cfg *config.Config, args []string) error {
	var err error
	if cfg.BatchSize, err = cmd.Flags().GetInt("batch"); err != nil {
		return err
	}
	if cfg.JSONReport, err = cmd.Flags().GetBool("json"); err != nil {
		return err
	}
	if cfg.MarkdownReport, err = cmd.Flags().GetBool("markdown"); err != nil {
		return err
	}
	if cfg.ReportFile, err = cmd.Flags().GetString("output"); err != nil {
		return err
	}

	cfg.Targets = append(cfg.Targets, args...)

	listPath, err := cmd.Flags().GetString("list")
	if err != nil {
		return err
	}
	if listPath != "" {
		f, err := os.Open(listPath) //nolint:gosec // User-provided list path is intentional
		if err != nil {
			return fmt.Errorf("failed to open URL list: %w", err)
		}
		defer f.Close()

		targets, err := readTargets(f)
		if err != nil {
			return fmt.Errorf("failed to read URL list %s: %w", listPath, err)
		}
		cfg.Targets = append(cfg.Targets, targets...)
	}
	return nil
}

// readTargets reads one URL per line. Blank lines and lines starting with
// # are skipped.
func readTargets(r io.Reader) ([]string, error) {
	var targets []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		targets = append(targets, line)
	}
	return targets, sc.Err()
}

// runScan submits every target and writes the report.
//
// Submissions run through the batch processor; with a batch size of 1 they
// run one after another. Progress goes to progress so that a report on
// stdout stays machine-readable.
func runScan(ctx context.Context, a *app, progress io.Writer, ro reportOptions) error {
	cfg := a.cfg

	submitter, err := a.newSubmitter(ctx)
	if err != nil {
		return err
	}
	extractor, err := a.newExtractor()
	if err != nil {
		return err
	}

	endpoint, err := submitter.ResolveAction(cfg.Action)
	if err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	a.logger.Info("starting scan",
		"targets", len(cfg.Targets),
		"endpoint", endpoint,
		"batchSize", cfg.BatchSize,
	)

	bp := pipeline.NewBatchProcessor(
		func() *pipeline.Pipeline {
			return pipeline.NewSubmission(pipeline.Deps{
				Submitter: submitter,
				Extractor: extractor,
				Recorder:  a.history,
				Logger:    a.logger,
			})
		},
		pipeline.WithConcurrency(cfg.BatchSize),
		pipeline.WithBatchLogger(a.logger),
	)

	fmt.Fprintf(progress, "Scanning %d URL(s) via %s (concurrency: %d)...\n",
		len(cfg.Targets), cfg.Endpoint, cfg.BatchSize)
	startTime := time.Now()

	var (
		mu   sync.Mutex
		done int
	)
	subs := make([]*model.Submission, len(cfg.Targets))
	batchErr := bp.ProcessBatchWithCallback(ctx, cfg.Targets, cfg.Action, func(sub *model.Submission, index int) {
		mu.Lock()
		defer mu.Unlock()

		subs[index] = sub
		done++
		fmt.Fprintf(progress, "[%d/%d] %s\n", done, len(cfg.Targets), describeSubmission(sub))
	})

	fmt.Fprintf(progress, "Scan completed in %s\n\n", time.Since(startTime).Round(time.Millisecond))

	scanReport := model.NewScanReport(
		endpoint,
		time.Now(),
		subs,
		a.history.Read(context.WithoutCancel(ctx)),
	)
	if err := writeReport(scanReport, ro, a.formatter); err != nil {
		return err
	}
	if batchErr != nil {
		return batchErr
	}

	if _, _, failed := scanReport.Counts(); failed > 0 {
		return fmt.Errorf("%d of %d submission(s) failed", failed, len(scanReport.Results))
	}
	return nil
}

// describeSubmission returns a one-line progress message.
func describeSubmission(sub *model.Submission) string {
	switch {
	case sub.Err != nil:
		return fmt.Sprintf("%s: error: %v", sub.Input, sub.Err)
	case sub.Navigation.Kind == model.NavigationFallback:
		return fmt.Sprintf("%s: shown via plain submission (HTTP %d)", sub.Input, sub.StatusCode)
	case sub.Label == "":
		return fmt.Sprintf("%s: no label", sub.Input)
	default:
		return fmt.Sprintf("%s: %s (%s%%)", sub.Input, sub.Label, history.FormatConfidence(sub.Confidence))
	}
}
