package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/fatih/color"

	"github.com/nao1215/phishscan/internal/config"
	"github.com/nao1215/phishscan/internal/history"
	"github.com/nao1215/phishscan/internal/model"
	"github.com/nao1215/phishscan/internal/report"
)

// reportOptions selects where and how a report is written.
type reportOptions struct {
	// path is the report file. Empty writes to stdout.
	path string

	format  report.Format
	noColor bool
	stdout  io.Writer
}

// reportFormat returns the format selected by the report flags.
func reportFormat(cfg *config.Config) report.Format {
	switch {
	case cfg.JSONReport:
		return report.FormatJSON
	case cfg.MarkdownReport:
		return report.FormatMarkdown
	default:
		return report.FormatText
	}
}

// writeReport writes the report in the requested format.
func writeReport(scanReport *model.ScanReport, ro reportOptions, formatter *history.TimeFormatter) error {
	output := ro.stdout
	if output == nil {
		output = os.Stdout
	}

	if ro.path != "" {
		// Create directories if they don't exist
		dir := filepath.Dir(ro.path)
		if dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0750); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}
		}

		// Scanned URLs and history may be private, so the report is only
		// readable by the owner.
		f, err := os.OpenFile(ro.path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		output = f
	}

	// Colors only for a terminal on stdout. color.NoColor already accounts
	// for NO_COLOR and non-tty stdout.
	colored := ro.path == "" && ro.stdout == os.Stdout && !color.NoColor && !ro.noColor

	w := report.New(ro.format, output, report.Settings{
		Color:     colored,
		Formatter: formatter,
		Version:   getVersion(),
	})
	if _, err := w.Write(scanReport); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}
