package report

import (
	"io"
	"strconv"
	"time"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"

	"github.com/nao1215/phishscan/internal/history"
	"github.com/nao1215/phishscan/internal/model"
)

// MarkdownWriter outputs reports in Markdown format.
// This format is designed for documentation and sharing.
//
// Design decision: We use the nao1215/markdown library for fluent markdown
// generation which provides:
// 1. Type-safe markdown generation
// 2. Support for tables and mermaid charts
// 3. GitHub-flavored markdown alerts
type MarkdownWriter struct {
	baseWriter
	formatter *history.TimeFormatter
}

// MarkdownWriterOption configures a MarkdownWriter.
type MarkdownWriterOption func(*MarkdownWriter)

// WithMarkdownTimeFormatter sets how timestamps are printed.
// A nil formatter keeps the default.
func WithMarkdownTimeFormatter(f *history.TimeFormatter) MarkdownWriterOption {
	return func(w *MarkdownWriter) {
		if f != nil {
			w.formatter = f
		}
	}
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
// Timestamps default to en-US in UTC so shared documents read the same
// everywhere.
func NewMarkdownWriter(output io.Writer, opts ...MarkdownWriterOption) *MarkdownWriter {
	w := &MarkdownWriter{
		baseWriter: newBaseWriter(output),
		formatter:  history.NewTimeFormatter(history.DefaultLocale, time.UTC),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Write outputs the report in Markdown format.
func (w *MarkdownWriter) Write(report *model.ScanReport) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, report)
	if report.HasResults() {
		w.writeSummary(md, report)
		w.writeResults(md, report)
	}
	w.writeHistory(md, report.History)
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// writeHeader writes the report header.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, report *model.ScanReport) {
	md.H1("phishscan Report")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Endpoint", "`" + report.Endpoint + "`"},
			{"Generated", w.formatter.Format(report.GeneratedAt)},
			{"Scanned URLs", strconv.Itoa(len(report.Results))},
			{"Recent Scans", strconv.Itoa(len(report.History))},
		},
	})
	md.PlainText("")
}

// writeSummary writes the classification summary, a pie chart and an alert.
func (w *MarkdownWriter) writeSummary(md *markdown.Markdown, report *model.ScanReport) {
	danger, success, failed := report.Counts()

	md.H2("Summary")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Classification", "Count"},
		Rows: [][]string{
			{"🔴 Phishing", strconv.Itoa(danger)},
			{"🟢 Safe", strconv.Itoa(success)},
			{"⚪ Failed", strconv.Itoa(failed)},
		},
	})
	md.PlainText("")

	if danger+success > 0 {
		chart := piechart.NewPieChart(
			io.Discard,
			piechart.WithTitle("Scan Classification"),
			piechart.WithShowData(true),
		)
		if danger > 0 {
			chart.LabelAndIntValue("Phishing", uint64(danger))
		}
		if success > 0 {
			chart.LabelAndIntValue("Safe", uint64(success))
		}
		md.PlainText("")
		md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
		md.PlainText("")
	}

	switch {
	case danger > 0:
		md.Cautionf("%d of %d scanned URL(s) were classified as phishing.", danger, len(report.Results))
	case failed > 0:
		md.Warningf("%d submission(s) failed.", failed)
	default:
		md.Tip("No phishing URLs detected.")
	}
	md.PlainText("")
}

// writeResults writes one table row per submitted URL.
func (w *MarkdownWriter) writeResults(md *markdown.Markdown, report *model.ScanReport) {
	md.H2("Results")
	md.PlainText("")

	rows := make([][]string, len(report.Results))
	for i, res := range report.Results {
		label := res.Label
		if res.Failed() {
			label = "❌ " + res.Error
		} else if label == "" {
			label = "-"
		}
		rows[i] = []string{
			"`" + truncateString(res.URL, 60) + "`",
			truncateString(label, 40),
			history.FormatConfidence(res.Confidence) + "%",
			res.Navigation,
		}
	}
	md.Table(markdown.TableSet{
		Header: []string{"URL", "Label", "Confidence", "Navigation"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writeHistory writes the recent scans table.
func (w *MarkdownWriter) writeHistory(md *markdown.Markdown, list model.HistoryList) {
	md.H2("Recent Scans")
	md.PlainText("")

	if len(list) == 0 {
		md.PlainText("No recent scans")
		md.PlainText("")
		return
	}

	rows := make([][]string, len(list))
	for i, rec := range list {
		mark := "🟢"
		if rec.Classification() == model.ClassificationDanger {
			mark = "🔴"
		}
		rows[i] = []string{
			"`" + truncateString(rec.URL, 60) + "`",
			mark + " " + truncateString(rec.Label, 40),
			history.FormatConfidence(rec.Confidence) + "%",
			w.formatter.Format(rec.Time()),
		}
	}
	md.Table(markdown.TableSet{
		Header: []string{"URL", "Label", "Confidence", "Time"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writeFooter writes the report footer.
func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Report generated by [phishscan](https://github.com/nao1215/phishscan)*")
}
