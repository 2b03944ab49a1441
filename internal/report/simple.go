package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/nao1215/phishscan/internal/history"
	"github.com/nao1215/phishscan/internal/model"
)

// ruleWidth is the width of the section rules.
const ruleWidth = 70

// SimpleWriter outputs human-readable text reports.
//
// Design decision: Color is off by default so output piped to files or
// other tools stays plain. The CLI turns it on for terminals, and the
// colors still honour NO_COLOR through fatih/color.
type SimpleWriter struct {
	baseWriter

	colored   bool
	formatter *history.TimeFormatter
	title     cases.Caser

	danger  *color.Color
	success *color.Color
	failure *color.Color
	faint   *color.Color
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithColor enables ANSI colors.
func WithColor(enabled bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.colored = enabled
	}
}

// WithTimeFormatter sets how history timestamps are printed.
func WithTimeFormatter(f *history.TimeFormatter) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.formatter = f
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output),
		title:      cases.Title(language.English),
		danger:     color.New(color.FgRed, color.Bold),
		success:    color.New(color.FgGreen),
		failure:    color.New(color.FgYellow),
		faint:      color.New(color.Faint),
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.formatter == nil {
		w.formatter = history.NewTimeFormatter(history.DefaultLocale, time.Local)
	}
	for _, c := range []*color.Color{w.danger, w.success, w.failure, w.faint} {
		if w.colored {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return w
}

// Write outputs the report in human-readable format.
func (w *SimpleWriter) Write(report *model.ScanReport) (int, error) {
	var sb strings.Builder

	w.writeHeader(&sb, report)
	if report.HasResults() {
		w.writeResults(&sb, report)
	}
	w.writeHistory(&sb, report.History)
	w.writeFooter(&sb)

	return io.WriteString(w.output, sb.String())
}

// writeHeader writes the report header.
func (w *SimpleWriter) writeHeader(sb *strings.Builder, report *model.ScanReport) {
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", ruleWidth))
	sb.WriteString("\n")
	sb.WriteString("                          PHISHSCAN REPORT\n")
	sb.WriteString(strings.Repeat("=", ruleWidth))
	sb.WriteString("\n\n")

	fmt.Fprintf(sb, "Endpoint:   %s\n", report.Endpoint)
	fmt.Fprintf(sb, "Generated:  %s\n", w.formatter.Format(report.GeneratedAt))
	if report.HasResults() {
		danger, success, failed := report.Counts()
		fmt.Fprintf(sb, "Scanned:    %d (%s, %s, %s)\n",
			len(report.Results),
			w.danger.Sprintf("%d phishing", danger),
			w.success.Sprintf("%d safe", success),
			w.failure.Sprintf("%d failed", failed),
		)
	}
	sb.WriteString("\n")
}

// writeResults writes one block per submitted URL.
func (w *SimpleWriter) writeResults(sb *strings.Builder, report *model.ScanReport) {
	w.writeSection(sb, "RESULTS")

	for _, res := range report.Results {
		fmt.Fprintf(sb, "  %s %s\n", w.indicator(res), res.URL)
		switch {
		case res.Failed():
			fmt.Fprintf(sb, "      %s\n", w.failure.Sprint("error: "+res.Error))
		case res.Label == "":
			fmt.Fprintf(sb, "      %s\n", w.faint.Sprintf("no label (%s)", res.Navigation))
		default:
			fmt.Fprintf(sb, "      %s · %s%% · %s\n",
				w.colorize(res.Classification, res.Label),
				history.FormatConfidence(res.Confidence),
				w.title.String(res.Classification.String()),
			)
		}
		if res.Navigation == model.NavigationFallback.String() {
			fmt.Fprintf(sb, "      %s\n", w.faint.Sprint("shown via plain form submission"))
		}
	}
	sb.WriteString("\n")
}

// writeHistory writes the recent scans, newest first.
func (w *SimpleWriter) writeHistory(sb *strings.Builder, list model.HistoryList) {
	w.writeSection(sb, "RECENT SCANS")

	if len(list) == 0 {
		sb.WriteString("  No recent scans\n\n")
		return
	}
	for i, rec := range list {
		fmt.Fprintf(sb, "  %d. %s\n", i+1, rec.URL)
		fmt.Fprintf(sb, "     %s · %s%% · %s\n",
			w.colorize(rec.Classification(), rec.Label),
			history.FormatConfidence(rec.Confidence),
			w.faint.Sprint(w.formatter.Format(rec.Time())),
		)
	}
	sb.WriteString("\n")
}

// writeSection writes a section heading between rules.
func (w *SimpleWriter) writeSection(sb *strings.Builder, title string) {
	sb.WriteString(strings.Repeat("-", ruleWidth))
	sb.WriteString("\n")
	sb.WriteString(title)
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("-", ruleWidth))
	sb.WriteString("\n\n")
}

// indicator returns a short marker for a result.
func (w *SimpleWriter) indicator(res model.ScanResult) string {
	switch {
	case res.Failed():
		return w.failure.Sprint("[?]")
	case res.Classification == model.ClassificationDanger:
		return w.danger.Sprint("[!]")
	case res.Classification == model.ClassificationSuccess:
		return w.success.Sprint("[+]")
	default:
		return w.faint.Sprint("[-]")
	}
}

// colorize colors text by classification.
func (w *SimpleWriter) colorize(c model.Classification, text string) string {
	if c == model.ClassificationDanger {
		return w.danger.Sprint(text)
	}
	return w.success.Sprint(text)
}

// writeFooter writes the report footer.
func (w *SimpleWriter) writeFooter(sb *strings.Builder) {
	sb.WriteString(strings.Repeat("=", ruleWidth))
	sb.WriteString("\n")
	sb.WriteString("Report generated by phishscan\n")
	sb.WriteString("https://github.com/nao1215/phishscan\n")
	sb.WriteString(strings.Repeat("=", ruleWidth))
	sb.WriteString("\n")
}
