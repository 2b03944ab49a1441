package report

import (
	"io"
	"strings"

	"github.com/nao1215/phishscan/internal/history"
	"github.com/nao1215/phishscan/internal/model"
)

// Writer defines the interface for report output.
//
// Design decision: We use an interface to allow different output formats
// and destinations. This enables writing to files, stdout, or network
// connections with the same API.
type Writer interface {
	// Write outputs the report to the configured destination.
	// Returns the number of bytes written and any error encountered.
	Write(report *model.ScanReport) (int, error)
}

// MultiWriter writes to multiple Writers simultaneously.
// This is useful for outputting to both terminal and file.
type MultiWriter struct {
	writers []Writer
}

// NewMultiWriter creates a Writer that writes to all provided Writers.
func NewMultiWriter(writers ...Writer) *MultiWriter {
	return &MultiWriter{writers: writers}
}

// Write outputs the report to all configured Writers.
// Stops on first error encountered.
func (m *MultiWriter) Write(report *model.ScanReport) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := w.Write(report)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// baseWriter provides common functionality for report writers.
type baseWriter struct {
	output io.Writer
}

// newBaseWriter creates a baseWriter with the given output destination.
func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}

// Format names a report format.
type Format string

// Report formats.
const (
	FormatText     Format = "text"
	FormatJSON     Format = "json"
	FormatMarkdown Format = "markdown"
)

// Settings holds the presentation choices shared by every format.
type Settings struct {
	// Color enables ANSI colors in text output.
	Color bool

	// Formatter formats timestamps. Nil means en-US in local time.
	Formatter *history.TimeFormatter

	// Version is embedded in JSON output when set.
	Version string
}

// New returns the writer for a format. Unknown formats fall back to text.
func New(format Format, output io.Writer, settings Settings) Writer {
	switch format {
	case FormatJSON:
		return NewJSONWriter(output, WithPrettyPrint(), WithVersion(settings.Version))
	case FormatMarkdown:
		return NewMarkdownWriter(output, WithMarkdownTimeFormatter(settings.Formatter))
	default:
		return NewSimpleWriter(output,
			WithColor(settings.Color),
			WithTimeFormatter(settings.Formatter),
		)
	}
}

// ParseFormat returns the Format named by s.
func ParseFormat(s string) (Format, bool) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatText, FormatJSON, FormatMarkdown:
		return f, true
	case "md":
		return FormatMarkdown, true
	case "", "simple":
		return FormatText, true
	default:
		return "", false
	}
}

// truncateString truncates a string to maxLen runes with an ellipsis.
func truncateString(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(r[:maxLen])
	}
	return string(r[:maxLen-3]) + "..."
}
