package report

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/nao1215/phishscan/internal/model"
)

// JSONWriter outputs reports in JSON format.
// This format is designed for tool integration and programmatic processing.
//
// Design decision: We use standard encoding/json rather than a third-party
// JSON library because the history value itself is defined as plain JSON
// and must round-trip byte for byte with what the storage holds.
type JSONWriter struct {
	baseWriter

	indent       bool
	indentPrefix string
	indentString string
	version      string
}

// JSONWriterOption configures a JSONWriter.
type JSONWriterOption func(*JSONWriter)

// WithIndent enables pretty-printed JSON output.
// The prefix is prepended to each line, and indent is used for each level.
func WithIndent(prefix, indent string) JSONWriterOption {
	return func(w *JSONWriter) {
		w.indent = true
		w.indentPrefix = prefix
		w.indentString = indent
	}
}

// WithPrettyPrint enables pretty-printed JSON with default indentation.
func WithPrettyPrint() JSONWriterOption {
	return WithIndent("", "  ")
}

// WithVersion adds the phishscan version to the output.
func WithVersion(version string) JSONWriterOption {
	return func(w *JSONWriter) {
		w.version = version
	}
}

// NewJSONWriter creates a JSONWriter that outputs to the given writer.
func NewJSONWriter(output io.Writer, opts ...JSONWriterOption) *JSONWriter {
	w := &JSONWriter{baseWriter: newBaseWriter(output)}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// JSONReport wraps a report with output metadata.
//
// Design decision: We wrap the report rather than modifying ScanReport
// so output-specific fields stay out of the core data structure.
type JSONReport struct {
	// Version is the phishscan version that generated this report.
	Version string `json:"version,omitempty"`

	// Summary holds the classification counts.
	Summary JSONSummary `json:"summary"`

	// Report is the scan report.
	Report *model.ScanReport `json:"report"`
}

// JSONSummary holds the classification counts of a report.
type JSONSummary struct {
	Danger  int `json:"danger"`
	Success int `json:"success"`
	Failed  int `json:"failed"`
}

// Write outputs the report in JSON format.
func (w *JSONWriter) Write(report *model.ScanReport) (int, error) {
	danger, success, failed := report.Counts()
	return w.writeJSON(JSONReport{
		Version: w.version,
		Summary: JSONSummary{Danger: danger, Success: success, Failed: failed},
		Report:  report,
	})
}

// writeJSON marshals the given value to JSON and writes it to the output.
func (w *JSONWriter) writeJSON(v any) (int, error) {
	var (
		data []byte
		err  error
	)
	if w.indent {
		data, err = json.MarshalIndent(v, w.indentPrefix, w.indentString)
	} else {
		data, err = json.Marshal(v)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to encode report: %w", err)
	}

	// Trailing newline for better terminal output.
	data = append(data, '\n')
	return w.output.Write(data)
}
