package scrape

import (
	"errors"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"

	"github.com/nao1215/phishscan/internal/model"
)

// Default selector groups.
const (
	// DefaultLabelSelector finds the element holding the classification.
	DefaultLabelSelector = ".result-card h2, .alert, .result-card strong"

	// DefaultConfidenceSelector finds the element holding the confidence.
	DefaultConfidenceSelector = ".confidence, .alert small, .result-card p"
)

// ErrInvalidSelector is returned when a selector group cannot be compiled.
var ErrInvalidSelector = errors.New("scrape: invalid selector")

// numberPattern matches the first decimal number in a text.
var numberPattern = regexp.MustCompile(`\d+(\.\d+)?`)

// Selectors holds the selector groups used to read a result page.
type Selectors struct {
	Label      string `yaml:"label,omitempty"`
	Confidence string `yaml:"confidence,omitempty"`
}

// DefaultSelectors returns the default selector groups.
func DefaultSelectors() Selectors {
	return Selectors{
		Label:      DefaultLabelSelector,
		Confidence: DefaultConfidenceSelector,
	}
}

// Result is what could be read from a result page.
type Result struct {
	// Label is the trimmed text of the first label element, model.DefaultLabel
	// when no element matched, or empty when the element had no text.
	Label string

	// Confidence is the first decimal number in the confidence element,
	// or 0 when there is none.
	Confidence float64

	// HasLabelElement reports whether a label element was found.
	HasLabelElement bool

	// HasConfidence reports whether a confidence number was found.
	HasConfidence bool
}

// Extractor reads labels and confidences from result pages.
type Extractor struct {
	label      cascadia.Selector
	confidence cascadia.Selector
}

// NewExtractor compiles the selector groups. Empty groups use the defaults.
func NewExtractor(sel Selectors) (*Extractor, error) {
	if sel.Label == "" {
		sel.Label = DefaultLabelSelector
	}
	if sel.Confidence == "" {
		sel.Confidence = DefaultConfidenceSelector
	}

	label, err := cascadia.Compile(sel.Label)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %w", ErrInvalidSelector, sel.Label, err)
	}
	confidence, err := cascadia.Compile(sel.Confidence)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %w", ErrInvalidSelector, sel.Confidence, err)
	}
	return &Extractor{label: label, confidence: confidence}, nil
}

// MustNewExtractor is like NewExtractor but panics on invalid selectors.
// It is meant for the compiled-in defaults.
func MustNewExtractor(sel Selectors) *Extractor {
	e, err := NewExtractor(sel)
	if err != nil {
		panic(err)
	}
	return e
}

// Extract parses the document and reads the label and confidence.
func (e *Extractor) Extract(r io.Reader) (Result, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return Result{}, fmt.Errorf("failed to parse result page: %w", err)
	}
	return e.ExtractDocument(doc), nil
}

// ExtractString is Extract over a string.
func (e *Extractor) ExtractString(document string) (Result, error) {
	return e.Extract(strings.NewReader(document))
}

// ExtractDocument reads the label and confidence from a parsed document.
func (e *Extractor) ExtractDocument(doc *goquery.Document) Result {
	res := Result{Label: model.DefaultLabel}

	if el := doc.FindMatcher(e.label).First(); el.Length() > 0 {
		res.HasLabelElement = true
		res.Label = strings.TrimSpace(el.Text())
	}

	if el := doc.FindMatcher(e.confidence).First(); el.Length() > 0 {
		if v, ok := ParseConfidence(el.Text()); ok {
			res.Confidence = v
			res.HasConfidence = true
		}
	}
	return res
}

// ParseConfidence returns the first decimal number in text.
func ParseConfidence(text string) (float64, bool) {
	m := numberPattern.FindString(text)
	if m == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// Classification returns the classification of the extracted label.
func (r Result) Classification() model.Classification {
	return model.Classify(r.Label)
}
