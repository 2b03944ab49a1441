package page

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/aymerick/douceur/css"
	"github.com/aymerick/douceur/parser"
	"golang.org/x/net/html"

	"github.com/nao1215/phishscan/internal/model"
)

// Element selectors used by the transforms.
const (
	selectorConfidenceData  = "#confidenceData"
	selectorConfidenceFill  = "#confidenceFill"
	selectorConfidenceValue = "#confidenceValue"
	selectorHistory         = "#history"
	selectorLoading         = "#loading"
	selectorForm            = "#scanForm"
	selectorURLInput        = "input[name='url']"
	selectorFormControls    = "input, button, select, textarea"
)

// barTransition is the CSS transition applied to the confidence bar.
const barTransition = "width 0.8s ease"

// ErrParse is returned when a document cannot be parsed or rendered.
var ErrParse = errors.New("page: failed to process document")

//go:embed templates/index.html
var indexHTML string

// leadingFloat matches the numeric prefix a lenient float parser accepts.
var leadingFloat = regexp.MustCompile(`^[+-]?(Infinity|(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?)`)

// Options controls which transforms are applied to a document.
type Options struct {
	// History is the markup placed into the #history container.
	// Empty leaves the container untouched.
	History string

	// Action overrides the scan form action. Empty keeps the action
	// found in the document.
	Action string

	// Invalid marks the url input as rejected when set.
	Invalid *InvalidInput
}

// InvalidInput describes a submission rejected by local validation.
type InvalidInput struct {
	// Value is the rejected input, kept in the field for correction.
	Value string
}

// Index returns the embedded index page with the transforms applied.
func Index(opts Options) (string, error) {
	return Enhance(strings.NewReader(indexHTML), opts)
}

// IndexTemplate returns the raw embedded index page.
func IndexTemplate() string {
	return indexHTML
}

// Enhance parses a document, applies the transforms and renders it back.
func Enhance(r io.Reader, opts Options) (string, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrParse, err)
	}

	ApplyConfidence(doc)
	if opts.History != "" {
		doc.Find(selectorHistory).First().SetHtml(opts.History)
	}
	resetForm(doc)
	if opts.Action != "" {
		doc.Find(selectorForm).SetAttr("action", opts.Action)
	}
	if opts.Invalid != nil {
		markInvalid(doc, opts.Invalid.Value)
	}

	return render(doc)
}

// EnhanceString is Enhance over a string.
func EnhanceString(document string, opts Options) (string, error) {
	return Enhance(strings.NewReader(document), opts)
}

// ApplyConfidence fills the confidence bar from the hidden #confidenceData
// input. It reports the applied confidence and whether both the data input
// and the bar were present.
//
// The bar width is the clamped confidence, the value label shows it with
// two decimals.
func ApplyConfidence(doc *goquery.Document) (float64, bool) {
	data := doc.Find(selectorConfidenceData).First()
	fill := doc.Find(selectorConfidenceFill).First()
	if data.Length() == 0 || fill.Length() == 0 {
		return 0, false
	}

	confidence := model.ClampConfidence(ParseLenientFloat(data.AttrOr("value", "")))

	style, _ := fill.Attr("style")
	fill.SetAttr("style", mergeStyle(style, map[string]string{
		"transition": barTransition,
		"width":      strconv.FormatFloat(confidence, 'f', -1, 64) + "%",
	}))

	if value := doc.Find(selectorConfidenceValue).First(); value.Length() > 0 {
		value.SetText(FormatPercent(confidence))
	}
	return confidence, true
}

// FormatPercent formats a confidence with two decimals and a percent sign.
func FormatPercent(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64) + "%"
}

// ParseLenientFloat parses the leading number of s and ignores any
// trailing text. Input without a leading number yields 0. "Infinity" and
// numbers out of float64 range yield a signed infinity.
func ParseLenientFloat(s string) float64 {
	m := leadingFloat.FindString(strings.TrimSpace(s))
	if m == "" {
		return 0
	}
	if strings.HasSuffix(m, "Infinity") {
		if m[0] == '-' {
			return math.Inf(-1)
		}
		return math.Inf(1)
	}
	v, err := strconv.ParseFloat(m, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return 0
	}
	return v
}

// resetForm hides the loading indicator and re-enables the form controls.
func resetForm(doc *goquery.Document) {
	doc.Find(selectorLoading).AddClass("hidden")
	doc.Find(selectorForm).Find(selectorFormControls).RemoveAttr("disabled")
}

// markInvalid flags the url input, keeps the rejected value and moves
// focus to the field.
func markInvalid(doc *goquery.Document, value string) {
	input := doc.Find(selectorForm).Find(selectorURLInput).First()
	if input.Length() == 0 {
		input = doc.Find(selectorURLInput).First()
	}
	if input.Length() == 0 {
		return
	}
	input.AddClass("invalid")
	input.SetAttr("value", value)
	input.SetAttr("autofocus", "")
	input.SetAttr("aria-invalid", "true")
}

// mergeStyle replaces the given declarations in an inline style and keeps
// every other declaration in its original order. The inline style is read
// with the douceur CSS parser; a style it rejects is split on semicolons.
func mergeStyle(style string, set map[string]string) string {
	var decls []string
	for _, d := range parseDeclarations(style) {
		if _, ok := set[d.Property]; ok {
			continue
		}
		decl := d.Property + ": " + d.Value
		if d.Important {
			decl += " !important"
		}
		decls = append(decls, decl)
	}
	// width first, then transition, so the output is stable.
	for _, name := range []string{"width", "transition"} {
		if v, ok := set[name]; ok {
			decls = append(decls, name+": "+v)
		}
	}
	return strings.Join(decls, "; ")
}

// parseDeclarations parses an inline style into declarations with
// lower-cased property names.
func parseDeclarations(style string) []*css.Declaration {
	style = strings.TrimSpace(style)
	if style == "" {
		return nil
	}

	parsed, err := parser.ParseDeclarations(style)
	if err != nil {
		parsed = nil
		for _, part := range strings.Split(style, ";") {
			name, value, ok := strings.Cut(part, ":")
			if !ok {
				continue
			}
			value = strings.TrimSpace(value)
			important := strings.HasSuffix(strings.ToLower(value), "!important")
			if important {
				value = strings.TrimSpace(value[:len(value)-len("!important")])
			}
			parsed = append(parsed, &css.Declaration{
				Property:  strings.TrimSpace(name),
				Value:     value,
				Important: important,
			})
		}
	}

	out := make([]*css.Declaration, 0, len(parsed))
	for _, d := range parsed {
		if d == nil || strings.TrimSpace(d.Property) == "" {
			continue
		}
		d.Property = strings.ToLower(strings.TrimSpace(d.Property))
		out = append(out, d)
	}
	return out
}

// render serializes the whole document, doctype included.
func render(doc *goquery.Document) (string, error) {
	var buf bytes.Buffer
	for _, n := range doc.Nodes {
		if err := html.Render(&buf, n); err != nil {
			return "", fmt.Errorf("%w: %w", ErrParse, err)
		}
	}
	return buf.String(), nil
}
