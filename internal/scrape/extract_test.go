package scrape

import (
	"errors"
	"strings"
	"testing"

	"github.com/nao1215/phishscan/internal/model"
)

const resultPage = `<!DOCTYPE html>
<html><head><title>Result</title></head>
<body>
  <div class="result-card">
    <h2> Phishing </h2>
    <p>Confidence: 99.0%</p>
    <input type="hidden" id="confidenceData" value="99.0">
  </div>
</body></html>`

// TestExtractor tests label and confidence extraction.
func TestExtractor(t *testing.T) {
	t.Parallel()

	e := MustNewExtractor(DefaultSelectors())

	testCases := []struct {
		name           string
		document       string
		wantLabel      string
		wantConfidence float64
		wantElement    bool
		wantHasConf    bool
	}{
		{
			name:           "result card heading and paragraph",
			document:       resultPage,
			wantLabel:      "Phishing",
			wantConfidence: 99.0,
			wantElement:    true,
			wantHasConf:    true,
		},
		{
			name:           "alert box with small text",
			document:       `<div class="alert">Legitimate <small>87.35% sure</small></div>`,
			wantLabel:      "Legitimate 87.35% sure",
			wantConfidence: 87.35,
			wantElement:    true,
			wantHasConf:    true,
		},
		{
			name:           "first match in document order wins",
			document:       `<div class="alert">First</div><div class="result-card"><h2>Second</h2></div>`,
			wantLabel:      "First",
			wantConfidence: 0,
			wantElement:    true,
		},
		{
			name:           "alert before result card supplies both values",
			document:       `<div class="alert">Warn <small>10%</small></div><div class="result-card"><h2>Legit</h2><p>90%</p></div>`,
			wantLabel:      "Warn 10%",
			wantConfidence: 10,
			wantElement:    true,
			wantHasConf:    true,
		},
		{
			name:           "dedicated confidence element",
			document:       `<div class="result-card"><strong>Safe</strong></div><span class="confidence">about 42 percent</span>`,
			wantLabel:      "Safe",
			wantConfidence: 42,
			wantElement:    true,
			wantHasConf:    true,
		},
		{
			name:           "no label element falls back to default label",
			document:       `<html><body><p>nothing here</p></body></html>`,
			wantLabel:      model.DefaultLabel,
			wantConfidence: 0,
		},
		{
			name:        "empty label element yields empty label",
			document:    `<div class="result-card"><h2>   </h2><p>no number</p></div>`,
			wantLabel:   "",
			wantElement: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			res, err := e.ExtractString(tc.document)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if res.Label != tc.wantLabel {
				t.Errorf("label: got %q, expected %q", res.Label, tc.wantLabel)
			}
			if res.Confidence != tc.wantConfidence {
				t.Errorf("confidence: got %v, expected %v", res.Confidence, tc.wantConfidence)
			}
			if res.HasLabelElement != tc.wantElement {
				t.Errorf("HasLabelElement: got %v, expected %v", res.HasLabelElement, tc.wantElement)
			}
			if res.HasConfidence != tc.wantHasConf {
				t.Errorf("HasConfidence: got %v, expected %v", res.HasConfidence, tc.wantHasConf)
			}
		})
	}
}

// TestNewExtractor tests selector compilation.
func TestNewExtractor(t *testing.T) {
	t.Parallel()

	t.Run("empty selectors use defaults", func(t *testing.T) {
		t.Parallel()
		e, err := NewExtractor(Selectors{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		res, err := e.ExtractString(resultPage)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if res.Label != "Phishing" {
			t.Errorf("expected Phishing, got %q", res.Label)
		}
	})

	t.Run("custom selectors", func(t *testing.T) {
		t.Parallel()
		e, err := NewExtractor(Selectors{Label: "#verdict", Confidence: "#score"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		res, err := e.ExtractString(`<b id="verdict">Safe</b><i id="score">12.5</i>`)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if res.Label != "Safe" || res.Confidence != 12.5 {
			t.Errorf("unexpected result %+v", res)
		}
	})

	t.Run("invalid selector", func(t *testing.T) {
		t.Parallel()
		_, err := NewExtractor(Selectors{Label: "div[[["})
		if !errors.Is(err, ErrInvalidSelector) {
			t.Errorf("expected ErrInvalidSelector, got %v", err)
		}
	})

	t.Run("must panics on invalid selector", func(t *testing.T) {
		t.Parallel()
		defer func() {
			if recover() == nil {
				t.Error("expected panic")
			}
		}()
		MustNewExtractor(Selectors{Confidence: ":::"})
	})
}

// TestParseConfidence tests number extraction.
func TestParseConfidence(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		text   string
		want   float64
		wantOK bool
	}{
		{"Confidence: 99.0%", 99.0, true},
		{"12", 12, true},
		{"3.14 and 2.71", 3.14, true},
		{"-5%", 5, true},
		{"none", 0, false},
		{"", 0, false},
	}

	for _, tc := range testCases {
		t.Run(tc.text, func(t *testing.T) {
			t.Parallel()
			got, ok := ParseConfidence(tc.text)
			if got != tc.want || ok != tc.wantOK {
				t.Errorf("ParseConfidence(%q) = %v, %v; expected %v, %v", tc.text, got, ok, tc.want, tc.wantOK)
			}
		})
	}
}

// TestExtractReader tests extraction from a reader.
func TestExtractReader(t *testing.T) {
	t.Parallel()

	e := MustNewExtractor(DefaultSelectors())
	res, err := e.Extract(strings.NewReader(resultPage))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Classification() != model.ClassificationDanger {
		t.Errorf("expected danger, got %s", res.Classification())
	}
}
