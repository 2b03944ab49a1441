package history

import (
	"strings"
	"testing"
	"time"

	"github.com/nao1215/phishscan/internal/model"
)

// TestEscapeHTML tests escaping of user-controlled strings.
func TestEscapeHTML(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		input    string
		expected string
	}{
		{`<script>alert(1)</script>`, `&lt;script&gt;alert(1)&lt;/script&gt;`},
		{`a"b`, `a&quot;b`},
		{`it's`, `it&#039;s`},
		{`a&b`, `a&amp;b`},
		{`&lt;`, `&amp;lt;`},
		{`plain`, `plain`},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			t.Parallel()
			if got := EscapeHTML(tc.input); got != tc.expected {
				t.Errorf("EscapeHTML(%q) = %q, expected %q", tc.input, got, tc.expected)
			}
		})
	}
}

// TestRenderList tests history markup.
func TestRenderList(t *testing.T) {
	t.Parallel()

	formatter := NewTimeFormatter("en-US", time.UTC)
	ts := time.Date(2025, 3, 4, 15, 6, 7, 0, time.UTC).UnixMilli()

	t.Run("empty list renders placeholder", func(t *testing.T) {
		t.Parallel()
		if got := RenderList(nil, formatter); got != EmptyPlaceholder {
			t.Errorf("expected placeholder, got %q", got)
		}
	})

	t.Run("record block", func(t *testing.T) {
		t.Parallel()
		got := RenderList(model.HistoryList{
			{URL: "example.com", Label: "Safe Site", Confidence: 97.5, Timestamp: ts},
		}, formatter)

		expected := `<div class="history-item success">` +
			`<div class="h-url">example.com</div>` +
			`<div class="h-meta"><span class="h-label">Safe Site</span> · 97.5% · ` +
			`<span class="h-time">3/4/2025, 3:06:07 PM</span></div></div>`
		if got != expected {
			t.Errorf("unexpected markup:\n got: %s\nwant: %s", got, expected)
		}
	})

	t.Run("stored order is kept", func(t *testing.T) {
		t.Parallel()
		got := RenderList(model.HistoryList{
			{URL: "first.com", Label: "Safe", Timestamp: ts},
			{URL: "second.com", Label: "Safe", Timestamp: ts - 1000},
		}, formatter)
		if strings.Index(got, "first.com") > strings.Index(got, "second.com") {
			t.Errorf("expected first.com before second.com: %s", got)
		}
	})

	t.Run("classification", func(t *testing.T) {
		t.Parallel()
		testCases := []struct {
			label string
			class string
		}{
			{"Phishing Detected", `class="history-item danger"`},
			{"Safe Site", `class="history-item success"`},
			{"PHISH!", `class="history-item danger"`},
		}
		for _, tc := range testCases {
			got := RenderList(model.HistoryList{{URL: "x.com", Label: tc.label, Timestamp: ts}}, formatter)
			if !strings.Contains(got, tc.class) {
				t.Errorf("label %q: expected %s in %s", tc.label, tc.class, got)
			}
		}
	})

	t.Run("user-controlled strings are escaped", func(t *testing.T) {
		t.Parallel()
		got := RenderList(model.HistoryList{{
			URL:       `http://x.com/"><script>alert(1)</script>`,
			Label:     `<script>steal()</script>"`,
			Timestamp: ts,
		}}, formatter)
		if strings.Contains(got, "<script>") {
			t.Errorf("output contains executable markup: %s", got)
		}
		for _, raw := range []string{`"><script`, `"><img`, `</script>"`} {
			if strings.Contains(got, raw) {
				t.Errorf("output contains unescaped %q: %s", raw, got)
			}
		}
		wantURL := `<div class="h-url">` + EscapeHTML(`http://x.com/"><script>alert(1)</script>`) + `</div>`
		if !strings.Contains(got, wantURL) {
			t.Errorf("expected %s in %s", wantURL, got)
		}
		wantLabel := `<span class="h-label">` + EscapeHTML(`<script>steal()</script>"`) + `</span>`
		if !strings.Contains(got, wantLabel) {
			t.Errorf("expected %s in %s", wantLabel, got)
		}
		if !strings.Contains(got, "&lt;script&gt;alert(1)&lt;/script&gt;") {
			t.Errorf("expected escaped url, got %s", got)
		}
		if !strings.Contains(got, "&quot;") {
			t.Errorf("expected escaped quote, got %s", got)
		}
	})

	t.Run("confidence is clamped for display", func(t *testing.T) {
		t.Parallel()
		high := RenderList(model.HistoryList{{URL: "x.com", Label: "Safe", Confidence: 150, Timestamp: ts}}, formatter)
		if !strings.Contains(high, " · 100% · ") {
			t.Errorf("expected 100%%, got %s", high)
		}
		low := RenderList(model.HistoryList{{URL: "x.com", Label: "Safe", Confidence: -5, Timestamp: ts}}, formatter)
		if !strings.Contains(low, " · 0% · ") {
			t.Errorf("expected 0%%, got %s", low)
		}
	})

	t.Run("nil formatter uses default locale", func(t *testing.T) {
		t.Parallel()
		got := RenderList(model.HistoryList{{URL: "x.com", Label: "Safe", Timestamp: ts}}, nil)
		if !strings.Contains(got, "3/4/2025, 3:06:07 PM") {
			t.Errorf("expected en-US time, got %s", got)
		}
	})
}

// TestFormatConfidence tests confidence formatting.
func TestFormatConfidence(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		value    float64
		expected string
	}{
		{97.5, "97.5"},
		{100, "100"},
		{0, "0"},
		{150, "100"},
		{-5, "0"},
		{12.345, "12.345"},
	}

	for _, tc := range testCases {
		t.Run(tc.expected, func(t *testing.T) {
			t.Parallel()
			if got := FormatConfidence(tc.value); got != tc.expected {
				t.Errorf("FormatConfidence(%v) = %q, expected %q", tc.value, got, tc.expected)
			}
		})
	}
}
