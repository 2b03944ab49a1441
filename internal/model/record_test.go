package model

import (
	"math"
	"strconv"
	"testing"
	"time"
)

// TestClassify tests the two-way label classification.
func TestClassify(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		label    string
		expected Classification
	}{
		{"Phishing Detected", ClassificationDanger},
		{"Safe Site", ClassificationSuccess},
		{"PHISH!", ClassificationDanger},
		{"Legitimate", ClassificationSuccess},
		{"", ClassificationSuccess},
		{"anti-phishing ok", ClassificationDanger},
	}

	for _, tc := range testCases {
		t.Run(tc.label, func(t *testing.T) {
			t.Parallel()
			if got := Classify(tc.label); got != tc.expected {
				t.Errorf("Classify(%q) = %q, expected %q", tc.label, got, tc.expected)
			}
		})
	}
}

// TestClampConfidence tests clamping to the display range.
func TestClampConfidence(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		value    float64
		expected float64
	}{
		{"above range", 150, 100},
		{"below range", -5, 0},
		{"in range", 42.5, 42.5},
		{"lower bound", 0, 0},
		{"upper bound", 100, 100},
		{"NaN", math.NaN(), 0},
		{"positive infinity", math.Inf(1), 100},
		{"negative infinity", math.Inf(-1), 0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := ClampConfidence(tc.value); got != tc.expected {
				t.Errorf("ClampConfidence(%v) = %v, expected %v", tc.value, got, tc.expected)
			}
		})
	}
}

// TestNewScanRecord tests record creation.
func TestNewScanRecord(t *testing.T) {
	t.Parallel()

	now := time.UnixMilli(1700000000123)

	t.Run("stamps creation time in milliseconds", func(t *testing.T) {
		t.Parallel()
		rec := NewScanRecord("example.com", "Safe", 12.5, now)
		if rec.Timestamp != 1700000000123 {
			t.Errorf("expected ts 1700000000123, got %d", rec.Timestamp)
		}
		if !rec.Time().Equal(now) {
			t.Errorf("expected time %v, got %v", now, rec.Time())
		}
	})

	t.Run("keeps url untrimmed", func(t *testing.T) {
		t.Parallel()
		rec := NewScanRecord("  example.com ", "Safe", 1, now)
		if rec.URL != "  example.com " {
			t.Errorf("expected untrimmed url, got %q", rec.URL)
		}
	})

	t.Run("stores non-finite confidence as zero", func(t *testing.T) {
		t.Parallel()
		if rec := NewScanRecord("a.b", "x", math.NaN(), now); rec.Confidence != 0 {
			t.Errorf("expected 0 for NaN, got %v", rec.Confidence)
		}
		if rec := NewScanRecord("a.b", "x", math.Inf(1), now); rec.Confidence != 0 {
			t.Errorf("expected 0 for +Inf, got %v", rec.Confidence)
		}
	})
}

// TestHistoryListPrepend tests the bounded newest-first insertion.
func TestHistoryListPrepend(t *testing.T) {
	t.Parallel()

	t.Run("never exceeds the bound and keeps newest first", func(t *testing.T) {
		t.Parallel()

		var h HistoryList
		for i := 0; i < 20; i++ {
			h = h.Prepend(ScanRecord{URL: strconv.Itoa(i), Timestamp: int64(i)})
			if len(h) > MaxHistoryEntries {
				t.Fatalf("history length %d exceeds bound after write %d", len(h), i)
			}
			for j := 1; j < len(h); j++ {
				if h[j-1].Timestamp < h[j].Timestamp {
					t.Fatalf("history not newest first at write %d: %v", i, h)
				}
			}
		}
	})

	t.Run("ninth entry evicts exactly the oldest", func(t *testing.T) {
		t.Parallel()

		var h HistoryList
		for i := 1; i <= 9; i++ {
			h = h.Prepend(ScanRecord{URL: strconv.Itoa(i)})
		}
		if len(h) != MaxHistoryEntries {
			t.Fatalf("expected %d entries, got %d", MaxHistoryEntries, len(h))
		}
		for i, rec := range h {
			expected := strconv.Itoa(9 - i)
			if rec.URL != expected {
				t.Errorf("entry %d: expected %q, got %q", i, expected, rec.URL)
			}
		}
	})

	t.Run("does not modify the receiver", func(t *testing.T) {
		t.Parallel()

		h := HistoryList{{URL: "old"}}
		_ = h.Prepend(ScanRecord{URL: "new"})
		if len(h) != 1 || h[0].URL != "old" {
			t.Errorf("receiver modified: %v", h)
		}
	})
}

// TestHistoryListTruncate tests truncation of over-long lists.
func TestHistoryListTruncate(t *testing.T) {
	t.Parallel()

	h := make(HistoryList, 12)
	if got := len(h.Truncate()); got != MaxHistoryEntries {
		t.Errorf("expected %d entries, got %d", MaxHistoryEntries, got)
	}

	short := HistoryList{{URL: "a"}}
	if got := len(short.Truncate()); got != 1 {
		t.Errorf("expected 1 entry, got %d", got)
	}
}

// TestHistoryListCounts tests danger/success counting.
func TestHistoryListCounts(t *testing.T) {
	t.Parallel()

	h := HistoryList{
		{Label: "Phishing"},
		{Label: "Legitimate"},
		{Label: "phish"},
		{Label: "Safe"},
		{Label: "Safe"},
	}
	danger, success := h.Counts()
	if danger != 2 || success != 3 {
		t.Errorf("expected 2 danger and 3 success, got %d and %d", danger, success)
	}
}
