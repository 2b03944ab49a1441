package model

import (
	"math"
	"strings"
	"time"
)

// MaxHistoryEntries is the upper bound of a HistoryList after every write.
// Older entries beyond the bound are discarded; this is the only eviction
// policy of the history.
const MaxHistoryEntries = 8

// ScanRecord is one entry in the scan history.
type ScanRecord struct {
	// URL is the scanned address as submitted. It is untrusted input and
	// must be escaped before it is written into markup.
	URL string `json:"url"`

	// Label is the short classification result (e.g. "Phishing", "Safe").
	Label string `json:"label"`

	// Confidence is a percentage in [0,100]. It may be 0 when the result
	// page did not carry a confidence value.
	Confidence float64 `json:"confidence"`

	// Timestamp is the creation time in milliseconds since the Unix epoch.
	Timestamp int64 `json:"ts"`
}

// NewScanRecord creates a ScanRecord stamped with the given time.
// Non-finite confidence values are stored as 0 so that the record can
// always be encoded as JSON.
func NewScanRecord(url, label string, confidence float64, now time.Time) ScanRecord {
	if math.IsNaN(confidence) || math.IsInf(confidence, 0) {
		confidence = 0
	}
	return ScanRecord{
		URL:        url,
		Label:      label,
		Confidence: confidence,
		Timestamp:  now.UnixMilli(),
	}
}

// Time returns the record timestamp as a time.Time.
func (r ScanRecord) Time() time.Time {
	return time.UnixMilli(r.Timestamp)
}

// Classification returns the visual classification of the record label.
func (r ScanRecord) Classification() Classification {
	return Classify(r.Label)
}

// HistoryList is an ordered sequence of ScanRecords, newest first.
type HistoryList []ScanRecord

// Prepend returns a new list with rec in front, truncated to
// MaxHistoryEntries. The receiver is not modified.
func (h HistoryList) Prepend(rec ScanRecord) HistoryList {
	out := make(HistoryList, 0, min(len(h)+1, MaxHistoryEntries))
	out = append(out, rec)
	for _, r := range h {
		if len(out) == MaxHistoryEntries {
			break
		}
		out = append(out, r)
	}
	return out
}

// Truncate returns the first MaxHistoryEntries records.
func (h HistoryList) Truncate() HistoryList {
	if len(h) <= MaxHistoryEntries {
		return h
	}
	return h[:MaxHistoryEntries]
}

// Counts returns the number of danger and success records.
func (h HistoryList) Counts() (danger, success int) {
	for _, r := range h {
		if r.Classification() == ClassificationDanger {
			danger++
		} else {
			success++
		}
	}
	return danger, success
}

// Classification is the two-way visual tag of a scan result.
type Classification string

const (
	// ClassificationDanger tags labels that mention phishing.
	ClassificationDanger Classification = "danger"

	// ClassificationSuccess tags every other label.
	ClassificationSuccess Classification = "success"
)

// String returns the CSS class name of the classification.
func (c Classification) String() string {
	return string(c)
}

// Classify tags a label as danger when it contains "phish"
// (case-insensitive), and as success otherwise.
func Classify(label string) Classification {
	if strings.Contains(strings.ToLower(label), "phish") {
		return ClassificationDanger
	}
	return ClassificationSuccess
}

// ClampConfidence limits a confidence percentage to [0,100].
// NaN becomes 0.
func ClampConfidence(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return math.Min(100, math.Max(0, v))
}
