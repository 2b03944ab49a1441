package model

import "time"

// ScanResult is the outcome of one submission, flattened for reports.
type ScanResult struct {
	// URL is the submitted input, as typed.
	URL string `json:"url"`

	// Label is the classification read from the result page.
	Label string `json:"label,omitempty"`

	// Confidence is the clamped confidence percentage.
	Confidence float64 `json:"confidence"`

	// Classification is "danger" or "success", empty when no label was read.
	Classification Classification `json:"classification,omitempty"`

	// Navigation is how the result page was obtained.
	Navigation string `json:"navigation"`

	// Recorded reports whether the result was written to the history.
	Recorded bool `json:"recorded"`

	// StatusCode is the HTTP status of the shown page.
	StatusCode int `json:"statusCode,omitempty"`

	// Error is the error that stopped the submission.
	Error string `json:"error,omitempty"`

	// DurationMS is how long the submission took in milliseconds.
	DurationMS int64 `json:"durationMs"`
}

// NewScanResult flattens a submission.
func NewScanResult(sub *Submission) ScanResult {
	res := ScanResult{
		URL:        sub.Input,
		Label:      sub.Label,
		Confidence: ClampConfidence(sub.Confidence),
		Navigation: sub.Navigation.Kind.String(),
		Recorded:   sub.Recorded,
		StatusCode: sub.StatusCode,
		Error:      sub.ErrorMessage,
		DurationMS: sub.Duration().Milliseconds(),
	}
	if sub.Label != "" && sub.Err == nil {
		res.Classification = Classify(sub.Label)
	}
	return res
}

// Failed reports whether the submission stopped with an error.
func (r ScanResult) Failed() bool {
	return r.Error != ""
}

// ScanReport groups the results of a scan run with the history it left.
type ScanReport struct {
	// Endpoint is the prediction endpoint the forms were posted to.
	Endpoint string `json:"endpoint"`

	// GeneratedAt is when the report was built.
	GeneratedAt time.Time `json:"generatedAt"`

	// Results holds one entry per submitted URL, in input order.
	Results []ScanResult `json:"results"`

	// History is the scan history after the run, newest first.
	History HistoryList `json:"history"`
}

// NewScanReport builds a report. Nil submissions (never started because
// the run was cancelled) are skipped.
func NewScanReport(endpoint string, generatedAt time.Time, subs []*Submission, history HistoryList) *ScanReport {
	r := &ScanReport{
		Endpoint:    endpoint,
		GeneratedAt: generatedAt,
		Results:     make([]ScanResult, 0, len(subs)),
		History:     history,
	}
	if r.History == nil {
		r.History = HistoryList{}
	}
	for _, sub := range subs {
		if sub == nil {
			continue
		}
		r.Results = append(r.Results, NewScanResult(sub))
	}
	return r
}

// Counts returns how many results were classified danger or success and
// how many failed.
func (r *ScanReport) Counts() (danger, success, failed int) {
	for _, res := range r.Results {
		switch {
		case res.Failed():
			failed++
		case res.Classification == ClassificationDanger:
			danger++
		case res.Classification == ClassificationSuccess:
			success++
		}
	}
	return danger, success, failed
}

// HasResults reports whether the report holds any scan result.
func (r *ScanReport) HasResults() bool {
	return len(r.Results) > 0
}
