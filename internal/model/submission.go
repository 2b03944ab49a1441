package model

import (
	"net/url"
	"time"
)

// DefaultAction is the form target used when the form has no action.
const DefaultAction = "/predict"

// DefaultLabel is the label used when a result page has no label element.
const DefaultLabel = "Result"

// NavigationKind selects how the page moves to the new result state.
type NavigationKind int

const (
	// NavigationNone means the page stays where it is (e.g. invalid input).
	NavigationNone NavigationKind = iota

	// NavigationReplace swaps the whole document with the body returned by
	// the asynchronous submission.
	NavigationReplace

	// NavigationFallback performs a plain synchronous form submission and
	// shows whatever page it returns (a full page load).
	NavigationFallback
)

// String returns a human-readable name of the navigation kind.
func (k NavigationKind) String() string {
	switch k {
	case NavigationNone:
		return "none"
	case NavigationReplace:
		return "replace"
	case NavigationFallback:
		return "fallback"
	default:
		return "unknown"
	}
}

// Navigation is the single "navigate to new result state" operation.
// Both variants replace the page; they differ only in where the new
// document comes from.
type Navigation struct {
	// Kind selects the variant.
	Kind NavigationKind

	// Document is the new page markup. For NavigationReplace it is set by
	// the asynchronous submission; for NavigationFallback it is filled in
	// when the fallback submission is executed.
	Document string

	// Cause is the error that forced a fallback navigation.
	Cause error
}

// Submission carries the state of one scan form submission through the
// submission pipeline.
type Submission struct {
	// Input is the raw value of the url field, as typed.
	Input string

	// Action is the form target URL.
	Action string

	// Form holds every form field that is posted. It always contains
	// the "url" field.
	Form url.Values

	// Label is the classification extracted from the result page.
	Label string

	// Confidence is the confidence extracted from the result page.
	Confidence float64

	// Recorded reports whether the result was written to the history.
	Recorded bool

	// Navigation is the page-level outcome.
	Navigation Navigation

	// StartedAt and FinishedAt bound the submission.
	StartedAt  time.Time
	FinishedAt time.Time

	// StatusCode is the HTTP status of the page that was finally shown.
	StatusCode int

	// Steps lists the pipeline steps that ran, in order.
	Steps []string

	// Err holds the error that stopped the submission (e.g. invalid input).
	// ErrorMessage is its text, kept for serialized reports.
	Err          error
	ErrorMessage string
}

// NewSubmission creates a Submission for the given url input and action.
// An empty action falls back to DefaultAction.
func NewSubmission(input, action string) *Submission {
	if action == "" {
		action = DefaultAction
	}
	form := url.Values{}
	form.Set("url", input)
	return &Submission{
		Input:     input,
		Action:    action,
		Form:      form,
		StartedAt: time.Now(),
	}
}

// Classification returns the classification of the extracted label.
func (s *Submission) Classification() Classification {
	return Classify(s.Label)
}

// SetError records the error that stopped the submission.
func (s *Submission) SetError(err error) {
	s.Err = err
	if err != nil {
		s.ErrorMessage = err.Error()
	}
}

// Duration returns how long the submission took.
func (s *Submission) Duration() time.Duration {
	if s.FinishedAt.IsZero() {
		return 0
	}
	return s.FinishedAt.Sub(s.StartedAt)
}
