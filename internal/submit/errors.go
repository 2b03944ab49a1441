package submit

import "errors"

// Submission errors.
var (
	// ErrInvalidURL is returned when the url field fails local validation.
	// No request is made in that case.
	ErrInvalidURL = errors.New("input does not look like a URL")

	// ErrSubmitFailed is returned when the prediction endpoint cannot be
	// reached or answers with a non-2xx status.
	ErrSubmitFailed = errors.New("submission failed")

	// ErrSubmissionInFlight is returned by Gate.TryAcquire while another
	// submission holds the gate.
	ErrSubmissionInFlight = errors.New("a submission is already in progress")

	// ErrInvalidAction is returned when the form action cannot be resolved
	// to an absolute http(s) URL.
	ErrInvalidAction = errors.New("invalid form action")
)
