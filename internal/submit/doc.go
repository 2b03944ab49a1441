// Package submit implements the client side of a scan form submission.
//
// It validates the url field with a cheap heuristic, guards against
// duplicate submissions with an admission gate, and posts the form to the
// prediction endpoint. The asynchronous submission is marked with the
// X-Requested-With header; the fallback plain submission is not, and is
// used only when the asynchronous one fails.
package submit
