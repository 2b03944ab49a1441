package storage

import "errors"

// Storage errors.
//
// Callers use errors.Is to tell an absent key from a broken store, although
// the history store treats both the same way.
var (
	// ErrNotFound is returned by Get when the key has no value.
	ErrNotFound = errors.New("storage: key not found")

	// ErrQuotaExceeded is returned by Set when the value does not fit in the
	// remaining quota of the store.
	ErrQuotaExceeded = errors.New("storage: quota exceeded")

	// ErrUnavailable is returned when the store is disabled or closed.
	ErrUnavailable = errors.New("storage: unavailable")

	// ErrInvalidOrigin is returned when an origin cannot be derived from a URL.
	ErrInvalidOrigin = errors.New("storage: invalid origin")
)
