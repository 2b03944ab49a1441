package submit

import (
	"fmt"
	"strings"
	"unicode"
)

// IsLikelyURL reports whether s looks enough like a URL to be submitted.
//
// The check is deliberately loose: after trimming, the value must be
// non-empty, contain no whitespace and contain at least one dot. Anything
// stricter is left to the prediction endpoint.
func IsLikelyURL(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	if strings.IndexFunc(s, unicode.IsSpace) >= 0 {
		return false
	}
	return strings.Contains(s, ".")
}

// Validate returns ErrInvalidURL when IsLikelyURL rejects s.
func Validate(s string) error {
	if !IsLikelyURL(s) {
		return fmt.Errorf("%w: %q", ErrInvalidURL, s)
	}
	return nil
}
