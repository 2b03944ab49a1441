package submit

import (
	"errors"
	"testing"
)

// TestIsLikelyURL tests the url heuristic.
func TestIsLikelyURL(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		input string
		want  bool
	}{
		{"example.com", true},
		{"https://example.com/login", true},
		{"  example.com  ", true},
		{"192.168.0.1", true},
		{"not a url", false},
		{"exa mple.com", false},
		{"example.com\tpath", false},
		{"localhost", false},
		{"", false},
		{"   ", false},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			t.Parallel()
			if got := IsLikelyURL(tc.input); got != tc.want {
				t.Errorf("IsLikelyURL(%q) = %v, expected %v", tc.input, got, tc.want)
			}
		})
	}
}

// TestValidate tests the error form of the heuristic.
func TestValidate(t *testing.T) {
	t.Parallel()

	if err := Validate("example.com"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := Validate("not a url"); !errors.Is(err, ErrInvalidURL) {
		t.Errorf("expected ErrInvalidURL, got %v", err)
	}
}
