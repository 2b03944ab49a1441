package storage

import (
	"context"
	"fmt"
	"net"
	"net/url"
	"strings"
)

// Storage is a persistent key/value store over string keys.
//
// Implementations must be safe for concurrent use. No cross-process
// coordination is required: concurrent writers of the same key race and the
// last write wins.
type Storage interface {
	// Get returns the value stored under key, or ErrNotFound.
	Get(ctx context.Context, key string) (string, error)

	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key, value string) error
}

// Origin returns the "scheme://host[:port]" origin of rawURL.
// Default ports are dropped and the scheme and host are lower-cased, so
// "HTTP://Example.com:80/predict" and "http://example.com" share an origin.
func Origin(rawURL string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidOrigin, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("%w: %q has no scheme or host", ErrInvalidOrigin, rawURL)
	}

	scheme := strings.ToLower(u.Scheme)
	host := strings.ToLower(u.Hostname())
	port := u.Port()
	if (scheme == "http" && port == "80") || (scheme == "https" && port == "443") {
		port = ""
	}
	switch {
	case port != "":
		host = net.JoinHostPort(host, port)
	case strings.Contains(host, ":"):
		host = "[" + host + "]"
	}
	return scheme + "://" + host, nil
}
