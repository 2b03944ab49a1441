package submit

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
)

// Request header names and values.
const (
	// HeaderRequestedWith marks a request as asynchronous.
	HeaderRequestedWith = "X-Requested-With"

	// RequestedWithAJAX is the value of HeaderRequestedWith.
	RequestedWithAJAX = "XMLHttpRequest"

	contentTypeForm = "application/x-www-form-urlencoded"
)

// DefaultMaxBodySize limits how much of a result page is read (5MB).
const DefaultMaxBodySize int64 = 5 * 1024 * 1024

// Response is a page returned by the prediction endpoint.
type Response struct {
	// StatusCode is the HTTP status code.
	StatusCode int

	// URL is the final URL after redirects.
	URL string

	// ContentType is the Content-Type header.
	ContentType string

	// Body is the page markup, truncated to the body size limit.
	Body string
}

// Submitter posts scan forms to the prediction endpoint.
type Submitter struct {
	client      *http.Client
	base        *url.URL
	maxBodySize int64
	logger      *slog.Logger
}

// Option configures a Submitter.
type Option func(*Submitter)

// WithBaseURL sets the URL that relative form actions resolve against.
func WithBaseURL(base *url.URL) Option {
	return func(s *Submitter) {
		s.base = base
	}
}

// WithMaxBodySize sets the maximum number of body bytes read.
func WithMaxBodySize(n int64) Option {
	return func(s *Submitter) {
		if n > 0 {
			s.maxBodySize = n
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Submitter) {
		s.logger = logger
	}
}

// NewSubmitter creates a Submitter that sends requests with client.
// A nil client uses http.DefaultClient.
func NewSubmitter(client *http.Client, opts ...Option) *Submitter {
	if client == nil {
		client = http.DefaultClient
	}
	s := &Submitter{
		client:      client,
		maxBodySize: DefaultMaxBodySize,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ResolveAction turns a form action into an absolute URL.
func (s *Submitter) ResolveAction(action string) (string, error) {
	u, err := url.Parse(action)
	if err != nil {
		return "", fmt.Errorf("%w %q: %w", ErrInvalidAction, action, err)
	}
	if !u.IsAbs() {
		if s.base == nil {
			return "", fmt.Errorf("%w %q: relative action without base URL", ErrInvalidAction, action)
		}
		u = s.base.ResolveReference(u)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("%w %q: unsupported scheme", ErrInvalidAction, action)
	}
	return u.String(), nil
}

// Submit posts the form asynchronously. Transport errors and non-2xx
// responses are returned wrapped in ErrSubmitFailed. There is no retry.
func (s *Submitter) Submit(ctx context.Context, action string, form url.Values) (*Response, error) {
	resp, err := s.post(ctx, action, form, true)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return resp, fmt.Errorf("%w: unexpected status %d", ErrSubmitFailed, resp.StatusCode)
	}
	return resp, nil
}

// SubmitPlain posts the form as an ordinary form submission. Whatever page
// the endpoint answers with is returned, error statuses included, because
// a full navigation shows that page as is.
func (s *Submitter) SubmitPlain(ctx context.Context, action string, form url.Values) (*Response, error) {
	return s.post(ctx, action, form, false)
}

func (s *Submitter) post(ctx context.Context, action string, form url.Values, async bool) (*Response, error) {
	target, err := s.ResolveAction(action)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %w", ErrSubmitFailed, err)
	}
	req.Header.Set("Content-Type", contentTypeForm)
	req.Header.Set("Accept", "text/html")
	if async {
		req.Header.Set(HeaderRequestedWith, RequestedWithAJAX)
	}

	s.logger.Debug("posting scan form",
		"action", target,
		"async", async,
	)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSubmitFailed, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, s.maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response: %w", ErrSubmitFailed, err)
	}

	return &Response{
		StatusCode:  resp.StatusCode,
		URL:         resp.Request.URL.String(),
		ContentType: resp.Header.Get("Content-Type"),
		Body:        string(body),
	}, nil
}
