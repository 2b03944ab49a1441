package transport

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/cookiejar"
	"strconv"
	"time"

	"golang.org/x/net/proxy"
)

// Defaults for the HTTP client.
const (
	// DefaultTimeout bounds a whole request including reading the body.
	DefaultTimeout = 30 * time.Second

	// DefaultMaxRedirects is the number of redirects followed before the
	// last response is returned as is.
	DefaultMaxRedirects = 10

	// DefaultUserAgent identifies the scanner to the prediction endpoint.
	DefaultUserAgent = "phishscan"

	// checkProxyTimeout bounds the SOCKS5 greeting done by CheckProxy.
	checkProxyTimeout = 2 * time.Second
)

// SOCKS5 greeting constants.
const (
	socks5Version  = 0x05
	socks5AuthNone = 0x00
)

// Options configures the HTTP client.
type Options struct {
	// Timeout bounds each request. Zero means no timeout.
	Timeout time.Duration

	// ProxyAddress is an optional SOCKS5 proxy in "host:port" format.
	ProxyAddress string

	// UserAgent is sent with every request. Empty keeps Go's default.
	UserAgent string

	// Headers are extra headers set on every request.
	Headers map[string]string

	// Cookie is a raw cookie string sent with every request in addition
	// to the cookies held by the jar.
	Cookie string

	// MaxRedirects is the number of redirects followed before the last
	// response is returned.
	MaxRedirects int
}

// DefaultOptions returns the default client options.
func DefaultOptions() Options {
	return Options{
		Timeout:      DefaultTimeout,
		UserAgent:    DefaultUserAgent,
		MaxRedirects: DefaultMaxRedirects,
	}
}

// Client owns the HTTP client used for submissions.
//
// Design decision: one http.Client with one cookie jar is shared by every
// submission so that cookies set by the prediction endpoint are sent back
// on the next request, including the fallback plain submission.
type Client struct {
	opts   Options
	dialer proxy.Dialer
	http   *http.Client
}

// NewClient creates a Client from the options.
//
// The proxy address is validated but not contacted. Call CheckProxy to
// verify that the proxy answers.
func NewClient(opts Options) (*Client, error) {
	if opts.MaxRedirects <= 0 {
		opts.MaxRedirects = DefaultMaxRedirects
	}

	c := &Client{opts: opts}

	if opts.ProxyAddress != "" {
		if !isValidProxyAddress(opts.ProxyAddress) {
			return nil, fmt.Errorf("%w: %q", ErrInvalidProxyAddress, opts.ProxyAddress)
		}
		dialer, err := proxy.SOCKS5("tcp", opts.ProxyAddress, nil, proxy.Direct)
		if err != nil {
			return nil, fmt.Errorf("failed to create SOCKS5 dialer: %w", err)
		}
		c.dialer = dialer
	}

	c.http = c.newHTTPClient()
	return c, nil
}

// isValidProxyAddress checks for a non-empty host and a port in 1-65535.
func isValidProxyAddress(address string) bool {
	host, port, err := net.SplitHostPort(address)
	if err != nil || host == "" {
		return false
	}
	n, err := strconv.Atoi(port)
	if err != nil {
		return false
	}
	return n >= 1 && n <= 65535
}

// newHTTPClient builds the http.Client. Redirects beyond the limit return
// the last response instead of an error.
func (c *Client) newHTTPClient() *http.Client {
	base := http.DefaultTransport.(*http.Transport).Clone() //nolint:forcetypeassert // DefaultTransport is always *http.Transport
	base.MaxIdleConnsPerHost = 4
	base.IdleConnTimeout = 30 * time.Second
	if c.dialer != nil {
		base.Proxy = nil
		base.DialContext = c.dialContext
	}

	jar, _ := cookiejar.New(nil) //nolint:errcheck // cookiejar.New only fails with invalid options

	limit := c.opts.MaxRedirects
	return &http.Client{
		Transport: &headerInjectingTransport{
			base:      base,
			userAgent: c.opts.UserAgent,
			cookie:    c.opts.Cookie,
			headers:   c.opts.Headers,
		},
		Timeout: c.opts.Timeout,
		Jar:     jar,
		CheckRedirect: func(_ *http.Request, via []*http.Request) error {
			if len(via) > limit {
				return http.ErrUseLastResponse
			}
			return nil
		},
	}
}

// dialContext dials through the SOCKS5 proxy, honouring ctx when the
// dialer supports it.
func (c *Client) dialContext(ctx context.Context, network, addr string) (net.Conn, error) {
	if cd, ok := c.dialer.(proxy.ContextDialer); ok {
		return cd.DialContext(ctx, network, addr)
	}
	return c.dialer.Dial(network, addr)
}

// HTTPClient returns the shared HTTP client.
func (c *Client) HTTPClient() *http.Client {
	return c.http
}

// ProxyAddress returns the configured proxy address, or "" when requests
// are sent directly.
func (c *Client) ProxyAddress() string {
	return c.opts.ProxyAddress
}

// Options returns the options the client was built with.
func (c *Client) Options() Options {
	return c.opts
}

// CheckProxy performs a SOCKS5 greeting against the configured proxy.
// It returns ProxyStatusDisabled when no proxy is configured.
func (c *Client) CheckProxy(ctx context.Context) ProxyStatus {
	if c.opts.ProxyAddress == "" {
		return ProxyStatusDisabled
	}

	ctx, cancel := context.WithTimeout(ctx, checkProxyTimeout)
	defer cancel()

	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", c.opts.ProxyAddress)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return ProxyStatusTimeout
		}
		return ProxyStatusCannotConnect
	}
	defer conn.Close()

	if err := conn.SetDeadline(time.Now().Add(checkProxyTimeout)); err != nil {
		return ProxyStatusCannotConnect
	}

	// Offer "no authentication" only.
	if _, err := conn.Write([]byte{socks5Version, 0x01, socks5AuthNone}); err != nil {
		return ProxyStatusCannotConnect
	}

	resp := make([]byte, 2)
	if _, err := io.ReadFull(conn, resp); err != nil {
		var netErr net.Error
		if errors.As(err, &netErr) && netErr.Timeout() {
			return ProxyStatusTimeout
		}
		return ProxyStatusWrongType
	}
	if resp[0] != socks5Version || resp[1] != socks5AuthNone {
		return ProxyStatusWrongType
	}
	return ProxyStatusOK
}

// headerInjectingTransport sets the User-Agent, the configured headers and
// the configured cookie on every request, redirects included.
type headerInjectingTransport struct {
	base      http.RoundTripper
	userAgent string
	cookie    string
	headers   map[string]string
}

// RoundTrip implements http.RoundTripper.
func (t *headerInjectingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	clone := req.Clone(req.Context())

	if t.userAgent != "" && clone.Header.Get("User-Agent") == "" {
		clone.Header.Set("User-Agent", t.userAgent)
	}

	if t.cookie != "" {
		if existing := clone.Header.Get("Cookie"); existing != "" {
			clone.Header.Set("Cookie", existing+"; "+t.cookie)
		} else {
			clone.Header.Set("Cookie", t.cookie)
		}
	}

	for key, value := range t.headers {
		clone.Header.Set(key, value)
	}

	return t.base.RoundTrip(clone)
}
