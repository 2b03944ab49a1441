// Package transport builds the HTTP client used to talk to the prediction
// endpoint.
//
// The client keeps a cookie jar for the lifetime of the process so that the
// asynchronous submission and the fallback plain submission share the same
// session, the way a browser sends same-origin credentials with both.
// Requests can optionally be routed through a SOCKS5 proxy, and every
// request carries the configured User-Agent and extra headers.
package transport
