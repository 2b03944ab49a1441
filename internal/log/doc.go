// Package log provides secure logging built on top of the standard slog
// package.
//
// Scanned URLs are untrusted input and frequently carry credentials:
// phishing links embed user:password pairs, one-time tokens and session
// identifiers in the query string. The SecureHandler masks such values
// before they reach the underlying handler:
//   - attributes whose key names a secret (cookie, authorization, token, ...)
//   - values that look like a secret (JWT, bearer or basic credentials)
//   - the userinfo part and secret query parameters of URL values
//
// Even in verbose mode, sensitive values are masked to prevent accidental
// exposure of secrets in logs that may be shared or stored.
//
// # Usage
//
//	logger := log.NewSecureLogger(os.Stderr, true) // verbose=true
//	logger.Info("submission finished",
//	    "url", "https://user:pw@bank.example/login?token=abc", // https://***REDACTED***@bank.example/login?token=***REDACTED***
//	)
//	slog.SetDefault(logger)
package log
