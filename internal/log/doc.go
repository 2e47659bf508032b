// Package log provides the application logger: a slog handler that masks
// credentials and shortens page text before records reach the output.
//
// # Security Features
//
// The SecureHandler sanitizes attribute values in log output:
//   - HTTP headers (Authorization, Cookie, Set-Cookie, X-Api-Key)
//   - grammar service credentials (api_key, username)
//   - values that look like secrets (bearer tokens, JWTs, long keys)
//
// Even in verbose mode, sensitive values are masked to prevent accidental
// exposure of secrets in logs that may be shared or stored.
//
// # Page Text
//
// Attributes carrying page content (text, html, body) are cut to
// MaxTextLength runes so a single record never dumps a whole document.
//
// # Usage
//
//	logger := log.NewSecureLogger(os.Stderr, verbose)
//	logger.Debug("checking segment",
//	    "locator", seg.Locator,
//	    "text", seg.Text, // shortened
//	)
//	slog.SetDefault(logger)
package log
