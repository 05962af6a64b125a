// Package log provides secure logging with automatic redaction of
// credentials, built on top of the standard slog package.
//
// Scan runs carry a Google API key and often log query and response
// fragments; a careless debug line could leak the key into a log file
// that later gets attached to a bug report. The SecureHandler masks
// attribute values whose key or content looks credential-shaped before
// they reach the underlying handler, even in verbose mode.
//
// Usage:
//
//	logger := log.NewSecureLogger(os.Stderr, verbose)
//	slog.SetDefault(logger)
package log
