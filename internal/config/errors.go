package config

import "errors"

// Configuration validation errors.
// These are returned by Config.Validate and reported before any
// scanning begins. We use package-level sentinel errors so callers can
// match with errors.Is while the messages stay human-readable.
var (
	// ErrInvalidResultCount is returned when the per-dork result cap is
	// not positive.
	ErrInvalidResultCount = errors.New("invalid result count: must be positive")

	// ErrInvalidConcurrency is returned when the pipeline gate width is
	// not positive.
	ErrInvalidConcurrency = errors.New("invalid concurrency: must be positive")

	// ErrInvalidDelay is returned when the inter-query delay is negative.
	// Use 0 for no pacing.
	ErrInvalidDelay = errors.New("invalid delay: must be non-negative")

	// ErrInvalidTimeout is returned when a search or fetch timeout is
	// not positive.
	ErrInvalidTimeout = errors.New("invalid timeout: must be positive")

	// ErrInvalidMaxBodySize is returned when the snapshot body cap is
	// not positive.
	ErrInvalidMaxBodySize = errors.New("invalid max body size: must be positive")

	// ErrNoDorksFile is returned when no catalog path is configured.
	ErrNoDorksFile = errors.New("no dork catalog file specified")

	// ErrNoOutputDir is returned when no output directory is configured.
	ErrNoOutputDir = errors.New("no output directory specified")

	// ErrPartialCredentials is returned when only one of the Google API
	// key and engine ID is set. The API provider needs both; supplying
	// one is almost certainly a mistake worth surfacing.
	ErrPartialCredentials = errors.New("partial API credentials: --google-api-key and --google-cx must be set together")
)
