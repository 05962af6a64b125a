package catalog

import "errors"

// Catalog loading errors.
// A failure to load the catalog is the only fatal error class in gds:
// it aborts the run before any network activity.
var (
	// ErrNotFound is returned when the catalog file does not exist.
	ErrNotFound = errors.New("dork catalog file not found")

	// ErrEmpty is returned when the catalog parses but contains no
	// categories. Scanning with an empty catalog would be a silent no-op,
	// so we surface it as a configuration error instead.
	ErrEmpty = errors.New("dork catalog is empty")

	// ErrMalformedEntry is returned when a category value is neither an
	// entry object nor a list of pattern strings.
	ErrMalformedEntry = errors.New("malformed catalog entry")
)
