package search

import (
	"errors"
	"fmt"
)

// ErrNetwork wraps transport-level failures from the API provider.
// All network faults (DNS, dial, TLS, timeout) surface as this one
// kind so the chain can treat them uniformly.
var ErrNetwork = errors.New("search network error")

// APIError is a non-2xx response from the Google Custom Search API.
// For client-side request faults the API reports a structured message
// (bad key, exhausted quota); Message carries it when available.
type APIError struct {
	// StatusCode is the HTTP status the API returned.
	StatusCode int

	// Message is the upstream error message, or a generic body excerpt
	// when the response carried no structured error.
	Message string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("google api error (%d): %s", e.StatusCode, e.Message)
}
