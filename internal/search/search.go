package search

import "context"

// Provider is the single capability both search backends expose:
// given a query string, return up to limit result URLs in the order
// the backend ranked them.
//
// Design decision: We use an interface rather than function types
// because providers carry configuration state (credentials, endpoints,
// HTTP clients) and a Name for logging.
type Provider interface {
	// Search executes one query and returns result URLs, possibly empty.
	Search(ctx context.Context, query string, limit int) ([]string, error)

	// Name identifies the provider in logs.
	Name() string
}
