package search

import (
	"context"
	"log/slog"
)

// defaultScrapeLimit is the fetch budget handed to the scraping
// fallback. The scraper returns one page of organic results; asking for
// plenty lets the orchestrator deduplicate and truncate afterwards.
const defaultScrapeLimit = 100

// Chain is the two-tier backend fallback policy.
//
// When an API provider is configured it runs first; the scraping
// fallback runs only when the API yields zero URLs, whether from an
// empty result set or from an error (which is logged, never fatal).
// The chain returns immediately on the first non-empty list, so both
// providers never run for a query that the API answered.
//
// Design decision: The original behavior re-consulted the scraper in an
// ambiguously-conditioned branch even when credentials were half
// configured. The chain pins the boundary explicitly: the API runs iff
// both credentials were supplied at construction, and the fallback runs
// iff the API produced nothing.
type Chain struct {
	// api is the structured API provider, or nil when credentials are
	// not configured.
	api Provider

	// fallback is the scraping provider. Always present.
	fallback Provider

	// scrapeLimit is the fetch budget for the fallback provider.
	scrapeLimit int

	// logger reports fallbacks and degraded results.
	logger *slog.Logger
}

// ChainOption configures a Chain.
type ChainOption func(*Chain)

// WithChainLogger sets the chain's logger.
func WithChainLogger(logger *slog.Logger) ChainOption {
	return func(c *Chain) {
		c.logger = logger
	}
}

// WithScrapeLimit overrides the fallback fetch budget.
func WithScrapeLimit(n int) ChainOption {
	return func(c *Chain) {
		if n > 0 {
			c.scrapeLimit = n
		}
	}
}

// NewChain creates a backend chain. api may be nil, which selects the
// fallback-only path; fallback must not be nil.
func NewChain(api, fallback Provider, opts ...ChainOption) *Chain {
	c := &Chain{
		api:         api,
		fallback:    fallback,
		scrapeLimit: defaultScrapeLimit,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	return c
}

// Search runs the fallback policy for one query and returns result
// URLs, possibly empty. Chain-level failures never propagate: every
// backend error degrades to "fewer findings".
//
// limit is the caller's desired count. The API provider receives it
// directly; the fallback receives the larger scrape budget because its
// results are deduplicated and truncated downstream.
func (c *Chain) Search(ctx context.Context, query string, limit int) []string {
	if c.api != nil {
		hits, err := c.api.Search(ctx, query, limit)
		switch {
		case err != nil:
			c.logger.Warn("api search failed, falling back to scraping",
				"provider", c.api.Name(), "query", query, "error", err)
		case len(hits) > 0:
			return hits
		default:
			c.logger.Info("api search returned no results, falling back to scraping",
				"provider", c.api.Name(), "query", query)
		}
	}

	budget := c.scrapeLimit
	if budget < limit {
		budget = limit
	}
	hits, err := c.fallback.Search(ctx, query, budget)
	if err != nil {
		c.logger.Warn("fallback search failed",
			"provider", c.fallback.Name(), "query", query, "error", err)
		return nil
	}
	return hits
}
