// Package search implements the search backend chain.
//
// Two providers sit behind one capability: given a query string, return
// a list of result URLs. The Google provider talks to the Custom Search
// JSON API; the DuckDuckGo provider scrapes the HTML search page with a
// browser-like request signature. The Chain tries the API first when
// credentials are configured and falls through to scraping exactly once
// when the API yields nothing. It never runs both providers after a
// non-empty result.
//
// Backend failures are never fatal to a run: API errors trigger the
// fallback, and scraping failures degrade to an empty result set.
package search
