package search

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
)

const (
	// googleEndpoint is the Google Custom Search JSON API endpoint.
	googleEndpoint = "https://www.googleapis.com/customsearch/v1"

	// googleMaxPageSize is the largest num value the API accepts per
	// request. Requests for more results are clamped to this.
	googleMaxPageSize = 10

	// googleErrorBodyLimit bounds how much of an error response body is
	// read for diagnostics.
	googleErrorBodyLimit = 4 * 1024
)

// Google queries the Google Custom Search JSON API.
// It requires both an API key and a search engine identifier (cx);
// construction without either is the caller's bug, not a runtime state.
type Google struct {
	// apiKey is the Custom Search API key.
	apiKey string

	// engineID is the Custom Search engine identifier (cx).
	engineID string

	// endpoint is the API base URL. Overridable for tests.
	endpoint string

	// client performs the HTTP requests. It is injected so the same
	// proxy-aware client serves searches and snapshot fetches.
	client *http.Client
}

// GoogleOption configures a Google provider.
type GoogleOption func(*Google)

// WithGoogleEndpoint overrides the API endpoint. Used in tests to point
// the provider at a local server.
func WithGoogleEndpoint(endpoint string) GoogleOption {
	return func(g *Google) {
		g.endpoint = endpoint
	}
}

// NewGoogle creates a Google Custom Search provider.
func NewGoogle(apiKey, engineID string, client *http.Client, opts ...GoogleOption) *Google {
	g := &Google{
		apiKey:   apiKey,
		engineID: engineID,
		endpoint: googleEndpoint,
		client:   client,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Name implements Provider.
func (g *Google) Name() string { return "google-cse" }

// googleResponse is the subset of the API response we consume.
type googleResponse struct {
	Items []struct {
		Link string `json:"link"`
	} `json:"items"`
}

// googleErrorResponse is the structured error body the API returns for
// client-side request faults.
type googleErrorResponse struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Search implements Provider. It requests up to min(limit,
// googleMaxPageSize) results for the query.
//
// A 400 response is surfaced with the upstream error message so the
// operator can tell a bad key from an exhausted quota; other non-2xx
// statuses are surfaced generically. Transport failures are wrapped in
// ErrNetwork.
func (g *Google) Search(ctx context.Context, query string, limit int) ([]string, error) {
	num := limit
	if num > googleMaxPageSize {
		num = googleMaxPageSize
	}

	params := url.Values{}
	params.Set("key", g.apiKey)
	params.Set("cx", g.engineID)
	params.Set("q", query)
	params.Set("num", strconv.Itoa(num))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build search request: %w", err)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNetwork, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, googleErrorBodyLimit)) //nolint:errcheck // Diagnostics only
		apiErr := &APIError{StatusCode: resp.StatusCode}

		if resp.StatusCode == http.StatusBadRequest {
			var parsed googleErrorResponse
			if err := json.Unmarshal(body, &parsed); err == nil && parsed.Error.Message != "" {
				apiErr.Message = parsed.Error.Message
				return nil, apiErr
			}
		}
		apiErr.Message = fmt.Sprintf("unexpected status: %s", truncate(string(body), 200))
		return nil, apiErr
	}

	var parsed googleResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("failed to decode search response: %w", err)
	}

	links := make([]string, 0, len(parsed.Items))
	for _, item := range parsed.Items {
		if item.Link != "" {
			links = append(links, item.Link)
		}
	}
	return links, nil
}

// truncate shortens s to at most n bytes for log and error messages.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
