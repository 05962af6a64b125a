package search

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// duckduckgoEndpoint is the HTML (non-JavaScript) DuckDuckGo frontend.
const duckduckgoEndpoint = "https://html.duckduckgo.com/html/"

// browserUserAgent mimics a mainstream desktop browser. The HTML
// frontend serves automated-looking clients a CAPTCHA or a 403, so the
// whole request signature below imitates a regular page load.
const browserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

// browserHeaders completes the browser-like request signature.
var browserHeaders = map[string]string{
	"User-Agent":      browserUserAgent,
	"Accept":          "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,application/signed-exchange;v=b3;q=0.9",
	"Accept-Language": "en-US,en;q=0.9,tr;q=0.8",
	"Connection":      "keep-alive",
}

// DuckDuckGo scrapes the DuckDuckGo HTML search page for result links.
// It is the fallback provider: all of its failure modes degrade to an
// empty result set so a blocked or flaky frontend can never abort a run.
type DuckDuckGo struct {
	// endpoint is the HTML frontend URL. Overridable for tests.
	endpoint string

	// client performs the HTTP requests.
	client *http.Client

	// logger reports degraded results (blocks, transport failures).
	logger *slog.Logger
}

// DuckDuckGoOption configures a DuckDuckGo provider.
type DuckDuckGoOption func(*DuckDuckGo)

// WithDuckDuckGoEndpoint overrides the frontend URL. Used in tests.
func WithDuckDuckGoEndpoint(endpoint string) DuckDuckGoOption {
	return func(d *DuckDuckGo) {
		d.endpoint = endpoint
	}
}

// WithDuckDuckGoLogger sets the logger for degraded-result warnings.
func WithDuckDuckGoLogger(logger *slog.Logger) DuckDuckGoOption {
	return func(d *DuckDuckGo) {
		d.logger = logger
	}
}

// NewDuckDuckGo creates a DuckDuckGo scraping provider.
func NewDuckDuckGo(client *http.Client, opts ...DuckDuckGoOption) *DuckDuckGo {
	d := &DuckDuckGo{
		endpoint: duckduckgoEndpoint,
		client:   client,
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.logger == nil {
		d.logger = slog.Default()
	}
	return d
}

// Name implements Provider.
func (d *DuckDuckGo) Name() string { return "duckduckgo-html" }

// Search implements Provider. It GETs the HTML search page and extracts
// result links with two successive strategies: the result__url anchor
// class first, then a looser walk of result containers. The first
// strategy that yields links wins, truncated to limit.
//
// A 403 is a terminal signal for this query: the frontend is actively
// blocking automated access, and retrying or parsing further would only
// make the block stickier. Other transport failures likewise return an
// empty set rather than an error.
func (d *DuckDuckGo) Search(ctx context.Context, query string, limit int) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		d.endpoint+"?q="+url.QueryEscape(query), nil)
	if err != nil {
		return nil, err
	}
	for key, value := range browserHeaders {
		req.Header.Set(key, value)
	}

	resp, err := d.client.Do(req)
	if err != nil {
		d.logger.Warn("duckduckgo request failed", "query", query, "error", err)
		return nil, nil
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusForbidden {
		d.logger.Warn("duckduckgo returned 403 Forbidden; it may be blocking automated requests",
			"query", query)
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		d.logger.Warn("duckduckgo returned unexpected status",
			"query", query, "status", resp.StatusCode)
		return nil, nil
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		d.logger.Warn("failed to parse duckduckgo response", "query", query, "error", err)
		return nil, nil
	}

	links := extractResultAnchors(doc)
	if len(links) == 0 {
		links = extractResultContainers(doc)
	}
	if len(links) > limit {
		links = links[:limit]
	}
	return links, nil
}

// extractResultAnchors is the primary strategy: anchors carrying the
// result__url class link directly to result pages.
func extractResultAnchors(doc *goquery.Document) []string {
	return collectLinks(doc.Find("a.result__url"))
}

// extractResultContainers is the looser structural strategy: the first
// anchor inside each result container div.
func extractResultContainers(doc *goquery.Document) []string {
	links := make([]string, 0)
	seen := make(map[string]bool)
	doc.Find("div.result").Each(func(_ int, sel *goquery.Selection) {
		href, ok := sel.Find("a[href]").First().Attr("href")
		if !ok {
			return
		}
		if strings.HasPrefix(href, "http") && !seen[href] {
			seen[href] = true
			links = append(links, href)
		}
	})
	return links
}

// collectLinks gathers http(s) hrefs from a selection, deduplicated in
// document order.
func collectLinks(sel *goquery.Selection) []string {
	links := make([]string, 0)
	seen := make(map[string]bool)
	sel.Each(func(_ int, s *goquery.Selection) {
		href, ok := s.Attr("href")
		if !ok {
			return
		}
		if strings.HasPrefix(href, "http") && !seen[href] {
			seen[href] = true
			links = append(links, href)
		}
	})
	return links
}
