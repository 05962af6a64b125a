package snapshot

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
)

const (
	// defaultMaxBodySize limits how much of a response body is read.
	// Result pages can be arbitrarily large; only the leading portion is
	// useful for the snippet and the sensitive-content heuristic.
	defaultMaxBodySize = 512 * 1024

	// snippetLimit is the maximum snippet length in runes.
	snippetLimit = 2000

	// defaultUserAgent mimics a desktop browser. Many of the pages that
	// dorks surface serve different content, or nothing, to obvious bots.
	defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
)

// Snapshot is the condensed record of one page fetch. It enriches a
// finding; it is never persisted on its own.
type Snapshot struct {
	// FinalURL is the URL after following redirects. It may differ from
	// the URL the search backend returned.
	FinalURL string

	// StatusCode is the HTTP status of the final response. Zero when the
	// fetch failed before a response was received.
	StatusCode int

	// Failed is true when no response was received at all.
	Failed bool

	// Title is the page <title>, if the body parsed as HTML.
	Title string

	// Snippet is a whitespace-collapsed prefix of the page text,
	// bounded to snippetLimit runes.
	Snippet string

	// Err holds the failure message when Failed is true.
	Err string
}

// Fetcher retrieves result pages and condenses them into Snapshots.
type Fetcher struct {
	// client is the HTTP client to fetch with. The caller configures
	// timeouts, TLS verification and proxying; the Fetcher never builds
	// its own transport.
	client *http.Client

	// maxBodySize limits how many bytes of a response body are read.
	maxBodySize int64

	// userAgent is the User-Agent header sent with each fetch.
	userAgent string

	logger *slog.Logger
}

// FetcherOption configures a Fetcher.
type FetcherOption func(*Fetcher)

// WithMaxBodySize caps the number of response bytes read per page.
func WithMaxBodySize(size int64) FetcherOption {
	return func(f *Fetcher) {
		f.maxBodySize = size
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) FetcherOption {
	return func(f *Fetcher) {
		f.userAgent = ua
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) FetcherOption {
	return func(f *Fetcher) {
		f.logger = logger
	}
}

// NewFetcher creates a Fetcher using the given HTTP client.
func NewFetcher(client *http.Client, opts ...FetcherOption) *Fetcher {
	f := &Fetcher{
		client:      client,
		maxBodySize: defaultMaxBodySize,
		userAgent:   defaultUserAgent,
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.logger == nil {
		f.logger = slog.Default()
	}
	return f
}

// Fetch retrieves one result page and condenses it. Fetch never returns
// an error: a failed fetch yields a Snapshot with Failed set and the
// message in Err, so the finding is still persisted with what is known.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) Snapshot {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return Snapshot{FinalURL: rawURL, Failed: true, Err: err.Error()}
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		f.logger.Debug("snapshot fetch failed", "url", rawURL, "error", err)
		return Snapshot{FinalURL: rawURL, Failed: true, Err: err.Error()}
	}
	defer resp.Body.Close()

	snap := Snapshot{
		FinalURL:   resp.Request.URL.String(),
		StatusCode: resp.StatusCode,
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBodySize))
	if err != nil {
		// A truncated body still carries a usable snippet.
		f.logger.Debug("snapshot body read incomplete", "url", rawURL, "error", err)
	}

	title, text := condense(body)
	snap.Title = title
	snap.Snippet = text
	return snap
}

// condense extracts the title and a bounded text snippet from a page
// body. Bodies that do not parse as HTML fall back to the raw text.
func condense(body []byte) (title, snippet string) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(body)))
	if err != nil {
		return "", truncateRunes(collapseSpace(string(body)), snippetLimit)
	}

	title = strings.TrimSpace(doc.Find("title").First().Text())

	// Script and style bodies are noise for triage and would dilute the
	// sensitive-content heuristic.
	doc.Find("script, style, noscript").Remove()
	text := doc.Find("body").Text()
	if text == "" {
		text = doc.Text()
	}
	return title, truncateRunes(collapseSpace(text), snippetLimit)
}

// collapseSpace folds runs of whitespace into single spaces.
func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// truncateRunes bounds s to at most n runes without splitting a rune.
func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n])
}
