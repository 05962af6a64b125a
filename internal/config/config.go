package config

import (
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values.
// The defaults mirror the tool's historical behavior where applicable
// and lean conservative for anything touching remote services.
const (
	// DefaultConcurrency bounds how many query pipelines may be inside
	// their search-to-persist section at once. Six is low enough to stay
	// under typical rate limits while still overlapping network waits.
	DefaultConcurrency = 6

	// DefaultDelay is the fixed pacing interval between the start of
	// consecutive dork queries. It applies regardless of how long the
	// previous query's downstream work takes.
	DefaultDelay = 1500 * time.Millisecond

	// DefaultResultsPerDork is how many new URLs are recorded per dork.
	DefaultResultsPerDork = 5

	// DefaultSearchTimeout is the fixed upper bound on one search
	// backend call. After this the call is treated as failed, not hung.
	DefaultSearchTimeout = 30 * time.Second

	// DefaultFetchTimeout is the fixed upper bound on one snapshot fetch.
	// Fetches are slower than searches (full pages, redirects), so the
	// bound is looser.
	DefaultFetchTimeout = 60 * time.Second

	// DefaultOutputDir is where the dual-format results are written.
	DefaultOutputDir = "gds_output"

	// DefaultDorksFile is the catalog path used when none is given.
	DefaultDorksFile = "dorks.json"

	// DefaultTorProxyAddress is the standard Tor SOCKS5 proxy address.
	DefaultTorProxyAddress = "127.0.0.1:9050"

	// DefaultTorStartupTimeout is the maximum time to wait for the
	// embedded Tor daemon to bootstrap.
	DefaultTorStartupTimeout = 3 * time.Minute

	// DefaultMaxBodySize limits how much of a snapshot response body is
	// read. The sink only ever stores a short excerpt, so reading more
	// than this buys nothing.
	DefaultMaxBodySize = 512 * 1024

	// AppName is the application name used for XDG directory paths.
	AppName = "gds"
)

// Config holds all configuration options for a scan run.
// It is populated from CLI flags and passed through the application by
// value of reference; there is no global configuration state.
//
// Design decision: We use a single flat struct instead of nested
// sub-structs. The option count is manageable and every consumer takes
// the whole struct anyway.
type Config struct {
	// Category restricts the run to one catalog category.
	// Empty means all categories.
	Category string

	// Target scopes every query to one domain via the "site:" operator.
	// Empty means unscoped queries.
	Target string

	// ResultsPerDork caps how many new URLs are recorded per dork.
	ResultsPerDork int

	// Concurrency is the width of the query-pipeline gate.
	Concurrency int

	// Delay is the fixed pacing interval between consecutive dork
	// query dispatches.
	Delay time.Duration

	// GoogleAPIKey is the Google Custom Search API key. When it and
	// GoogleCX are both set, the API provider runs before the scraping
	// fallback. Absence is not an error; it selects the fallback-only path.
	GoogleAPIKey string

	// GoogleCX is the Google Custom Search engine identifier.
	GoogleCX string

	// AllowSensitive lifts the gate on categories flagged sensitive by
	// the catalog (explicit flag, or high/critical risk).
	AllowSensitive bool

	// Snapshot enables fetching each recorded URL for title, status,
	// and a content excerpt that feeds the sensitive-content detector.
	Snapshot bool

	// OutputDir is the directory for results.jsonl and results.csv.
	OutputDir string

	// DorksFile is the dork catalog path (JSON or YAML).
	DorksFile string

	// InsecureSkipVerify disables TLS certificate verification on all
	// outbound traffic.
	InsecureSkipVerify bool

	// UseTor routes all search and snapshot traffic through a SOCKS5
	// proxy. The proxy itself is an external collaborator unless
	// EmbeddedTor is set.
	UseTor bool

	// TorProxyAddress is the SOCKS5 proxy address in "host:port" form.
	TorProxyAddress string

	// EmbeddedTor launches a Tor daemon for the duration of the run
	// instead of expecting one at TorProxyAddress.
	EmbeddedTor bool

	// TorStartupTimeout bounds embedded Tor bootstrap time.
	TorStartupTimeout time.Duration

	// SearchTimeout bounds one search backend call.
	SearchTimeout time.Duration

	// FetchTimeout bounds one snapshot fetch.
	FetchTimeout time.Duration

	// MaxBodySize bounds how many bytes of a snapshot body are read.
	MaxBodySize int64

	// SaveHistory records a run summary in the history database.
	SaveHistory bool

	// HistoryDir is the directory holding the history database.
	// Defaults to the XDG data directory for gds.
	HistoryDir string

	// Verbose enables debug-level log output.
	Verbose bool
}

// NewConfig creates a Config with default values.
// Non-zero defaults live here rather than being scattered across flag
// definitions, so tests and library callers get the same behavior as
// the CLI.
func NewConfig() *Config {
	return &Config{
		ResultsPerDork:    DefaultResultsPerDork,
		Concurrency:       DefaultConcurrency,
		Delay:             DefaultDelay,
		OutputDir:         DefaultOutputDir,
		DorksFile:         DefaultDorksFile,
		TorProxyAddress:   DefaultTorProxyAddress,
		TorStartupTimeout: DefaultTorStartupTimeout,
		SearchTimeout:     DefaultSearchTimeout,
		FetchTimeout:      DefaultFetchTimeout,
		MaxBodySize:       DefaultMaxBodySize,
		SaveHistory:       true,
		HistoryDir:        XDGDataDir(),
	}
}

// XDGDataDir returns the XDG data directory for gds.
// On Linux: ~/.local/share/gds
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// Validate checks the configuration and returns the first problem found.
// It runs once after flag parsing, before any network or file activity.
func (c *Config) Validate() error {
	if c.ResultsPerDork <= 0 {
		return ErrInvalidResultCount
	}
	if c.Concurrency <= 0 {
		return ErrInvalidConcurrency
	}
	if c.Delay < 0 {
		return ErrInvalidDelay
	}
	if c.SearchTimeout <= 0 || c.FetchTimeout <= 0 {
		return ErrInvalidTimeout
	}
	if c.MaxBodySize <= 0 {
		return ErrInvalidMaxBodySize
	}
	if c.DorksFile == "" {
		return ErrNoDorksFile
	}
	if c.OutputDir == "" {
		return ErrNoOutputDir
	}
	// An API key without an engine ID (or the reverse) cannot reach the
	// API provider; treat the half-configured state as an error rather
	// than silently scraping.
	if (c.GoogleAPIKey == "") != (c.GoogleCX == "") {
		return ErrPartialCredentials
	}
	return nil
}

// APIConfigured reports whether both Google Custom Search credentials
// are present.
func (c *Config) APIConfigured() bool {
	return c.GoogleAPIKey != "" && c.GoogleCX != ""
}
