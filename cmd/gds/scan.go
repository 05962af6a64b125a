package main

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/zer0bav/gds/internal/catalog"
	"github.com/zer0bav/gds/internal/config"
	"github.com/zer0bav/gds/internal/database"
	"github.com/zer0bav/gds/internal/log"
	"github.com/zer0bav/gds/internal/model"
	"github.com/zer0bav/gds/internal/scanner"
	"github.com/zer0bav/gds/internal/search"
	"github.com/zer0bav/gds/internal/sink"
	"github.com/zer0bav/gds/internal/snapshot"
	"github.com/zer0bav/gds/internal/tor"
)

// NewScanCmd creates the scan command.
func NewScanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Run dork queries and record the URLs they surface",
		Long: `Scan walks the dork catalog and dispatches one search per dork,
recording every new result URL to results.jsonl and results.csv in the
output directory.

With Google Custom Search credentials (--google-api-key and --google-cx,
or the GOOGLE_API_KEY and GOOGLE_CX environment variables) the API is
queried first; the DuckDuckGo HTML frontend serves as fallback and as
the only backend when no credentials are given.

Categories the catalog flags as sensitive (or rates high/critical) are
skipped unless --allow-sensitive is set.

Examples:
  # Scan one category against a target domain
  gds scan -c backup_files -t example.com

  # Scan all categories, snapshot each result page
  gds scan -t example.com --snapshot

  # Use the Google CSE API with more results per dork
  gds scan -t example.com -n 10 --google-api-key KEY --google-cx CX

  # Route everything through a local Tor proxy
  gds scan -t example.com --tor

  # Launch an embedded Tor daemon for the run
  gds scan -t example.com --tor --embedded-tor`,
		Args: cobra.NoArgs,
		RunE: runScanCmd,
	}

	cmd.Flags().StringP("category", "c", "", "Restrict the scan to one catalog category")
	cmd.Flags().StringP("target", "t", "", "Scope queries to this domain via the site: operator")
	cmd.Flags().IntP("num", "n", config.DefaultResultsPerDork, "Maximum new URLs recorded per dork")
	cmd.Flags().Int("concurrency", config.DefaultConcurrency, "Maximum concurrent query pipelines")
	cmd.Flags().Duration("delay", config.DefaultDelay, "Pacing interval between query dispatches")
	cmd.Flags().String("google-api-key", "", "Google Custom Search API key")
	cmd.Flags().String("google-cx", "", "Google Custom Search engine identifier")
	cmd.Flags().Bool("allow-sensitive", false, "Scan categories flagged sensitive by the catalog")
	cmd.Flags().Bool("snapshot", false, "Fetch each recorded URL for title, status, and content excerpt")
	cmd.Flags().StringP("output-dir", "o", config.DefaultOutputDir, "Directory for results.jsonl and results.csv")
	cmd.Flags().StringP("dorks-file", "d", config.DefaultDorksFile, "Dork catalog path (JSON or YAML)")
	cmd.Flags().Bool("ignore-ssl", false, "Disable TLS certificate verification")
	cmd.Flags().Bool("tor", false, "Route all traffic through a Tor SOCKS5 proxy")
	cmd.Flags().String("tor-proxy", config.DefaultTorProxyAddress, "Tor SOCKS5 proxy address")
	cmd.Flags().Bool("embedded-tor", false, "Launch an embedded Tor daemon instead of using --tor-proxy")
	cmd.Flags().Duration("tor-timeout", config.DefaultTorStartupTimeout, "Timeout for embedded Tor startup")
	cmd.Flags().Bool("no-history", false, "Skip recording this run in the history database")

	return cmd
}

// runScanCmd executes the scan command.
func runScanCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := log.NewSecureLogger(os.Stderr, cfg.Verbose)
	slog.SetDefault(logger)

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal, finishing in-flight queries...")
		cancel()
	}()

	return runScan(ctx, cfg, logger)
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// buildConfig creates a Config from cobra command flags. Google
// credentials fall back to the GOOGLE_API_KEY and GOOGLE_CX
// environment variables so they stay out of shell history.
func buildConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.NewConfig()

	var err error
	if cfg.Category, err = cmd.Flags().GetString("category"); err != nil {
		return nil, err
	}
	if cfg.Target, err = cmd.Flags().GetString("target"); err != nil {
		return nil, err
	}
	if cfg.ResultsPerDork, err = cmd.Flags().GetInt("num"); err != nil {
		return nil, err
	}
	if cfg.Concurrency, err = cmd.Flags().GetInt("concurrency"); err != nil {
		return nil, err
	}
	if cfg.Delay, err = cmd.Flags().GetDuration("delay"); err != nil {
		return nil, err
	}
	if cfg.GoogleAPIKey, err = cmd.Flags().GetString("google-api-key"); err != nil {
		return nil, err
	}
	if cfg.GoogleCX, err = cmd.Flags().GetString("google-cx"); err != nil {
		return nil, err
	}
	if cfg.GoogleAPIKey == "" {
		cfg.GoogleAPIKey = os.Getenv("GOOGLE_API_KEY")
	}
	if cfg.GoogleCX == "" {
		cfg.GoogleCX = os.Getenv("GOOGLE_CX")
	}
	if cfg.AllowSensitive, err = cmd.Flags().GetBool("allow-sensitive"); err != nil {
		return nil, err
	}
	if cfg.Snapshot, err = cmd.Flags().GetBool("snapshot"); err != nil {
		return nil, err
	}
	if cfg.OutputDir, err = cmd.Flags().GetString("output-dir"); err != nil {
		return nil, err
	}
	if cfg.DorksFile, err = cmd.Flags().GetString("dorks-file"); err != nil {
		return nil, err
	}
	if cfg.InsecureSkipVerify, err = cmd.Flags().GetBool("ignore-ssl"); err != nil {
		return nil, err
	}
	if cfg.UseTor, err = cmd.Flags().GetBool("tor"); err != nil {
		return nil, err
	}
	if cfg.TorProxyAddress, err = cmd.Flags().GetString("tor-proxy"); err != nil {
		return nil, err
	}
	if cfg.EmbeddedTor, err = cmd.Flags().GetBool("embedded-tor"); err != nil {
		return nil, err
	}
	if cfg.TorStartupTimeout, err = cmd.Flags().GetDuration("tor-timeout"); err != nil {
		return nil, err
	}
	noHistory, err := cmd.Flags().GetBool("no-history")
	if err != nil {
		return nil, err
	}
	cfg.SaveHistory = !noHistory
	cfg.Verbose = getVerboseFlag(cmd)

	return cfg, nil
}

// runScan wires the components together and executes the scan.
func runScan(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	cat, err := catalog.Load(cfg.DorksFile)
	if err != nil {
		return fmt.Errorf("failed to load dork catalog: %w", err)
	}
	logger.Info("catalog loaded", "path", cfg.DorksFile, "categories", cat.Len())

	searchClient, fetchClient, cleanup, err := newHTTPClients(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	var api search.Provider
	if cfg.APIConfigured() {
		api = search.NewGoogle(cfg.GoogleAPIKey, cfg.GoogleCX, searchClient)
		logger.Info("using Google Custom Search API with DuckDuckGo fallback")
	} else {
		logger.Info("no API credentials, using DuckDuckGo scraping only")
	}
	fallback := search.NewDuckDuckGo(searchClient, search.WithDuckDuckGoLogger(logger))
	backend := search.NewChain(api, fallback, search.WithChainLogger(logger))

	out, err := sink.New(cfg.OutputDir)
	if err != nil {
		return fmt.Errorf("failed to open output sink: %w", err)
	}
	defer func() {
		if err := out.Close(); err != nil {
			logger.Error("failed to close output files", "error", err)
		}
	}()

	opts := []scanner.Option{scanner.WithLogger(logger)}
	if cfg.Snapshot {
		fetcher := snapshot.NewFetcher(fetchClient,
			snapshot.WithMaxBodySize(cfg.MaxBodySize),
			snapshot.WithLogger(logger),
		)
		opts = append(opts, scanner.WithSnapshotter(fetcher))
	}

	s := scanner.New(cfg, cat, backend, out, opts...)

	fmt.Printf("Scanning with %d categories from %s...\n", cat.Len(), cfg.DorksFile)
	record, scanErr := s.Scan(ctx)

	// Output paths are printed even after an interrupt: everything
	// appended before the signal is on disk and worth pointing at.
	fmt.Printf("\nFindings:  %d (%d sensitive)\n", record.Findings, record.Sensitive)
	fmt.Printf("Queries:   %d across %d categories\n", record.Queries, record.Categories)
	fmt.Printf("Results:   %s\n", out.JSONLPath())
	fmt.Printf("           %s\n", out.CSVPath())

	if cfg.SaveHistory {
		if err := saveRunRecord(record, cfg, logger); err != nil {
			logger.Error("failed to save run history", "error", err)
		}
	}

	if scanErr != nil && !errors.Is(scanErr, context.Canceled) {
		return scanErr
	}
	return nil
}

// newHTTPClients builds the search and snapshot HTTP clients, routed
// through Tor when configured. The returned cleanup stops the embedded
// daemon if one was started.
func newHTTPClients(ctx context.Context, cfg *config.Config, logger *slog.Logger) (searchClient, fetchClient *http.Client, cleanup func(), err error) {
	cleanup = func() {}

	if !cfg.UseTor {
		return directClient(cfg, cfg.SearchTimeout), directClient(cfg, cfg.FetchTimeout), cleanup, nil
	}

	proxyAddr := cfg.TorProxyAddress
	if cfg.EmbeddedTor {
		embedded := tor.NewEmbeddedTor(tor.WithStartupTimeout(cfg.TorStartupTimeout))
		logger.Info("starting embedded Tor daemon, this may take a few minutes...")
		if err := embedded.Start(ctx); err != nil {
			return nil, nil, cleanup, fmt.Errorf("failed to start embedded Tor: %w", err)
		}
		cleanup = func() {
			logger.Info("stopping embedded Tor daemon...")
			if err := embedded.Stop(); err != nil {
				logger.Error("failed to stop embedded Tor", "error", err)
			}
		}
		proxyAddr = embedded.SocksAddr()
	}

	searchTor, err := newTorClient(proxyAddr, cfg.SearchTimeout, cfg)
	if err != nil {
		cleanup()
		return nil, nil, func() {}, err
	}
	if !cfg.EmbeddedTor {
		if status := searchTor.CheckConnection(ctx); status != tor.ProxyStatusOK {
			cleanup()
			return nil, nil, func() {}, fmt.Errorf("tor proxy check failed: %s (is Tor running at %s?)", status, proxyAddr)
		}
		logger.Info("Tor proxy connection verified", "address", proxyAddr)
	}

	fetchTor, err := newTorClient(proxyAddr, cfg.FetchTimeout, cfg)
	if err != nil {
		cleanup()
		return nil, nil, func() {}, err
	}

	return searchTor.NewHTTPClient(), fetchTor.NewHTTPClient(), cleanup, nil
}

// newTorClient creates a tor.Client honoring the TLS setting.
func newTorClient(proxyAddr string, timeout time.Duration, cfg *config.Config) (*tor.Client, error) {
	var opts []tor.ClientOption
	if cfg.InsecureSkipVerify {
		opts = append(opts, tor.WithInsecureTLS())
	}
	client, err := tor.NewClient(proxyAddr, timeout, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Tor client: %w", err)
	}
	return client, nil
}

// directClient builds a plain HTTP client with the given timeout.
func directClient(cfg *config.Config, timeout time.Duration) *http.Client {
	transport := http.DefaultTransport
	if cfg.InsecureSkipVerify {
		transport = &http.Transport{
			TLSClientConfig: &tls.Config{
				InsecureSkipVerify: true, //nolint:gosec // Operator opted in via flag
			},
		}
	}
	return &http.Client{
		Transport: transport,
		Timeout:   timeout,
	}
}

// saveRunRecord appends the run summary to the history database.
func saveRunRecord(record *model.RunRecord, cfg *config.Config, logger *slog.Logger) error {
	db, err := database.Open(cfg.HistoryDir, database.DefaultOptions())
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("failed to close history database", "error", err)
		}
	}()

	// The save itself is quick and should survive the scan's
	// cancellation, so it gets a fresh short-lived context.
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := db.SaveRun(ctx, record); err != nil {
		return err
	}
	logger.Debug("run saved to history", "id", record.ID, "db", db.Path())
	return nil
}
