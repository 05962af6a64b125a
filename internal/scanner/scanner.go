package scanner

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/zer0bav/gds/internal/catalog"
	"github.com/zer0bav/gds/internal/config"
	"github.com/zer0bav/gds/internal/detect"
	"github.com/zer0bav/gds/internal/model"
	"github.com/zer0bav/gds/internal/snapshot"
)

// SearchBackend runs one query and returns result URLs, possibly
// empty. Implemented by search.Chain.
type SearchBackend interface {
	Search(ctx context.Context, query string, limit int) []string
}

// Snapshotter fetches one result page. Implemented by snapshot.Fetcher.
type Snapshotter interface {
	Fetch(ctx context.Context, url string) snapshot.Snapshot
}

// FindingSink persists findings. Implemented by sink.Sink.
type FindingSink interface {
	Append(f *model.Finding) error
}

// Scanner runs one scan over the dork catalog.
type Scanner struct {
	cfg     *config.Config
	catalog *catalog.Catalog
	backend SearchBackend
	fetcher Snapshotter
	sink    FindingSink
	logger  *slog.Logger

	// limiter paces query dispatches. One dispatch may start per Delay
	// interval, regardless of how many workers are free.
	limiter *rate.Limiter

	// seen deduplicates URLs across the whole run.
	seen *urlSet

	queries   atomic.Int64
	findings  atomic.Int64
	sensitive atomic.Int64
}

// Option configures a Scanner.
type Option func(*Scanner)

// WithSnapshotter sets the page fetcher used when snapshots are
// enabled. Without one, findings are persisted bare.
func WithSnapshotter(fetcher Snapshotter) Option {
	return func(s *Scanner) {
		s.fetcher = fetcher
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Scanner) {
		s.logger = logger
	}
}

// New creates a Scanner. cfg must already be validated.
func New(cfg *config.Config, cat *catalog.Catalog, backend SearchBackend, findingSink FindingSink, opts ...Option) *Scanner {
	s := &Scanner{
		cfg:     cfg,
		catalog: cat,
		backend: backend,
		sink:    findingSink,
		seen:    newURLSet(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}

	if cfg.Delay > 0 {
		s.limiter = rate.NewLimiter(rate.Every(cfg.Delay), 1)
	} else {
		s.limiter = rate.NewLimiter(rate.Inf, 1)
	}
	return s
}

// Scan runs the scan and returns a summary record. The record is valid
// even when the returned error is a cancellation: counts reflect what
// was persisted before the interrupt.
func (s *Scanner) Scan(ctx context.Context) (*model.RunRecord, error) {
	record := &model.RunRecord{
		StartedAt: time.Now(),
		Target:    s.cfg.Target,
		OutputDir: s.cfg.OutputDir,
	}

	categories, err := s.selectCategories()
	if err != nil {
		return record, err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.Concurrency)

dispatch:
	for _, name := range categories {
		entry, ok := s.catalog.Entry(name)
		if !ok {
			continue
		}

		if entry.IsSensitive() && !s.cfg.AllowSensitive {
			s.logger.Warn("skipping sensitive category",
				"category", name, "risk", string(entry.Risk))
			continue
		}
		record.Categories++

		// Findings from an explicitly allowed sensitive category are
		// hinted regardless of what their snapshots contain.
		hinted := entry.IsSensitive()

		for _, dork := range entry.Patterns {
			if err := s.limiter.Wait(gctx); err != nil {
				break dispatch
			}

			query := model.NewQuery(name, dork, s.cfg.Target)
			s.queries.Add(1)
			g.Go(func() error {
				s.runQuery(gctx, query, hinted)
				return nil
			})
		}
	}

	waitErr := g.Wait()
	if waitErr == nil {
		waitErr = ctx.Err()
	}

	record.FinishedAt = time.Now()
	record.Queries = int(s.queries.Load())
	record.Findings = int(s.findings.Load())
	record.Sensitive = int(s.sensitive.Load())
	return record, waitErr
}

// selectCategories resolves the category list for this run: the one
// named in the config, or every catalog category in a deterministic
// order.
func (s *Scanner) selectCategories() ([]string, error) {
	if s.cfg.Category == "" {
		return s.catalog.Categories(), nil
	}
	if _, ok := s.catalog.Entry(s.cfg.Category); !ok {
		return nil, fmt.Errorf("unknown category %q", s.cfg.Category)
	}
	return []string{s.cfg.Category}, nil
}

// runQuery executes one dork query end to end: search, dedup, cap,
// snapshot, persist. Failures are logged and swallowed so one bad
// query never stops the run.
func (s *Scanner) runQuery(ctx context.Context, query model.Query, hinted bool) {
	searchCtx, cancel := context.WithTimeout(ctx, s.cfg.SearchTimeout)
	urls := s.backend.Search(searchCtx, query.Literal, s.cfg.ResultsPerDork)
	cancel()

	fresh := s.seen.filterNew(urls)
	if len(fresh) > s.cfg.ResultsPerDork {
		fresh = fresh[:s.cfg.ResultsPerDork]
	}

	s.logger.Debug("query complete",
		"category", query.Category, "query", query.Literal,
		"results", len(urls), "new", len(fresh))

	for _, url := range fresh {
		if ctx.Err() != nil {
			return
		}

		finding := model.NewFinding(query, url)
		finding.SensitiveHint = hinted

		if s.cfg.Snapshot && s.fetcher != nil {
			s.enrich(ctx, finding)
		}

		if err := s.sink.Append(finding); err != nil {
			s.logger.Warn("failed to persist finding", "url", url, "error", err)
			continue
		}
		s.findings.Add(1)
		if finding.SensitiveHint {
			s.sensitive.Add(1)
		}
	}
}

// enrich snapshots the finding's URL and folds the result in. A failed
// fetch marks the finding rather than dropping it; a URL that a search
// engine indexed is a result even when the page is gone.
func (s *Scanner) enrich(ctx context.Context, finding *model.Finding) {
	fetchCtx, cancel := context.WithTimeout(ctx, s.cfg.FetchTimeout)
	defer cancel()

	snap := s.fetcher.Fetch(fetchCtx, finding.URL)
	if snap.Failed {
		finding.Status = &model.Status{Failed: true}
		finding.Error = snap.Err
		return
	}

	finding.URL = snap.FinalURL
	finding.Status = &model.Status{Code: snap.StatusCode}
	finding.Title = snap.Title
	finding.ContentSnippet = snap.Snippet

	if detect.ContainsSensitive(snap.Snippet) || detect.ContainsSensitive(snap.Title) {
		finding.SensitiveHint = true
	}
}
