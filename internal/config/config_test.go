package config

import (
	"errors"
	"testing"
	"time"
)

// TestNewConfigDefaults tests that NewConfig sets documented defaults.
func TestNewConfigDefaults(t *testing.T) {
	t.Parallel()

	cfg := NewConfig()

	if cfg.Concurrency != DefaultConcurrency {
		t.Errorf("got concurrency %d, expected %d", cfg.Concurrency, DefaultConcurrency)
	}
	if cfg.Delay != DefaultDelay {
		t.Errorf("got delay %v, expected %v", cfg.Delay, DefaultDelay)
	}
	if cfg.ResultsPerDork != DefaultResultsPerDork {
		t.Errorf("got results per dork %d, expected %d", cfg.ResultsPerDork, DefaultResultsPerDork)
	}
	if cfg.OutputDir != DefaultOutputDir {
		t.Errorf("got output dir %q, expected %q", cfg.OutputDir, DefaultOutputDir)
	}
	if !cfg.SaveHistory {
		t.Error("expected history saving enabled by default")
	}
}

// TestConfigValidate tests the validation error paths.
func TestConfigValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{"valid defaults", func(_ *Config) {}, nil},
		{"zero results", func(c *Config) { c.ResultsPerDork = 0 }, ErrInvalidResultCount},
		{"zero concurrency", func(c *Config) { c.Concurrency = 0 }, ErrInvalidConcurrency},
		{"negative delay", func(c *Config) { c.Delay = -time.Second }, ErrInvalidDelay},
		{"zero search timeout", func(c *Config) { c.SearchTimeout = 0 }, ErrInvalidTimeout},
		{"zero fetch timeout", func(c *Config) { c.FetchTimeout = 0 }, ErrInvalidTimeout},
		{"zero body size", func(c *Config) { c.MaxBodySize = 0 }, ErrInvalidMaxBodySize},
		{"no dorks file", func(c *Config) { c.DorksFile = "" }, ErrNoDorksFile},
		{"no output dir", func(c *Config) { c.OutputDir = "" }, ErrNoOutputDir},
		{"key without cx", func(c *Config) { c.GoogleAPIKey = "k" }, ErrPartialCredentials},
		{"cx without key", func(c *Config) { c.GoogleCX = "cx" }, ErrPartialCredentials},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := NewConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("got %v, expected %v", err, tt.wantErr)
			}
		})
	}
}

// TestAPIConfigured tests credential presence detection.
func TestAPIConfigured(t *testing.T) {
	t.Parallel()

	cfg := NewConfig()
	if cfg.APIConfigured() {
		t.Error("empty credentials should not report configured")
	}

	cfg.GoogleAPIKey = "key"
	cfg.GoogleCX = "cx"
	if !cfg.APIConfigured() {
		t.Error("full credentials should report configured")
	}
}
