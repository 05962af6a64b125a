// Package config defines the configuration for gds scan runs.
//
// Configuration flows from CLI flags into a single Config struct that
// is passed through the application via dependency injection; there are
// no mutable package-level settings. Validate runs once after flag
// parsing and fails fast with a sentinel error.
package config
