package model

import "time"

// RunRecord summarizes one completed scan run for the history database.
// It deliberately stores aggregate counts only, never URLs: deduplication
// is scoped to a single run, and keeping URLs here would invite
// cross-run comparisons this tool does not make.
type RunRecord struct {
	// ID is the database row identifier. Zero before the record is saved.
	ID int64 `json:"id"`

	// StartedAt is when the scan began dispatching queries.
	StartedAt time.Time `json:"started_at"`

	// FinishedAt is when the scan completed or was interrupted.
	FinishedAt time.Time `json:"finished_at"`

	// Target is the domain the run was scoped to, or empty for unscoped runs.
	Target string `json:"target,omitempty"`

	// Categories is the number of categories that were scanned
	// (skipped sensitive categories are not counted).
	Categories int `json:"categories"`

	// Queries is the number of dork queries dispatched.
	Queries int `json:"queries"`

	// Findings is the number of findings persisted.
	Findings int `json:"findings"`

	// Sensitive is the number of findings with a sensitive hint.
	Sensitive int `json:"sensitive"`

	// OutputDir is where the run's results.jsonl and results.csv live.
	OutputDir string `json:"output_dir"`
}
