// Package report builds offline summaries from a run's output files.
//
// It reads the results.jsonl (preferred) or results.csv that a scan
// produced, aggregates counts by category and domain, and renders the
// summary as terminal text or Markdown. Reporting never touches the
// network; it is safe to run on output copied from another machine.
package report
