// Package database provides SQLite-backed storage for scan run
// history.
//
// Findings themselves live in the per-run output files; the database
// keeps only aggregate run records, so an operator can answer "when
// did I last scan this target and how much did it find" without
// trawling output directories.
package database
