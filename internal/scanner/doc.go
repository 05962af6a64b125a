// Package scanner orchestrates a dork scan run.
//
// It walks the dork catalog, dispatches one search per dork at a fixed
// pace through a bounded worker group, deduplicates result URLs across
// the whole run, optionally snapshots each new URL, and hands finished
// findings to the sink. Individual query and fetch failures degrade to
// fewer findings; only setup problems abort a run.
package scanner
