// Package sink persists findings incrementally to line-delimited JSON
// and CSV files. Both formats are appended to in lockstep so that a
// crash or interrupt loses at most the finding being written.
package sink
