// Package model defines the core data structures used throughout gds.
//
// This package contains the following main types:
//   - Query: A literal search-engine query derived from a dork pattern
//   - Finding: The unit of persistence, one per recorded URL
//   - Status: An HTTP status code or the "error" marker
//   - RunRecord: A summary of one completed scan run
//
// Design decision: We separate models into their own package to avoid circular
// dependencies. Multiple packages (search, scanner, sink, report, database)
// need to use these types, so centralizing them prevents import cycles.
//
// The models serialize to JSON for the line-delimited sink and the offline
// report tool, and to flat string rows for the CSV sink.
package model
