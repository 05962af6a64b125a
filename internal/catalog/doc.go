// Package catalog loads and normalizes the dork catalog.
//
// A catalog maps category names to entries of the form
// {description, risk, sensitive, patterns}. Two on-disk shapes are
// accepted and normalized to that form:
//   - a full entry object (the pattern list key is "dorks", with
//     "patterns" accepted as an alias)
//   - a bare list of pattern strings, which becomes an entry with
//     risk "unknown"
//
// JSON and YAML documents are supported, selected by file extension.
// The catalog is loaded once at startup and is read-only for the run;
// a missing or empty catalog is a fatal configuration error.
package catalog
