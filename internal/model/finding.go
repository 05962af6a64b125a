package model

import (
	"encoding/json"
	"strconv"
	"time"
)

// CSVHeader is the fixed column order shared by the CSV sink and the
// JSON representation of a Finding. Both sinks serialize the same nine
// fields in this order.
var CSVHeader = []string{
	"timestamp", "category", "dork", "query", "url",
	"status", "title", "sensitive_hint", "error",
}

// Status is an HTTP status code or the "error" marker used when a
// snapshot fetch failed before a status code was received.
//
// Design decision: The line-delimited output format encodes status as
// either a JSON number (e.g. 200) or the string "error". We model that
// union as a small struct with a custom marshaler rather than an
// interface{} field, so the rest of the code stays type-safe.
type Status struct {
	// Code is the HTTP status code. Ignored when Failed is true.
	Code int

	// Failed marks a fetch that produced no status code.
	Failed bool
}

// MarshalJSON encodes the status as a number, or as the string "error"
// for failed fetches.
func (s Status) MarshalJSON() ([]byte, error) {
	if s.Failed {
		return json.Marshal("error")
	}
	return json.Marshal(s.Code)
}

// UnmarshalJSON accepts either a JSON number or the string "error".
// Any other string is treated as a failure marker as well, so that the
// offline report tool tolerates hand-edited files.
func (s *Status) UnmarshalJSON(data []byte) error {
	var code int
	if err := json.Unmarshal(data, &code); err == nil {
		*s = Status{Code: code}
		return nil
	}
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	*s = Status{Failed: true}
	return nil
}

// String returns the CSV cell representation: the numeric code, or
// "error" for failed fetches.
func (s Status) String() string {
	if s.Failed {
		return "error"
	}
	return strconv.Itoa(s.Code)
}

// Finding is the unit of persistence: one search hit, optionally
// enriched with a content snapshot. A Finding is immutable once handed
// to the sink and is never updated or deleted afterwards.
//
// Within a single run the URL is unique; the orchestrator's
// deduplicator guarantees this before a Finding is constructed.
type Finding struct {
	// Timestamp is seconds since the Unix epoch with sub-second precision.
	Timestamp float64 `json:"timestamp"`

	// Category is the catalog category that produced this finding.
	Category string `json:"category"`

	// Dork is the original dork pattern.
	Dork string `json:"dork"`

	// Query is the literal query string sent to the search backend.
	Query string `json:"query"`

	// URL is the result URL. For snapshotted findings this is the final
	// URL after redirects; otherwise it is the URL the backend returned.
	URL string `json:"url"`

	// Status is the snapshot HTTP status. Nil when no snapshot was taken.
	Status *Status `json:"status,omitempty"`

	// Title is the page title extracted from the snapshot, if any.
	Title string `json:"title,omitempty"`

	// ContentSnippet is a bounded prefix of the fetched page body, kept
	// only for the sensitive-content heuristic and for triage.
	ContentSnippet string `json:"content_snippet,omitempty"`

	// SensitiveHint is true when the catalog category was
	// sensitive-flagged, or when the snapshot content matched the
	// sensitive-pattern detector. It is a heuristic, not a guarantee.
	SensitiveHint bool `json:"sensitive_hint,omitempty"`

	// Error holds the snapshot fetch error message, if the fetch failed.
	Error string `json:"error,omitempty"`
}

// NewFinding constructs the base Finding for a result URL, stamped with
// the current time. Snapshot enrichment happens afterwards, before the
// Finding is persisted.
func NewFinding(q Query, url string) *Finding {
	return &Finding{
		Timestamp: float64(time.Now().UnixNano()) / 1e9,
		Category:  q.Category,
		Dork:      q.Dork,
		Query:     q.Literal,
		URL:       url,
	}
}

// CSVRecord returns the Finding as a row in CSVHeader order.
// Absent fields serialize as empty cells rather than failing.
func (f *Finding) CSVRecord() []string {
	status := ""
	if f.Status != nil {
		status = f.Status.String()
	}
	hint := ""
	if f.SensitiveHint {
		hint = "true"
	}
	return []string{
		strconv.FormatFloat(f.Timestamp, 'f', -1, 64),
		f.Category,
		f.Dork,
		f.Query,
		f.URL,
		status,
		f.Title,
		hint,
		f.Error,
	}
}
