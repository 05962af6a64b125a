package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Entry is one normalized catalog category: a description, a risk
// rating, an explicit sensitive flag, and an ordered list of dork
// patterns. Entries are read-only once loaded.
type Entry struct {
	// Description is a human-readable summary of the category.
	Description string

	// Risk is the category's risk rating.
	Risk Risk

	// Sensitive explicitly marks the category as sensitive regardless
	// of its risk rating.
	Sensitive bool

	// Patterns is the ordered list of dork patterns. Order is
	// preserved from the catalog file; the orchestrator runs them
	// in this order.
	Patterns []string
}

// IsSensitive reports whether the category is gated behind the
// --allow-sensitive flag: either explicitly flagged, or rated high
// or critical.
func (e Entry) IsSensitive() bool {
	return e.Sensitive || e.Risk == RiskHigh || e.Risk == RiskCritical
}

// rawEntry is the on-disk object shape before normalization.
// The original catalog format names the pattern list "dorks";
// "patterns" is accepted as an alias and wins when both are set.
type rawEntry struct {
	Description string   `json:"description" yaml:"description"`
	Risk        string   `json:"risk" yaml:"risk"`
	Sensitive   bool     `json:"sensitive" yaml:"sensitive"`
	Dorks       []string `json:"dorks" yaml:"dorks"`
	Patterns    []string `json:"patterns" yaml:"patterns"`
}

// normalize converts a rawEntry into a canonical Entry.
func (r rawEntry) normalize() Entry {
	patterns := r.Patterns
	if len(patterns) == 0 {
		patterns = r.Dorks
	}
	return Entry{
		Description: r.Description,
		Risk:        ParseRisk(r.Risk),
		Sensitive:   r.Sensitive,
		Patterns:    patterns,
	}
}

// UnmarshalJSON accepts the three shapes a category value may take:
// an entry object, a list of pattern strings (risk becomes "unknown"),
// or a single-element list wrapping an entry object.
func (e *Entry) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return ErrMalformedEntry
	}

	if trimmed[0] == '[' {
		var patterns []string
		if err := json.Unmarshal(trimmed, &patterns); err == nil {
			*e = Entry{Risk: RiskUnknown, Patterns: patterns}
			return nil
		}

		var wrapped []rawEntry
		if err := json.Unmarshal(trimmed, &wrapped); err == nil && len(wrapped) == 1 {
			*e = wrapped[0].normalize()
			return nil
		}
		return ErrMalformedEntry
	}

	var raw rawEntry
	if err := json.Unmarshal(trimmed, &raw); err != nil {
		return fmt.Errorf("%w: %w", ErrMalformedEntry, err)
	}
	*e = raw.normalize()
	return nil
}

// UnmarshalYAML mirrors UnmarshalJSON for YAML catalogs.
func (e *Entry) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.MappingNode:
		var raw rawEntry
		if err := value.Decode(&raw); err != nil {
			return fmt.Errorf("%w: %w", ErrMalformedEntry, err)
		}
		*e = raw.normalize()
		return nil

	case yaml.SequenceNode:
		var patterns []string
		if err := value.Decode(&patterns); err == nil {
			*e = Entry{Risk: RiskUnknown, Patterns: patterns}
			return nil
		}

		var wrapped []rawEntry
		if err := value.Decode(&wrapped); err == nil && len(wrapped) == 1 {
			*e = wrapped[0].normalize()
			return nil
		}
		return ErrMalformedEntry

	default:
		return ErrMalformedEntry
	}
}

// Catalog is the loaded, normalized dork catalog.
// It is immutable after Load and safe for concurrent reads.
type Catalog struct {
	entries map[string]Entry
}

// Load reads and normalizes a catalog file. The format is chosen by
// extension: .yaml and .yml parse as YAML, everything else as JSON
// (the original catalog format).
//
// A missing file returns ErrNotFound and a catalog with no categories
// returns ErrEmpty; both are fatal to the run.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided catalog path is intentional
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("failed to read dork catalog %s: %w", path, err)
	}

	var entries map[string]Entry
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &entries); err != nil {
			return nil, fmt.Errorf("failed to parse dork catalog %s: %w", path, err)
		}
	default:
		if err := json.Unmarshal(data, &entries); err != nil {
			return nil, fmt.Errorf("failed to parse dork catalog %s: %w", path, err)
		}
	}

	if len(entries) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmpty, path)
	}

	return &Catalog{entries: entries}, nil
}

// Categories returns all category names in sorted order.
// The scan order must be deterministic across runs, and the underlying
// map has no order of its own, so we sort.
func (c *Catalog) Categories() []string {
	names := make([]string, 0, len(c.entries))
	for name := range c.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Entry returns the entry for a category, and whether it exists.
func (c *Catalog) Entry(name string) (Entry, bool) {
	e, ok := c.entries[name]
	return e, ok
}

// Len returns the number of categories in the catalog.
func (c *Catalog) Len() int {
	return len(c.entries)
}
