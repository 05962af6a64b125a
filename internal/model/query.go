package model

// Query is a literal search-engine query derived from a dork catalog entry.
// It carries enough context (category, original pattern) for the resulting
// findings to be traced back to the catalog entry that produced them.
//
// Queries are ephemeral: they exist only for the duration of one dispatch
// and are never persisted on their own.
type Query struct {
	// Category is the catalog category the dork belongs to.
	Category string

	// Dork is the original dork pattern from the catalog, unmodified.
	Dork string

	// Literal is the query string sent to the search backends.
	Literal string
}

// NewQuery builds a Query from a (category, dork, target) triple.
// When target is non-empty the query is scoped to that domain with a
// "site:" operator; otherwise the dork pattern is used verbatim.
//
// The builder is a pure function: an empty or malformed dork is passed
// through as-is, since dork syntax is defined by the search engine, not
// by this tool.
func NewQuery(category, dork, target string) Query {
	literal := dork
	if target != "" {
		literal = "site:" + target + " " + dork
	}
	return Query{
		Category: category,
		Dork:     dork,
		Literal:  literal,
	}
}
