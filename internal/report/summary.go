package report

import (
	"net/url"
	"sort"

	"github.com/zer0bav/gds/internal/model"
)

// topDomainCount is how many domains the summary ranks.
const topDomainCount = 10

// CategoryCount is the number of findings in one category.
type CategoryCount struct {
	Category string
	Count    int
}

// DomainCount is the number of findings on one domain.
type DomainCount struct {
	Domain string
	Count  int
}

// Summary aggregates a run's findings for reporting.
type Summary struct {
	// Total is the number of findings loaded.
	Total int

	// Sensitive is the number of findings carrying a sensitive hint.
	Sensitive int

	// Errors is the number of findings whose snapshot fetch failed.
	Errors int

	// Categories lists findings per category, most findings first.
	Categories []CategoryCount

	// TopDomains lists the most frequent result domains, capped at
	// topDomainCount.
	TopDomains []DomainCount

	// Findings holds the loaded findings in file order, for the
	// detailed sections of a report.
	Findings []model.Finding
}

// Summarize aggregates findings into a Summary.
func Summarize(findings []model.Finding) *Summary {
	s := &Summary{
		Total:    len(findings),
		Findings: findings,
	}

	byCategory := make(map[string]int)
	byDomain := make(map[string]int)
	for _, f := range findings {
		byCategory[f.Category]++
		if f.SensitiveHint {
			s.Sensitive++
		}
		if f.Error != "" || (f.Status != nil && f.Status.Failed) {
			s.Errors++
		}
		if domain := domainOf(f.URL); domain != "" {
			byDomain[domain]++
		}
	}

	s.Categories = sortedCounts(byCategory, 0, func(d string, c int) CategoryCount {
		return CategoryCount{Category: d, Count: c}
	})
	s.TopDomains = sortedCounts(byDomain, topDomainCount, func(d string, c int) DomainCount {
		return DomainCount{Domain: d, Count: c}
	})
	return s
}

// sortedCounts orders a count map by count descending, then name
// ascending for a stable report layout, keeping at most limit entries
// (0 keeps all).
func sortedCounts[T any](counts map[string]int, limit int, mk func(string, int) T) []T {
	type pair struct {
		name  string
		count int
	}
	pairs := make([]pair, 0, len(counts))
	for name, count := range counts {
		pairs = append(pairs, pair{name, count})
	}
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].count != pairs[j].count {
			return pairs[i].count > pairs[j].count
		}
		return pairs[i].name < pairs[j].name
	})
	if limit > 0 && len(pairs) > limit {
		pairs = pairs[:limit]
	}

	out := make([]T, len(pairs))
	for i, p := range pairs {
		out[i] = mk(p.name, p.count)
	}
	return out
}

// domainOf extracts the host from a result URL, or "" if unparseable.
func domainOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return u.Hostname()
}
