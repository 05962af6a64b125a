package scanner

import "sync"

// urlSet tracks result URLs seen during one run. Deduplication is
// scoped to the run: a URL recorded once is never recorded again, no
// matter how many dorks surface it.
type urlSet struct {
	mu   sync.Mutex
	seen map[string]struct{}
}

func newURLSet() *urlSet {
	return &urlSet{seen: make(map[string]struct{})}
}

// add records the URL and reports whether it was new. The check and
// the insert happen under one lock, so two workers racing on the same
// URL cannot both see it as new.
func (s *urlSet) add(url string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.seen[url]; ok {
		return false
	}
	s.seen[url] = struct{}{}
	return true
}

// filterNew records all given URLs and returns the ones that were new,
// in input order.
func (s *urlSet) filterNew(urls []string) []string {
	fresh := make([]string, 0, len(urls))
	for _, u := range urls {
		if s.add(u) {
			fresh = append(fresh, u)
		}
	}
	return fresh
}
