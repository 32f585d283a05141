package scraper

import "strings"

// Queries produces the sequence of search terms to crawl. A nil override
// yields the default one-letter sweep "a".."z"; a non-nil override is
// lowercased and filtered to single letters, so an explicitly empty list
// performs no crawl at all.
func Queries(override []string) []string {
	if override == nil {
		letters := make([]string, 0, 26)
		for r := 'a'; r <= 'z'; r++ {
			letters = append(letters, string(r))
		}
		return letters
	}

	queries := make([]string, 0, len(override))
	for _, q := range override {
		q = strings.ToLower(strings.TrimSpace(q))
		if len(q) != 1 || q[0] < 'a' || q[0] > 'z' {
			continue
		}
		queries = append(queries, q)
	}
	return queries
}
