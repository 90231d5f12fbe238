package reconcile

import "github.com/ppiankov/acctdiff/internal/model"

// FindDuplicates counts identifiers and returns those seen more than once
// with their final totals. Empty input yields an empty map.
func FindDuplicates(ids []string) model.DuplicateMap {
	counts := make(map[string]int, len(ids))
	dupes := make(model.DuplicateMap)

	for _, id := range ids {
		counts[id]++
		if counts[id] > 1 {
			dupes[id] = counts[id]
		}
	}

	return dupes
}
