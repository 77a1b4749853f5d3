package reconcile

import "github.com/hjaltalin/caselink/internal/model"

// Merge combines the prior persisted records with freshly scraped ones.
//
// Scraped records without an appeals case number are dropped: an
// unresolvable cross-reference is not worth persisting. The remainder is
// appended after the prior set and deduplicated by supreme case number,
// keeping the first occurrence, so already-persisted records are never
// replaced by a re-scrape of the same case. Running the merge again over
// its own output adds nothing.
func Merge(prior []model.Record, scraped []model.Record) []model.Record {
	merged := make([]model.Record, 0, len(prior)+len(scraped))
	seen := make(map[string]bool, len(prior)+len(scraped))

	keep := func(r model.Record) {
		r = r.Trimmed()
		if seen[r.SupremeCaseNumber] {
			return
		}
		seen[r.SupremeCaseNumber] = true
		merged = append(merged, r)
	}

	for _, r := range prior {
		keep(r)
	}
	for _, r := range scraped {
		if !r.HasAppealsNumber() {
			continue
		}
		keep(r)
	}

	return merged
}
