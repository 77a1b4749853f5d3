package reconcile

import "github.com/hjaltalin/caselink/internal/model"

// Entry is a record with its grouping key removed, as stored inside the
// appeals-number lookup.
type Entry struct {
	SupremeCaseNumber string           `json:"supreme_case_number"`
	SupremeCaseLink   string           `json:"supreme_case_link"`
	AppealsCaseLink   string           `json:"appeals_case_link"`
	SourceType        model.SourceType `json:"source_type"`
}

// EntryFromRecord strips the appeals case number from a record
func EntryFromRecord(r model.Record) Entry {
	return Entry{
		SupremeCaseNumber: r.SupremeCaseNumber,
		SupremeCaseLink:   r.SupremeCaseLink,
		AppealsCaseLink:   r.AppealsCaseLink,
		SourceType:        r.SourceType,
	}
}

// Group partitions records by appeals case number. A key with exactly one
// record maps to its bare Entry; a key with several maps to the list of
// entries in the order they appear in the input. The single-record collapse
// keeps the lookup small for the common one-to-one case. Records without an
// appeals case number are skipped: the lookup has no key for them.
func Group(records []model.Record) map[string]any {
	grouped := make(map[string][]Entry)
	for _, r := range records {
		r = r.Trimmed()
		if r.AppealsCaseNumber == "" {
			continue
		}
		grouped[r.AppealsCaseNumber] = append(grouped[r.AppealsCaseNumber], EntryFromRecord(r))
	}

	mapping := make(map[string]any, len(grouped))
	for key, entries := range grouped {
		if len(entries) == 1 {
			mapping[key] = entries[0]
		} else {
			mapping[key] = entries
		}
	}

	return mapping
}

// MappingSize counts the entries across all groups in a lookup mapping
func MappingSize(mapping map[string]any) int {
	total := 0
	for _, v := range mapping {
		if entries, ok := v.([]Entry); ok {
			total += len(entries)
		} else {
			total++
		}
	}
	return total
}
