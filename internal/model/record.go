package model

import (
	"fmt"
	"strings"
)

// SourceType identifies which listing page a record was scraped from
type SourceType string

const (
	SourceVerdict  SourceType = "verdict"  // the verdicts listing
	SourceDecision SourceType = "decision" // the decisions listing
)

// ParseSourceType converts a stored string into a SourceType
func ParseSourceType(s string) (SourceType, error) {
	switch SourceType(strings.TrimSpace(s)) {
	case SourceVerdict:
		return SourceVerdict, nil
	case SourceDecision:
		return SourceDecision, nil
	default:
		return "", fmt.Errorf("unknown source type %q", s)
	}
}

// Record is one cross-reference between the Supreme Court and the Court of
// Appeal identifier spaces. SupremeCaseNumber is the primary key within a
// merged set; AppealsCaseNumber is empty when no cross-reference resolved.
type Record struct {
	SupremeCaseNumber string     `json:"supreme_case_number"`
	SupremeCaseLink   string     `json:"supreme_case_link"`
	AppealsCaseNumber string     `json:"appeals_case_number"`
	AppealsCaseLink   string     `json:"appeals_case_link"`
	SourceType        SourceType `json:"source_type"`
}

// Trimmed returns a copy with all string fields whitespace-trimmed.
// Comparisons and storage always operate on trimmed values.
func (r Record) Trimmed() Record {
	return Record{
		SupremeCaseNumber: strings.TrimSpace(r.SupremeCaseNumber),
		SupremeCaseLink:   strings.TrimSpace(r.SupremeCaseLink),
		AppealsCaseNumber: strings.TrimSpace(r.AppealsCaseNumber),
		AppealsCaseLink:   strings.TrimSpace(r.AppealsCaseLink),
		SourceType:        SourceType(strings.TrimSpace(string(r.SourceType))),
	}
}

// HasAppealsNumber reports whether the record carries a non-empty appeals
// case number after trimming.
func (r Record) HasAppealsNumber() bool {
	return strings.TrimSpace(r.AppealsCaseNumber) != ""
}
