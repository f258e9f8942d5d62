package repair

import "strings"

// Match scores between a value and a column type. Emails are near-unique
// anchors, digit runs are decent ones, and any non-empty string is weak
// evidence.
const (
	scoreEmail   = 10
	scoreInteger = 5
	scoreString  = 1
)

// Repairer realigns malformed rows against an inferred schema.
type Repairer struct {
	schema Schema
}

// NewRepairer returns a Repairer for the given schema.
func NewRepairer(schema Schema) *Repairer {
	return &Repairer{schema: schema}
}

// Repair tries every alignment offset for values against the schema and
// returns a full-width row built from the best-scoring one, with "NULL"
// in every position the input did not cover. The offsets are scanned in
// ascending order and only a strictly greater score replaces the current
// best, so ties favor the lowest offset.
//
// Returns nil when no offset scores positively; such a row is
// unrecoverable.
func (r *Repairer) Repair(values []string) []string {
	bestOffset := 0
	bestScore := -1

	for offset := -len(values); offset < len(r.schema); offset++ {
		score := 0
		for i, v := range values {
			target := i + offset
			if target >= 0 && target < len(r.schema) {
				score += matchScore(v, r.schema[target].Type)
			}
		}
		if score > bestScore {
			bestScore, bestOffset = score, offset
		}
	}

	if bestScore <= 0 {
		return nil
	}

	repaired := make([]string, len(r.schema))
	for i := range repaired {
		repaired[i] = "NULL"
	}
	for i, v := range values {
		if target := i + bestOffset; target >= 0 && target < len(r.schema) {
			repaired[target] = v
		}
	}
	return repaired
}

// matchScore is the confidence that value belongs in a column of the
// expected type. Empty and "null" values score 0 everywhere.
func matchScore(value string, expected ColumnType) int {
	if value == "" || strings.EqualFold(value, "null") {
		return 0
	}
	switch expected {
	case TypeEmail:
		if emailRegex.MatchString(value) {
			return scoreEmail
		}
	case TypeInteger:
		if isAllDigits(value) {
			return scoreInteger
		}
	case TypeString:
		return scoreString
	}
	return 0
}
