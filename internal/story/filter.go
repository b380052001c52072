package story

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// Filter returns the records whose title contains query, ignoring case.
//
// An empty query matches every record, so Filter(records, "") is a copy of
// records. Otherwise records with an empty title never match. Input order
// is preserved and records is not modified.
func Filter(records []Record, query string) []Record {
	if query == "" {
		return cloneRecords(records)
	}

	// cases.Caser is stateful, so each call gets its own.
	lower := cases.Lower(language.Und)
	needle := fold(lower, query)

	out := make([]Record, 0, len(records))
	for _, r := range records {
		if r.Title == "" {
			continue
		}
		if strings.Contains(fold(lower, r.Title), needle) {
			out = append(out, r)
		}
	}
	return out
}

// fold lowercases s after NFC normalization so that composed and
// decomposed forms of the same text compare equal.
func fold(lower cases.Caser, s string) string {
	return lower.String(norm.NFC.String(s))
}
