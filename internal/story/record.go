package story

// Record is a single story entry.
//
// JSON field names follow the Hacker News search API hit shape so a decoded
// hit is a Record without any mapping layer.
type Record struct {
	Title        string `json:"title"`
	URL          string `json:"url"`
	Author       string `json:"author"`
	CommentCount int    `json:"num_comments"`
	Points       int    `json:"points"`
	ID           string `json:"objectID"`
}

// cloneRecords returns a copy of records that shares no backing array with
// the input. A nil input yields an empty, non-nil slice.
func cloneRecords(records []Record) []Record {
	out := make([]Record, len(records))
	copy(out, records)
	return out
}

// IDs returns the IDs of records in order.
func IDs(records []Record) []string {
	ids := make([]string, len(records))
	for i, r := range records {
		ids[i] = r.ID
	}
	return ids
}
