package story

import "fmt"

// Status is the fetch lifecycle tag of a State.
type Status int

const (
	// StatusIdle is the initial status before any fetch was started.
	StatusIdle Status = iota
	// StatusLoading means a fetch was started and has not settled.
	StatusLoading
	// StatusSuccess means the latest fetch delivered the current records.
	StatusSuccess
	// StatusFailure means the latest fetch failed.
	StatusFailure
)

var statusNames = map[Status]string{
	StatusIdle:    "idle",
	StatusLoading: "loading",
	StatusSuccess: "success",
	StatusFailure: "failure",
}

// String returns the lowercase status name.
func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return fmt.Sprintf("status(%d)", int(s))
}

// ParseStatus is the inverse of Status.String.
func ParseStatus(name string) (Status, error) {
	for s, n := range statusNames {
		if n == name {
			return s, nil
		}
	}
	return StatusIdle, fmt.Errorf("unknown status %q", name)
}

// MarshalText implements encoding.TextMarshaler.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Status) UnmarshalText(text []byte) error {
	parsed, err := ParseStatus(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// State is an immutable snapshot of the story store.
//
// The zero value is the initial state: Idle with no records.
// Callers must treat Records as read-only; Reduce never mutates it.
type State struct {
	Status  Status
	Records []Record
}

// Initial returns the state a session starts from.
func Initial() State {
	return State{Status: StatusIdle, Records: []Record{}}
}

// IsLoading reports whether a fetch is in flight.
func (s State) IsLoading() bool {
	return s.Status == StatusLoading
}

// IsError reports whether the latest fetch failed.
func (s State) IsError() bool {
	return s.Status == StatusFailure
}

// Len returns the number of records in the snapshot.
func (s State) Len() int {
	return len(s.Records)
}
