package story

// Action names a store transition and carries its payload.
//
// The set of actions is closed: only the types in this package implement it.
type Action interface {
	// Kind returns the stable transition name used in logs and traces.
	Kind() string

	isAction()
}

// Transition kinds.
const (
	KindFetchStart   = "fetch_start"
	KindFetchSuccess = "fetch_success"
	KindFetchFailure = "fetch_failure"
	KindRemoveRecord = "remove_record"
)

// FetchStart marks the beginning of a fetch.
type FetchStart struct{}

// FetchSuccess delivers the records of a completed fetch.
type FetchSuccess struct {
	Records []Record
}

// FetchFailure marks a failed fetch. No error detail is kept in the store.
type FetchFailure struct{}

// RemoveRecord drops the record with the given ID.
type RemoveRecord struct {
	ID string
}

func (FetchStart) Kind() string   { return KindFetchStart }
func (FetchSuccess) Kind() string { return KindFetchSuccess }
func (FetchFailure) Kind() string { return KindFetchFailure }
func (RemoveRecord) Kind() string { return KindRemoveRecord }

func (FetchStart) isAction()   {}
func (FetchSuccess) isAction() {}
func (FetchFailure) isAction() {}
func (RemoveRecord) isAction() {}

// Reduce applies action to s and returns the resulting snapshot.
//
// Reduce is pure: s is never modified, and for every known action the
// returned state shares no backing array with s or with the action
// payload. Unknown actions return s unchanged.
func Reduce(s State, action Action) State {
	switch a := action.(type) {
	case FetchStart:
		return State{Status: StatusLoading, Records: cloneRecords(s.Records)}
	case FetchSuccess:
		return State{Status: StatusSuccess, Records: cloneRecords(a.Records)}
	case FetchFailure:
		return State{Status: StatusFailure, Records: cloneRecords(s.Records)}
	case RemoveRecord:
		return State{Status: s.Status, Records: removeByID(s.Records, a.ID)}
	default:
		return s
	}
}

// removeByID returns a copy of records without the entries whose ID is id.
// Relative order of the survivors is preserved.
func removeByID(records []Record, id string) []Record {
	out := make([]Record, 0, len(records))
	for _, r := range records {
		if r.ID == id {
			continue
		}
		out = append(out, r)
	}
	return out
}
