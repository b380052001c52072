// Package story implements the Hacker Stories core: the story store state
// machine and the filter view over its records.
//
// # Story Store
//
// A State is an immutable snapshot holding the current records and a
// fetch Status. Snapshots are only produced by Reduce, which applies one
// of the named transitions:
//
//   - FetchStart: Status becomes Loading, records unchanged
//   - FetchSuccess: Status becomes Success, records replaced by the payload
//   - FetchFailure: Status becomes Failure, records unchanged
//   - RemoveRecord: the record with the given ID is dropped (no-op if absent)
//
// Status is a single tag, so "loading and failed at the same time" cannot
// be represented. IsLoading and IsError expose the two-flag view used by
// renderers.
//
// # Filter View
//
// Filter projects a record slice onto the records whose title contains a
// query, case-insensitively. It is recomputed from scratch on every call.
package story
