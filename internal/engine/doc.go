// Package engine drives the story store.
//
// ARCHITECTURE:
//
// Single-Writer Event Loop:
// The Engine owns the one current story.State snapshot. Transitions are
// submitted with Dispatch, queued in FIFO order and applied one at a time,
// either by the Run goroutine or inline by Drain when no loop is running.
// This ensures:
// - Transitions apply in submission order
// - A removal issued while a fetch is outstanding applies to whatever
//   snapshot exists at that moment
// - Readers never need a lock: Snapshot returns an immutable value
//
// Every applied transition is stamped with a monotonic seq from the clock
// and the session token, and handed to the Recorder (the SQLite
// transition log in production, an in-memory trace in tests).
//
// Session:
// A Session pairs an Engine with the fetch adapter and the query
// persistence adapter. Start issues exactly one fetch per session:
// FetchStart, await the fetcher, then FetchSuccess or FetchFailure.
// A second Start is rejected with ErrAlreadyStarted.
package engine
