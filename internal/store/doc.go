// Package store provides SQLite-backed storage for hackerstories.
//
// The store holds two things:
//   - kv: string-keyed, string-valued settings; the persisted search query
//     lives here under its key (default "search")
//   - transitions: an append-only log of every story store transition a
//     session applied, stamped with the session token and a logical seq
//
// All transition reads are ordered by seq ASC so a session's history reads
// back in the order it was applied.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
package store
