// Package persist is the query persistence adapter.
//
// A QueryStore is a string-keyed, string-valued store with best-effort
// durability: the last Save is what the next Load observes. Three backends
// implement it: the SQLite store (internal/store), Redis (RedisStore) and
// an in-process map (MemoryStore).
package persist

import (
	"context"
	"fmt"
)

// DefaultKey is the key the current search query is persisted under.
const DefaultKey = "search"

// QueryStore loads and saves string values by key.
type QueryStore interface {
	// Load returns the value under key; ok is false when it was never saved.
	Load(ctx context.Context, key string) (value string, ok bool, err error)

	// Save replaces the value under key.
	Save(ctx context.Context, key, value string) error
}

// LoadQuery reads the query under key, falling back to def when absent.
func LoadQuery(ctx context.Context, qs QueryStore, key, def string) (string, error) {
	value, ok, err := qs.Load(ctx, key)
	if err != nil {
		return def, fmt.Errorf("load query: %w", err)
	}
	if !ok {
		return def, nil
	}
	return value, nil
}
