package testutil

import (
	"context"
	"sync"

	"github.com/roach88/hackerstories/internal/story"
)

// StubFetcher answers fetches with canned records or an error.
//
// When Gate is non-nil, Fetch blocks until Gate is closed (or the context
// ends), which lets tests act while a fetch is outstanding.
type StubFetcher struct {
	Records []story.Record
	Err     error
	Gate    chan struct{}

	mu        sync.Mutex
	endpoints []string
}

// Fetch implements fetch.Fetcher.
func (f *StubFetcher) Fetch(ctx context.Context, endpoint string) ([]story.Record, error) {
	f.mu.Lock()
	f.endpoints = append(f.endpoints, endpoint)
	f.mu.Unlock()

	if f.Gate != nil {
		select {
		case <-f.Gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	if f.Err != nil {
		return nil, f.Err
	}
	out := make([]story.Record, len(f.Records))
	copy(out, f.Records)
	return out, nil
}

// Calls returns the endpoints fetched so far.
func (f *StubFetcher) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.endpoints))
	copy(out, f.endpoints)
	return out
}
