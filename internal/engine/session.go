package engine

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/roach88/hackerstories/internal/fetch"
	"github.com/roach88/hackerstories/internal/persist"
	"github.com/roach88/hackerstories/internal/story"
)

// SessionConfig wires a Session to its collaborators.
type SessionConfig struct {
	// Fetcher performs the session's single fetch. Required.
	Fetcher fetch.Fetcher

	// Queries persists the search query. Defaults to an in-memory store.
	Queries persist.QueryStore

	// Endpoint is the URL fetched on Start. Defaults to the HN search for
	// "react".
	Endpoint string

	// QueryKey is the persistence key. Defaults to persist.DefaultKey.
	QueryKey string

	// DefaultQuery is used when nothing was persisted yet.
	DefaultQuery string

	Logger *slog.Logger
}

// Session is the driver of one application session: it owns the engine
// (and through it the story snapshot) and the current query.
type Session struct {
	engine   *Engine
	fetcher  fetch.Fetcher
	queries  persist.QueryStore
	endpoint string
	key      string
	def      string
	logger   *slog.Logger

	started atomic.Bool

	mu     sync.RWMutex
	query  string
	loaded bool
}

// View is what a renderer needs: the snapshot, the query and the
// filtered records.
type View struct {
	State   story.State
	Query   string
	Visible []story.Record
}

// NewSession creates a session over e.
func NewSession(e *Engine, cfg SessionConfig) *Session {
	s := &Session{
		engine:   e,
		fetcher:  cfg.Fetcher,
		queries:  cfg.Queries,
		endpoint: cfg.Endpoint,
		key:      cfg.QueryKey,
		def:      cfg.DefaultQuery,
		logger:   cfg.Logger,
		query:    cfg.DefaultQuery,
	}
	if s.queries == nil {
		s.queries = persist.NewMemoryStore()
	}
	if s.endpoint == "" {
		s.endpoint = fetch.Endpoint(fetch.DefaultBaseURL, "react")
	}
	if s.key == "" {
		s.key = persist.DefaultKey
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	return s
}

// Engine returns the engine the session drives.
func (s *Session) Engine() *Engine {
	return s.engine
}

// LoadQuery reads the persisted query, falling back to the default when it
// is absent or the store fails. Called by Start; safe to call earlier.
func (s *Session) LoadQuery(ctx context.Context) string {
	q, err := persist.LoadQuery(ctx, s.queries, s.key, s.def)
	if err != nil {
		s.logger.Warn("using default query", "key", s.key, "error", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.query = q
	s.loaded = true
	return q
}

// Start loads the query and performs the session's single fetch.
//
// The returned error is the fetch failure (matching fetch.ErrFetchFailed);
// by then the store already holds the Failure status. A second call
// returns ErrAlreadyStarted without fetching.
func (s *Session) Start(ctx context.Context) error {
	if !s.started.CompareAndSwap(false, true) {
		return ErrAlreadyStarted
	}

	s.mu.RLock()
	loaded := s.loaded
	s.mu.RUnlock()
	if !loaded {
		s.LoadQuery(ctx)
	}

	if _, err := s.engine.Dispatch(ctx, story.FetchStart{}); err != nil {
		return err
	}

	records, fetchErr := s.fetcher.Fetch(ctx, s.endpoint)
	if fetchErr != nil {
		s.logger.Error("fetch failed", "endpoint", s.endpoint, "error", fetchErr)
		// The failure must land even if ctx was what failed the fetch.
		if _, err := s.engine.Dispatch(context.WithoutCancel(ctx), story.FetchFailure{}); err != nil {
			return err
		}
		return fetchErr
	}

	s.logger.Info("stories loaded", "endpoint", s.endpoint, "count", len(records))
	_, err := s.engine.Dispatch(ctx, story.FetchSuccess{Records: records})
	return err
}

// Query returns the current query.
func (s *Session) Query() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.query
}

// SetQuery updates the query and persists it. The in-memory query changes
// even when saving fails; the save error is returned for the caller to
// report.
func (s *Session) SetQuery(ctx context.Context, q string) error {
	s.mu.Lock()
	s.query = q
	s.loaded = true
	s.mu.Unlock()

	if err := s.queries.Save(ctx, s.key, q); err != nil {
		s.logger.Warn("failed to persist query", "key", s.key, "error", err)
		return err
	}
	return nil
}

// Remove drops the record with the given id. Absent ids are a no-op.
func (s *Session) Remove(ctx context.Context, id string) (story.State, error) {
	return s.engine.Dispatch(ctx, story.RemoveRecord{ID: id})
}

// Snapshot returns the current store snapshot.
func (s *Session) Snapshot() story.State {
	return s.engine.Snapshot()
}

// Visible returns the records of the current snapshot matching the query.
func (s *Session) Visible() []story.Record {
	return story.Filter(s.engine.Snapshot().Records, s.Query())
}

// View returns a consistent snapshot, query and filtered records.
func (s *Session) View() View {
	st := s.engine.Snapshot()
	q := s.Query()
	return View{State: st, Query: q, Visible: story.Filter(st.Records, q)}
}
