package engine

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/roach88/hackerstories/internal/store"
	"github.com/roach88/hackerstories/internal/story"
)

// Recorder receives every applied transition.
// Implemented by *store.Store and *TraceRecorder.
type Recorder interface {
	WriteTransition(ctx context.Context, t store.Transition) error
}

// Observer is called after each transition with the record written and
// the resulting snapshot. Observers run on the applying goroutine and
// must not call Dispatch.
type Observer func(t store.Transition, s story.State)

// Engine is the single-writer owner of the story store snapshot.
//
// Thread-safety model:
//   - Dispatch(), Snapshot(): safe from any goroutine
//   - Run(): must be called from at most one goroutine
//   - Drain(): safe from any goroutine; serialized with Run
type Engine struct {
	session   string
	clock     Sequencer
	queue     *actionQueue
	recorder  Recorder
	observers []Observer
	logger    *slog.Logger

	// applyMu serializes dequeue+apply so FIFO order holds even when Run
	// and Drain race.
	applyMu sync.Mutex
	state   atomic.Pointer[story.State]
	running atomic.Bool
}

// Option configures an Engine.
type Option func(*Engine)

// WithRecorder sets where applied transitions are written.
func WithRecorder(r Recorder) Option {
	return func(e *Engine) {
		e.recorder = r
	}
}

// WithClock replaces the default logical clock.
func WithClock(c Sequencer) Option {
	return func(e *Engine) {
		e.clock = c
	}
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = l
	}
}

// WithObserver registers a callback run after every transition.
func WithObserver(o Observer) Option {
	return func(e *Engine) {
		e.observers = append(e.observers, o)
	}
}

// WithInitialState starts the engine from s instead of story.Initial().
func WithInitialState(s story.State) Option {
	return func(e *Engine) {
		e.state.Store(&s)
	}
}

// New creates an Engine for the given session token.
func New(session string, opts ...Option) *Engine {
	e := &Engine{
		session: session,
		clock:   NewClock(),
		queue:   newActionQueue(),
		logger:  slog.Default(),
	}

	for _, opt := range opts {
		opt(e)
	}

	if e.state.Load() == nil {
		initial := story.Initial()
		e.state.Store(&initial)
	}

	return e
}

// Session returns the session token stamped on every transition.
func (e *Engine) Session() string {
	return e.session
}

// Snapshot returns the current store snapshot. The returned value is
// immutable and safe to read while further transitions are applied.
func (e *Engine) Snapshot() story.State {
	return *e.state.Load()
}

// Dispatch submits a transition and waits until it has been applied,
// returning the snapshot it produced.
//
// When no Run loop is active the transition (and anything queued before
// it) is applied inline on the calling goroutine.
func (e *Engine) Dispatch(ctx context.Context, action story.Action) (story.State, error) {
	p := pending{action: action, done: make(chan story.State, 1)}
	if !e.queue.Enqueue(p) {
		return story.State{}, ErrStopped
	}

	if !e.running.Load() {
		e.Drain(ctx)
	}

	select {
	case s := <-p.done:
		return s, nil
	case <-ctx.Done():
		return story.State{}, ctx.Err()
	}
}

// Drain applies every queued transition on the calling goroutine and
// returns how many were applied.
func (e *Engine) Drain(ctx context.Context) int {
	n := 0
	for e.step(ctx) {
		n++
	}
	return n
}

// Run starts the single-writer event loop.
// Blocks until ctx is cancelled or Stop() is called; transitions still
// queued when Stop is called are applied before Run returns.
func (e *Engine) Run(ctx context.Context) error {
	e.running.Store(true)
	defer e.running.Store(false)

	e.logger.Info("engine starting", "session", e.session)

	for {
		if e.step(ctx) {
			continue
		}

		select {
		case <-ctx.Done():
			e.logger.Info("engine stopping: context cancelled", "session", e.session)
			e.queue.Close()
			e.Drain(ctx)
			return ctx.Err()

		case <-e.queue.Wait():
			// The signal channel is closed with the queue; an empty closed
			// queue means we are done.
			if e.queue.Len() == 0 && e.stopped() {
				e.logger.Info("engine stopping: queue closed", "session", e.session)
				return nil
			}
		}
	}
}

// Stop closes the queue. Run returns once the queue is empty and later
// Dispatch calls fail with ErrStopped.
func (e *Engine) Stop() {
	e.queue.Close()
}

func (e *Engine) stopped() bool {
	e.queue.mu.Lock()
	defer e.queue.mu.Unlock()
	return e.queue.closed
}

// step dequeues and applies one transition. Returns false if the queue
// was empty.
func (e *Engine) step(ctx context.Context) bool {
	e.applyMu.Lock()
	defer e.applyMu.Unlock()

	p, ok := e.queue.TryDequeue()
	if !ok {
		return false
	}
	e.apply(ctx, p)
	return true
}

// apply reduces the current snapshot with p.action, publishes the result
// and records the transition. Called with applyMu held.
func (e *Engine) apply(ctx context.Context, p pending) {
	next := story.Reduce(e.Snapshot(), p.action)
	e.state.Store(&next)

	t := store.Transition{
		Session:     e.session,
		Seq:         e.clock.Next(),
		Kind:        p.action.Kind(),
		RecordCount: len(next.Records),
		Status:      next.Status.String(),
	}
	if rm, ok := p.action.(story.RemoveRecord); ok {
		t.RecordID = rm.ID
	}

	e.logger.Debug("transition applied",
		"session", t.Session,
		"seq", t.Seq,
		"kind", t.Kind,
		"status", t.Status,
		"records", t.RecordCount,
	)

	if e.recorder != nil {
		// Log and continue: the in-memory snapshot is authoritative, the
		// log is best effort.
		if err := e.recorder.WriteTransition(context.WithoutCancel(ctx), t); err != nil {
			e.logger.Error("failed to record transition",
				"session", t.Session,
				"seq", t.Seq,
				"kind", t.Kind,
				"error", err,
			)
		}
	}

	for _, o := range e.observers {
		o(t, next)
	}

	p.done <- next
}
