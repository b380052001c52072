package engine

import (
	"sync"

	"github.com/roach88/hackerstories/internal/story"
)

// pending is a queued transition. done receives the snapshot produced by
// applying action; it is buffered so the applier never blocks.
type pending struct {
	action story.Action
	done   chan story.State
}

// actionQueue is a thread-safe FIFO queue of pending transitions.
//
// The queue uses a channel for signaling to enable context-aware waiting
// in the Run loop.
type actionQueue struct {
	mu     sync.Mutex
	items  []pending
	closed bool
	signal chan struct{} // Signals item availability (buffered, size 1)
}

// newActionQueue creates an empty queue.
func newActionQueue() *actionQueue {
	return &actionQueue{
		items:  make([]pending, 0, 16),
		signal: make(chan struct{}, 1),
	}
}

// Enqueue adds an item to the back of the queue.
// Returns false if the queue is closed.
func (q *actionQueue) Enqueue(p pending) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return false
	}

	q.items = append(q.items, p)

	// Non-blocking: a buffer of 1 coalesces multiple signals.
	select {
	case q.signal <- struct{}{}:
	default:
	}

	return true
}

// TryDequeue removes and returns the front item without blocking.
// Returns (pending{}, false) if the queue is empty.
func (q *actionQueue) TryDequeue() (pending, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.items) == 0 {
		return pending{}, false
	}

	p := q.items[0]

	// Clear the slot so the payload records can be collected.
	q.items[0] = pending{}

	if len(q.items) == 1 {
		q.items = q.items[:0]
	} else {
		q.items = q.items[1:]
	}

	return p, true
}

// Wait returns a channel that signals when items may be available.
// The channel is closed when the queue is closed.
func (q *actionQueue) Wait() <-chan struct{} {
	return q.signal
}

// Len returns the current queue length.
func (q *actionQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Close signals that no more items will be enqueued.
// Items already queued can still be dequeued.
func (q *actionQueue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return
	}

	q.closed = true
	close(q.signal)
}
