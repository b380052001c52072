package engine

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/hackerstories/internal/story"
)

func removal(id string) pending {
	return pending{action: story.RemoveRecord{ID: id}, done: make(chan story.State, 1)}
}

func TestActionQueue_FIFO(t *testing.T) {
	q := newActionQueue()
	for _, id := range []string{"a", "b", "c"} {
		require.True(t, q.Enqueue(removal(id)))
	}

	for _, want := range []string{"a", "b", "c"} {
		p, ok := q.TryDequeue()
		require.True(t, ok)
		assert.Equal(t, story.RemoveRecord{ID: want}, p.action)
	}

	_, ok := q.TryDequeue()
	assert.False(t, ok)
}

func TestActionQueue_EnqueueAfterClose(t *testing.T) {
	q := newActionQueue()
	q.Close()
	q.Close() // idempotent

	assert.False(t, q.Enqueue(removal("a")))
	_, open := <-q.Wait()
	assert.False(t, open, "closing the queue closes the wait channel")
}

func TestActionQueue_DrainAfterClose(t *testing.T) {
	q := newActionQueue()
	require.True(t, q.Enqueue(removal("a")))
	q.Close()

	assert.Equal(t, 1, q.Len())
	_, ok := q.TryDequeue()
	assert.True(t, ok, "items queued before Close stay dequeueable")
}

func TestActionQueue_SignalCoalesces(t *testing.T) {
	q := newActionQueue()
	q.Enqueue(removal("a"))
	q.Enqueue(removal("b"))

	<-q.Wait()
	select {
	case <-q.Wait():
		t.Fatal("expected a single coalesced signal")
	default:
	}
	assert.Equal(t, 2, q.Len())
}

func TestActionQueue_ConcurrentEnqueue(t *testing.T) {
	q := newActionQueue()
	const goroutines, perGoroutine = 10, 20

	var wg sync.WaitGroup
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perGoroutine; j++ {
				q.Enqueue(removal("x"))
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, goroutines*perGoroutine, q.Len())
}
