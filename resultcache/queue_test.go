package resultcache

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChangeQueueFIFOOrder(t *testing.T) {
	q := newChangeQueue()
	q.Enqueue(Change{Path: "a"})
	q.Enqueue(Change{Path: "b"})
	q.Enqueue(Change{Path: "c"})

	first, ok := q.TryDequeue()
	require.True(t, ok)
	assert.Equal(t, "a", first.Path)

	second, ok := q.TryDequeue()
	require.True(t, ok)
	assert.Equal(t, "b", second.Path)

	third, ok := q.TryDequeue()
	require.True(t, ok)
	assert.Equal(t, "c", third.Path)

	_, ok = q.TryDequeue()
	assert.False(t, ok)
}

func TestChangeQueueWaitSignalsOnEnqueue(t *testing.T) {
	q := newChangeQueue()
	select {
	case <-q.Wait():
		t.Fatal("signal fired before any enqueue")
	default:
	}

	q.Enqueue(Change{Path: "a"})
	select {
	case <-q.Wait():
	default:
		t.Fatal("expected a signal after enqueue")
	}
}

func TestChangeQueueClosedRejectsEnqueue(t *testing.T) {
	q := newChangeQueue()
	q.Close()
	ok := q.Enqueue(Change{Path: "a"})
	assert.False(t, ok)
}
