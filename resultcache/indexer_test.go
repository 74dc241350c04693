package resultcache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIndexerDebouncesBurstThenInvalidates(t *testing.T) {
	c, err := New(16)
	require.NoError(t, err)
	c.Set("q1", "r1", "h1", []string{"a.md"})
	c.Set("q2", "r2", "h2", []string{"b.md"})

	ix := NewIndexer(c, 20*time.Millisecond)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	go ix.Run(ctx)

	for i := 0; i < 5; i++ {
		ix.Push(Change{Path: "a.md", Kind: ChangeModified, Timestamp: time.Now()})
		time.Sleep(2 * time.Millisecond)
	}

	require.Eventually(t, func() bool {
		_, ok := c.Get("q1")
		return !ok
	}, time.Second, 5*time.Millisecond, "a.md's dependent entry should be invalidated once the burst settles")

	_, ok := c.Get("q2")
	assert.True(t, ok, "b.md's entry is untouched by changes to a.md")
}

func TestIndexerRenameInvalidatesBothPaths(t *testing.T) {
	c, err := New(16)
	require.NoError(t, err)
	c.Set("old", "r", "h", []string{"old.md"})
	c.Set("new", "r", "h", []string{"new.md"})

	ix := NewIndexer(c, 10*time.Millisecond)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	go ix.Run(ctx)

	ix.Push(Change{Path: "new.md", Kind: ChangeRenamed, OldPath: "old.md", Timestamp: time.Now()})

	require.Eventually(t, func() bool {
		_, oldOK := c.Get("old")
		_, newOK := c.Get("new")
		return !oldOK && !newOK
	}, time.Second, 5*time.Millisecond)
}

func TestIndexerStopsOnContextCancellation(t *testing.T) {
	c, err := New(16)
	require.NoError(t, err)
	ix := NewIndexer(c, time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- ix.Run(ctx) }()

	cancel()
	select {
	case err := <-done:
		assert.Error(t, err)
	case <-time.After(time.Second):
		t.Fatal("Run did not return after context cancellation")
	}
}
