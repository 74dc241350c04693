package resultcache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCacheGetSetRoundTrip(t *testing.T) {
	c, err := New(16)
	require.NoError(t, err)

	c.Set("q1", "result-1", "hash-1", []string{"a.ttl"})
	e, ok := c.Get("q1")
	require.True(t, ok)
	assert.Equal(t, "result-1", e.Result)
	assert.Equal(t, "hash-1", e.Hash)
}

func TestCacheMissOnUnknownKey(t *testing.T) {
	c, err := New(16)
	require.NoError(t, err)

	_, ok := c.Get("nope")
	assert.False(t, ok)
}

func TestCacheEntryExpiresAfterTTL(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }
	c, err := New(16, WithTTL(time.Minute), withClock(clock))
	require.NoError(t, err)

	c.Set("q1", "result", "hash", nil)
	_, ok := c.Get("q1")
	require.True(t, ok)

	now = now.Add(2 * time.Minute)
	_, ok = c.Get("q1")
	assert.False(t, ok)
	assert.Zero(t, c.Len())
}

func TestCacheInvalidateEvictsDependentKeysOnly(t *testing.T) {
	c, err := New(16)
	require.NoError(t, err)

	c.Set("q1", "r1", "h1", []string{"notes/a.md"})
	c.Set("q2", "r2", "h2", []string{"notes/b.md"})
	c.Set("q3", "r3", "h3", []string{"notes/a.md", "notes/b.md"})

	c.Invalidate("notes/a.md")

	_, ok := c.Get("q1")
	assert.False(t, ok)
	_, ok = c.Get("q2")
	assert.True(t, ok)
	_, ok = c.Get("q3")
	assert.False(t, ok)
}

func TestCacheInvalidateUnknownPathIsNoop(t *testing.T) {
	c, err := New(16)
	require.NoError(t, err)
	c.Set("q1", "r1", "h1", []string{"notes/a.md"})

	c.Invalidate("never/tracked.md")

	_, ok := c.Get("q1")
	assert.True(t, ok)
}

func TestCachePurgeClearsEverything(t *testing.T) {
	c, err := New(16)
	require.NoError(t, err)
	c.Set("q1", "r1", "h1", []string{"a.md"})

	c.Purge()

	assert.Zero(t, c.Len())
	_, ok := c.Get("q1")
	assert.False(t, ok)
	c.Invalidate("a.md") // dependency set cleared too; must not resurrect anything
}
