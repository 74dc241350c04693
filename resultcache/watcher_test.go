package resultcache

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTranslateEventMapsFsnotifyOps(t *testing.T) {
	cases := []struct {
		op   fsnotify.Op
		want ChangeKind
	}{
		{fsnotify.Create, ChangeCreated},
		{fsnotify.Remove, ChangeDeleted},
		{fsnotify.Rename, ChangeRenamed},
		{fsnotify.Write, ChangeModified},
		{fsnotify.Chmod, ChangeModified},
	}
	for _, c := range cases {
		got := translateEvent(fsnotify.Event{Name: "x", Op: c.op})
		assert.Equal(t, c.want, got.Kind)
		assert.Equal(t, "x", got.Path)
	}
}

func TestWatcherPushesCreateEventToIndexer(t *testing.T) {
	dir := t.TempDir()
	cache, err := New(16)
	require.NoError(t, err)

	target := filepath.Join(dir, "note.md")
	cache.Set("q1", "r1", "h1", []string{target})

	ix := NewIndexer(cache, 10*time.Millisecond)
	w, err := NewWatcher(ix)
	require.NoError(t, err)
	defer w.Close()
	require.NoError(t, w.Add(dir))

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	go w.Run(ctx)
	go ix.Run(ctx)

	require.NoError(t, os.WriteFile(target, []byte("hello"), 0o644))

	require.Eventually(t, func() bool {
		_, ok := cache.Get("q1")
		return !ok
	}, time.Second, 10*time.Millisecond, "writing the watched file should invalidate its dependent cache entry")
}
