package resultcache

import (
	"context"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Watcher feeds an Indexer from real filesystem events. It is entirely
// optional: an Indexer works fine driven only by direct Push calls, for
// callers (a store's own write path, a test) that already know which
// paths changed without needing inotify/kqueue underneath.
type Watcher struct {
	fsw *fsnotify.Watcher
	ix  *Indexer
	log *logrus.Entry
}

// NewWatcher opens a filesystem watcher that pushes every event it
// observes onto ix.
func NewWatcher(ix *Indexer) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "resultcache: opening filesystem watcher")
	}
	return &Watcher{
		fsw: fsw,
		ix:  ix,
		log: logrus.StandardLogger().WithField("system", "resultcache.watcher"),
	}, nil
}

// Add registers path (a file or directory) for watching.
func (w *Watcher) Add(path string) error {
	return errors.Wrapf(w.fsw.Add(path), "resultcache: watching %s", path)
}

// Run translates filesystem events into Changes pushed onto the
// Indexer until ctx is done or the watcher is closed.
func (w *Watcher) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			w.ix.Push(translateEvent(ev))

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.log.WithError(err).Warn("filesystem watch error")
		}
	}
}

// Close releases the underlying filesystem watch.
func (w *Watcher) Close() error {
	return w.fsw.Close()
}

func translateEvent(ev fsnotify.Event) Change {
	var kind ChangeKind
	switch {
	case ev.Op&fsnotify.Create != 0:
		kind = ChangeCreated
	case ev.Op&fsnotify.Remove != 0:
		kind = ChangeDeleted
	case ev.Op&fsnotify.Rename != 0:
		kind = ChangeRenamed
	default:
		kind = ChangeModified
	}
	return Change{Path: ev.Name, Kind: kind, Timestamp: time.Now()}
}
