package resultcache

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

// DefaultThrottle is the debounce window applied between a burst of
// file-change events and the invalidation it triggers.
const DefaultThrottle = 500 * time.Millisecond

// Indexer observes Change events and invalidates a Cache's entries once
// the changed paths settle: events are deduplicated by path (the last
// change for a path wins) and flushed after the indexer's throttle
// window (set by NewIndexer; the engine defaults to DefaultThrottle) of
// silence,
// so a rapid sequence of writes to the same file triggers one
// invalidation instead of one per write.
type Indexer struct {
	cache    *Cache
	queue    *changeQueue
	throttle time.Duration
	log      *logrus.Entry
}

// NewIndexer builds an Indexer that invalidates cache. A zero throttle
// uses DefaultThrottle.
func NewIndexer(cache *Cache, throttle time.Duration) *Indexer {
	if throttle <= 0 {
		throttle = DefaultThrottle
	}
	return &Indexer{
		cache:    cache,
		queue:    newChangeQueue(),
		throttle: throttle,
		log:      logrus.StandardLogger().WithField("system", "resultcache.indexer"),
	}
}

// Push enqueues a change for later, debounced invalidation. Safe to call
// from any goroutine, including a Watcher's event loop.
func (ix *Indexer) Push(c Change) {
	ix.queue.Enqueue(c)
}

// Run drains pushed changes until ctx is done. Each burst of changes
// settles into a pending set keyed by path (a rename also invalidates
// the path it was renamed from); the set flushes, invalidating the
// cache for every affected path, after throttle has passed with no
// further change to that burst.
func (ix *Indexer) Run(ctx context.Context) error {
	pending := make(map[string]Change)
	var timer *time.Timer
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		var timerC <-chan time.Time
		if timer != nil {
			timerC = timer.C
		}

		select {
		case <-ctx.Done():
			return ctx.Err()

		case <-ix.queue.Wait():
			for {
				c, ok := ix.queue.TryDequeue()
				if !ok {
					break
				}
				pending[c.Path] = c
				if c.Kind == ChangeRenamed && c.OldPath != "" {
					pending[c.OldPath] = c
				}
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.NewTimer(ix.throttle)

		case <-timerC:
			ix.flush(pending)
			pending = make(map[string]Change)
			timer = nil
		}
	}
}

func (ix *Indexer) flush(pending map[string]Change) {
	if len(pending) == 0 {
		return
	}
	for path := range pending {
		ix.cache.Invalidate(path)
	}
	ix.log.WithField("paths", len(pending)).Debug("flushed pending invalidations")
}
