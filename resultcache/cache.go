// Package resultcache caches query results keyed by normalized query
// text and invalidates them as the underlying data changes. A Cache
// entry tracks which file paths it depends on; an Indexer consumes a
// stream of file-change events, debounces and deduplicates them, and
// evicts every cache entry whose dependency set intersects a changed
// path.
package resultcache

import (
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// DefaultTTL is the time a cache entry remains valid absent an explicit
// invalidation.
const DefaultTTL = 5 * time.Minute

// Entry is one cached query result.
type Entry struct {
	Result   any
	Hash     string
	storedAt time.Time
}

// Cache is an LRU result cache with TTL expiry and file-dependency
// invalidation. The LRU eviction policy itself is delegated to
// hashicorp/golang-lru; TTL and dependency tracking are layered on top
// since the library only evicts by recency and size.
type Cache struct {
	mu   sync.Mutex
	lru  *lru.Cache[string, Entry]
	ttl  time.Duration
	deps map[string]map[string]struct{} // file path -> dependent cache keys
	now  func() time.Time
	log  *logrus.Entry
}

// Option configures a Cache at construction time.
type Option func(*Cache)

// WithTTL overrides DefaultTTL.
func WithTTL(ttl time.Duration) Option {
	return func(c *Cache) { c.ttl = ttl }
}

// WithLogger attaches a logger; New uses logrus.StandardLogger if omitted.
func WithLogger(l *logrus.Logger) Option {
	return func(c *Cache) { c.log = l.WithField("system", "resultcache") }
}

// withClock overrides the cache's notion of "now", for tests that need
// to assert TTL expiry without sleeping.
func withClock(now func() time.Time) Option {
	return func(c *Cache) { c.now = now }
}

// New builds a Cache holding at most size entries.
func New(size int, opts ...Option) (*Cache, error) {
	l, err := lru.New[string, Entry](size)
	if err != nil {
		return nil, errors.Wrap(err, "resultcache: constructing LRU")
	}
	c := &Cache{
		lru:  l,
		ttl:  DefaultTTL,
		deps: make(map[string]map[string]struct{}),
		now:  time.Now,
		log:  logrus.StandardLogger().WithField("system", "resultcache"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Get returns the entry stored under key, iff present and not past its
// TTL. A TTL-expired entry is evicted as a side effect of the lookup.
func (c *Cache) Get(key string) (Entry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.lru.Get(key)
	if !ok {
		return Entry{}, false
	}
	if c.now().Sub(e.storedAt) > c.ttl {
		c.lru.Remove(key)
		return Entry{}, false
	}
	return e, true
}

// Set stores result under key with the given content hash, and records
// key as depending on every path in files: a later Invalidate(path)
// evicts key along with every other entry sharing that dependency.
func (c *Cache) Set(key string, result any, hash string, files []string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.lru.Add(key, Entry{Result: result, Hash: hash, storedAt: c.now()})
	for _, f := range files {
		set, ok := c.deps[f]
		if !ok {
			set = make(map[string]struct{})
			c.deps[f] = set
		}
		set[key] = struct{}{}
	}
}

// Invalidate evicts every key depending on path and clears path's
// dependency set. A path with no tracked dependents is a no-op.
func (c *Cache) Invalidate(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	set, ok := c.deps[path]
	if !ok {
		return
	}
	for key := range set {
		c.lru.Remove(key)
	}
	delete(c.deps, path)
	c.log.WithFields(logrus.Fields{"path": path, "evicted": len(set)}).Debug("invalidated cache entries")
}

// Len reports the number of entries currently cached (TTL-expired
// entries not yet touched by Get still count until evicted).
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lru.Len()
}

// Purge empties the cache and every tracked dependency set.
func (c *Cache) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lru.Purge()
	c.deps = make(map[string]map[string]struct{})
}
