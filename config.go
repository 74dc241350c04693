package sparql

import (
	"time"

	"github.com/sirupsen/logrus"

	"github.com/kbvault/sparql/expression/aggregation"
	"github.com/kbvault/sparql/expression/function"
	"github.com/kbvault/sparql/resultcache"
	"github.com/kbvault/sparql/rowexec"
)

// DefaultCacheSize is the number of distinct query results New keeps
// cached absent an explicit Config.CacheSize.
const DefaultCacheSize = 256

// Config configures a new Engine. A zero Config is valid: every field
// falls back to the same default New(st, nil) uses.
type Config struct {
	// Functions overrides the builtin FILTER/EXTEND function registry;
	// nil uses function.Default().
	Functions *function.Registry
	// Aggregates overrides the GROUP BY aggregate registry; nil uses
	// aggregation.Default().
	Aggregates *aggregation.Registry
	// Service handles SERVICE <endpoint> { ... } clauses; nil rejects
	// every SERVICE clause with UnsupportedFeature (SILENT clauses
	// degrade to an empty result instead of failing the query).
	Service rowexec.ServiceAdapter

	// CacheSize bounds the number of distinct query results held in the
	// result cache; 0 uses DefaultCacheSize. Negative disables caching.
	CacheSize int
	// CacheTTL overrides resultcache.DefaultTTL.
	CacheTTL time.Duration
	// InvalidationThrottle overrides resultcache.DefaultThrottle, the
	// debounce window the incremental indexer waits for a burst of file
	// changes to settle before invalidating dependent cache entries.
	InvalidationThrottle time.Duration

	// Logger overrides the logrus logger the engine and the result
	// cache derive their entries from; nil uses logrus.StandardLogger().
	// The indexer and the watcher always log through
	// logrus.StandardLogger().
	Logger *logrus.Logger
}

func (c *Config) logger() *logrus.Logger {
	if c == nil || c.Logger == nil {
		return logrus.StandardLogger()
	}
	return c.Logger
}

func (c *Config) cacheSize() int {
	if c == nil {
		return DefaultCacheSize
	}
	if c.CacheSize == 0 {
		return DefaultCacheSize
	}
	return c.CacheSize
}

func (c *Config) cacheOptions() []resultcache.Option {
	var opts []resultcache.Option
	if c != nil && c.CacheTTL > 0 {
		opts = append(opts, resultcache.WithTTL(c.CacheTTL))
	}
	opts = append(opts, resultcache.WithLogger(c.logger()))
	return opts
}

func (c *Config) throttle() time.Duration {
	if c == nil || c.InvalidationThrottle <= 0 {
		return resultcache.DefaultThrottle
	}
	return c.InvalidationThrottle
}

func (c *Config) functions() *function.Registry {
	if c == nil || c.Functions == nil {
		return function.Default()
	}
	return c.Functions
}

func (c *Config) aggregates() *aggregation.Registry {
	if c == nil || c.Aggregates == nil {
		return aggregation.Default()
	}
	return c.Aggregates
}

func (c *Config) service() rowexec.ServiceAdapter {
	if c == nil {
		return nil
	}
	return c.Service
}
