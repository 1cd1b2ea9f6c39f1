// Package warehouse defines the capability boundary for fetching a live
// relation's schema from a connected data warehouse, used by pkg/drift to
// compare declared schemas against what actually exists. Implementations
// read information_schema-style metadata only; they never touch row data.
package warehouse

import (
	"context"
	"strconv"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/dgraph-io/ristretto/v2"

	"github.com/leapstack-labs/dbtlens/pkg/schema"
)

// SchemaFetcher is the single-method boundary every warehouse connector
// implements. A connector must do nothing but describe columns: no row
// reads, no writes, no DDL.
type SchemaFetcher interface {
	FetchSchema(ctx context.Context, database, schemaName, relation string) (schema.Schema, error)
}

// CacheConfig configures the TTL in front of a SchemaFetcher.
type CacheConfig struct {
	MaxCost int64
	TTL     time.Duration
}

// DefaultCacheConfig mirrors a single mid-size run: a few hundred relations
// described, cached for the lifetime of one invocation.
var DefaultCacheConfig = CacheConfig{MaxCost: 1 << 20, TTL: 5 * time.Minute}

// Cache wraps a SchemaFetcher with a Ristretto-backed TTL cache, keyed by
// the fully-qualified relation name, so that a single analysis run never
// asks the warehouse for the same relation's schema twice.
type Cache struct {
	fetcher SchemaFetcher
	ttl     time.Duration
	store   *ristretto.Cache[string, schema.Schema]
}

// NewCache builds a caching wrapper around fetcher.
func NewCache(fetcher SchemaFetcher, cfg CacheConfig) (*Cache, error) {
	store, err := ristretto.NewCache(&ristretto.Config[string, schema.Schema]{
		NumCounters: cfg.MaxCost * 10,
		MaxCost:     cfg.MaxCost,
		BufferItems: 64,
	})
	if err != nil {
		return nil, err
	}
	return &Cache{fetcher: fetcher, ttl: cfg.TTL, store: store}, nil
}

// FetchSchema implements SchemaFetcher, serving from cache when possible.
func (c *Cache) FetchSchema(ctx context.Context, database, schemaName, relation string) (schema.Schema, error) {
	key := cacheKey(database, schemaName, relation)
	if cached, ok := c.store.Get(key); ok {
		return cached, nil
	}

	s, err := c.fetcher.FetchSchema(ctx, database, schemaName, relation)
	if err != nil {
		return nil, err
	}
	c.store.SetWithTTL(key, s, 1, c.ttl)
	c.store.Wait()
	return s, nil
}

// Close releases the cache's background resources.
func (c *Cache) Close() {
	c.store.Close()
}

func cacheKey(database, schemaName, relation string) string {
	h := xxhash.New()
	_, _ = h.WriteString(database)
	_, _ = h.WriteString("\x00")
	_, _ = h.WriteString(schemaName)
	_, _ = h.WriteString("\x00")
	_, _ = h.WriteString(relation)
	return strconv.FormatUint(h.Sum64(), 16)
}
