package geo

import (
	"context"
	"time"

	"github.com/dgraph-io/ristretto"
	"github.com/serroba/linkstats/internal/shortener"
)

// DefaultCacheTTL is how long an answer, including a miss, is remembered.
const DefaultCacheTTL = time.Hour

// Cached memoizes lookups per address in a ristretto cache.
type Cached struct {
	next  shortener.Locator
	cache *ristretto.Cache
	ttl   time.Duration
}

// NewCached wraps next with a cache holding up to size addresses.
func NewCached(next shortener.Locator, size int64, ttl time.Duration) (*Cached, error) {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}

	cache, err := ristretto.NewCache(&ristretto.Config{
		NumCounters:        size * 10,
		MaxCost:            size,
		BufferItems:        64,
		IgnoreInternalCost: true,
	})
	if err != nil {
		return nil, err
	}

	return &Cached{next: next, cache: cache, ttl: ttl}, nil
}

func (c *Cached) Lookup(ctx context.Context, addr string) (*shortener.Location, bool) {
	if v, found := c.cache.Get(addr); found {
		if res, ok := v.(lookupResult); ok {
			return copyLocation(res.loc), res.ok
		}
	}

	loc, ok := c.next.Lookup(ctx, addr)

	// A lookup cut short by the caller is not a real miss.
	if ctx.Err() == nil {
		c.cache.SetWithTTL(addr, lookupResult{loc: copyLocation(loc), ok: ok}, 1, c.ttl)
	}

	return loc, ok
}

// Wait blocks until pending writes are visible to Lookup.
func (c *Cached) Wait() {
	c.cache.Wait()
}

// Shutdown releases the cache's background goroutines.
func (c *Cached) Shutdown() error {
	c.cache.Close()

	return nil
}

func copyLocation(loc *shortener.Location) *shortener.Location {
	if loc == nil {
		return nil
	}

	owned := *loc

	return &owned
}
