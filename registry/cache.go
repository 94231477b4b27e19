// SPDX-License-Identifier: MIT

package registry

import (
	"context"
	"sync"
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/suksuki/bazi-sub001/pattern"
	"github.com/suksuki/bazi-sub001/tensor"
)

// DefaultCacheSize bounds the number of cached patterns.
const DefaultCacheSize = 128

// CacheStats counts cache lookups.
type CacheStats struct {
	Hits   int64
	Misses int64
}

// CachedStore is a read-through LRU cache in front of a Store.
// Writes go to the backend first and then evict the id; only found
// patterns are cached. A miss fills the cache only if no eviction of that
// id (or Purge) happened while the backend was read, so a fill never
// resurrects a value older than a completed write.
type CachedStore struct {
	Store

	cache  *lru.Cache[string, pattern.Pattern]
	hits   atomic.Int64
	misses atomic.Int64

	mu    sync.Mutex // guards gens, epoch and fill/evict ordering
	gens  map[string]uint64
	epoch uint64
}

// stamp identifies the eviction state of one id.
type stamp struct{ epoch, gen uint64 }

func (c *CachedStore) stampOf(id string) stamp {
	c.mu.Lock()
	defer c.mu.Unlock()

	return stamp{c.epoch, c.gens[id]}
}

func (c *CachedStore) fill(id string, p pattern.Pattern, seen stamp) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if (stamp{c.epoch, c.gens[id]}) == seen {
		c.cache.Add(id, p)
	}
}

func (c *CachedStore) evict(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gens[id]++
	c.cache.Remove(id)
}

// NewCachedStore wraps s. size <= 0 selects DefaultCacheSize.
func NewCachedStore(s Store, size int) (*CachedStore, error) {
	if size <= 0 {
		size = DefaultCacheSize
	}
	c, err := lru.New[string, pattern.Pattern](size)
	if err != nil {
		return nil, err
	}

	return &CachedStore{Store: s, cache: c, gens: make(map[string]uint64)}, nil
}

func (c *CachedStore) GetPattern(ctx context.Context, id string) (pattern.Pattern, bool, error) {
	if p, ok := c.cache.Get(id); ok {
		c.hits.Add(1)
		return p.Clone(), true, nil
	}
	c.misses.Add(1)

	seen := c.stampOf(id)
	p, found, err := c.Store.GetPattern(ctx, id)
	if err != nil || !found {
		return p, found, err
	}
	c.fill(id, p.Clone(), seen)

	return p, true, nil
}

func (c *CachedStore) PutPattern(ctx context.Context, p pattern.Pattern) error {
	err := c.Store.PutPattern(ctx, p)
	c.evict(p.ID)

	return err
}

func (c *CachedStore) SaveFit(ctx context.Context, id string, tm tensor.TransferMatrix, m pattern.Manifold) error {
	err := c.Store.SaveFit(ctx, id, tm, m)
	c.evict(id)

	return err
}

// Purge drops every cached entry, e.g. after the backing file was reloaded.
func (c *CachedStore) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.epoch++
	c.cache.Purge()
}

// Len returns the number of cached patterns.
func (c *CachedStore) Len() int { return c.cache.Len() }

// Stats returns the hit and miss counters.
func (c *CachedStore) Stats() CacheStats {
	return CacheStats{Hits: c.hits.Load(), Misses: c.misses.Load()}
}

// Close closes the wrapped store when it supports closing.
func (c *CachedStore) Close() error { return CloseIfSupported(c.Store) }
