package dataset

import (
	"context"
	"sync"
	"time"

	"data-integrity/core/record"

	"golang.org/x/sync/singleflight"
)

// cacheEntry holds a fetched dataset.
type cacheEntry struct {
	// Items is the fetched dataset.
	Items []record.Value

	// Built is the timestamp when this entry was fetched.
	Built time.Time
}

// CachedStore keeps fetched datasets in memory for a TTL.
// Writes through the store invalidate the affected entry.
type CachedStore struct {
	Store

	ttl time.Duration
	now func() time.Time

	mu      sync.RWMutex
	entries map[string]*cacheEntry
	sf      singleflight.Group
}

// NewCachedStore wraps store with a fetch cache. A zero TTL disables caching.
func NewCachedStore(store Store, ttl time.Duration) *CachedStore {
	return &CachedStore{
		Store:   store,
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]*cacheEntry),
	}
}

func (c *CachedStore) expired(e *cacheEntry) bool {
	if c.ttl <= 0 {
		return true
	}
	return c.now().Sub(e.Built) > c.ttl
}

func (c *CachedStore) lookup(id string) ([]record.Value, bool) {
	c.mu.RLock()
	e, ok := c.entries[id]
	c.mu.RUnlock()
	if !ok || c.expired(e) {
		return nil, false
	}
	return e.Items, true
}

// Fetch returns the cached dataset or fetches it from the wrapped store.
// Concurrent fetches of the same id share one underlying call.
func (c *CachedStore) Fetch(ctx context.Context, id string) ([]record.Value, error) {
	// Fast path: fresh entry
	if items, ok := c.lookup(id); ok {
		return clone(items), nil
	}

	// Slow path: fetch using singleflight to prevent stampedes.
	// The shared fetch outlives any single caller giving up.
	ch := c.sf.DoChan(id, func() (interface{}, error) {
		// Double-check after acquiring singleflight lock
		if items, ok := c.lookup(id); ok {
			return items, nil
		}

		items, err := c.Store.Fetch(context.WithoutCancel(ctx), id)
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		c.entries[id] = &cacheEntry{Items: items, Built: c.now()}
		c.mu.Unlock()

		return items, nil
	})

	var result singleflight.Result
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case result = <-ch:
	}
	if result.Err != nil {
		return nil, result.Err
	}

	return clone(result.Val.([]record.Value)), nil
}

// Replace writes through and invalidates the entry.
func (c *CachedStore) Replace(ctx context.Context, id string, items []record.Value) error {
	defer c.Invalidate(id)
	return c.Store.Replace(ctx, id, items)
}

// Append writes through and invalidates the entry.
func (c *CachedStore) Append(ctx context.Context, id string, items []record.Value) error {
	defer c.Invalidate(id)
	return c.Store.Append(ctx, id, items)
}

// Delete writes through and invalidates the entry.
func (c *CachedStore) Delete(ctx context.Context, id string) error {
	defer c.Invalidate(id)
	return c.Store.Delete(ctx, id)
}

// Invalidate drops the cached entry for id.
func (c *CachedStore) Invalidate(id string) {
	c.mu.Lock()
	delete(c.entries, id)
	c.mu.Unlock()
}

func clone(items []record.Value) []record.Value {
	out := make([]record.Value, len(items))
	copy(out, items)
	return out
}
