// Package cache provides a keyed read-through cache that coalesces
// concurrent fetches for the same key.
package cache

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/singleflight"
)

// Cache holds one value per key. Concurrent misses on a key share a single
// fetch. Invalidating a key bumps its generation, so a fetch that started
// before the invalidation never stores its result.
type Cache[K comparable, V any] struct {
	mu      sync.RWMutex
	entries map[K]V
	gens    map[K]uint64
	epoch   uint64

	group singleflight.Group
}

// New creates an empty cache
func New[K comparable, V any]() *Cache[K, V] {
	return &Cache[K, V]{
		entries: make(map[K]V),
		gens:    make(map[K]uint64),
	}
}

// Get returns the cached value for key
func (c *Cache[K, V]) Get(key K) (V, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.entries[key]
	return v, ok
}

// Set stores v under key unconditionally
func (c *Cache[K, V]) Set(key K, v V) {
	c.mu.Lock()
	c.entries[key] = v
	c.mu.Unlock()
}

// GetOrCompute returns the cached value or runs fetch to fill it. Callers
// that miss while a fetch for the same key and generation is running wait
// for that fetch instead of starting their own. fetch runs on a context
// detached from the caller's cancellation; ctx only bounds the wait.
func (c *Cache[K, V]) GetOrCompute(ctx context.Context, key K, fetch func(ctx context.Context) (V, error)) (V, error) {
	if v, ok := c.Get(key); ok {
		return v, nil
	}

	stamp := c.stamp(key)
	fetchCtx := context.WithoutCancel(ctx)
	ch := c.group.DoChan(c.flightKey(key, stamp), func() (any, error) {
		v, err := fetch(fetchCtx)
		if err != nil {
			return v, err
		}
		c.storeIfCurrent(key, v, stamp)
		return v, nil
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			var zero V
			return zero, res.Err
		}
		return res.Val.(V), nil
	case <-ctx.Done():
		var zero V
		return zero, ctx.Err()
	}
}

// Invalidate drops key and orphans any fetch in flight for it
func (c *Cache[K, V]) Invalidate(key K) {
	c.mu.Lock()
	delete(c.entries, key)
	c.gens[key]++
	c.mu.Unlock()
}

// InvalidateAll drops every key and orphans every fetch in flight
func (c *Cache[K, V]) InvalidateAll() {
	c.mu.Lock()
	c.entries = make(map[K]V)
	c.epoch++
	c.mu.Unlock()
}

// Len returns the number of cached keys
func (c *Cache[K, V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

type stamp struct {
	epoch uint64
	gen   uint64
}

func (c *Cache[K, V]) stamp(key K) stamp {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return stamp{epoch: c.epoch, gen: c.gens[key]}
}

func (c *Cache[K, V]) flightKey(key K, s stamp) string {
	return fmt.Sprintf("%v@%d.%d", key, s.epoch, s.gen)
}

func (c *Cache[K, V]) storeIfCurrent(key K, v V, s stamp) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.epoch != s.epoch || c.gens[key] != s.gen {
		return
	}
	c.entries[key] = v
}
