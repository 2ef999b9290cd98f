// Package cache memoizes the results of slow lookups for a bounded time.
//
// Concurrent misses for the same key share a single load through
// singleflight, so a burst of renders issues one upstream request.
// Failed loads are never stored.
package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// LoadFunc produces the value for a key on a cache miss.
type LoadFunc[K comparable, V any] func(ctx context.Context, key K) (V, error)

type entry[V any] struct {
	value   V
	expires time.Time
}

// TTL is a read-through cache with a fixed staleness window.
type TTL[K comparable, V any] struct {
	ttl   time.Duration
	load  LoadFunc[K, V]
	now   func() time.Time
	group singleflight.Group

	mu      sync.Mutex
	entries map[K]entry[V]
}

// Option configures a TTL cache.
type Option func(*options)

type options struct {
	now func() time.Time
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// New creates a cache whose entries stay fresh for ttl.
// Panics if ttl <= 0 or load is nil (programmer error).
func New[K comparable, V any](ttl time.Duration, load LoadFunc[K, V], opts ...Option) *TTL[K, V] {
	if ttl <= 0 {
		panic("cache: ttl must be positive")
	}
	if load == nil {
		panic("cache: nil load function")
	}
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return &TTL[K, V]{
		ttl:     ttl,
		load:    load,
		now:     o.now,
		entries: make(map[K]entry[V]),
	}
}

// Get returns the cached value for key, loading it when absent or stale.
//
// The shared load runs detached from any one caller's cancellation, so a
// caller that gives up never fails the others waiting on the same key.
// Each caller still returns as soon as its own ctx is done. Loaders must
// bound their own duration (the upstream clients carry timeouts).
func (c *TTL[K, V]) Get(ctx context.Context, key K) (V, error) {
	var zero V
	if v, ok := c.fresh(key); ok {
		return v, nil
	}

	loadCtx := context.WithoutCancel(ctx)
	ch := c.group.DoChan(fmt.Sprint(key), func() (any, error) {
		// Another caller may have filled the entry while we waited.
		if v, ok := c.fresh(key); ok {
			return v, nil
		}
		v, err := c.load(loadCtx, key)
		if err != nil {
			return v, err
		}
		c.mu.Lock()
		c.entries[key] = entry[V]{value: v, expires: c.now().Add(c.ttl)}
		c.mu.Unlock()
		return v, nil
	})

	select {
	case <-ctx.Done():
		return zero, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return zero, res.Err
		}
		return res.Val.(V), nil
	}
}

func (c *TTL[K, V]) fresh(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok || !c.now().Before(e.expires) {
		var zero V
		return zero, false
	}
	return e.value, true
}

// Invalidate drops key so the next Get reloads it.
func (c *TTL[K, V]) Invalidate(key K) {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
}

// Purge removes expired entries and returns how many were dropped.
func (c *TTL[K, V]) Purge() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	n := 0
	for k, e := range c.entries {
		if !now.Before(e.expires) {
			delete(c.entries, k)
			n++
		}
	}
	return n
}

// Len returns the number of stored entries, fresh or not.
func (c *TTL[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
