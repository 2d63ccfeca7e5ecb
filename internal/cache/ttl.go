package cache

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

type entry[V any] struct {
	value     V
	expiresAt time.Time
}

// TTL is a bounded, concurrency-safe cache whose entries expire after a
// fixed lifetime. A zero lifetime disables storage; GetOrLoad then always
// calls the loader.
type TTL[V any] struct {
	mu         sync.Mutex
	ttl        time.Duration
	maxEntries int
	entries    map[string]entry[V]
	group      singleflight.Group
	now        func() time.Time
}

// Option configures a TTL cache.
type Option func(*options)

type options struct {
	now func() time.Time
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

// New constructs a cache holding at most maxEntries values for ttl each.
func New[V any](ttl time.Duration, maxEntries int, opts ...Option) *TTL[V] {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	if maxEntries <= 0 {
		maxEntries = 1
	}
	return &TTL[V]{
		ttl:        ttl,
		maxEntries: maxEntries,
		entries:    make(map[string]entry[V]),
		now:        o.now,
	}
}

// Enabled reports whether the cache stores anything.
func (c *TTL[V]) Enabled() bool {
	return c != nil && c.ttl > 0
}

// Get returns a live entry for key.
func (c *TTL[V]) Get(key string) (V, bool) {
	var zero V
	if !c.Enabled() {
		return zero, false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok {
		return zero, false
	}
	if !c.now().Before(e.expiresAt) {
		delete(c.entries, key)
		return zero, false
	}
	return e.value, true
}

// Set stores value under key, evicting if the cache is full.
func (c *TTL[V]) Set(key string, value V) {
	if !c.Enabled() {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now()
	if _, exists := c.entries[key]; !exists && len(c.entries) >= c.maxEntries {
		c.evictLocked(now)
	}
	c.entries[key] = entry[V]{value: value, expiresAt: now.Add(c.ttl)}
}

// Delete removes key.
func (c *TTL[V]) Delete(key string) {
	if c == nil {
		return
	}
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
}

// Len returns the number of stored entries, including expired ones not yet swept.
func (c *TTL[V]) Len() int {
	if c == nil {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Loader produces a value for a missing key. ok=false marks the value as
// not cacheable; it is still returned to every waiting caller.
type Loader[V any] func(ctx context.Context) (value V, ok bool)

type loadResult[V any] struct {
	value V
	ok    bool
}

// GetOrLoad returns the cached value for key or runs load once for all
// concurrent callers asking for the same key. The shared load is detached
// from any single caller's cancellation; a caller whose ctx ends stops
// waiting and receives the zero value.
func (c *TTL[V]) GetOrLoad(ctx context.Context, key string, load Loader[V]) V {
	if value, ok := c.Get(key); ok {
		return value
	}
	if !c.Enabled() {
		value, _ := load(ctx)
		return value
	}

	loadCtx := context.WithoutCancel(ctx)
	ch := c.group.DoChan(key, func() (any, error) {
		value, ok := load(loadCtx)
		if ok {
			c.Set(key, value)
		}
		return loadResult[V]{value: value, ok: ok}, nil
	})

	select {
	case res := <-ch:
		return res.Val.(loadResult[V]).value
	case <-ctx.Done():
		var zero V
		return zero
	}
}

func (c *TTL[V]) evictLocked(now time.Time) {
	for key, e := range c.entries {
		if !now.Before(e.expiresAt) {
			delete(c.entries, key)
		}
	}
	if len(c.entries) < c.maxEntries {
		return
	}
	var (
		oldestKey string
		oldestAt  time.Time
		found     bool
	)
	for key, e := range c.entries {
		if !found || e.expiresAt.Before(oldestAt) {
			oldestKey, oldestAt, found = key, e.expiresAt, true
		}
	}
	if found {
		delete(c.entries, oldestKey)
	}
}
