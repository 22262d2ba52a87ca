// Package cache implements the keyed stale-while-revalidate cache that
// sits in front of progress aggregation.
//
// Per key the state machine is Empty -> Loading -> Ready. A first-load
// computation is shared by all concurrent callers for the key. Once Ready,
// callers get the cached value immediately; if it has gone stale a single
// background recompute is started and, on success, one-shot subscribers
// for the key are notified with the fresh value. A failed recompute leaves
// the previous value in place.
package cache

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"willena/internal/logger"
	"willena/internal/progress"
)

// DefaultFreshFor is how long a computed aggregate is served without
// triggering a background refresh.
const DefaultFreshFor = 60 * time.Second

// ComputeFunc produces a fresh aggregate for a key.
type ComputeFunc func(ctx context.Context) (*progress.Result, error)

type entry struct {
	value      *progress.Result
	computedAt time.Time
}

type subscription struct {
	fn func(*progress.Result)
}

// Cache is safe for concurrent use. Entries live for the process
// lifetime; staleness, not eviction, bounds their age.
type Cache struct {
	freshFor time.Duration
	now      func() time.Time
	log      *logger.Logger

	flight singleflight.Group

	mu         sync.Mutex
	entries    map[string]*entry
	subs       map[string][]*subscription
	refreshing map[string]bool

	bg sync.WaitGroup
}

// Option configures a Cache.
type Option func(*Cache)

// WithFreshFor overrides the freshness window.
func WithFreshFor(d time.Duration) Option {
	return func(c *Cache) { c.freshFor = d }
}

// WithClock injects a clock for deterministic tests.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) { c.now = now }
}

func New(log *logger.Logger, opts ...Option) *Cache {
	c := &Cache{
		freshFor:   DefaultFreshFor,
		now:        time.Now,
		log:        log,
		entries:    make(map[string]*entry),
		subs:       make(map[string][]*subscription),
		refreshing: make(map[string]bool),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// GetOrRefresh returns the aggregate for key. The second result reports
// whether it came from cache.
//
// Ready and fresh: the cached value, immediately. Ready but stale: still
// the cached value, with one background recompute kicked off. Empty: the
// computation runs synchronously (shared across concurrent callers) and
// its error, if any, is returned to every waiter; no entry is written, so
// the key stays in its explicit not-ready state until a load succeeds.
func (c *Cache) GetOrRefresh(ctx context.Context, key string, compute ComputeFunc) (*progress.Result, bool, error) {
	c.mu.Lock()
	if e, ok := c.entries[key]; ok {
		value := e.value
		stale := c.now().Sub(e.computedAt) >= c.freshFor
		if stale && !c.refreshing[key] {
			c.refreshing[key] = true
			c.bg.Add(1)
			go c.refresh(key, compute)
		}
		c.mu.Unlock()
		if stale {
			hitTotal.WithLabelValues("stale").Inc()
		} else {
			hitTotal.WithLabelValues("fresh").Inc()
		}
		return value, true, nil
	}
	c.mu.Unlock()
	missTotal.Inc()

	// First load. Detached from the individual caller's context so that
	// one waiter navigating away does not fail the rest.
	result, err, _ := c.flight.Do(key, func() (any, error) {
		value, err := compute(context.WithoutCancel(ctx))
		if err != nil {
			return nil, err
		}
		c.store(key, value)
		return value, nil
	})
	if err != nil {
		return nil, false, err
	}
	return result.(*progress.Result), false, nil
}

// Subscribe registers a one-shot observer for key: it fires at most once,
// after the next successful background refresh, then drops off. The
// returned function unsubscribes early.
func (c *Cache) Subscribe(key string, fn func(*progress.Result)) (unsubscribe func()) {
	sub := &subscription{fn: fn}
	c.mu.Lock()
	c.subs[key] = append(c.subs[key], sub)
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		list := c.subs[key]
		for i, s := range list {
			if s == sub {
				c.subs[key] = append(list[:i], list[i+1:]...)
				return
			}
		}
	}
}

// Flush waits for in-flight background refreshes. Called on shutdown and
// by tests.
func (c *Cache) Flush() {
	c.bg.Wait()
}

func (c *Cache) refresh(key string, compute ComputeFunc) {
	defer c.bg.Done()

	value, err := compute(context.Background())

	c.mu.Lock()
	delete(c.refreshing, key)
	if err != nil {
		c.mu.Unlock()
		refreshTotal.WithLabelValues("failed").Inc()
		c.log.Warn("progress cache refresh failed, keeping previous value", "key", key, "error", err)
		return
	}
	c.entries[key] = &entry{value: value, computedAt: c.now()}
	subs := c.subs[key]
	delete(c.subs, key)
	c.mu.Unlock()

	refreshTotal.WithLabelValues("ok").Inc()
	for _, sub := range subs {
		sub.fn(value)
	}
}

func (c *Cache) store(key string, value *progress.Result) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = &entry{value: value, computedAt: c.now()}
}
