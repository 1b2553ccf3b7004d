// Package query memoizes catalog requests per key and exposes each key as a
// pending / success / error result.
package query

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const DefaultStaleTime = 60 * time.Second

// Shared is an optional second tier consulted on a local miss before the
// fetch function runs.
type Shared interface {
	Get(ctx context.Context, key Key) ([]byte, bool, error)
	Set(ctx context.Context, key Key, value []byte, ttl time.Duration) error
}

type Options struct {
	StaleTime time.Duration
	Shared    Shared
	Log       *zap.Logger
	Registry  prometheus.Registerer
}

type entry struct {
	status    Status
	data      any
	err       error
	updatedAt time.Time
}

type Cache struct {
	staleTime time.Duration
	shared    Shared
	log       *zap.Logger
	lookups   *prometheus.CounterVec

	mu      sync.Mutex
	entries map[Key]*entry
	group   singleflight.Group

	now func() time.Time
}

// New builds a cache. A non-positive StaleTime uses DefaultStaleTime.
func New(opts Options) *Cache {
	if opts.StaleTime <= 0 {
		opts.StaleTime = DefaultStaleTime
	}
	c := &Cache{
		staleTime: opts.StaleTime,
		shared:    opts.Shared,
		log:       opts.Log,
		entries:   make(map[Key]*entry),
		now:       time.Now,
		lookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "query_cache_lookups_total",
			Help: "Catalog query cache lookups by outcome",
		}, []string{"outcome"}),
	}
	if c.log == nil {
		c.log = zap.NewNop()
	}
	if opts.Registry != nil {
		opts.Registry.MustRegister(c.lookups)
	}
	return c
}

// Fetch returns the cached result for key while it is fresh, otherwise runs
// fn once for all concurrent callers of that key. Errors are never cached as
// fresh: the next Fetch of a failed key calls fn again.
//
// fn runs detached from the cancellation of the caller that started it, so
// one caller going away does not fail the others. Each caller still stops
// waiting when its own ctx is done.
func Fetch[T any](ctx context.Context, c *Cache, key Key, fn func(context.Context) (T, error)) Result[T] {
	if res, ok := cachedResult[T](c, key); ok {
		c.lookups.WithLabelValues("hit").Inc()
		return res
	}

	flightCtx := context.WithoutCancel(ctx)
	ch := c.group.DoChan(string(key), func() (any, error) {
		// a flight that finished just before this one started may have
		// settled the key already
		if e, ok := c.fresh(key); ok {
			if _, typed := e.data.(T); typed {
				return e, nil
			}
		}

		c.markPending(key)

		if data, ok := sharedGet[T](flightCtx, c, key); ok {
			c.lookups.WithLabelValues("shared_hit").Inc()
			return c.settle(key, data, nil), nil
		}

		c.lookups.WithLabelValues("miss").Inc()
		data, err := fn(flightCtx)
		if err == nil {
			sharedSet(flightCtx, c, key, data)
		}
		return c.settle(key, data, err), nil
	})

	select {
	case r := <-ch:
		return toResult[T](r.Val.(entry))
	case <-ctx.Done():
		return Result[T]{Status: StatusError, Err: ctx.Err()}
	}
}

// Peek reports the current state of key without fetching. The second return
// is false for a key that was never requested.
func Peek[T any](c *Cache, key Key) (Result[T], bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return Result[T]{}, false
	}
	return toResult[T](*e), true
}

func (c *Cache) Invalidate(key Key) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
}

func (c *Cache) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[Key]*entry)
}

func cachedResult[T any](c *Cache, key Key) (Result[T], bool) {
	e, ok := c.fresh(key)
	if !ok {
		return Result[T]{}, false
	}
	if _, typed := e.data.(T); !typed {
		return Result[T]{}, false
	}
	return toResult[T](e), true
}

// fresh returns a copy of key's entry when it holds data younger than the
// stale time.
func (c *Cache) fresh(key Key) (entry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok || e.status != StatusSuccess {
		return entry{}, false
	}
	if c.now().Sub(e.updatedAt) >= c.staleTime {
		return entry{}, false
	}
	return *e, true
}

func (c *Cache) markPending(key Key) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		e = &entry{}
		c.entries[key] = e
	}
	e.status = StatusPending
	e.err = nil
}

func (c *Cache) settle(key Key, data any, err error) entry {
	c.mu.Lock()
	defer c.mu.Unlock()

	e := &entry{updatedAt: c.now()}
	if err != nil {
		e.status = StatusError
		e.err = err
	} else {
		e.status = StatusSuccess
		e.data = data
	}
	c.entries[key] = e
	return *e
}

func toResult[T any](e entry) Result[T] {
	res := Result[T]{Status: e.status, Err: e.err, UpdatedAt: e.updatedAt}
	if e.status == StatusSuccess {
		if data, ok := e.data.(T); ok {
			res.Data = data
		}
	}
	return res
}

func sharedGet[T any](ctx context.Context, c *Cache, key Key) (T, bool) {
	var zero T
	if c.shared == nil {
		return zero, false
	}

	raw, ok, err := c.shared.Get(ctx, key)
	if err != nil {
		c.log.Warn("shared cache get failed", zap.String("key", string(key)), zap.Error(err))
		return zero, false
	}
	if !ok {
		return zero, false
	}

	var data T
	if err := json.Unmarshal(raw, &data); err != nil {
		c.log.Warn("shared cache entry undecodable", zap.String("key", string(key)), zap.Error(err))
		return zero, false
	}
	return data, true
}

func sharedSet[T any](ctx context.Context, c *Cache, key Key, data T) {
	if c.shared == nil {
		return
	}

	raw, err := json.Marshal(data)
	if err != nil {
		c.log.Warn("shared cache encode failed", zap.String("key", string(key)), zap.Error(err))
		return
	}
	if err := c.shared.Set(ctx, key, raw, c.staleTime); err != nil {
		c.log.Warn("shared cache set failed", zap.String("key", string(key)), zap.Error(err))
	}
}
