package query

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/sync/singleflight"

	"github.com/platinummonkey/backoffice/pkg/observability"
	"github.com/platinummonkey/backoffice/pkg/platform"
)

// ErrSessionInvalidated is returned to fetches that were overtaken by an
// auth-failure clear or a logout before they could dispatch.
var ErrSessionInvalidated = errors.New("query: session invalidated")

// FetchFunc performs the underlying network call for a key
type FetchFunc func(ctx context.Context) (interface{}, error)

// Config holds cache and failure-handling policy
type Config struct {
	// Freshness is the window during which a cached result answers without a
	// network round-trip.
	Freshness time.Duration

	// Retention is how long an entry stays usable past freshness; a stale
	// entry answers immediately while a background refresh runs. The LRU
	// evicts entries older than this.
	Retention time.Duration

	// RedirectCooldown is how long the redirect latch stays closed after an
	// authentication failure, so a storm of simultaneous 401s produces one
	// navigation instead of many.
	RedirectCooldown time.Duration

	// MaxEntries bounds the cache
	MaxEntries int

	// OnAuthFailure is the navigate-to-login hook, invoked at most once per
	// cooldown window.
	OnAuthFailure func()
}

// DefaultConfig returns the design-default policy
func DefaultConfig() Config {
	return Config{
		Freshness:        5 * time.Minute,
		Retention:        30 * time.Minute,
		RedirectCooldown: 1 * time.Second,
		MaxEntries:       1024,
	}
}

type entry struct {
	data      interface{}
	fetchedAt time.Time
}

// Client is the single choke point for outbound calls: response caching,
// in-flight deduplication, retry policy, and global auth-failure handling.
type Client struct {
	cfg     Config
	logger  *observability.Logger
	metrics *observability.Metrics

	flights singleflight.Group

	// mu guards cache, inflight, generation, and redirecting as one unit so
	// the auth-failure clear is atomic with respect to new dispatches.
	mu          sync.Mutex
	cache       *lru.LRU[string, *entry]
	inflight    map[string]context.CancelFunc
	generation  uint64
	redirecting bool
}

// NewClient creates a query client with the given policy
func NewClient(cfg Config, logger *observability.Logger, metrics *observability.Metrics) *Client {
	if cfg.Freshness == 0 {
		cfg.Freshness = DefaultConfig().Freshness
	}
	if cfg.Retention == 0 {
		cfg.Retention = DefaultConfig().Retention
	}
	if cfg.RedirectCooldown == 0 {
		cfg.RedirectCooldown = DefaultConfig().RedirectCooldown
	}
	if cfg.MaxEntries == 0 {
		cfg.MaxEntries = DefaultConfig().MaxEntries
	}

	return &Client{
		cfg:      cfg,
		logger:   logger,
		metrics:  metrics,
		cache:    lru.NewLRU[string, *entry](cfg.MaxEntries, nil, cfg.Retention),
		inflight: make(map[string]context.CancelFunc),
	}
}

// Fetch resolves key through the cache. Concurrent fetches for an equal key
// share one network call. Fresh entries answer directly; stale ones answer
// immediately and refresh in the background; misses dispatch.
func (c *Client) Fetch(ctx context.Context, key Key, fn FetchFunc) (interface{}, error) {
	k := key.String()

	c.mu.Lock()
	gen := c.generation
	if e, ok := c.cache.Get(k); ok {
		age := time.Since(e.fetchedAt)
		data := e.data
		c.mu.Unlock()

		if age < c.cfg.Freshness {
			c.recordHit(key.Group())
			return data, nil
		}

		c.recordStale(key.Group())
		go c.backgroundRefresh(key, gen, fn)
		return data, nil
	}
	c.mu.Unlock()

	c.recordMiss(key.Group())
	return c.await(ctx, key, gen, fn)
}

// await joins or starts the shared flight for key, honoring the caller's
// context. A caller whose context ends leaves the flight running; its late
// result is handled by the generation check in dispatch.
func (c *Client) await(ctx context.Context, key Key, gen uint64, fn FetchFunc) (interface{}, error) {
	ch := c.flights.DoChan(key.String(), func() (interface{}, error) {
		return c.dispatch(key, gen, fn)
	})

	select {
	case res := <-ch:
		if res.Shared {
			c.recordDedup(key.Group())
		}
		return res.Val, res.Err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// dispatch runs the network call for key in generation gen. The call's context
// is registered so an auth-failure clear can cancel it; its result is stored
// only if the generation is unchanged when it completes.
func (c *Client) dispatch(key Key, gen uint64, fn FetchFunc) (interface{}, error) {
	fctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	k := key.String()

	c.mu.Lock()
	if c.generation != gen {
		c.mu.Unlock()
		return nil, ErrSessionInvalidated
	}
	c.inflight[k] = cancel
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		delete(c.inflight, k)
		c.mu.Unlock()
	}()

	data, err := fn(fctx)
	if err != nil && platform.IsTransient(err) && fctx.Err() == nil {
		// Transient failures retry exactly once; auth failures never do.
		data, err = fn(fctx)
	}
	if err != nil {
		if platform.IsAuthFailure(err) {
			c.handleAuthFailure()
		}
		return nil, err
	}

	c.mu.Lock()
	if c.generation == gen {
		c.cache.Add(k, &entry{data: data, fetchedAt: time.Now()})
		c.updateSizeGauge()
	}
	c.mu.Unlock()

	return data, nil
}

// backgroundRefresh revalidates a stale entry without blocking the caller
func (c *Client) backgroundRefresh(key Key, gen uint64, fn FetchFunc) {
	ch := c.flights.DoChan(key.String(), func() (interface{}, error) {
		return c.dispatch(key, gen, fn)
	})
	res := <-ch
	if res.Err != nil && !errors.Is(res.Err, ErrSessionInvalidated) {
		c.logger.WithError(res.Err).WithField("key", key.String()).Debug("Background refresh failed")
	}
}

// handleAuthFailure performs the global auth-failure transition: cancel every
// in-flight call, discard every cached entry, and trigger exactly one
// navigation to login. The latch swallows the rest of a 401 storm.
func (c *Client) handleAuthFailure() {
	c.mu.Lock()
	if c.redirecting {
		c.mu.Unlock()
		return
	}
	c.redirecting = true
	cancels := c.clearLocked()
	c.mu.Unlock()

	for _, cancel := range cancels {
		cancel()
	}

	c.logger.Warn("Authentication failure: cache cleared, redirecting to login")
	if c.metrics != nil {
		c.metrics.LoginRedirectsTotal.Inc()
	}
	if c.cfg.OnAuthFailure != nil {
		c.cfg.OnAuthFailure()
	}

	time.AfterFunc(c.cfg.RedirectCooldown, func() {
		c.mu.Lock()
		c.redirecting = false
		c.mu.Unlock()
	})
}

// clearLocked bumps the generation, empties the cache, and detaches in-flight
// cancel funcs. Caller holds mu and must invoke the returned cancels after
// releasing it.
func (c *Client) clearLocked() []context.CancelFunc {
	c.generation++
	cancels := make([]context.CancelFunc, 0, len(c.inflight))
	for _, cancel := range c.inflight {
		cancels = append(cancels, cancel)
	}
	c.inflight = make(map[string]context.CancelFunc)
	c.cache.Purge()
	c.updateSizeGauge()
	return cancels
}

// Clear cancels in-flight work and discards every cached entry. Logout calls
// this synchronously so no stale response from the dead session stays visible.
func (c *Client) Clear() {
	c.mu.Lock()
	cancels := c.clearLocked()
	c.mu.Unlock()

	for _, cancel := range cancels {
		cancel()
	}
}

// Invalidate removes every cached entry belonging to the given groups
func (c *Client) Invalidate(groups ...string) {
	c.mu.Lock()
	for _, k := range c.cache.Keys() {
		group := Key(k).Group()
		for _, g := range groups {
			if group == g {
				c.cache.Remove(k)
				if c.metrics != nil {
					c.metrics.CacheInvalidations.WithLabelValues(g).Inc()
				}
				break
			}
		}
	}
	c.updateSizeGauge()
	c.mu.Unlock()
}

// Len returns the number of cached entries
func (c *Client) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cache.Len()
}

func (c *Client) updateSizeGauge() {
	if c.metrics != nil {
		c.metrics.CacheEntries.Set(float64(c.cache.Len()))
	}
}

func (c *Client) recordHit(group string) {
	if c.metrics != nil {
		c.metrics.CacheHitsTotal.WithLabelValues(group).Inc()
	}
}

func (c *Client) recordMiss(group string) {
	if c.metrics != nil {
		c.metrics.CacheMissesTotal.WithLabelValues(group).Inc()
	}
}

func (c *Client) recordStale(group string) {
	if c.metrics != nil {
		c.metrics.CacheStaleTotal.WithLabelValues(group).Inc()
	}
}

func (c *Client) recordDedup(group string) {
	if c.metrics != nil {
		c.metrics.CacheDedupsTotal.WithLabelValues(group).Inc()
	}
}

// FetchAs is the typed convenience wrapper over Client.Fetch
func FetchAs[T any](ctx context.Context, c *Client, key Key, fn func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	v, err := c.Fetch(ctx, key, func(ctx context.Context) (interface{}, error) {
		return fn(ctx)
	})
	if err != nil {
		return zero, err
	}
	typed, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("query: cached value for %q is %T, not %T", key, v, zero)
	}
	return typed, nil
}
