package usecases

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/samirrijal/garagehub/internal/core/domain"
	"github.com/samirrijal/garagehub/internal/core/ports"
	"github.com/samirrijal/garagehub/internal/pkg/metrics"
)

// loadTimeout bounds a shared load once it no longer follows its first caller.
const loadTimeout = 30 * time.Second

// CatalogCache is a read-through JSON cache for catalogue reads. Keys carry
// a catalogue version so an update event retires every older entry at once;
// retired entries simply expire.
type CatalogCache struct {
	store   ports.CacheService
	ttl     int
	version atomic.Int64
	flight  singleflight.Group
}

// NewCatalogCache wraps store. A nil store disables caching but still
// collapses concurrent identical loads.
func NewCatalogCache(store ports.CacheService, ttlSeconds int) *CatalogCache {
	if ttlSeconds <= 0 {
		ttlSeconds = 120
	}
	c := &CatalogCache{store: store, ttl: ttlSeconds}
	// Start in a namespace no other instance has written to.
	c.version.Store(time.Now().UnixNano())
	return c
}

// Version returns the current namespace.
func (c *CatalogCache) Version() int64 {
	return c.version.Load()
}

// ApplyUpdate moves to the namespace announced by event.
func (c *CatalogCache) ApplyUpdate(_ context.Context, event *domain.CatalogEvent) error {
	v := time.Now().UnixNano()
	if event != nil && event.Version > 0 {
		v = event.Version
	}
	c.version.Store(v)
	metrics.CatalogUpdates.Inc()
	slog.Info("catalog cache namespace rotated", "version", v)
	return nil
}

func (c *CatalogCache) key(parts ...string) string {
	return fmt.Sprintf("catalog:%d:%s", c.version.Load(), strings.Join(parts, ":"))
}

// readThrough returns the cached value for key or loads, stores and returns it.
// op labels the cache metrics.
func readThrough[T any](ctx context.Context, c *CatalogCache, op string, load func(context.Context) (T, error), parts ...string) (T, error) {
	if c == nil {
		return load(ctx)
	}

	key := c.key(parts...)
	if c.store != nil {
		if data, err := c.store.Get(ctx, key); err == nil {
			var v T
			if err := json.Unmarshal(data, &v); err == nil {
				metrics.CacheHits.WithLabelValues(op).Inc()
				return v, nil
			}
		}
		metrics.CacheMisses.WithLabelValues(op).Inc()
	}

	// The shared load is detached from the caller that started it, so one
	// caller giving up does not fail the others waiting on key.
	ch := c.flight.DoChan(key, func() (any, error) {
		loadCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), loadTimeout)
		defer cancel()

		v, err := load(loadCtx)
		if err != nil {
			return nil, err
		}
		if c.store != nil {
			if data, err := json.Marshal(v); err == nil {
				_ = c.store.Set(loadCtx, key, data, c.ttl)
			}
		}
		return v, nil
	})

	var zero T
	select {
	case <-ctx.Done():
		return zero, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return zero, res.Err
		}
		return res.Val.(T), nil
	}
}
