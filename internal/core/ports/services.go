package ports

import (
	"context"
	"errors"

	"github.com/samirrijal/garagehub/internal/core/domain"
)

// ErrCacheMiss is returned by CacheService.Get when the key is absent.
var ErrCacheMiss = errors.New("cache miss")

// EventPublisher publishes domain events to a message broker.
type EventPublisher interface {
	PublishCatalogUpdated(ctx context.Context, event *domain.CatalogEvent) error
}

// EventSubscriber subscribes to domain events from a message broker.
type EventSubscriber interface {
	SubscribeCatalogUpdates(ctx context.Context, handler func(ctx context.Context, event *domain.CatalogEvent) error) error
}

// CacheService provides read-through caching.
type CacheService interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttlSeconds int) error
	Delete(ctx context.Context, key string) error
}

// RoutePlanner asks an external routing service for a driving route.
type RoutePlanner interface {
	Route(ctx context.Context, from, to domain.GeoPoint) (*domain.DrivingRoute, error)
}
