package ports

import (
	"context"

	"github.com/samirrijal/garagehub/internal/core/domain"
)

// GarageFilter narrows a garage listing. Zero values mean "no constraint".
type GarageFilter struct {
	ServiceID string
	// Bounds pre-filters by stored coordinates; garages without coordinates
	// are excluded when Bounds is set.
	Bounds *domain.Bounds
}

// GarageRepository persists garages. Listings are ordered by creation time,
// then id, so ties keep a stable order.
type GarageRepository interface {
	List(ctx context.Context, filter GarageFilter) ([]domain.Garage, error)
	GetByID(ctx context.Context, id string) (*domain.Garage, error)
	UpsertBatch(ctx context.Context, garages []domain.Garage, serviceIDs map[string][]string) error
}

// ServiceRepository persists the service catalogue.
type ServiceRepository interface {
	List(ctx context.Context) ([]domain.Service, error)
	GetByID(ctx context.Context, id string) (*domain.Service, error)
	UpsertBatch(ctx context.Context, services []domain.Service) error
}
