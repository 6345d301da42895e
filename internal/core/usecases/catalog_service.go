package usecases

import (
	"context"

	"github.com/samirrijal/garagehub/internal/core/domain"
	"github.com/samirrijal/garagehub/internal/core/ports"
)

// CatalogService serves the service catalogue.
type CatalogService struct {
	services ports.ServiceRepository
	cache    *CatalogCache
}

// NewCatalogService creates a new CatalogService. cache may be nil.
func NewCatalogService(services ports.ServiceRepository, cache *CatalogCache) *CatalogService {
	return &CatalogService{services: services, cache: cache}
}

// List returns all services ordered by name.
func (s *CatalogService) List(ctx context.Context) ([]domain.Service, error) {
	services, err := readThrough(ctx, s.cache, "services_all", s.services.List, "services", "all")
	if err != nil {
		return nil, err
	}
	if services == nil {
		services = []domain.Service{}
	}
	return services, nil
}

// GetByID returns a single service.
func (s *CatalogService) GetByID(ctx context.Context, id string) (*domain.Service, error) {
	if err := validateID(id, "service"); err != nil {
		return nil, err
	}
	return readThrough(ctx, s.cache, "service_by_id", func(ctx context.Context) (*domain.Service, error) {
		return s.services.GetByID(ctx, id)
	}, "services", "id", id)
}
