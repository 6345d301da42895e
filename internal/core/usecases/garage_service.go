package usecases

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"

	"github.com/samirrijal/garagehub/internal/core/domain"
	"github.com/samirrijal/garagehub/internal/core/ports"
	"github.com/samirrijal/garagehub/internal/core/proximity"
	"github.com/samirrijal/garagehub/internal/pkg/geospatial"
	"github.com/samirrijal/garagehub/internal/pkg/metrics"
	"github.com/samirrijal/garagehub/internal/pkg/telemetry"
)

// NearQuery is a radius search, optionally restricted to garages offering ServiceID.
type NearQuery struct {
	Center    domain.GeoPoint
	RadiusKm  float64
	ServiceID string
}

// GarageService handles garage discovery.
type GarageService struct {
	garages  ports.GarageRepository
	services ports.ServiceRepository
	cache    *CatalogCache
}

// NewGarageService creates a new GarageService. cache may be nil.
func NewGarageService(garages ports.GarageRepository, services ports.ServiceRepository, cache *CatalogCache) *GarageService {
	return &GarageService{garages: garages, services: services, cache: cache}
}

// FindNear returns garages within q.RadiusKm of q.Center, nearest first, each
// carrying its distance in km. Garages without coordinates are never returned.
func (s *GarageService) FindNear(ctx context.Context, q NearQuery) ([]domain.Garage, error) {
	ctx, span := otel.Tracer(telemetry.TracerName).Start(ctx, telemetry.SpanGaragesNear)
	defer span.End()

	if err := (proximity.Query{Center: q.Center, RadiusKm: q.RadiusKm}).Validate(); err != nil {
		return nil, err
	}
	if q.ServiceID != "" {
		if err := validateID(q.ServiceID, "service"); err != nil {
			return nil, err
		}
	}

	filter := ports.GarageFilter{ServiceID: q.ServiceID}
	if minLat, minLon, maxLat, maxLon, ok := geospatial.BoundingBox(q.Center.Latitude, q.Center.Longitude, q.RadiusKm); ok {
		filter.Bounds = &domain.Bounds{MinLat: minLat, MinLon: minLon, MaxLat: maxLat, MaxLon: maxLon}
	}

	candidates, err := s.garages.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list candidate garages: %w", err)
	}

	garages, err := proximity.WithinRadius(candidates, q.Center, q.RadiusKm)
	if err != nil {
		return nil, err
	}

	metrics.GaragesRanked.WithLabelValues("radius").Add(float64(len(garages)))
	metrics.SearchResultSize.WithLabelValues("radius").Observe(float64(len(garages)))
	metrics.SearchCandidatesDropped.Add(float64(len(candidates) - len(garages)))
	span.SetAttributes(
		attribute.Float64(telemetry.AttrRadiusKm, q.RadiusKm),
		attribute.String(telemetry.AttrServiceID, q.ServiceID),
		attribute.Int(telemetry.AttrCandidates, len(candidates)),
		attribute.Int(telemetry.AttrResults, len(garages)),
	)

	return garages, nil
}

// ListByService returns the garages offering serviceID. With a center, every
// garage is annotated with its distance and ordered nearest first, garages
// without coordinates last.
func (s *GarageService) ListByService(ctx context.Context, serviceID string, center *domain.GeoPoint) ([]domain.Garage, error) {
	ctx, span := otel.Tracer(telemetry.TracerName).Start(ctx, telemetry.SpanGaragesByService)
	defer span.End()
	span.SetAttributes(attribute.String(telemetry.AttrServiceID, serviceID))

	if err := validateID(serviceID, "service"); err != nil {
		return nil, err
	}
	if center != nil {
		if err := center.Validate(); err != nil {
			return nil, err
		}
	}

	var garages []domain.Garage
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		_, err := s.service(gctx, serviceID)
		return err
	})
	g.Go(func() error {
		var err error
		garages, err = readThrough(gctx, s.cache, "garages_by_service", func(ctx context.Context) ([]domain.Garage, error) {
			return s.garages.List(ctx, ports.GarageFilter{ServiceID: serviceID})
		}, "garages", "service", serviceID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if garages == nil {
		garages = []domain.Garage{}
	}
	if center != nil {
		var err error
		if garages, err = proximity.AnnotateByDistance(garages, *center); err != nil {
			return nil, err
		}
	}

	metrics.GaragesRanked.WithLabelValues("service").Add(float64(len(garages)))
	metrics.SearchResultSize.WithLabelValues("service").Observe(float64(len(garages)))
	span.SetAttributes(attribute.Int(telemetry.AttrResults, len(garages)))

	return garages, nil
}

// List returns every garage in catalogue order.
func (s *GarageService) List(ctx context.Context) ([]domain.Garage, error) {
	garages, err := readThrough(ctx, s.cache, "garages_all", func(ctx context.Context) ([]domain.Garage, error) {
		return s.garages.List(ctx, ports.GarageFilter{})
	}, "garages", "all")
	if err != nil {
		return nil, err
	}
	if garages == nil {
		garages = []domain.Garage{}
	}
	return garages, nil
}

// GetByID returns a single garage.
func (s *GarageService) GetByID(ctx context.Context, id string) (*domain.Garage, error) {
	if err := validateID(id, "garage"); err != nil {
		return nil, err
	}
	return readThrough(ctx, s.cache, "garage_by_id", func(ctx context.Context) (*domain.Garage, error) {
		return s.garages.GetByID(ctx, id)
	}, "garages", "id", id)
}

func (s *GarageService) service(ctx context.Context, id string) (*domain.Service, error) {
	return readThrough(ctx, s.cache, "service_by_id", func(ctx context.Context) (*domain.Service, error) {
		return s.services.GetByID(ctx, id)
	}, "services", "id", id)
}

func validateID(id, kind string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("%w: invalid %s ID", domain.ErrInvalidArgument, kind)
	}
	return nil
}
