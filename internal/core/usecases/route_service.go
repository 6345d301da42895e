package usecases

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/samirrijal/garagehub/internal/core/domain"
	"github.com/samirrijal/garagehub/internal/core/ports"
	"github.com/samirrijal/garagehub/internal/core/proximity"
	"github.com/samirrijal/garagehub/internal/pkg/geospatial"
	"github.com/samirrijal/garagehub/internal/pkg/metrics"
	"github.com/samirrijal/garagehub/internal/pkg/telemetry"
)

// RouteService builds the route overlay between a customer and a garage.
type RouteService struct {
	garages *GarageService
	planner ports.RoutePlanner
	timeout time.Duration
}

// NewRouteService creates a new RouteService. A nil planner always yields
// straight-line overlays.
func NewRouteService(garages *GarageService, planner ports.RoutePlanner, timeout time.Duration) *RouteService {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &RouteService{garages: garages, planner: planner, timeout: timeout}
}

// PlanToGarage returns the overlay from a customer position to a garage. The
// straight-line distance is always present; a planned route, when the routing
// service answers, supersedes it in DistanceKm.
func (s *RouteService) PlanToGarage(ctx context.Context, garageID string, from domain.GeoPoint) (*domain.RouteOverlay, error) {
	ctx, span := otel.Tracer(telemetry.TracerName).Start(ctx, telemetry.SpanRoutePlan)
	defer span.End()

	if err := from.Validate(); err != nil {
		return nil, err
	}

	garage, err := s.garages.GetByID(ctx, garageID)
	if err != nil {
		return nil, err
	}
	to, ok := garage.Position()
	if !ok {
		return nil, fmt.Errorf("garage %s: %w", garageID, domain.ErrMissingCoordinates)
	}

	straight := geospatial.Round(proximity.DistanceKm(from, to), 2)
	overlay := &domain.RouteOverlay{
		GarageID:       garage.ID,
		From:           from,
		To:             to,
		StraightLineKm: straight,
		DistanceKm:     straight,
		Source:         domain.RouteSourceStraightLine,
		Geometry:       []domain.GeoPoint{from, to},
	}

	if s.planner != nil {
		planCtx, cancel := context.WithTimeout(ctx, s.timeout)
		start := time.Now()
		route, err := s.planner.Route(planCtx, from, to)
		cancel()
		metrics.RoutePlannerDuration.Observe(time.Since(start).Seconds())

		switch {
		case err != nil:
			slog.WarnContext(ctx, "route planner failed, using straight line", "garage_id", garageID, "error", err)
		case route != nil && len(route.Geometry) > 0:
			overlay.DistanceKm = geospatial.Round(route.DistanceMeters/1000, 2)
			d := route.DurationSeconds
			overlay.DurationSeconds = &d
			overlay.Source = domain.RouteSourceRouter
			overlay.Geometry = route.Geometry
		}
	}

	metrics.RoutePlans.WithLabelValues(overlay.Source).Inc()
	span.SetAttributes(attribute.String(telemetry.AttrRouteSource, overlay.Source))

	return overlay, nil
}
