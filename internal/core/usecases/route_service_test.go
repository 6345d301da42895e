package usecases_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/samirrijal/garagehub/internal/core/domain"
	"github.com/samirrijal/garagehub/internal/core/usecases"
)

func routeFixture(garage *domain.Garage, planner *mockPlanner) *usecases.RouteService {
	repo := &mockGarageRepo{
		getByIDFn: func(ctx context.Context, id string) (*domain.Garage, error) {
			return garage, nil
		},
	}
	garages := usecases.NewGarageService(repo, &mockServiceRepo{}, nil)
	if planner == nil {
		return usecases.NewRouteService(garages, nil, time.Second)
	}
	return usecases.NewRouteService(garages, planner, time.Second)
}

func TestRouteService_UsesPlannedRoute(t *testing.T) {
	g := eastOf(garageID, 10)
	planner := &mockPlanner{
		routeFn: func(ctx context.Context, from, to domain.GeoPoint) (*domain.DrivingRoute, error) {
			if to != *g.Coordinates {
				t.Errorf("expected destination %+v, got %+v", *g.Coordinates, to)
			}
			return &domain.DrivingRoute{
				DistanceMeters:  13456.7,
				DurationSeconds: 900,
				Geometry:        []domain.GeoPoint{from, {Latitude: 43.27, Longitude: -2.9}, to},
			}, nil
		},
	}

	overlay, err := routeFixture(&g, planner).PlanToGarage(context.Background(), garageID, bilbao)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if overlay.Source != domain.RouteSourceRouter {
		t.Errorf("expected source %q, got %q", domain.RouteSourceRouter, overlay.Source)
	}
	if overlay.DistanceKm != 13.46 {
		t.Errorf("expected planned distance 13.46, got %v", overlay.DistanceKm)
	}
	if overlay.StraightLineKm <= 9 || overlay.StraightLineKm > 10.01 {
		t.Errorf("unexpected straight-line distance %v", overlay.StraightLineKm)
	}
	if len(overlay.Geometry) != 3 {
		t.Errorf("expected planned geometry, got %d points", len(overlay.Geometry))
	}
	if overlay.DurationSeconds == nil || *overlay.DurationSeconds != 900 {
		t.Errorf("expected duration 900, got %v", overlay.DurationSeconds)
	}
}

func TestRouteService_FallsBackToStraightLine(t *testing.T) {
	g := eastOf(garageID, 10)
	planner := &mockPlanner{
		routeFn: func(ctx context.Context, from, to domain.GeoPoint) (*domain.DrivingRoute, error) {
			return nil, errors.New("router unavailable")
		},
	}

	overlay, err := routeFixture(&g, planner).PlanToGarage(context.Background(), garageID, bilbao)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if overlay.Source != domain.RouteSourceStraightLine {
		t.Errorf("expected straight-line source, got %q", overlay.Source)
	}
	if overlay.DistanceKm != overlay.StraightLineKm {
		t.Errorf("fallback distance %v should equal straight line %v", overlay.DistanceKm, overlay.StraightLineKm)
	}
	if len(overlay.Geometry) != 2 || overlay.Geometry[0] != bilbao || overlay.Geometry[1] != *g.Coordinates {
		t.Errorf("expected two-point geometry, got %+v", overlay.Geometry)
	}
}

func TestRouteService_NoPlanner(t *testing.T) {
	g := eastOf(garageID, 1)
	overlay, err := routeFixture(&g, nil).PlanToGarage(context.Background(), garageID, bilbao)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if overlay.Source != domain.RouteSourceStraightLine {
		t.Errorf("expected straight-line source, got %q", overlay.Source)
	}
}

func TestRouteService_GarageWithoutCoordinates(t *testing.T) {
	g := domain.Garage{ID: garageID}
	_, err := routeFixture(&g, nil).PlanToGarage(context.Background(), garageID, bilbao)
	if !errors.Is(err, domain.ErrMissingCoordinates) {
		t.Fatalf("expected ErrMissingCoordinates, got %v", err)
	}
}

func TestRouteService_InvalidOrigin(t *testing.T) {
	g := eastOf(garageID, 1)
	_, err := routeFixture(&g, nil).PlanToGarage(context.Background(), garageID, domain.GeoPoint{Latitude: -91})
	if !errors.Is(err, domain.ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
}
