package usecases_test

import (
	"context"
	"math"
	"sync"

	"github.com/samirrijal/garagehub/internal/core/domain"
	"github.com/samirrijal/garagehub/internal/core/ports"
)

// --- Mock GarageRepository ---

type mockGarageRepo struct {
	listFn    func(ctx context.Context, filter ports.GarageFilter) ([]domain.Garage, error)
	getByIDFn func(ctx context.Context, id string) (*domain.Garage, error)

	mu        sync.Mutex
	listCalls int
}

func (m *mockGarageRepo) List(ctx context.Context, filter ports.GarageFilter) ([]domain.Garage, error) {
	m.mu.Lock()
	m.listCalls++
	m.mu.Unlock()
	if m.listFn != nil {
		return m.listFn(ctx, filter)
	}
	return nil, nil
}

func (m *mockGarageRepo) GetByID(ctx context.Context, id string) (*domain.Garage, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, domain.ErrNotFound
}

func (m *mockGarageRepo) UpsertBatch(ctx context.Context, garages []domain.Garage, serviceIDs map[string][]string) error {
	return nil
}

func (m *mockGarageRepo) calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.listCalls
}

// --- Mock ServiceRepository ---

type mockServiceRepo struct {
	listFn    func(ctx context.Context) ([]domain.Service, error)
	getByIDFn func(ctx context.Context, id string) (*domain.Service, error)
}

func (m *mockServiceRepo) List(ctx context.Context) ([]domain.Service, error) {
	if m.listFn != nil {
		return m.listFn(ctx)
	}
	return nil, nil
}

func (m *mockServiceRepo) GetByID(ctx context.Context, id string) (*domain.Service, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return &domain.Service{ID: id, Name: "Oil change"}, nil
}

func (m *mockServiceRepo) UpsertBatch(ctx context.Context, services []domain.Service) error {
	return nil
}

// --- In-memory CacheService ---

type memCache struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMemCache() *memCache { return &memCache{data: map[string][]byte{}} }

func (c *memCache) Get(ctx context.Context, key string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	b, ok := c.data[key]
	if !ok {
		return nil, ports.ErrCacheMiss
	}
	return b, nil
}

func (c *memCache) Set(ctx context.Context, key string, value []byte, ttlSeconds int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = value
	return nil
}

func (c *memCache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	return nil
}

// --- Mock RoutePlanner ---

type mockPlanner struct {
	routeFn func(ctx context.Context, from, to domain.GeoPoint) (*domain.DrivingRoute, error)
}

func (m *mockPlanner) Route(ctx context.Context, from, to domain.GeoPoint) (*domain.DrivingRoute, error) {
	return m.routeFn(ctx, from, to)
}

// --- Fixtures ---

const (
	serviceID = "6f1c2f6e-6a53-4b8e-9d4c-1f2e3d4c5b6a"
	garageID  = "0b9d8c7e-1a2b-4c3d-8e9f-0a1b2c3d4e5f"
)

var bilbao = domain.GeoPoint{Latitude: 43.263, Longitude: -2.935}

// eastOf places a garage on bilbao's parallel roughly km kilometers east.
func eastOf(id string, km float64) domain.Garage {
	lon := bilbao.Longitude + km/(6371*math.Pi/180*math.Cos(bilbao.Latitude*math.Pi/180))
	return domain.Garage{ID: id, Name: "Garage " + id, Coordinates: &domain.GeoPoint{Latitude: bilbao.Latitude, Longitude: lon}}
}

func garageIDs(gs []domain.Garage) []string {
	out := make([]string, len(gs))
	for i, g := range gs {
		out[i] = g.ID
	}
	return out
}
