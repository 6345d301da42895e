//go:build integration
// +build integration

package http_test

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/samirrijal/garagehub/internal/adapters/http"
	"github.com/samirrijal/garagehub/internal/adapters/postgres"
	"github.com/samirrijal/garagehub/internal/core/domain"
	"github.com/samirrijal/garagehub/internal/core/usecases"
	"github.com/samirrijal/garagehub/internal/pkg/config"
)

// setupTestDB connects to a migrated test database.
func setupTestDB(t *testing.T) *postgres.DB {
	cfg, err := config.Load("garagehub-test")
	if err != nil {
		t.Fatalf("load config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	db, err := postgres.New(ctx, cfg.Database.DSN(), 4)
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	return db
}

// setupTestDeps creates dependencies with real repos and no cache.
func setupTestDeps(db *postgres.DB) *http.Dependencies {
	garages := usecases.NewGarageService(postgres.NewGarageRepo(db), postgres.NewServiceRepo(db), nil)
	return &http.Dependencies{
		Garages:         garages,
		Catalog:         usecases.NewCatalogService(postgres.NewServiceRepo(db), nil),
		Routes:          usecases.NewRouteService(garages, nil, 0),
		DefaultRadiusKm: 50,
		DB:              db,
	}
}

// seedCatalog stores one service and three garages offering it: two with
// coordinates around Bilbao, one without. IDs are derived from prefix so
// reruns update rather than duplicate.
func seedCatalog(t *testing.T, db *postgres.DB, prefix string) (serviceID string, near, far, unplaced string) {
	ctx := context.Background()
	id := func(name string) string { return uuid.NewSHA1(uuid.NameSpaceURL, []byte(prefix+"/"+name)).String() }

	serviceID = id("service")
	if err := postgres.NewServiceRepo(db).UpsertBatch(ctx, []domain.Service{
		{ID: serviceID, Name: prefix + " brakes", Status: "accepted"},
	}); err != nil {
		t.Fatalf("seed service: %v", err)
	}

	near, far, unplaced = id("near"), id("far"), id("unplaced")
	garages := []domain.Garage{
		{ID: far, Name: prefix + " far", Location: "Getxo", Coordinates: &domain.GeoPoint{Latitude: 43.35, Longitude: -3.01}, IsActive: true},
		{ID: unplaced, Name: prefix + " unplaced", Location: "unknown", IsActive: true},
		{ID: near, Name: prefix + " near", Location: "Abando", Coordinates: &domain.GeoPoint{Latitude: 43.262, Longitude: -2.934}, IsActive: true},
	}
	links := map[string][]string{near: {serviceID}, far: {serviceID}, unplaced: {serviceID}}
	if err := postgres.NewGarageRepo(db).UpsertBatch(ctx, garages, links); err != nil {
		t.Fatalf("seed garages: %v", err)
	}
	return serviceID, near, far, unplaced
}

func TestGaragesNear_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	db := setupTestDB(t)
	defer db.Close()

	prefix := "near_" + time.Now().Format("20060102150405")
	serviceID, near, far, _ := seedCatalog(t, db, prefix)

	app := setupApp(setupTestDeps(db))
	req := httptest.NewRequest("GET", "/v1/garages-near?latitude=43.263&longitude=-2.935&radius=5&serviceId="+serviceID, nil)
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("test request: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var result http.NearbyResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(result.Garages) != 1 || result.Garages[0].ID != near {
		t.Fatalf("expected only %s within 5 km, got %+v", near, result.Garages)
	}
	for _, g := range result.Garages {
		if g.ID == far {
			t.Errorf("garage %s is outside the radius", far)
		}
	}
}

func TestGaragesByService_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	db := setupTestDB(t)
	defer db.Close()

	prefix := "svc_" + time.Now().Format("20060102150405")
	serviceID, near, far, unplaced := seedCatalog(t, db, prefix)

	app := setupApp(setupTestDeps(db))
	req := httptest.NewRequest("GET", "/v1/garages-by-service/"+serviceID+"?latitude=43.263&longitude=-2.935", nil)
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("test request: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var result http.GaragesResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Fatalf("decode response: %v", err)
	}

	want := []string{near, far, unplaced}
	if len(result.Garages) != len(want) {
		t.Fatalf("expected %d garages, got %d", len(want), len(result.Garages))
	}
	for i, id := range want {
		if result.Garages[i].ID != id {
			t.Errorf("position %d: expected %s, got %s", i, id, result.Garages[i].ID)
		}
	}
	if result.Garages[2].Distance != nil {
		t.Error("garage without coordinates must not carry a distance")
	}
}
