package osrm

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samirrijal/garagehub/internal/core/domain"
)

var (
	customer = domain.GeoPoint{Latitude: 43.263, Longitude: -2.935}
	garage   = domain.GeoPoint{Latitude: 43.27, Longitude: -2.9}
)

func newTestClient(url string) *Client {
	return New(Config{BaseURL: url, Timeout: time.Second, RequestsPerSecond: 1000, MaxRetries: 2})
}

func TestRoute_Ok(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/route/v1/driving/-2.935,43.263;-2.9,43.27", r.URL.Path)
		assert.Equal(t, "full", r.URL.Query().Get("overview"))
		assert.Equal(t, "geojson", r.URL.Query().Get("geometries"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"code":"Ok","routes":[{"distance":4321.5,"duration":600.2,
			"geometry":{"type":"LineString","coordinates":[[-2.935,43.263],[-2.92,43.266],[-2.9,43.27]]}}]}`))
	}))
	defer srv.Close()

	route, err := newTestClient(srv.URL).Route(context.Background(), customer, garage)
	require.NoError(t, err)
	assert.Equal(t, 4321.5, route.DistanceMeters)
	assert.Equal(t, 600.2, route.DurationSeconds)
	require.Len(t, route.Geometry, 3)
	assert.Equal(t, customer, route.Geometry[0])
	assert.Equal(t, garage, route.Geometry[2])
}

func TestRoute_NoRoute(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"code":"NoRoute","message":"Impossible route between points"}`))
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).Route(context.Background(), customer, garage)
	assert.True(t, errors.Is(err, ErrNoRoute), "got %v", err)
}

func TestRoute_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(`{"code":"Ok","routes":[{"distance":1000,"duration":60,"geometry":{"coordinates":[[-2.935,43.263],[-2.9,43.27]]}}]}`))
	}))
	defer srv.Close()

	route, err := newTestClient(srv.URL).Route(context.Background(), customer, garage)
	require.NoError(t, err)
	assert.Equal(t, 1000.0, route.DistanceMeters)
	assert.Equal(t, int32(2), calls.Load())
}

func TestRoute_GivesUpAfterMaxRetries(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).Route(context.Background(), customer, garage)
	require.Error(t, err)
	assert.Equal(t, int32(3), calls.Load())
}

func TestRoute_ContextCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestClient(srv.URL).Route(ctx, customer, garage)
	assert.Error(t, err)
}
