// Package osrm implements ports.RoutePlanner against an OSRM-compatible
// routing HTTP API.
package osrm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/samirrijal/garagehub/internal/core/domain"
)

// ErrNoRoute is returned when the router answers but finds no route.
var ErrNoRoute = errors.New("no route found")

// Config configures a Client.
type Config struct {
	BaseURL           string
	Profile           string
	Timeout           time.Duration
	RequestsPerSecond float64
	MaxRetries        int
	UserAgent         string
}

// Client is a rate-limited OSRM route client with retry on transient errors.
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	cfg        Config
}

// New creates a Client.
func New(cfg Config) *Client {
	if cfg.Profile == "" {
		cfg.Profile = "driving"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Second
	}
	if cfg.RequestsPerSecond <= 0 {
		cfg.RequestsPerSecond = 1
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = "GarageHub-API/1.0"
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")

	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		limiter:    rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1),
		cfg:        cfg,
	}
}

type routeResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Routes  []struct {
		Distance float64 `json:"distance"`
		Duration float64 `json:"duration"`
		Geometry struct {
			Coordinates [][]float64 `json:"coordinates"`
		} `json:"geometry"`
	} `json:"routes"`
}

// Route returns the driving route between two points with full GeoJSON geometry.
func (c *Client) Route(ctx context.Context, from, to domain.GeoPoint) (*domain.DrivingRoute, error) {
	url := fmt.Sprintf("%s/route/v1/%s/%s,%s;%s,%s?overview=full&geometries=geojson",
		c.cfg.BaseURL, c.cfg.Profile,
		coord(from.Longitude), coord(from.Latitude),
		coord(to.Longitude), coord(to.Latitude),
	)

	var lastErr error
	for attempt := 0; attempt <= c.cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff(attempt)):
			}
		}

		route, retry, err := c.do(ctx, url)
		if err == nil {
			return route, nil
		}
		lastErr = err
		if !retry {
			break
		}
	}
	return nil, lastErr
}

// do performs one request. retry reports whether the failure is transient.
func (c *Client) do(ctx context.Context, url string) (*domain.DrivingRoute, bool, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, false, fmt.Errorf("rate limiter: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, false, fmt.Errorf("build route request: %w", err)
	}
	req.Header.Set("User-Agent", c.cfg.UserAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, ctx.Err() == nil, fmt.Errorf("route request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
		return nil, true, fmt.Errorf("router returned status %d", resp.StatusCode)
	}

	var body routeResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, false, fmt.Errorf("decode route response (status %d): %w", resp.StatusCode, err)
	}
	if body.Code != "Ok" || len(body.Routes) == 0 {
		return nil, false, fmt.Errorf("%w: code=%s %s", ErrNoRoute, body.Code, body.Message)
	}

	r := body.Routes[0]
	geometry := make([]domain.GeoPoint, 0, len(r.Geometry.Coordinates))
	for _, c := range r.Geometry.Coordinates {
		if len(c) < 2 {
			continue
		}
		// GeoJSON positions are [longitude, latitude].
		geometry = append(geometry, domain.GeoPoint{Latitude: c[1], Longitude: c[0]})
	}

	return &domain.DrivingRoute{
		DistanceMeters:  r.Distance,
		DurationSeconds: r.Duration,
		Geometry:        geometry,
	}, false, nil
}

func coord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func backoff(attempt int) time.Duration {
	d := 200 * time.Millisecond << (attempt - 1)
	if d > 2*time.Second {
		d = 2 * time.Second
	}
	return d
}
