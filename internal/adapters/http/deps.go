package http

import (
	"context"

	"github.com/samirrijal/garagehub/internal/core/usecases"
)

// Pinger is a backing service the readiness check can check.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Connection is a long-lived broker connection.
type Connection interface {
	IsConnected() bool
}

// Dependencies holds all services needed by HTTP handlers. Nil infrastructure
// fields are reported as "not configured" by the readiness check.
type Dependencies struct {
	Garages *usecases.GarageService
	Catalog *usecases.CatalogService
	Routes  *usecases.RouteService

	// DefaultRadiusKm applies when a radius search omits radius.
	DefaultRadiusKm float64
	Version         string

	DB     Pinger
	Cache  Pinger
	Events Connection
}

func (d *Dependencies) defaultRadius() float64 {
	if d.DefaultRadiusKm > 0 {
		return d.DefaultRadiusKm
	}
	return 50
}
