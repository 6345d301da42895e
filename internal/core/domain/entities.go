package domain

import (
	"math"
	"time"
)

// Service is an offering from the catalogue (oil change, brakes, ...).
type Service struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Images      []string  `json:"images"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ServiceSummary is the part of a Service embedded in garage listings.
type ServiceSummary struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Images      []string `json:"images"`
}

// OpeningHours holds whole-hour opening and closing times.
type OpeningHours struct {
	Open  int `json:"open"`
	Close int `json:"close"`
}

// Garage is a repair shop customers can book.
type Garage struct {
	ID           string           `json:"id"`
	Name         string           `json:"name"`
	Location     string           `json:"location"`
	Coordinates  *GeoPoint        `json:"coordinates,omitempty"`
	Photos       []string         `json:"photos"`
	Description  string           `json:"description,omitempty"`
	Capacity     int              `json:"capacity"`
	OpeningHours *OpeningHours    `json:"opening_hours,omitempty"`
	OwnedBy      string           `json:"owned_by,omitempty"`
	IsActive     bool             `json:"is_active"`
	IsVerified   bool             `json:"is_verified"`
	Services     []ServiceSummary `json:"services"`
	Distance     *float64         `json:"distance,omitempty"` // computed field, km
	CreatedAt    time.Time        `json:"created_at"`
}

// Position returns the stored coordinates; ok is false when they are missing
// or not finite.
func (g Garage) Position() (GeoPoint, bool) {
	if g.Coordinates == nil {
		return GeoPoint{}, false
	}
	p := *g.Coordinates
	if math.IsNaN(p.Latitude) || math.IsInf(p.Latitude, 0) ||
		math.IsNaN(p.Longitude) || math.IsInf(p.Longitude, 0) {
		return GeoPoint{}, false
	}
	return p, true
}

// WithDistance returns a shallow copy of g carrying distance km.
func (g Garage) WithDistance(km float64) Garage {
	g.Distance = &km
	return g
}

// DrivingRoute is what a routing service returns between two points.
type DrivingRoute struct {
	DistanceMeters  float64
	DurationSeconds float64
	Geometry        []GeoPoint
}

// Route overlay distance sources.
const (
	RouteSourceRouter       = "route"
	RouteSourceStraightLine = "straight_line"
)

// RouteOverlay is the path drawn between a customer and a garage.
// DistanceKm supersedes StraightLineKm for display only.
type RouteOverlay struct {
	GarageID        string     `json:"garage_id"`
	From            GeoPoint   `json:"from"`
	To              GeoPoint   `json:"to"`
	StraightLineKm  float64    `json:"straight_line_km"`
	DistanceKm      float64    `json:"distance_km"`
	DurationSeconds *float64   `json:"duration_seconds,omitempty"`
	Source          string     `json:"source"`
	Geometry        []GeoPoint `json:"geometry"`
}

// CatalogEvent announces that garages or services changed.
type CatalogEvent struct {
	Version   int64     `json:"version"`
	Garages   int       `json:"garages"`
	Services  int       `json:"services"`
	Source    string    `json:"source"`
	Timestamp time.Time `json:"timestamp"`
}
