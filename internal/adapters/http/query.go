package http

import (
	"math"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/samirrijal/garagehub/internal/core/domain"
)

// queryFloat parses an optional numeric query parameter. present is false
// when the parameter is absent or blank; ok is false when it is present but
// not a finite number.
func queryFloat(c *fiber.Ctx, name string) (v float64, present, ok bool) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return 0, false, true
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, true, false
	}
	return v, true, true
}

// optionalCenter reads latitude/longitude when both are supplied. It returns
// nil when neither is.
func optionalCenter(c *fiber.Ctx) (*domain.GeoPoint, string) {
	lat, hasLat, okLat := queryFloat(c, "latitude")
	lon, hasLon, okLon := queryFloat(c, "longitude")

	switch {
	case !hasLat && !hasLon:
		return nil, ""
	case hasLat != hasLon:
		return nil, "Latitude and longitude must be supplied together"
	case !okLat || !okLon:
		return nil, "Invalid latitude or longitude values"
	}
	return &domain.GeoPoint{Latitude: lat, Longitude: lon}, ""
}
