package geospatial

import (
	"fmt"
	"math"
	"strings"
)

// Unit selects the Earth radius a distance is expressed in.
type Unit string

const (
	Kilometers Unit = "km"
	Miles      Unit = "mi"
)

const (
	earthRadiusKm = 6371.0
	earthRadiusMi = 3959.0

	// boxPadDeg keeps points sitting exactly on the radius inside the box.
	boxPadDeg = 1e-6
)

// Radius returns the mean Earth radius in u. Unknown units fall back to kilometers.
func (u Unit) Radius() float64 {
	if u == Miles {
		return earthRadiusMi
	}
	return earthRadiusKm
}

// ParseUnit maps "km"/"mi" (case-insensitive) to a Unit. Empty means kilometers.
func ParseUnit(s string) (Unit, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "km":
		return Kilometers, nil
	case "mi":
		return Miles, nil
	default:
		return "", fmt.Errorf("unknown distance unit %q", s)
	}
}

// Distance calculates the great-circle distance between two points in the given unit.
// Inputs are degrees and are not validated: out-of-range coordinates produce a
// defined but meaningless result.
func Distance(lat1, lon1, lat2, lon2 float64, unit Unit) float64 {
	dLat := toRad(lat2 - lat1)
	dLon := toRad(lon2 - lon1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(lat1))*math.Cos(toRad(lat2))*
			math.Sin(dLon/2)*math.Sin(dLon/2)

	// Rounding can push a a hair outside [0,1] near antipodes.
	a = math.Min(1, math.Max(0, a))

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return unit.Radius() * c
}

// HaversineKm is Distance in kilometers.
func HaversineKm(lat1, lon1, lat2, lon2 float64) float64 {
	return Distance(lat1, lon1, lat2, lon2, Kilometers)
}

// Round rounds v to the given number of decimal places, halves away from zero.
func Round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}

// BoundingBox returns a lat/lon box that contains every point within radiusKm
// of (lat, lon). ok is false when the box would reach a pole or cross the
// antimeridian; callers should then skip box pre-filtering entirely.
func BoundingBox(lat, lon, radiusKm float64) (minLat, minLon, maxLat, maxLon float64, ok bool) {
	delta := radiusKm / earthRadiusKm
	phi := toRad(lat)

	if phi-delta <= -math.Pi/2 || phi+delta >= math.Pi/2 {
		return 0, 0, 0, 0, false
	}

	dLon := math.Asin(math.Sin(delta) / math.Cos(phi))

	minLat = toDeg(phi-delta) - boxPadDeg
	maxLat = toDeg(phi+delta) + boxPadDeg
	minLon = lon - toDeg(dLon) - boxPadDeg
	maxLon = lon + toDeg(dLon) + boxPadDeg
	if minLon < -180 || maxLon > 180 {
		return 0, 0, 0, 0, false
	}

	return minLat, minLon, maxLat, maxLon, true
}

func toRad(deg float64) float64 {
	return deg * math.Pi / 180
}

func toDeg(rad float64) float64 {
	return rad * 180 / math.Pi
}
