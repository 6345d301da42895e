// Package proximity filters and orders locatable entities by their
// great-circle distance from a center point.
package proximity

import (
	"fmt"
	"math"
	"slices"

	"github.com/samirrijal/garagehub/internal/core/domain"
	"github.com/samirrijal/garagehub/internal/pkg/geospatial"
)

// distancePlaces is the precision of reported distances.
const distancePlaces = 2

// Locatable is an entity that may have a position and can be copied with a
// distance attached.
type Locatable[T any] interface {
	Position() (domain.GeoPoint, bool)
	WithDistance(km float64) T
}

// Query is a radius search around Center.
type Query struct {
	Center   domain.GeoPoint
	RadiusKm float64
}

// Validate reports ErrInvalidArgument for a bad center or a radius that is
// not a finite positive number.
func (q Query) Validate() error {
	if err := q.Center.Validate(); err != nil {
		return err
	}
	if math.IsNaN(q.RadiusKm) || math.IsInf(q.RadiusKm, 0) || q.RadiusKm <= 0 {
		return fmt.Errorf("%w: radius must be a positive number", domain.ErrInvalidArgument)
	}
	return nil
}

// DistanceKm is the unrounded distance between two points in kilometers.
func DistanceKm(a, b domain.GeoPoint) float64 {
	return geospatial.HaversineKm(a.Latitude, a.Longitude, b.Latitude, b.Longitude)
}

type ranked[T any] struct {
	item  T
	km    float64
	known bool
}

// WithinRadius returns copies of the items lying within radiusKm of center
// (edge included), each carrying its distance rounded to two decimals,
// nearest first. Items without a position are dropped. Equal distances keep
// their input order. The input slice is not modified.
func WithinRadius[T Locatable[T]](items []T, center domain.GeoPoint, radiusKm float64) ([]T, error) {
	if err := (Query{Center: center, RadiusKm: radiusKm}).Validate(); err != nil {
		return nil, err
	}

	hits := make([]ranked[T], 0, len(items))
	for _, it := range items {
		p, ok := it.Position()
		if !ok {
			continue
		}
		d := DistanceKm(center, p)
		if d > radiusKm {
			continue
		}
		km := geospatial.Round(d, distancePlaces)
		hits = append(hits, ranked[T]{item: it.WithDistance(km), km: km, known: true})
	}

	slices.SortStableFunc(hits, compareRanked[T])
	return unwrap(hits), nil
}

// AnnotateByDistance returns every item, copied with its rounded distance
// from center when it has a position. Items with a distance come first,
// nearest first; items without one follow in their input order.
func AnnotateByDistance[T Locatable[T]](items []T, center domain.GeoPoint) ([]T, error) {
	if err := center.Validate(); err != nil {
		return nil, err
	}

	all := make([]ranked[T], 0, len(items))
	for _, it := range items {
		p, ok := it.Position()
		if !ok {
			all = append(all, ranked[T]{item: it})
			continue
		}
		km := geospatial.Round(DistanceKm(center, p), distancePlaces)
		all = append(all, ranked[T]{item: it.WithDistance(km), km: km, known: true})
	}

	slices.SortStableFunc(all, compareRanked[T])
	return unwrap(all), nil
}

func compareRanked[T any](a, b ranked[T]) int {
	switch {
	case a.known && !b.known:
		return -1
	case !a.known && b.known:
		return 1
	case !a.known && !b.known:
		return 0
	case a.km < b.km:
		return -1
	case a.km > b.km:
		return 1
	default:
		return 0
	}
}

func unwrap[T any](rs []ranked[T]) []T {
	out := make([]T, len(rs))
	for i, r := range rs {
		out[i] = r.item
	}
	return out
}
