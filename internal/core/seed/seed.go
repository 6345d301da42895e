// Package seed turns a catalogue file into services, garages and the links
// between them, ready for the repositories' batch upserts.
package seed

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"

	"github.com/samirrijal/garagehub/internal/core/domain"
)

// namespace derives stable ids from entry keys, so reseeding the same file
// updates rows instead of duplicating them.
var namespace = uuid.MustParse("5b0f3c1e-8d7a-4f3b-9a56-2c1d0e4f6a7b")

// File is the on-disk catalogue format.
type File struct {
	Services []ServiceEntry `json:"services"`
	Garages  []GarageEntry  `json:"garages"`
}

// ServiceEntry describes one service. Key is how garages refer to it; ID,
// when set, must be a UUID and overrides the derived one.
type ServiceEntry struct {
	Key         string   `json:"key"`
	ID          string   `json:"id,omitempty"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Images      []string `json:"images,omitempty"`
	Status      string   `json:"status,omitempty"`
}

// GarageEntry describes one garage. Latitude and longitude are optional but
// must be given together.
type GarageEntry struct {
	Key          string               `json:"key"`
	ID           string               `json:"id,omitempty"`
	Name         string               `json:"name"`
	Location     string               `json:"location"`
	Latitude     *float64             `json:"latitude,omitempty"`
	Longitude    *float64             `json:"longitude,omitempty"`
	Photos       []string             `json:"photos,omitempty"`
	Description  string               `json:"description,omitempty"`
	Capacity     int                  `json:"capacity,omitempty"`
	OpeningHours *domain.OpeningHours `json:"opening_hours,omitempty"`
	OwnedBy      string               `json:"owned_by,omitempty"`
	IsActive     *bool                `json:"is_active,omitempty"`
	IsVerified   bool                 `json:"is_verified,omitempty"`
	Services     []string             `json:"services"`
}

// Plan is a validated catalogue. Links maps garage id to service ids.
type Plan struct {
	Services []domain.Service
	Garages  []domain.Garage
	Links    map[string][]string
}

// Decode reads a catalogue file. Unknown fields are rejected.
func Decode(r io.Reader) (*File, error) {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()

	var f File
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("decode catalogue: %w", err)
	}
	return &f, nil
}

// Build validates f and resolves keys to ids. Every problem is reported, not
// just the first.
func Build(f *File) (*Plan, error) {
	var errs []error
	fail := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf(format, args...))
	}

	plan := &Plan{Links: make(map[string][]string)}
	serviceIDs := make(map[string]string, len(f.Services))

	for i, e := range f.Services {
		key := strings.TrimSpace(e.Key)
		switch {
		case key == "":
			fail("services[%d]: key is required", i)
			continue
		case serviceIDs[key] != "":
			fail("services[%d]: duplicate key %q", i, key)
			continue
		case strings.TrimSpace(e.Name) == "":
			fail("services[%d] %q: name is required", i, key)
		}

		id, err := resolveID(e.ID, "service", key)
		if err != nil {
			fail("services[%d] %q: %v", i, key, err)
			continue
		}
		serviceIDs[key] = id

		status := e.Status
		if status == "" {
			status = "accepted"
		}
		plan.Services = append(plan.Services, domain.Service{
			ID:          id,
			Name:        e.Name,
			Description: e.Description,
			Images:      e.Images,
			Status:      status,
		})
	}

	garageKeys := make(map[string]bool, len(f.Garages))
	for i, e := range f.Garages {
		key := strings.TrimSpace(e.Key)
		switch {
		case key == "":
			fail("garages[%d]: key is required", i)
			continue
		case garageKeys[key]:
			fail("garages[%d]: duplicate key %q", i, key)
			continue
		}
		garageKeys[key] = true

		id, err := resolveID(e.ID, "garage", key)
		if err != nil {
			fail("garages[%d] %q: %v", i, key, err)
			continue
		}
		if strings.TrimSpace(e.Name) == "" {
			fail("garages[%d] %q: name is required", i, key)
		}

		g := domain.Garage{
			ID:           id,
			Name:         e.Name,
			Location:     e.Location,
			Photos:       e.Photos,
			Description:  e.Description,
			Capacity:     e.Capacity,
			OpeningHours: e.OpeningHours,
			OwnedBy:      e.OwnedBy,
			IsActive:     e.IsActive == nil || *e.IsActive,
			IsVerified:   e.IsVerified,
		}

		switch {
		case (e.Latitude == nil) != (e.Longitude == nil):
			fail("garages[%d] %q: latitude and longitude must be given together", i, key)
		case e.Latitude != nil:
			p := domain.GeoPoint{Latitude: *e.Latitude, Longitude: *e.Longitude}
			if err := p.Validate(); err != nil {
				fail("garages[%d] %q: %v", i, key, err)
			} else {
				g.Coordinates = &p
			}
		}

		if h := e.OpeningHours; h != nil && (h.Open < 0 || h.Open > 24 || h.Close < 0 || h.Close > 24) {
			fail("garages[%d] %q: opening hours must be within 0-24", i, key)
		}

		for _, ref := range e.Services {
			sid, ok := serviceIDs[ref]
			if !ok {
				fail("garages[%d] %q: unknown service %q", i, key, ref)
				continue
			}
			plan.Links[id] = append(plan.Links[id], sid)
		}

		plan.Garages = append(plan.Garages, g)
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return plan, nil
}

// ID returns the id a key of the given kind ("service" or "garage") maps to.
func ID(kind, key string) string {
	return uuid.NewSHA1(namespace, []byte(kind+"/"+key)).String()
}

func resolveID(explicit, kind, key string) (string, error) {
	if explicit == "" {
		return ID(kind, key), nil
	}
	u, err := uuid.Parse(explicit)
	if err != nil {
		return "", fmt.Errorf("id %q is not a UUID", explicit)
	}
	return u.String(), nil
}
