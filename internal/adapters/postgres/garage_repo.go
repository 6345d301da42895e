package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/samirrijal/garagehub/internal/core/domain"
	"github.com/samirrijal/garagehub/internal/core/ports"
)

const garageColumns = `
	SELECT g.id::text, g.name, g.location, g.latitude, g.longitude,
	       g.photos, COALESCE(g.description, ''), g.capacity,
	       g.opening_open, g.opening_close, COALESCE(g.owned_by, ''),
	       g.is_active, g.is_verified, g.created_at,
	       COALESCE(svc.items, '[]'::json)
	FROM garages g
	LEFT JOIN LATERAL (
		SELECT json_agg(json_build_object(
		           'id', s.id, 'name', s.name,
		           'description', COALESCE(s.description, ''), 'images', s.images
		       ) ORDER BY s.name) AS items
		FROM garage_services gs
		JOIN services s ON s.id = gs.service_id
		WHERE gs.garage_id = g.id
	) svc ON true`

// GarageRepo implements ports.GarageRepository with pgx.
type GarageRepo struct {
	db *DB
}

// NewGarageRepo creates a new GarageRepo.
func NewGarageRepo(db *DB) *GarageRepo {
	return &GarageRepo{db: db}
}

// List returns garages matching filter, oldest first.
func (r *GarageRepo) List(ctx context.Context, filter ports.GarageFilter) ([]domain.Garage, error) {
	var (
		where []string
		args  []any
	)
	if filter.ServiceID != "" {
		args = append(args, filter.ServiceID)
		where = append(where, fmt.Sprintf(
			"EXISTS (SELECT 1 FROM garage_services f WHERE f.garage_id = g.id AND f.service_id = $%d)", len(args)))
	}
	if b := filter.Bounds; b != nil {
		args = append(args, b.MinLat, b.MaxLat, b.MinLon, b.MaxLon)
		n := len(args)
		where = append(where, fmt.Sprintf(
			"g.latitude BETWEEN $%d AND $%d AND g.longitude BETWEEN $%d AND $%d", n-3, n-2, n-1, n))
	}

	query := garageColumns
	if len(where) > 0 {
		query += "\n\tWHERE " + strings.Join(where, " AND ")
	}
	query += "\n\tORDER BY g.created_at, g.id"

	rows, err := r.db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var garages []domain.Garage
	for rows.Next() {
		g, err := scanGarage(rows)
		if err != nil {
			return nil, err
		}
		garages = append(garages, g)
	}
	return garages, rows.Err()
}

// GetByID returns a garage by UUID.
func (r *GarageRepo) GetByID(ctx context.Context, id string) (*domain.Garage, error) {
	g, err := scanGarage(r.db.Pool.QueryRow(ctx, garageColumns+"\n\tWHERE g.id = $1", id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("garage %s: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &g, nil
}

// UpsertBatch inserts or updates garages and replaces their service links,
// all in one transaction. serviceIDs is keyed by garage id.
func (r *GarageRepo) UpsertBatch(ctx context.Context, garages []domain.Garage, serviceIDs map[string][]string) error {
	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	batch := &pgx.Batch{}
	for _, g := range garages {
		var lat, lon *float64
		if g.Coordinates != nil {
			lat, lon = &g.Coordinates.Latitude, &g.Coordinates.Longitude
		}
		var open, closing *int
		if g.OpeningHours != nil {
			open, closing = &g.OpeningHours.Open, &g.OpeningHours.Close
		}
		photos := g.Photos
		if photos == nil {
			photos = []string{}
		}

		batch.Queue(`
			INSERT INTO garages (id, name, location, latitude, longitude, photos, description,
			                     capacity, opening_open, opening_close, owned_by, is_active, is_verified)
			VALUES ($1, $2, $3, $4, $5, $6, NULLIF($7, ''), $8, $9, $10, NULLIF($11, ''), $12, $13)
			ON CONFLICT (id) DO UPDATE
			SET name = EXCLUDED.name, location = EXCLUDED.location,
			    latitude = EXCLUDED.latitude, longitude = EXCLUDED.longitude,
			    photos = EXCLUDED.photos, description = EXCLUDED.description,
			    capacity = EXCLUDED.capacity,
			    opening_open = EXCLUDED.opening_open, opening_close = EXCLUDED.opening_close,
			    owned_by = EXCLUDED.owned_by,
			    is_active = EXCLUDED.is_active, is_verified = EXCLUDED.is_verified,
			    updated_at = now()
		`, g.ID, g.Name, g.Location, lat, lon, photos, g.Description,
			g.Capacity, open, closing, g.OwnedBy, g.IsActive, g.IsVerified)

		batch.Queue(`DELETE FROM garage_services WHERE garage_id = $1`, g.ID)
		if ids := serviceIDs[g.ID]; len(ids) > 0 {
			batch.Queue(`
				INSERT INTO garage_services (garage_id, service_id)
				SELECT $1, unnest($2::uuid[])
				ON CONFLICT DO NOTHING
			`, g.ID, ids)
		}
	}

	br := tx.SendBatch(ctx, batch)
	for i := 0; i < batch.Len(); i++ {
		if _, err := br.Exec(); err != nil {
			_ = br.Close()
			return fmt.Errorf("batch exec: %w", err)
		}
	}
	if err := br.Close(); err != nil {
		return fmt.Errorf("batch close: %w", err)
	}

	return tx.Commit(ctx)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanGarage(row rowScanner) (domain.Garage, error) {
	var (
		g             domain.Garage
		lat, lon      *float64
		open, closing *int
	)
	if err := row.Scan(
		&g.ID, &g.Name, &g.Location, &lat, &lon,
		&g.Photos, &g.Description, &g.Capacity,
		&open, &closing, &g.OwnedBy,
		&g.IsActive, &g.IsVerified, &g.CreatedAt,
		&g.Services,
	); err != nil {
		return domain.Garage{}, err
	}

	// A half-stored pair is treated as no coordinates at all.
	if lat != nil && lon != nil {
		g.Coordinates = &domain.GeoPoint{Latitude: *lat, Longitude: *lon}
	}
	if open != nil && closing != nil {
		g.OpeningHours = &domain.OpeningHours{Open: *open, Close: *closing}
	}
	return g, nil
}
