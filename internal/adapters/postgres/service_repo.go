package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/samirrijal/garagehub/internal/core/domain"
)

// ServiceRepo implements ports.ServiceRepository with pgx.
type ServiceRepo struct {
	db *DB
}

// NewServiceRepo creates a new ServiceRepo.
func NewServiceRepo(db *DB) *ServiceRepo {
	return &ServiceRepo{db: db}
}

// List returns all services ordered by name.
func (r *ServiceRepo) List(ctx context.Context) ([]domain.Service, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT id::text, name, COALESCE(description, ''), images, status, created_at, updated_at
		FROM services
		ORDER BY name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var services []domain.Service
	for rows.Next() {
		var s domain.Service
		if err := rows.Scan(&s.ID, &s.Name, &s.Description, &s.Images, &s.Status, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		services = append(services, s)
	}
	return services, rows.Err()
}

// GetByID returns a service by UUID.
func (r *ServiceRepo) GetByID(ctx context.Context, id string) (*domain.Service, error) {
	var s domain.Service
	err := r.db.Pool.QueryRow(ctx, `
		SELECT id::text, name, COALESCE(description, ''), images, status, created_at, updated_at
		FROM services WHERE id = $1
	`, id).Scan(&s.ID, &s.Name, &s.Description, &s.Images, &s.Status, &s.CreatedAt, &s.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("service %s: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// UpsertBatch inserts or updates many services using pgx.Batch.
func (r *ServiceRepo) UpsertBatch(ctx context.Context, services []domain.Service) error {
	batch := &pgx.Batch{}
	for _, s := range services {
		images := s.Images
		if images == nil {
			images = []string{}
		}
		status := s.Status
		if status == "" {
			status = "waiting"
		}
		batch.Queue(`
			INSERT INTO services (id, name, description, images, status)
			VALUES ($1, $2, NULLIF($3, ''), $4, $5)
			ON CONFLICT (id) DO UPDATE
			SET name = EXCLUDED.name, description = EXCLUDED.description,
			    images = EXCLUDED.images, status = EXCLUDED.status,
			    updated_at = now()
		`, s.ID, s.Name, s.Description, images, status)
	}
	br := r.db.Pool.SendBatch(ctx, batch)
	defer br.Close()
	for range services {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("batch exec: %w", err)
		}
	}
	return nil
}
