package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/jordankom/sofhair/internal/model"
	"github.com/jordankom/sofhair/internal/repository"
)

func (r *serviceRepository) Get(ctx context.Context, id uuid.UUID) (_ *model.Service, err error) {
	done := r.track("service_get")
	defer func() { done(err) }()

	query := `
		SELECT id, name, category, price, duration_minutes,
			   description, image_url, active, created_at, updated_at
		FROM services
		WHERE id = $1
	`
	var svc model.Service
	err = r.db.GetContext(ctx, &svc, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get service: %w", err)
	}
	return &svc, nil
}

func (r *serviceRepository) ListActive(ctx context.Context) (_ []*model.Service, err error) {
	done := r.track("service_list_active")
	defer func() { done(err) }()

	query := `
		SELECT id, name, category, price, duration_minutes,
			   description, image_url, active, created_at, updated_at
		FROM services
		WHERE active = true
		ORDER BY category, name
	`
	var services []*model.Service
	err = r.db.SelectContext(ctx, &services, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list services: %w", err)
	}
	return services, nil
}
