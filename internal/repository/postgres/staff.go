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

func (r *staffRepository) Get(ctx context.Context, id uuid.UUID) (_ *model.Staff, err error) {
	done := r.track("staff_get")
	defer func() { done(err) }()

	query := `
		SELECT id, first_name, last_name, email, active, created_at, updated_at
		FROM staff
		WHERE id = $1
	`
	var st model.Staff
	err = r.db.GetContext(ctx, &st, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get staff member: %w", err)
	}
	return &st, nil
}

func (r *staffRepository) ListActive(ctx context.Context) (_ []*model.Staff, err error) {
	done := r.track("staff_list_active")
	defer func() { done(err) }()

	query := `
		SELECT id, first_name, last_name, email, active, created_at, updated_at
		FROM staff
		WHERE active = true
		ORDER BY last_name, first_name
	`
	var staff []*model.Staff
	err = r.db.SelectContext(ctx, &staff, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list staff: %w", err)
	}
	return staff, nil
}
