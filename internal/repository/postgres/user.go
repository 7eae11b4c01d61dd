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

func (r *userRepository) Get(ctx context.Context, id uuid.UUID) (_ *model.User, err error) {
	done := r.track("user_get")
	defer func() { done(err) }()

	query := `
		SELECT id, email, first_name, last_name, role, created_at, updated_at
		FROM users
		WHERE id = $1
	`
	var user model.User
	err = r.db.GetContext(ctx, &user, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}
