package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jordankom/sofhair/internal/model"
)

// ListActiveFor mirrors the resolver's candidate definition in SQL: switched
// on, activity window (if bounded) containing now, scope covering the
// service. Ordered newest first so equal-price ties resolve to the most
// recently created promotion.
func (r *promotionRepository) ListActiveFor(ctx context.Context, svc *model.Service, now time.Time) (_ []*model.Promotion, err error) {
	done := r.track("promotion_list_active")
	defer func() { done(err) }()

	query := `
		SELECT id, name, kind, value, target_type, target_category,
			   target_service_id, start_at, end_at, active,
			   created_at, updated_at
		FROM promotions
		WHERE active = true
		AND (start_at IS NULL OR start_at <= $1)
		AND (end_at IS NULL OR end_at >= $1)
		AND (
			target_type = 'all'
			OR (target_type = 'category' AND target_category = $2)
			OR (target_type = 'service' AND target_service_id = $3)
		)
		ORDER BY created_at DESC
	`
	var promos []*model.Promotion
	err = r.db.SelectContext(ctx, &promos, query, now, svc.Category, svc.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list active promotions: %w", err)
	}
	return promos, nil
}
