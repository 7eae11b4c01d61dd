package model

import (
	"time"

	"github.com/google/uuid"
)

type PromotionKind string

const (
	PromotionKindPercent PromotionKind = "percent"
	PromotionKindAmount  PromotionKind = "amount"
)

type PromotionTarget string

const (
	PromotionTargetAll      PromotionTarget = "all"
	PromotionTargetCategory PromotionTarget = "category"
	PromotionTargetService  PromotionTarget = "service"
)

// Promotion is a discount rule applied automatically at booking time.
// Scope is the whole catalog, one category, or one specific service; the
// activity window bounds are optional.
type Promotion struct {
	Base
	Name            string          `db:"name" json:"name"`
	Kind            PromotionKind   `db:"kind" json:"kind"`
	Value           float64         `db:"value" json:"value"`
	TargetType      PromotionTarget `db:"target_type" json:"target_type"`
	TargetCategory  *string         `db:"target_category" json:"target_category,omitempty"`
	TargetServiceID *uuid.UUID      `db:"target_service_id" json:"target_service_id,omitempty"`
	StartAt         *time.Time      `db:"start_at" json:"start_at,omitempty"`
	EndAt           *time.Time      `db:"end_at" json:"end_at,omitempty"`
	Active          bool            `db:"active" json:"active"`
}

// AppliesTo reports whether the promotion's scope covers the service.
func (p *Promotion) AppliesTo(svc *Service) bool {
	switch p.TargetType {
	case PromotionTargetAll:
		return true
	case PromotionTargetCategory:
		return p.TargetCategory != nil && *p.TargetCategory == svc.Category
	case PromotionTargetService:
		return p.TargetServiceID != nil && *p.TargetServiceID == svc.ID
	default:
		return false
	}
}

// ActiveAt reports whether the promotion is switched on and its activity
// window (if any bounds are set) contains now.
func (p *Promotion) ActiveAt(now time.Time) bool {
	if !p.Active {
		return false
	}
	if p.StartAt != nil && now.Before(*p.StartAt) {
		return false
	}
	if p.EndAt != nil && now.After(*p.EndAt) {
		return false
	}
	return true
}
