package promotion

import (
	"math"
	"time"

	"github.com/jordankom/sofhair/internal/model"
)

// Result is the outcome of resolving the best promotion for a service.
type Result struct {
	Promotion  *model.Promotion
	FinalPrice float64
}

// DiscountedPrice applies one promotion to a base price. Percentage
// discounts multiply, fixed amounts subtract; both are floored at zero and
// rounded to 2 decimal places.
func DiscountedPrice(base float64, p *model.Promotion) float64 {
	var price float64
	switch p.Kind {
	case model.PromotionKindPercent:
		price = base * (1 - p.Value/100)
	case model.PromotionKindAmount:
		price = base - p.Value
	default:
		price = base
	}
	if price < 0 {
		price = 0
	}
	return math.Round(price*100) / 100
}

// Resolve selects the single promotion yielding the lowest final price for
// the service at now, or none. Candidates are expected most recently created
// first; on equal prices the earlier candidate wins, so ties resolve to the
// newest promotion. Pure function, no side effects.
func Resolve(svc *model.Service, candidates []*model.Promotion, now time.Time) Result {
	best := Result{FinalPrice: svc.Price}

	for _, p := range candidates {
		if !p.ActiveAt(now) || !p.AppliesTo(svc) {
			continue
		}
		price := DiscountedPrice(svc.Price, p)
		if best.Promotion == nil || price < best.FinalPrice {
			best = Result{Promotion: p, FinalPrice: price}
		}
	}

	return best
}

// Snapshot converts a resolution into the fields persisted on the
// appointment, nil when no promotion applied.
func (r Result) Snapshot() *model.PromotionSnapshot {
	if r.Promotion == nil {
		return nil
	}
	return &model.PromotionSnapshot{
		Name:  r.Promotion.Name,
		Kind:  r.Promotion.Kind,
		Value: r.Promotion.Value,
	}
}
