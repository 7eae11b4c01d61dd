package cache

import (
	"context"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"

	"github.com/jordankom/sofhair/internal/model"
	"github.com/jordankom/sofhair/internal/repository"
)

const listKey = "services:active"

// ServiceRepository decorates the catalog repository with a short-lived
// in-process cache. The catalog changes rarely compared to how often the
// booking flow reads it; stale reads are bounded by the TTL.
type ServiceRepository struct {
	inner repository.ServiceRepository
	cache *gocache.Cache
}

func NewServiceRepository(inner repository.ServiceRepository, ttl time.Duration) *ServiceRepository {
	return &ServiceRepository{
		inner: inner,
		cache: gocache.New(ttl, 2*ttl),
	}
}

func (r *ServiceRepository) Get(ctx context.Context, id uuid.UUID) (*model.Service, error) {
	key := "service:" + id.String()
	if v, ok := r.cache.Get(key); ok {
		return v.(*model.Service), nil
	}

	svc, err := r.inner.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	r.cache.SetDefault(key, svc)
	return svc, nil
}

func (r *ServiceRepository) ListActive(ctx context.Context) ([]*model.Service, error) {
	if v, ok := r.cache.Get(listKey); ok {
		return v.([]*model.Service), nil
	}

	services, err := r.inner.ListActive(ctx)
	if err != nil {
		return nil, err
	}

	r.cache.SetDefault(listKey, services)
	return services, nil
}
