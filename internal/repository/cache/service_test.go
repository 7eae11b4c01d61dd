package cache

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jordankom/sofhair/internal/model"
	"github.com/jordankom/sofhair/internal/repository"
)

type countingServiceRepo struct {
	services  map[uuid.UUID]*model.Service
	gets      int
	listCalls int
}

func (r *countingServiceRepo) Get(_ context.Context, id uuid.UUID) (*model.Service, error) {
	r.gets++
	svc, ok := r.services[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return svc, nil
}

func (r *countingServiceRepo) ListActive(_ context.Context) ([]*model.Service, error) {
	r.listCalls++
	var result []*model.Service
	for _, svc := range r.services {
		if svc.Active {
			result = append(result, svc)
		}
	}
	return result, nil
}

func TestGetCachesHits(t *testing.T) {
	svc := &model.Service{Base: model.Base{ID: uuid.New()}, Name: "Coupe homme", Active: true}
	inner := &countingServiceRepo{services: map[uuid.UUID]*model.Service{svc.ID: svc}}
	cached := NewServiceRepository(inner, time.Minute)

	for i := 0; i < 3; i++ {
		got, err := cached.Get(context.Background(), svc.ID)
		require.NoError(t, err)
		assert.Equal(t, svc.Name, got.Name)
	}
	assert.Equal(t, 1, inner.gets)
}

func TestGetDoesNotCacheMisses(t *testing.T) {
	inner := &countingServiceRepo{services: map[uuid.UUID]*model.Service{}}
	cached := NewServiceRepository(inner, time.Minute)

	id := uuid.New()
	for i := 0; i < 2; i++ {
		_, err := cached.Get(context.Background(), id)
		assert.ErrorIs(t, err, repository.ErrNotFound)
	}
	assert.Equal(t, 2, inner.gets)
}

func TestListActiveCachesHits(t *testing.T) {
	svc := &model.Service{Base: model.Base{ID: uuid.New()}, Name: "Coupe homme", Active: true}
	inner := &countingServiceRepo{services: map[uuid.UUID]*model.Service{svc.ID: svc}}
	cached := NewServiceRepository(inner, time.Minute)

	for i := 0; i < 3; i++ {
		list, err := cached.ListActive(context.Background())
		require.NoError(t, err)
		assert.Len(t, list, 1)
	}
	assert.Equal(t, 1, inner.listCalls)
}
