package tripPlan

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

var ErrGenerationInProgress = errors.New("generation is already in progress")

// Registry tracks in-flight generations by ID so they can be cancelled from
// another request. Only cancel functions are stored, never results. Entries
// expire after ttl in case a pipeline never deregisters.
type Registry struct {
	cache *cache.Cache
}

func NewRegistry(ttl time.Duration) *Registry {
	return &Registry{cache: cache.New(ttl, ttl)}
}

func (r *Registry) Add(id uuid.UUID, cancel context.CancelFunc) error {
	if err := r.cache.Add(id.String(), cancel, cache.DefaultExpiration); err != nil {
		return ErrGenerationInProgress
	}
	return nil
}

func (r *Registry) Remove(id uuid.UUID) {
	r.cache.Delete(id.String())
}

// Cancel cancels the generation with the given ID. It reports false when no
// such generation is in flight.
func (r *Registry) Cancel(id uuid.UUID) bool {
	v, ok := r.cache.Get(id.String())
	if !ok {
		return false
	}
	cancel, ok := v.(context.CancelFunc)
	if !ok {
		return false
	}
	cancel()
	r.cache.Delete(id.String())
	return true
}

func (r *Registry) Len() int {
	return r.cache.ItemCount()
}
