package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"path"
	"time"

	gocache "github.com/patrickmn/go-cache"

	appErrors "github.com/noah-isme/course-sessions/pkg/errors"
)

// MemoryCacheRepository keeps JSON encoded entries in process. Values are stored encoded so
// callers never share mutable state with the cache.
type MemoryCacheRepository struct {
	store *gocache.Cache
}

// NewMemoryCacheRepository wraps an existing go-cache store.
func NewMemoryCacheRepository(store *gocache.Cache) *MemoryCacheRepository {
	return &MemoryCacheRepository{store: store}
}

// Get unmarshals the entry under key into dest or returns ErrCacheMiss.
func (r *MemoryCacheRepository) Get(_ context.Context, key string, dest interface{}) error {
	if r.store == nil {
		return appErrors.ErrCacheMiss
	}
	raw, ok := r.store.Get(key)
	if !ok {
		return appErrors.ErrCacheMiss
	}
	payload, ok := raw.([]byte)
	if !ok {
		r.store.Delete(key)
		return appErrors.ErrCacheMiss
	}
	if err := json.Unmarshal(payload, dest); err != nil {
		return fmt.Errorf("unmarshal cache value for %s: %w", key, err)
	}
	return nil
}

// Set stores value under key for ttl.
func (r *MemoryCacheRepository) Set(_ context.Context, key string, value interface{}, ttl time.Duration) error {
	if r.store == nil {
		return nil
	}
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal cache value for %s: %w", key, err)
	}
	r.store.Set(key, payload, ttl)
	return nil
}

// Delete drops the given keys.
func (r *MemoryCacheRepository) Delete(_ context.Context, keys ...string) error {
	if r.store == nil {
		return nil
	}
	for _, key := range keys {
		r.store.Delete(key)
	}
	return nil
}

// DeleteByPattern removes every key matching a glob pattern, using the same syntax as Redis SCAN for * and ?.
func (r *MemoryCacheRepository) DeleteByPattern(_ context.Context, pattern string) error {
	if r.store == nil {
		return nil
	}
	for key := range r.store.Items() {
		matched, err := path.Match(pattern, key)
		if err != nil {
			return fmt.Errorf("match cache pattern %s: %w", pattern, err)
		}
		if matched {
			r.store.Delete(key)
		}
	}
	return nil
}
