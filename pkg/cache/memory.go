package cache

import (
	gocache "github.com/patrickmn/go-cache"

	"github.com/noah-isme/course-sessions/pkg/config"
)

// NewMemory returns an in-process cache used when Redis is not configured.
func NewMemory(cfg config.CacheConfig) *gocache.Cache {
	return gocache.New(cfg.TTL, cfg.CleanupInterval)
}
