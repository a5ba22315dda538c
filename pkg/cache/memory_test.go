package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/noah-isme/course-sessions/pkg/config"
)

func TestNewMemoryAppliesTTL(t *testing.T) {
	store := NewMemory(config.CacheConfig{TTL: time.Minute, CleanupInterval: time.Minute})
	store.SetDefault("k", []byte("v"))

	_, expiry, found := store.GetWithExpiration("k")
	assert.True(t, found)
	assert.WithinDuration(t, time.Now().Add(time.Minute), expiry, 5*time.Second)
}
