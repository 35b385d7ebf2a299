package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/dobosmarton/gaffer-app/internal/pkg/cache"
)

func newTestLimiter() *Limiter {
	return NewLimiter(cache.NewService(cache.NewMemoryBackend(), nil))
}

func TestLimiterAllowsWithinLimit(t *testing.T) {
	limiter := newTestLimiter()
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		assert.True(t, limiter.Allow(ctx, "user-1", 5, time.Hour))
	}
}

func TestLimiterBlocksOverLimit(t *testing.T) {
	limiter := newTestLimiter()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		assert.True(t, limiter.Allow(ctx, "user-1", 3, time.Hour))
	}
	assert.False(t, limiter.Allow(ctx, "user-1", 3, time.Hour))
}

func TestLimiterSeparatesKeys(t *testing.T) {
	limiter := newTestLimiter()
	ctx := context.Background()

	assert.True(t, limiter.Allow(ctx, "user-1", 1, time.Hour))
	assert.False(t, limiter.Allow(ctx, "user-1", 1, time.Hour))
	assert.True(t, limiter.Allow(ctx, "user-2", 1, time.Hour))
}
