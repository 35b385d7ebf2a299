package ratelimit

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/dobosmarton/gaffer-app/internal/pkg/cache"
)

// Limiter implements fixed-window request counting on top of the cache
// service. When the cache is degraded to its in-process fallback the limits
// still hold per instance, which is acceptable for abuse protection.
type Limiter struct {
	cache *cache.Service
}

func NewLimiter(c *cache.Service) *Limiter {
	return &Limiter{cache: c}
}

// Allow increments the counter for the given key in the current window and
// reports whether the request is within limit. Cache write failures fail
// open; a broken cache should never lock users out.
func (l *Limiter) Allow(ctx context.Context, key string, limit int, window time.Duration) bool {
	bucket := time.Now().Unix() / int64(window.Seconds())
	cacheKey := fmt.Sprintf("ratelimit:%s:%d", key, bucket)

	count := 0
	if val, ok := l.cache.Get(ctx, cacheKey); ok {
		if parsed, err := strconv.Atoi(val); err == nil {
			count = parsed
		}
	}
	if count >= limit {
		return false
	}

	l.cache.Set(ctx, cacheKey, strconv.Itoa(count+1), window)
	return true
}
