package cache

import (
	"context"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2/log"
)

// Service routes cache operations to a primary backend with automatic
// fallback. Once the primary fails a health check the service stays on the
// fallback for the remainder of the process lifetime; there is no automatic
// recovery, which avoids flapping between half-healthy backends.
type Service struct {
	mu            sync.Mutex
	primary       Backend
	fallback      Backend
	usingFallback bool
}

// NewService creates a cache service. A nil fallback defaults to an
// in-process backend.
func NewService(primary Backend, fallback Backend) *Service {
	if fallback == nil {
		fallback = NewMemoryBackend()
	}
	return &Service{
		primary:  primary,
		fallback: fallback,
	}
}

// UsingFallback reports whether the service has degraded to the fallback backend
func (s *Service) UsingFallback() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.usingFallback
}

func (s *Service) backend(ctx context.Context) Backend {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.usingFallback {
		return s.fallback
	}
	if s.primary.Ping(ctx) {
		return s.primary
	}

	log.Warnf("[Cache] Primary cache unavailable, switching to fallback")
	s.usingFallback = true
	return s.fallback
}

// Get returns the cached value for key. Backend errors surface as misses; a
// miss is indistinguishable from "key absent" by design.
func (s *Service) Get(ctx context.Context, key string) (string, bool) {
	value, ok, err := s.backend(ctx).Get(ctx, key)
	if err != nil {
		return "", false
	}
	return value, ok
}

// Set stores a value with the given TTL. Returns false when the write failed;
// callers must treat the cache as an optimization, not durable storage.
func (s *Service) Set(ctx context.Context, key string, value string, ttl time.Duration) bool {
	return s.backend(ctx).Set(ctx, key, value, ttl) == nil
}

// Delete removes a key, reporting whether it existed
func (s *Service) Delete(ctx context.Context, key string) bool {
	existed, err := s.backend(ctx).Delete(ctx, key)
	if err != nil {
		return false
	}
	return existed
}

// Close shuts down both backends regardless of which one is active
func (s *Service) Close() error {
	err := s.primary.Close()
	if ferr := s.fallback.Close(); err == nil {
		err = ferr
	}
	return err
}
