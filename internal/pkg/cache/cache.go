package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"github.com/redis/go-redis/v9"

	"github.com/dobosmarton/gaffer-app/internal/pkg/env"
)

// Backend is the common contract for cache stores. A miss is reported via the
// bool, not an error; backends must never be a source of truth for callers.
type Backend interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) (bool, error)
	Ping(ctx context.Context) bool
	Close() error
}

// memoryBackend is an in-process map with per-entry expiry. Used for local
// development and as the fallback when Redis is unreachable.
type memoryBackend struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
}

type memoryEntry struct {
	value     string
	expiresAt time.Time
}

// NewMemoryBackend creates an in-process cache backend
func NewMemoryBackend() Backend {
	return &memoryBackend{entries: make(map[string]memoryEntry)}
}

func (b *memoryBackend) Get(_ context.Context, key string) (string, bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	entry, ok := b.entries[key]
	if !ok {
		return "", false, nil
	}
	if time.Now().After(entry.expiresAt) {
		// Expired - clean up lazily
		delete(b.entries, key)
		return "", false, nil
	}
	return entry.value, true, nil
}

func (b *memoryBackend) Set(_ context.Context, key string, value string, ttl time.Duration) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.entries[key] = memoryEntry{
		value:     value,
		expiresAt: time.Now().Add(ttl),
	}
	return nil
}

func (b *memoryBackend) Delete(_ context.Context, key string) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	_, existed := b.entries[key]
	delete(b.entries, key)
	return existed, nil
}

func (b *memoryBackend) Ping(_ context.Context) bool {
	return true
}

func (b *memoryBackend) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.entries = make(map[string]memoryEntry)
	return nil
}

// redisBackend delegates TTL handling to Redis. Backend errors are logged and
// reported as misses or failed writes, never propagated as hard failures.
type redisBackend struct {
	client *redis.Client
}

// NewRedisBackend wraps an existing Redis client as a cache backend
func NewRedisBackend(client *redis.Client) Backend {
	return &redisBackend{client: client}
}

func (b *redisBackend) Get(ctx context.Context, key string) (string, bool, error) {
	value, err := b.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		log.Warnf("[Cache] Redis GET error for key %s: %v", key, err)
		return "", false, nil
	}
	return value, true, nil
}

func (b *redisBackend) Set(ctx context.Context, key string, value string, ttl time.Duration) error {
	if err := b.client.Set(ctx, key, value, ttl).Err(); err != nil {
		log.Warnf("[Cache] Redis SET error for key %s: %v", key, err)
		return err
	}
	return nil
}

func (b *redisBackend) Delete(ctx context.Context, key string) (bool, error) {
	deleted, err := b.client.Del(ctx, key).Result()
	if err != nil {
		log.Warnf("[Cache] Redis DELETE error for key %s: %v", key, err)
		return false, nil
	}
	return deleted > 0, nil
}

func (b *redisBackend) Ping(ctx context.Context) bool {
	return b.client.Ping(ctx).Err() == nil
}

func (b *redisBackend) Close() error {
	return b.client.Close()
}

// Connect builds the cache service from environment configuration. When the
// Redis server is unreachable at startup the service runs memory-only.
func Connect() *Service {
	host := env.GetEnv("CACHE_HOST", "localhost")
	port := env.GetEnv("CACHE_PORT", "6379")

	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", host, port),
		Password: "", // no password set
		DB:       0,  // use default DB
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		log.Warnf("[Cache] Could not connect to Redis at %s:%s, using in-memory cache: %v", host, port, err)
		client.Close()
		return NewService(NewMemoryBackend(), nil)
	}

	log.Infof("[Cache] Connected to Redis at %s:%s", host, port)
	return NewService(NewRedisBackend(client), nil)
}
