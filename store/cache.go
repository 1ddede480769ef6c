package store

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache is the small surface the jobs and dashboard reads need: JSON blobs
// keyed by string, best effort.
type Cache interface {
	SetCache(ctx context.Context, key string, payload []byte, ttl time.Duration) error
	GetCache(ctx context.Context, key string) ([]byte, bool)
	DeleteCache(ctx context.Context, key string) error
}

var _ Cache = (*RedisCache)(nil)

type RedisCache struct {
	client *redis.Client
}

func NewRedisCache(client *redis.Client) *RedisCache {
	return &RedisCache{client: client}
}

func (r *RedisCache) SetCache(ctx context.Context, key string, payload []byte, ttl time.Duration) error {
	err := r.client.Set(ctx, key, payload, ttl).Err()
	if err != nil {
		log.Println("Error from setCache: ", err)
	}
	return err
}

func (r *RedisCache) GetCache(ctx context.Context, key string) ([]byte, bool) {
	payload, err := r.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		log.Println("Error from getCache: ", err)
		return nil, false
	}
	return payload, true
}

func (r *RedisCache) DeleteCache(ctx context.Context, key string) error {
	err := r.client.Del(ctx, key).Err()
	if err != nil {
		log.Println("Error from deleteCache: ", err)
	}
	return err
}

var _ Cache = (*MemoryCache)(nil)

// MemoryCache backs tests. TTL is honored on read.
type MemoryCache struct {
	mu      sync.Mutex
	entries map[string]memoryCacheEntry
}

type memoryCacheEntry struct {
	payload   []byte
	expiresAt time.Time
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{entries: make(map[string]memoryCacheEntry)}
}

func (m *MemoryCache) SetCache(ctx context.Context, key string, payload []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = memoryCacheEntry{payload: payload, expiresAt: time.Now().Add(ttl)}
	return nil
}

func (m *MemoryCache) GetCache(ctx context.Context, key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[key]
	if !ok || time.Now().After(e.expiresAt) {
		return nil, false
	}
	return e.payload, true
}

func (m *MemoryCache) DeleteCache(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, key)
	return nil
}
