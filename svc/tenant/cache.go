package tenant

import (
	"context"
	"encoding/json"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/redis/go-redis/v9"

	"github.com/quinncodes/orgspace/svc/org"
)

// Cache stores resolved organizations keyed by slug. Only the
// organization is cached, never membership or role: membership is
// per-user and must stay fresh for access decisions.
type Cache interface {
	Get(ctx context.Context, slug string) (*org.Organization, bool)
	Set(ctx context.Context, slug string, o *org.Organization) error
	Delete(ctx context.Context, slug string) error
}

// NoOpCache disables caching, useful in tests.
type NoOpCache struct{}

func (NoOpCache) Get(ctx context.Context, slug string) (*org.Organization, bool) { return nil, false }
func (NoOpCache) Set(ctx context.Context, slug string, o *org.Organization) error { return nil }
func (NoOpCache) Delete(ctx context.Context, slug string) error                   { return nil }

// MemoryCache is an in-process TTL cache backed by go-cache.
type MemoryCache struct {
	c *gocache.Cache
}

// NewMemoryCache creates a memory cache with the given entry TTL.
func NewMemoryCache(ttl time.Duration) *MemoryCache {
	return &MemoryCache{c: gocache.New(ttl, time.Minute)}
}

func (m *MemoryCache) Get(ctx context.Context, slug string) (*org.Organization, bool) {
	v, ok := m.c.Get(slug)
	if !ok {
		return nil, false
	}
	o, ok := v.(*org.Organization)
	return o, ok
}

func (m *MemoryCache) Set(ctx context.Context, slug string, o *org.Organization) error {
	m.c.SetDefault(slug, o)
	return nil
}

func (m *MemoryCache) Delete(ctx context.Context, slug string) error {
	m.c.Delete(slug)
	return nil
}

// RedisCache shares resolved organizations across instances. Values
// are stored as JSON under a slug-derived key.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCache creates a Redis-backed organization cache.
func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, ttl: ttl}
}

func (r *RedisCache) key(slug string) string {
	return "tenant:org:" + slug
}

func (r *RedisCache) Get(ctx context.Context, slug string) (*org.Organization, bool) {
	raw, err := r.client.Get(ctx, r.key(slug)).Bytes()
	if err != nil {
		return nil, false
	}
	var o org.Organization
	if err := json.Unmarshal(raw, &o); err != nil {
		return nil, false
	}
	return &o, true
}

func (r *RedisCache) Set(ctx context.Context, slug string, o *org.Organization) error {
	raw, err := json.Marshal(o)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, r.key(slug), raw, r.ttl).Err()
}

func (r *RedisCache) Delete(ctx context.Context, slug string) error {
	return r.client.Del(ctx, r.key(slug)).Err()
}
