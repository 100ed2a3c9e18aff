package geocode

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// Cache memoises lookups by normalised query. Failures inside a cache are
// swallowed: a broken cache degrades to a miss, never to a lookup error.
type Cache interface {
	Get(ctx context.Context, key string) ([]Suggestion, bool)
	Set(ctx context.Context, key string, res []Suggestion)
}

func cacheKey(q string, limit int) string {
	return strconv.Itoa(limit) + ":" + strings.Join(strings.Fields(strings.ToLower(q)), " ")
}

// MemoryCache is an in-process LRU with per-entry TTL.
type MemoryCache struct {
	lru *expirable.LRU[string, []Suggestion]
}

func NewMemoryCache(size int, ttl time.Duration) *MemoryCache {
	if size <= 0 {
		size = 256
	}
	return &MemoryCache{lru: expirable.NewLRU[string, []Suggestion](size, nil, ttl)}
}

func (m *MemoryCache) Get(_ context.Context, key string) ([]Suggestion, bool) {
	res, ok := m.lru.Get(key)
	if !ok {
		return nil, false
	}
	return append([]Suggestion(nil), res...), true
}

func (m *MemoryCache) Set(_ context.Context, key string, res []Suggestion) {
	m.lru.Add(key, append([]Suggestion(nil), res...))
}

const redisKeyPrefix = "urbanview:geocode:"

// RedisCache shares lookups between viewer instances.
type RedisCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisCache(rdb *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{rdb: rdb, ttl: ttl}
}

// OpenRedis parses a redis:// URL and returns a client.
func OpenRedis(rawURL string) (*redis.Client, error) {
	opt, err := redis.ParseURL(rawURL)
	if err != nil {
		return nil, err
	}
	return redis.NewClient(opt), nil
}

func (r *RedisCache) Get(ctx context.Context, key string) ([]Suggestion, bool) {
	b, err := r.rdb.Get(ctx, redisKeyPrefix+key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Warn().Err(err).Str("key", key).Msg("redis cache get failed")
		}
		return nil, false
	}
	var res []Suggestion
	if err := json.Unmarshal(b, &res); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("redis cache entry unreadable")
		return nil, false
	}
	return res, true
}

func (r *RedisCache) Set(ctx context.Context, key string, res []Suggestion) {
	if res == nil {
		res = []Suggestion{}
	}
	b, err := json.Marshal(res)
	if err != nil {
		return
	}
	if err := r.rdb.Set(ctx, redisKeyPrefix+key, b, r.ttl).Err(); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("redis cache set failed")
	}
}
