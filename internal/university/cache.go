package university

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/edgard/counsellor/internal/config"
)

const cacheKeyPrefix = "university:search:"

// Cache memoises directory lookups in Redis. A nil *Cache is valid and
// never hits.
type Cache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewCache connects to Redis when cfg.RedisAddr is set. It returns a nil
// cache when caching is disabled.
func NewCache(ctx context.Context, cfg config.CacheConfig) (*Cache, error) {
	if cfg.RedisAddr == "" {
		return nil, nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.RedisAddr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return NewCacheWithClient(rdb, cfg.TTL), nil
}

// NewCacheWithClient wraps an existing Redis client.
func NewCacheWithClient(rdb *redis.Client, ttl time.Duration) *Cache {
	return &Cache{rdb: rdb, ttl: ttl}
}

// CacheKey is the Redis key for a (country, name) lookup. Both parts are
// query-escaped so distinct lookups never share a key.
func CacheKey(country, name string) string {
	return cacheKeyPrefix + url.Values{"country": {country}, "name": {name}}.Encode()
}

// Get returns cached records. Misses and Redis errors both report ok=false;
// the error is non-nil only for the latter.
func (c *Cache) Get(ctx context.Context, country, name string) ([]RawRecord, bool, error) {
	if c == nil {
		return nil, false, nil
	}
	data, err := c.rdb.Get(ctx, CacheKey(country, name)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read cache: %w", err)
	}

	var records []RawRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, false, fmt.Errorf("failed to decode cached records: %w", err)
	}
	return records, true, nil
}

// Set stores records under the lookup key with the configured TTL.
func (c *Cache) Set(ctx context.Context, country, name string, records []RawRecord) error {
	if c == nil {
		return nil
	}
	data, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("failed to encode records: %w", err)
	}
	if err := c.rdb.Set(ctx, CacheKey(country, name), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write cache: %w", err)
	}
	return nil
}

// Ping checks the Redis connection.
func (c *Cache) Ping(ctx context.Context) error {
	if c == nil {
		return nil
	}
	return c.rdb.Ping(ctx).Err()
}

// Close releases the Redis connection pool.
func (c *Cache) Close() error {
	if c == nil {
		return nil
	}
	return c.rdb.Close()
}
