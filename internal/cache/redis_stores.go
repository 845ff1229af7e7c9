package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"arogyakrishi/internal/model"
)

const (
	// StoreCachePrefix is the key prefix for shared store lookups.
	StoreCachePrefix = "stores:"

	// redisOpTimeout bounds a single cache round trip.
	redisOpTimeout = 250 * time.Millisecond
)

// RedisStoreCache shares store lookups between API instances. Redis errors
// are logged and treated as misses.
type RedisStoreCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewRedisStoreCache creates a RedisStoreCache whose entries expire after ttl.
func NewRedisStoreCache(client *redis.Client, ttl time.Duration, logger *zap.Logger) *RedisStoreCache {
	if ttl <= 0 {
		ttl = DefaultStoreTTL
	}
	return &RedisStoreCache{client: client, ttl: ttl, logger: logger}
}

func storeKey(key string) string {
	return StoreCachePrefix + key
}

// Get returns the cached stores for key.
func (c *RedisStoreCache) Get(key string) ([]model.PesticideStore, bool) {
	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()

	raw, err := c.client.Get(ctx, storeKey(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false
	}
	if err != nil {
		c.logger.Warn("store cache get failed", zap.String("key", key), zap.Error(err))
		return nil, false
	}

	var stores []model.PesticideStore
	if err := json.Unmarshal(raw, &stores); err != nil {
		c.logger.Warn("store cache entry unreadable", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	return stores, true
}

// Set stores stores under key.
func (c *RedisStoreCache) Set(key string, stores []model.PesticideStore) {
	raw, err := json.Marshal(stores)
	if err != nil {
		c.logger.Warn("store cache encode failed", zap.String("key", key), zap.Error(err))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()
	if err := c.client.Set(ctx, storeKey(key), raw, c.ttl).Err(); err != nil {
		c.logger.Warn("store cache set failed", zap.String("key", key), zap.Error(err))
	}
}
