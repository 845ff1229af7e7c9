package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"arogyakrishi/internal/model"
)

func TestRedisStoreCache(t *testing.T) {
	url := os.Getenv("TEST_REDIS_URL")
	if url == "" {
		url = "redis://localhost:6379/15"
	}
	opts, err := redis.ParseURL(url)
	require.NoError(t, err)
	client := redis.NewClient(opts)
	t.Cleanup(func() { _ = client.Close() })

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		t.Skipf("Redis not available: %v", err)
	}

	c := NewRedisStoreCache(client, time.Minute, zap.NewNop())
	key := "test:" + uuid.NewString()
	t.Cleanup(func() { client.Del(context.Background(), storeKey(key)) })

	_, ok := c.Get(key)
	assert.False(t, ok)

	d := 0.8
	phone := "+91 98480 22338"
	stores := []model.PesticideStore{{Name: "Sri Sai Fertilizers", Phone: &phone, Latitude: 17.4, Longitude: 78.5, DistanceKM: &d}}
	c.Set(key, stores)

	got, ok := c.Get(key)
	require.True(t, ok)
	assert.Equal(t, stores, got)

	ttl, err := client.TTL(context.Background(), storeKey(key)).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, 50*time.Second)
}

func TestRedisStoreCache_UnreachableIsAMiss(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", MaxRetries: -1, DialTimeout: 50 * time.Millisecond})
	t.Cleanup(func() { _ = client.Close() })

	c := NewRedisStoreCache(client, time.Minute, zap.NewNop())
	c.Set("k", []model.PesticideStore{{Name: "x"}})
	_, ok := c.Get("k")
	assert.False(t, ok)
}
