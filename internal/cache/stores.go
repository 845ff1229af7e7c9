package cache

import (
	"time"

	gocache "github.com/patrickmn/go-cache"

	"arogyakrishi/internal/model"
)

const (
	// DefaultStoreTTL is how long a store lookup stays fresh.
	DefaultStoreTTL = 10 * time.Minute
)

// StoreCache keeps recent Overpass lookups in process memory.
type StoreCache struct {
	items *gocache.Cache
}

// NewStoreCache creates a StoreCache whose entries expire after ttl.
func NewStoreCache(ttl time.Duration) *StoreCache {
	if ttl <= 0 {
		ttl = DefaultStoreTTL
	}
	return &StoreCache{items: gocache.New(ttl, ttl*2)}
}

// Get returns a copy of the cached stores for key.
func (c *StoreCache) Get(key string) ([]model.PesticideStore, bool) {
	v, ok := c.items.Get(key)
	if !ok {
		return nil, false
	}
	stores, ok := v.([]model.PesticideStore)
	if !ok {
		return nil, false
	}
	return append([]model.PesticideStore(nil), stores...), true
}

// Set stores a copy of stores under key with the default expiration.
func (c *StoreCache) Set(key string, stores []model.PesticideStore) {
	c.items.Set(key, append([]model.PesticideStore(nil), stores...), gocache.DefaultExpiration)
}

// Len reports how many unexpired lookups are cached.
func (c *StoreCache) Len() int {
	return c.items.ItemCount()
}
