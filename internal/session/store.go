// Package session keeps bounded chat histories keyed by an opaque session id.
package session

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"arogyakrishi/internal/model"
)

const (
	// DefaultMaxTurns is how many turns a session retains.
	DefaultMaxTurns = 20
	// DefaultTTL is how long an idle session survives.
	DefaultTTL = 24 * time.Hour
)

var (
	ErrInvalidStoreType = errors.New("invalid session store type")
	ErrInvalidConfig    = errors.New("invalid session store config")
)

// Store holds chat histories. Appends to the same session from concurrent
// requests are not ordered against each other.
type Store interface {
	// GetOrCreate returns id when it names a live session; otherwise it
	// allocates a new id with an empty history.
	GetOrCreate(ctx context.Context, id string) (string, error)

	// Append adds a turn and evicts the oldest turns beyond the cap.
	Append(ctx context.Context, id string, turn model.ChatTurn) error

	// History returns the retained turns, oldest first.
	History(ctx context.Context, id string) ([]model.ChatTurn, error)
}

// StoreType selects a Store driver.
type StoreType string

const (
	StoreTypeMemory StoreType = "memory"
	StoreTypeRedis  StoreType = "redis"
)

// StoreOption is a functional option for configuring a session store.
type StoreOption func(*storeConfig)

type storeConfig struct {
	maxTurns    int
	ttl         time.Duration
	redisClient *redis.Client
}

// WithMaxTurns sets the history cap.
func WithMaxTurns(n int) StoreOption {
	return func(c *storeConfig) {
		c.maxTurns = n
	}
}

// WithTTL sets the idle lifetime of a session.
func WithTTL(ttl time.Duration) StoreOption {
	return func(c *storeConfig) {
		c.ttl = ttl
	}
}

// WithRedisClient sets the Redis client for the Redis store.
func WithRedisClient(client *redis.Client) StoreOption {
	return func(c *storeConfig) {
		c.redisClient = client
	}
}

// NewStore creates a Store of the given type.
// For Redis, requires WithRedisClient option.
func NewStore(storeType StoreType, opts ...StoreOption) (Store, error) {
	cfg := &storeConfig{maxTurns: DefaultMaxTurns, ttl: DefaultTTL}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.maxTurns <= 0 {
		cfg.maxTurns = DefaultMaxTurns
	}
	if cfg.ttl <= 0 {
		cfg.ttl = DefaultTTL
	}

	switch storeType {
	case StoreTypeMemory, "":
		return NewMemoryStore(cfg.maxTurns, cfg.ttl), nil
	case StoreTypeRedis:
		if cfg.redisClient == nil {
			return nil, ErrInvalidConfig
		}
		return NewRedisStore(cfg.redisClient, cfg.maxTurns, cfg.ttl), nil
	default:
		return nil, ErrInvalidStoreType
	}
}

// truncate keeps the last max turns.
func truncate(turns []model.ChatTurn, max int) []model.ChatTurn {
	if len(turns) <= max {
		return turns
	}
	return turns[len(turns)-max:]
}
