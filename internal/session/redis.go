package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"arogyakrishi/internal/model"
)

const (
	// sessionKeyPrefix marks a live session, including one with no turns yet.
	sessionKeyPrefix = "chat:session:"
	// historyKeyPrefix holds the turn list as JSON entries.
	historyKeyPrefix = "chat:history:"
)

// RedisStore keeps sessions in Redis lists so they survive restarts and are
// shared between instances.
type RedisStore struct {
	client   *redis.Client
	maxTurns int
	ttl      time.Duration
}

// NewRedisStore creates a Redis-backed Store.
func NewRedisStore(client *redis.Client, maxTurns int, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, maxTurns: maxTurns, ttl: ttl}
}

func sessionKey(id string) string { return sessionKeyPrefix + id }
func historyKey(id string) string { return historyKeyPrefix + id }

// GetOrCreate implements Store. A known session has its TTL refreshed.
func (s *RedisStore) GetOrCreate(ctx context.Context, id string) (string, error) {
	if id != "" {
		n, err := s.client.Exists(ctx, sessionKey(id)).Result()
		if err != nil {
			return "", fmt.Errorf("check session: %w", err)
		}
		if n > 0 {
			pipe := s.client.Pipeline()
			pipe.Expire(ctx, sessionKey(id), s.ttl)
			pipe.Expire(ctx, historyKey(id), s.ttl)
			if _, err := pipe.Exec(ctx); err != nil {
				return "", fmt.Errorf("refresh session ttl: %w", err)
			}
			return id, nil
		}
	}

	newID := uuid.NewString()
	if err := s.client.Set(ctx, sessionKey(newID), 1, s.ttl).Err(); err != nil {
		return "", fmt.Errorf("create session: %w", err)
	}
	return newID, nil
}

// Append implements Store.
// Pipeline: RPUSH + LTRIM (keep last maxTurns) + EXPIRE on both keys.
func (s *RedisStore) Append(ctx context.Context, id string, turn model.ChatTurn) error {
	data, err := json.Marshal(turn)
	if err != nil {
		return fmt.Errorf("marshal turn: %w", err)
	}

	pipe := s.client.Pipeline()
	pipe.RPush(ctx, historyKey(id), data)
	pipe.LTrim(ctx, historyKey(id), int64(-s.maxTurns), -1)
	pipe.Expire(ctx, historyKey(id), s.ttl)
	pipe.Set(ctx, sessionKey(id), 1, s.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("append turn: %w", err)
	}
	return nil
}

// History implements Store.
func (s *RedisStore) History(ctx context.Context, id string) ([]model.ChatTurn, error) {
	raw, err := s.client.LRange(ctx, historyKey(id), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("read history: %w", err)
	}

	turns := make([]model.ChatTurn, 0, len(raw))
	for _, r := range raw {
		var t model.ChatTurn
		if err := json.Unmarshal([]byte(r), &t); err != nil {
			return nil, fmt.Errorf("unmarshal turn: %w", err)
		}
		turns = append(turns, t)
	}
	return turns, nil
}
