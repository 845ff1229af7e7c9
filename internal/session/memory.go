package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"

	"arogyakrishi/internal/model"
)

// MemoryStore keeps sessions in process memory. Idle sessions expire after
// the TTL, which bounds the number of sessions held.
type MemoryStore struct {
	mu       sync.Mutex
	items    *gocache.Cache
	maxTurns int
	ttl      time.Duration
}

// NewMemoryStore creates an in-process Store.
func NewMemoryStore(maxTurns int, ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		items:    gocache.New(ttl, ttl/2+time.Second),
		maxTurns: maxTurns,
		ttl:      ttl,
	}
}

// GetOrCreate implements Store.
func (s *MemoryStore) GetOrCreate(ctx context.Context, id string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if id != "" {
		if v, ok := s.items.Get(id); ok {
			s.items.Set(id, v, gocache.DefaultExpiration)
			return id, nil
		}
	}

	newID := uuid.NewString()
	s.items.Set(newID, []model.ChatTurn{}, gocache.DefaultExpiration)
	return newID, nil
}

// Append implements Store. Appending to an unknown id starts its history.
func (s *MemoryStore) Append(ctx context.Context, id string, turn model.ChatTurn) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var turns []model.ChatTurn
	if v, ok := s.items.Get(id); ok {
		turns = v.([]model.ChatTurn)
	}

	next := make([]model.ChatTurn, 0, len(turns)+1)
	next = append(next, turns...)
	next = append(next, turn)
	s.items.Set(id, truncate(next, s.maxTurns), gocache.DefaultExpiration)
	return nil
}

// History implements Store.
func (s *MemoryStore) History(ctx context.Context, id string) ([]model.ChatTurn, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok := s.items.Get(id)
	if !ok {
		return []model.ChatTurn{}, nil
	}
	turns := v.([]model.ChatTurn)
	return append([]model.ChatTurn(nil), turns...), nil
}

