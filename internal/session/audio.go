package session

import (
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"

	"arogyakrishi/internal/model"
)

// DefaultAudioTTL is how long synthesized replies stay downloadable.
const DefaultAudioTTL = time.Hour

// Clip is a stored audio reply.
type Clip struct {
	Data     []byte
	MIMEType string
}

// AudioStore holds synthesized speech until the client fetches it or it
// expires.
type AudioStore struct {
	items *gocache.Cache
}

// NewAudioStore creates an AudioStore with the given expiry.
func NewAudioStore(ttl time.Duration) *AudioStore {
	if ttl <= 0 {
		ttl = DefaultAudioTTL
	}
	return &AudioStore{items: gocache.New(ttl, ttl/2+time.Second)}
}

// Put stores data and returns its id. An empty mimeType means audio/mpeg.
func (s *AudioStore) Put(data []byte, mimeType string) string {
	if mimeType == "" {
		mimeType = model.ContentTypeMPEG
	}
	id := uuid.NewString()
	s.items.Set(id, Clip{Data: data, MIMEType: mimeType}, gocache.DefaultExpiration)
	return id
}

// Get returns the clip stored under id.
func (s *AudioStore) Get(id string) (Clip, error) {
	v, ok := s.items.Get(id)
	if !ok {
		return Clip{}, model.ErrAudioNotFound
	}
	return v.(Clip), nil
}
