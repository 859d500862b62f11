package pick2

import (
	"time"

	"github.com/patrickmn/go-cache"
)

// SessionStore holds in-progress shopper selections keyed by session id.
// Selections expire after the TTL; an expired or unknown session simply
// starts empty again.
type SessionStore struct {
	cache *cache.Cache
	ttl   time.Duration
}

func NewSessionStore(ttl time.Duration) *SessionStore {
	return &SessionStore{
		cache: cache.New(ttl, 10*time.Minute),
		ttl:   ttl,
	}
}

// Get returns the selection for a session, creating an empty one if needed.
func (s *SessionStore) Get(sessionID string) *Selection {
	if x, found := s.cache.Get(sessionID); found {
		return x.(*Selection)
	}
	sel := NewSelection()
	s.cache.Set(sessionID, sel, cache.DefaultExpiration)
	return sel
}

// Save refreshes a session's TTL after a mutation.
func (s *SessionStore) Save(sessionID string, sel *Selection) {
	s.cache.Set(sessionID, sel, cache.DefaultExpiration)
}

// Delete drops a session outright.
func (s *SessionStore) Delete(sessionID string) {
	s.cache.Delete(sessionID)
}
