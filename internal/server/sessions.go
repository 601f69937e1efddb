package server

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/iwvelando/carbon-lens/internal/session"
)

// defaultSessionTTL is how long an idle session keeps its result cache.
const defaultSessionTTL = 30 * time.Minute

type sessionEntry struct {
	cache    *session.Cache
	lastSeen time.Time
}

// sessionStore owns the per-session result caches. Individual caches are
// unsynchronized by contract; the store's map is mutex-guarded because
// distinct HTTP requests may race on it.
type sessionStore struct {
	mu      sync.Mutex
	entries map[string]*sessionEntry
	ttl     time.Duration
	now     func() time.Time
}

func newSessionStore(ttl time.Duration) *sessionStore {
	if ttl <= 0 {
		ttl = defaultSessionTTL
	}
	return &sessionStore{
		entries: make(map[string]*sessionEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// get returns the cache for the given session identifier, creating a fresh
// one when the identifier is unknown or its session has expired. Expired
// sessions are pruned on access.
func (s *sessionStore) get(id string) *session.Cache {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for key, entry := range s.entries {
		if now.Sub(entry.lastSeen) > s.ttl {
			delete(s.entries, key)
		}
	}

	entry, ok := s.entries[id]
	if !ok {
		entry = &sessionEntry{cache: session.New()}
		s.entries[id] = entry
	}
	entry.lastSeen = now
	return entry.cache
}

// newSessionID generates a fresh session identifier.
func newSessionID() string {
	return uuid.NewString()
}
