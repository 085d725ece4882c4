package memory

import (
	"context"
	"sync"
	"time"

	"github.com/minifeed/feed-service/internal/core/domain"
	"github.com/minifeed/feed-service/internal/core/ports"
)

type sessionEntry struct {
	sess      domain.Session
	expiresAt time.Time
}

// SessionStore keeps sessions in memory. Expired entries are dropped lazily
// on lookup.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]sessionEntry
	now      func() time.Time
}

var _ ports.SessionStore = (*SessionStore)(nil)

func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: make(map[string]sessionEntry), now: time.Now}
}

func (s *SessionStore) Save(_ context.Context, sess *domain.Session, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sess.ID] = sessionEntry{sess: *sess, expiresAt: s.now().Add(ttl)}
	return nil
}

func (s *SessionStore) Get(_ context.Context, id string) (*domain.Session, error) {
	s.mu.RLock()
	e, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	if !s.now().Before(e.expiresAt) {
		s.mu.Lock()
		if cur, still := s.sessions[id]; still && cur.expiresAt.Equal(e.expiresAt) {
			delete(s.sessions, id)
		}
		s.mu.Unlock()
		return nil, domain.ErrSessionNotFound
	}
	sess := e.sess
	return &sess, nil
}

func (s *SessionStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	return nil
}

// Len reports the number of stored sessions, expired ones included.
func (s *SessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
