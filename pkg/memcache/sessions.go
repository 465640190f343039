// pkg/memcache/sessions.go
package mem

import (
	"sync"
	"time"

	"tripsmith/internal/models/response_models"
)

// SessionStore is the injected home for planning sessions. The in-memory
// implementation below is the default; a bounded or persistent store can be
// substituted without touching pipeline or confirmation logic.
type SessionStore interface {
	Get(id string) (*response_models.PlanningSession, bool)
	Set(session *response_models.PlanningSession)
	Delete(id string)
}

type sessionEntry struct {
	session   *response_models.PlanningSession
	expiresAt time.Time
}

type SessionCache struct {
	mu   sync.RWMutex
	data map[string]sessionEntry
	ttl  time.Duration
}

func NewSessionCache(ttl time.Duration) *SessionCache {
	return &SessionCache{
		data: make(map[string]sessionEntry),
		ttl:  ttl,
	}
}

func (s *SessionCache) Get(id string) (*response_models.PlanningSession, bool) {
	s.mu.RLock()
	e, ok := s.data[id]
	s.mu.RUnlock()

	if !ok {
		return nil, false
	}
	if time.Now().After(e.expiresAt) {
		s.mu.Lock()
		delete(s.data, id)
		s.mu.Unlock()
		return nil, false
	}
	return e.session, true
}

func (s *SessionCache) Set(session *response_models.PlanningSession) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data[session.ID] = sessionEntry{
		session:   session,
		expiresAt: time.Now().Add(s.ttl),
	}

	// Opportunistic sweep once the table grows; cheap enough inline.
	if len(s.data) > 1000 {
		now := time.Now()
		for id, e := range s.data {
			if now.After(e.expiresAt) {
				delete(s.data, id)
			}
		}
	}
}

func (s *SessionCache) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, id)
}
