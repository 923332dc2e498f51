package memory

import (
	"sync"

	"kbc-quiz-game/internal/app"
)

// SessionStore is an in-memory implementation of app.SessionRepository.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*app.Controller
}

func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions: make(map[string]*app.Controller),
	}
}

func (s *SessionStore) Put(c *app.Controller) {
	s.mu.Lock()
	s.sessions[c.ID()] = c
	s.mu.Unlock()
}

func (s *SessionStore) Get(sessionID string) (*app.Controller, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.sessions[sessionID]
	return c, ok
}

func (s *SessionStore) Delete(sessionID string) {
	s.mu.Lock()
	delete(s.sessions, sessionID)
	s.mu.Unlock()
}

// Len reports how many sessions are held.
func (s *SessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
