package redis

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"kbc-quiz-game/internal/app"
)

// SessionStore is a Redis-aware implementation of app.SessionRepository.
// Controllers own live timers so they stay in a local map; Redis carries a
// liveness marker with the session info so other instances and tooling can
// see which sessions are running.
type SessionStore struct {
	client   *redis.Client
	ttl      time.Duration
	mu       sync.RWMutex
	sessions map[string]*app.Controller
}

func NewSessionStore(client *redis.Client, ttl time.Duration) *SessionStore {
	return &SessionStore{
		client:   client,
		ttl:      ttl,
		sessions: make(map[string]*app.Controller),
	}
}

func (s *SessionStore) Put(c *app.Controller) {
	s.mu.Lock()
	s.sessions[c.ID()] = c
	s.mu.Unlock()

	// best-effort liveness marker
	if payload, err := json.Marshal(c.Info()); err == nil {
		_ = s.client.Set(context.Background(), s.key(c.ID()), payload, s.ttl).Err()
	}
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
	_ = s.client.Del(context.Background(), s.key(sessionID)).Err()
}

// Touch extends the liveness marker of a session that is still being played.
func (s *SessionStore) Touch(ctx context.Context, sessionID string) error {
	if s.ttl <= 0 {
		return nil
	}
	return s.client.Expire(ctx, s.key(sessionID), s.ttl).Err()
}

// Live returns the session info recorded for a session, if its marker is still set.
func (s *SessionStore) Live(ctx context.Context, sessionID string) (app.SessionInfo, bool, error) {
	payload, err := s.client.Get(ctx, s.key(sessionID)).Bytes()
	if err == redis.Nil {
		return app.SessionInfo{}, false, nil
	}
	if err != nil {
		return app.SessionInfo{}, false, err
	}
	var info app.SessionInfo
	if err := json.Unmarshal(payload, &info); err != nil {
		return app.SessionInfo{}, false, err
	}
	return info, true, nil
}

func (s *SessionStore) key(sessionID string) string {
	return "kbc:session:" + sessionID
}
