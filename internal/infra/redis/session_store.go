package redis

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"examprep-quiz-service/internal/app"
)

// SessionStore is a Redis-aware implementation of app.SessionRepository.
// Notes:
//   - Sessions themselves stay in a local map; quiz state is owned by a
//     single process and carries live timer handles.
//   - Redis marks session liveness so operators (and a future multi-instance
//     deployment) can see which owners have an active quiz.
type SessionStore struct {
	client   *redis.Client
	ttl      time.Duration
	mu       sync.RWMutex
	sessions map[string]*app.Session
}

func NewSessionStore(client *redis.Client, ttl time.Duration) *SessionStore {
	return &SessionStore{
		client:   client,
		ttl:      ttl,
		sessions: make(map[string]*app.Session),
	}
}

func (s *SessionStore) Put(ownerID string, session *app.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[ownerID] = session
	// best-effort liveness marker
	_ = s.client.Set(context.Background(), s.key(ownerID), session.ID(), s.ttl).Err()
}

func (s *SessionStore) Get(ownerID string) (*app.Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[ownerID]
	return session, ok
}

func (s *SessionStore) Delete(ownerID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, ownerID)
	_ = s.client.Del(context.Background(), s.key(ownerID)).Err()
}

func (s *SessionStore) key(ownerID string) string {
	return "quiz:session:" + ownerID
}
