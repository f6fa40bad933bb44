package memory

import (
	"context"
	"sync"

	"examprep-quiz-service/internal/domain"
)

// AttemptStore keeps attempts in memory. Useful for demos and tests.
type AttemptStore struct {
	mu       sync.Mutex
	attempts []domain.Attempt
}

func NewAttemptStore() *AttemptStore {
	return &AttemptStore{}
}

func (s *AttemptStore) SaveAttempt(_ context.Context, attempt domain.Attempt) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.attempts = append(s.attempts, attempt)
	return nil
}

// Attempts returns a copy of everything saved so far.
func (s *AttemptStore) Attempts() []domain.Attempt {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Attempt, len(s.attempts))
	copy(out, s.attempts)
	return out
}
