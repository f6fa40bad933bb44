package app

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"

	"examprep-quiz-service/internal/domain"
)

// SessionRepository stores active sessions keyed by their owner (one active
// quiz per owner).
type SessionRepository interface {
	Put(ownerID string, session *Session)
	Get(ownerID string) (*Session, bool)
	Delete(ownerID string)
}

// AttemptStore persists completed attempt records.
type AttemptStore interface {
	SaveAttempt(ctx context.Context, attempt domain.Attempt) error
}

// QuizService orchestrates the quiz use cases: launch, answer, advance,
// finish, and attempt submission.
type QuizService struct {
	questions *QuestionService
	sessions  SessionRepository
	attempts  AttemptStore
	timer     CountdownTimer

	// Exam durations in seconds, keyed by exam type, with a fallback.
	durations       map[domain.ExamType]int
	defaultDuration int

	logger *log.Logger
}

func NewQuizService(questions *QuestionService, sessions SessionRepository, attempts AttemptStore, timer CountdownTimer, durations map[domain.ExamType]int, defaultDuration int, logger *log.Logger) *QuizService {
	if defaultDuration <= 0 {
		defaultDuration = 1800
	}
	if logger == nil {
		logger = log.Default()
	}
	return &QuizService{
		questions:       questions,
		sessions:        sessions,
		attempts:        attempts,
		timer:           timer,
		durations:       durations,
		defaultDuration: defaultDuration,
		logger:          logger,
	}
}

// StartQuiz validates the config, fetches questions, and creates a session.
// Any previous session for the owner is discarded first, releasing its timer
// so two countdowns never tick against the same owner.
func (s *QuizService) StartQuiz(ctx context.Context, ownerID string, cfg domain.QuizConfig) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	questions, err := s.questions.FetchQuestions(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if len(questions) == 0 {
		return nil, domain.ErrNoQuestions
	}

	if previous, ok := s.sessions.Get(ownerID); ok {
		previous.ReleaseTimer()
		s.sessions.Delete(ownerID)
	}

	session := NewSession(uuid.NewString(), cfg, questions, s.timer)
	s.sessions.Put(ownerID, session)
	if cfg.IsExamMode() {
		session.StartTimer(s.examDuration(cfg.ExamType))
	}
	s.logger.Printf("quiz started: owner=%s session=%s kind=%s questions=%d", ownerID, session.ID(), cfg.ModeIdentifier(), len(questions))
	return session, nil
}

// Session returns the owner's active session.
func (s *QuizService) Session(ownerID string) (*Session, error) {
	session, ok := s.sessions.Get(ownerID)
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return session, nil
}

// RecordAnswer stores an answer on the owner's session.
func (s *QuizService) RecordAnswer(ownerID, questionID, optionKey string) error {
	session, err := s.Session(ownerID)
	if err != nil {
		return err
	}
	return session.RecordAnswer(questionID, optionKey)
}

// Advance moves the owner's session to the next question.
func (s *QuizService) Advance(ownerID string) (int, error) {
	session, err := s.Session(ownerID)
	if err != nil {
		return 0, err
	}
	return session.Advance(), nil
}

// Finish completes the owner's session manually. If the timer already
// expired, the auto-derived result is returned as-is.
func (s *QuizService) Finish(ownerID string) (Result, error) {
	session, err := s.Session(ownerID)
	if err != nil {
		return Result{}, err
	}
	result, err := session.Complete()
	if errors.Is(err, domain.ErrSessionCompleted) {
		return result, nil
	}
	return result, err
}

// SubmitAttempt persists the completed session's outcome. A persistence
// failure is returned to the caller but never invalidates the in-memory
// result; the attempt payload is still returned for display.
func (s *QuizService) SubmitAttempt(ctx context.Context, ownerID string) (domain.Attempt, error) {
	session, err := s.Session(ownerID)
	if err != nil {
		return domain.Attempt{}, err
	}
	if !session.Completed() {
		return domain.Attempt{}, fmt.Errorf("cannot submit attempt: session still active")
	}
	if !session.beginSubmit() {
		return domain.Attempt{}, domain.ErrAttemptSubmitted
	}

	attempt := s.buildAttempt(ctx, session)
	if err := s.attempts.SaveAttempt(ctx, attempt); err != nil {
		s.logger.Printf("attempt save failed: session=%s: %v", session.ID(), err)
		return attempt, fmt.Errorf("save attempt: %w", err)
	}
	return attempt, nil
}

// EndSession discards the owner's session (navigate-away), releasing any
// active timer.
func (s *QuizService) EndSession(ownerID string) {
	session, ok := s.sessions.Get(ownerID)
	if !ok {
		return
	}
	session.ReleaseTimer()
	s.sessions.Delete(ownerID)
}

func (s *QuizService) buildAttempt(ctx context.Context, session *Session) domain.Attempt {
	cfg := session.Config()
	result := session.Result()

	attempt := domain.Attempt{
		ID:               uuid.NewString(),
		QuizMode:         cfg.Mode,
		TotalQuestions:   result.TotalQuestions,
		CorrectAnswers:   result.CorrectAnswers,
		ScorePercentage:  result.ScorePercentage,
		TimeTakenSeconds: result.TimeTakenSeconds,
		ExamType:         cfg.ExamType,
		ExamYear:         cfg.Year,
		AutoSubmitted:    result.AutoSubmitted,
		Questions:        result.Questions,
		CreatedAt:        session.now(),
	}
	if cfg.SubjectSlug != "" {
		subject, err := s.questions.FindSubject(ctx, cfg.SubjectSlug)
		if err != nil {
			s.logger.Printf("attempt subject lookup failed for %q: %v", cfg.SubjectSlug, err)
		} else {
			attempt.SubjectID = subject.ID
		}
	}
	return attempt
}

func (s *QuizService) examDuration(examType domain.ExamType) int {
	if d, ok := s.durations[examType]; ok && d > 0 {
		return d
	}
	return s.defaultDuration
}
