package app_test

import (
	"context"
	"errors"
	"testing"

	"examprep-quiz-service/internal/app"
	"examprep-quiz-service/internal/domain"
	"examprep-quiz-service/internal/infra/memory"
)

func newTestQuizService(timer app.CountdownTimer, attempts app.AttemptStore) *app.QuizService {
	store := memory.NewQuestionStore(testSubjects, testTopics, []domain.QuestionRecord{
		record("q-1", "sub-math", "", 2023),
		record("q-2", "", "top-algebra", 2023),
		record("q-3", "sub-phy", "", 2023),
	})
	questions := app.NewQuestionService(store, nil, 0, 0, quietLogger())
	if attempts == nil {
		attempts = memory.NewAttemptStore()
	}
	return app.NewQuizService(questions, memory.NewSessionStore(), attempts, timer, map[domain.ExamType]int{domain.ExamTypeJAMB: 1200}, 1800, quietLogger())
}

func TestStartQuizRejectsInvalidConfig(t *testing.T) {
	service := newTestQuizService(&manualTimer{}, nil)

	_, err := service.StartQuiz(context.Background(), "u1", domain.QuizConfig{})
	if err == nil {
		t.Fatalf("expected validation failure")
	}
}

func TestStartQuizReportsNoQuestions(t *testing.T) {
	service := newTestQuizService(&manualTimer{}, nil)

	cfg := domain.NewPracticeConfig(domain.ExamTypeJAMB, domain.SelectBySubject, domain.ConfigOptions{SubjectSlug: "biology"})
	_, err := service.StartQuiz(context.Background(), "u1", cfg)
	if !errors.Is(err, domain.ErrNoQuestions) {
		t.Fatalf("expected ErrNoQuestions, got %v", err)
	}
}

func TestStartQuizArmsExamTimerWithConfiguredDuration(t *testing.T) {
	timer := &manualTimer{}
	service := newTestQuizService(timer, nil)

	cfg := domain.NewExamConfig(domain.ExamTypeJAMB, domain.SelectBySubject, domain.ConfigOptions{SubjectSlug: "mathematics"})
	session, err := service.StartQuiz(context.Background(), "u1", cfg)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if timer.started != 1 {
		t.Fatalf("expected countdown started")
	}
	snap := session.Snapshot()
	if snap.TimeRemaining == nil || *snap.TimeRemaining != 1200 {
		t.Fatalf("expected configured JAMB duration 1200, got %v", snap.TimeRemaining)
	}
}

func TestStartQuizReleasesPreviousTimer(t *testing.T) {
	timer := &manualTimer{}
	service := newTestQuizService(timer, nil)
	cfg := domain.NewExamConfig(domain.ExamTypeJAMB, domain.SelectBySubject, domain.ConfigOptions{SubjectSlug: "mathematics"})

	if _, err := service.StartQuiz(context.Background(), "u1", cfg); err != nil {
		t.Fatalf("start: %v", err)
	}
	first := timer.handle

	if _, err := service.StartQuiz(context.Background(), "u1", cfg); err != nil {
		t.Fatalf("restart: %v", err)
	}
	if first.cancels == 0 {
		t.Fatalf("previous session's countdown must be released before a new one starts")
	}
	if timer.started != 2 {
		t.Fatalf("expected a fresh countdown for the new session")
	}
}

func TestFinishAndSubmitAttempt(t *testing.T) {
	attempts := memory.NewAttemptStore()
	service := newTestQuizService(&manualTimer{}, attempts)
	ctx := context.Background()

	cfg := domain.NewPracticeConfig(domain.ExamTypeJAMB, domain.SelectBySubject, domain.ConfigOptions{SubjectSlug: "mathematics"})
	session, err := service.StartQuiz(ctx, "u1", cfg)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	questions := session.Questions()
	if err := service.RecordAnswer("u1", questions[0].ID, questions[0].Correct); err != nil {
		t.Fatalf("answer: %v", err)
	}

	result, err := service.Finish("u1")
	if err != nil {
		t.Fatalf("finish: %v", err)
	}
	if result.CorrectAnswers != 1 || result.TotalQuestions != 2 {
		t.Fatalf("unexpected result %+v", result)
	}

	attempt, err := service.SubmitAttempt(ctx, "u1")
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if attempt.SubjectID != "sub-math" {
		t.Fatalf("expected resolved subject on attempt, got %q", attempt.SubjectID)
	}
	if attempt.ScorePercentage != 50 {
		t.Fatalf("expected score 50, got %v", attempt.ScorePercentage)
	}
	saved := attempts.Attempts()
	if len(saved) != 1 || saved[0].ID != attempt.ID {
		t.Fatalf("expected attempt persisted once, got %+v", saved)
	}

	if _, err := service.SubmitAttempt(ctx, "u1"); !errors.Is(err, domain.ErrAttemptSubmitted) {
		t.Fatalf("expected duplicate submission rejected, got %v", err)
	}
}

type failingAttemptStore struct{}

func (failingAttemptStore) SaveAttempt(context.Context, domain.Attempt) error {
	return errors.New("attempts table unavailable")
}

func TestAttemptPersistenceFailureKeepsResult(t *testing.T) {
	service := newTestQuizService(&manualTimer{}, failingAttemptStore{})
	ctx := context.Background()

	cfg := domain.NewPracticeConfig(domain.ExamTypeJAMB, domain.SelectBySubject, domain.ConfigOptions{SubjectSlug: "mathematics"})
	if _, err := service.StartQuiz(ctx, "u1", cfg); err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, err := service.Finish("u1"); err != nil {
		t.Fatalf("finish: %v", err)
	}

	attempt, err := service.SubmitAttempt(ctx, "u1")
	if err == nil {
		t.Fatalf("expected persistence error surfaced")
	}
	if attempt.TotalQuestions != 2 {
		t.Fatalf("attempt payload must survive a failed save, got %+v", attempt)
	}

	session, sessErr := service.Session("u1")
	if sessErr != nil || !session.Completed() {
		t.Fatalf("completed session must remain displayable after save failure")
	}
}

func TestFinishAfterTimerExpiryIsIdempotent(t *testing.T) {
	timer := &manualTimer{}
	service := newTestQuizService(timer, nil)

	cfg := domain.NewExamConfig(domain.ExamTypeJAMB, domain.SelectBySubject, domain.ConfigOptions{SubjectSlug: "mathematics"})
	if _, err := service.StartQuiz(context.Background(), "u1", cfg); err != nil {
		t.Fatalf("start: %v", err)
	}
	timer.onExpire()

	result, err := service.Finish("u1")
	if err != nil {
		t.Fatalf("finish after expiry must be a no-op, got %v", err)
	}
	if !result.AutoSubmitted {
		t.Fatalf("expected the auto-derived result, got %+v", result)
	}
}
