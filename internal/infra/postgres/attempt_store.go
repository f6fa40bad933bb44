package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v4/pgxpool"

	"examprep-quiz-service/internal/domain"
)

// AttemptStore persists completed attempts.
type AttemptStore struct {
	pool *pgxpool.Pool
}

func NewAttemptStore(pool *pgxpool.Pool) *AttemptStore {
	return &AttemptStore{pool: pool}
}

func (s *AttemptStore) SaveAttempt(ctx context.Context, attempt domain.Attempt) error {
	questionsData, err := json.Marshal(attempt.Questions)
	if err != nil {
		return fmt.Errorf("marshal attempt questions: %w", err)
	}

	var subjectID interface{}
	if attempt.SubjectID != "" {
		subjectID = attempt.SubjectID
	}
	var examYear interface{}
	if attempt.ExamYear != 0 {
		examYear = attempt.ExamYear
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO attempts
		        (id, subject_id, quiz_mode, total_questions, correct_answers,
		         score_percentage, time_taken_seconds, exam_type, exam_year,
		         auto_submitted, questions_data, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		attempt.ID, subjectID, string(attempt.QuizMode), attempt.TotalQuestions,
		attempt.CorrectAnswers, attempt.ScorePercentage, attempt.TimeTakenSeconds,
		string(attempt.ExamType), examYear, attempt.AutoSubmitted,
		questionsData, attempt.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert attempt: %w", err)
	}
	return nil
}
