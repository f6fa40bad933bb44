package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"examprep-quiz-service/internal/app"
	"examprep-quiz-service/internal/domain"
)

// QuestionStore reads subjects, topics, and questions from Postgres. The
// dual-linkage rule lives in SQL: a question matches a subject through its
// direct subject_id or through its topic's subject.
type QuestionStore struct {
	pool *pgxpool.Pool
}

func NewQuestionStore(pool *pgxpool.Pool) *QuestionStore {
	return &QuestionStore{pool: pool}
}

func (s *QuestionStore) FindSubjectBySlug(ctx context.Context, slug string) (domain.Subject, error) {
	var (
		subject domain.Subject
		types   []string
	)
	err := s.pool.QueryRow(ctx,
		`SELECT id, slug, name, exam_types FROM subjects WHERE slug = $1`,
		slug,
	).Scan(&subject.ID, &subject.Slug, &subject.Name, &types)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Subject{}, domain.ErrSubjectNotFound
	}
	if err != nil {
		return domain.Subject{}, fmt.Errorf("find subject %q: %w", slug, err)
	}
	for _, t := range types {
		subject.ExamTypes = append(subject.ExamTypes, domain.ExamType(t))
	}
	return subject, nil
}

func (s *QuestionStore) ListSubjects(ctx context.Context, examType domain.ExamType) ([]domain.Subject, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, slug, name, exam_types
		   FROM subjects
		  WHERE $1 = '' OR $1 = ANY(exam_types)
		  ORDER BY name`,
		string(examType),
	)
	if err != nil {
		return nil, fmt.Errorf("list subjects: %w", err)
	}
	defer rows.Close()

	var subjects []domain.Subject
	for rows.Next() {
		var (
			subject domain.Subject
			types   []string
		)
		if err := rows.Scan(&subject.ID, &subject.Slug, &subject.Name, &types); err != nil {
			return nil, fmt.Errorf("scan subject: %w", err)
		}
		for _, t := range types {
			subject.ExamTypes = append(subject.ExamTypes, domain.ExamType(t))
		}
		subjects = append(subjects, subject)
	}
	return subjects, rows.Err()
}

// ListQuestions applies the exam type/year filters and the limit server-side
// so aggregated retrieval never over-fetches.
func (s *QuestionStore) ListQuestions(ctx context.Context, filter app.QuestionFilter) ([]domain.QuestionRecord, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT q.id,
		        COALESCE(q.subject_id, ''),
		        COALESCE(q.topic_id, ''),
		        q.question_text,
		        q.option_a, q.option_b, q.option_c, q.option_d,
		        q.correct_answer,
		        COALESCE(q.explanation, ''),
		        COALESCE(q.exam_type, ''),
		        COALESCE(q.exam_year, 0)
		   FROM questions q
		   LEFT JOIN topics t ON t.id = q.topic_id
		  WHERE q.is_active
		    AND (q.subject_id = $1 OR t.subject_id = $1)
		    AND ($2 = '' OR q.exam_type = $2)
		    AND ($3 = 0 OR q.exam_year = $3)
		  ORDER BY random()
		  LIMIT NULLIF($4, 0)`,
		filter.SubjectID, string(filter.ExamType), filter.ExamYear, filter.Limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}
	defer rows.Close()

	var records []domain.QuestionRecord
	for rows.Next() {
		var (
			record   domain.QuestionRecord
			examType string
		)
		if err := rows.Scan(
			&record.ID, &record.SubjectID, &record.TopicID, &record.Text,
			&record.OptionA, &record.OptionB, &record.OptionC, &record.OptionD,
			&record.CorrectAnswer, &record.Explanation, &examType, &record.ExamYear,
		); err != nil {
			return nil, fmt.Errorf("scan question: %w", err)
		}
		record.ExamType = domain.ExamType(examType)
		records = append(records, record)
	}
	return records, rows.Err()
}
