package app

import (
	"context"
	"errors"
	"fmt"
	"log"

	"golang.org/x/sync/errgroup"

	"examprep-quiz-service/internal/domain"
)

// QuestionFilter bounds a store query. Filters are applied by the store, not
// after the fact, so aggregated retrievals never over-fetch.
type QuestionFilter struct {
	SubjectID string
	ExamType  domain.ExamType
	ExamYear  int
	Limit     int
}

// QuestionStore is the read boundary to the question database. Subject
// matching covers both linkage paths: a question counts for a subject when it
// references the subject directly or via a topic under that subject.
type QuestionStore interface {
	FindSubjectBySlug(ctx context.Context, slug string) (domain.Subject, error)
	ListSubjects(ctx context.Context, examType domain.ExamType) ([]domain.Subject, error)
	ListQuestions(ctx context.Context, filter QuestionFilter) ([]domain.QuestionRecord, error)
}

// SubjectFinder resolves subject slugs. Production wiring puts a cache in
// front of the store here; the cache is an explicit injected object, never a
// package-level memo.
type SubjectFinder interface {
	FindSubjectBySlug(ctx context.Context, slug string) (domain.Subject, error)
}

// QuestionService translates a validated QuizConfig into store queries and
// normalizes the rows into QuizQuestion values.
type QuestionService struct {
	store    QuestionStore
	subjects SubjectFinder

	// questionLimit caps a single-subject quiz; perSubjectLimit caps each
	// subject's share of an aggregated (year/category) quiz.
	questionLimit   int
	perSubjectLimit int

	logger *log.Logger
}

func NewQuestionService(store QuestionStore, subjects SubjectFinder, questionLimit, perSubjectLimit int, logger *log.Logger) *QuestionService {
	if subjects == nil {
		subjects = store
	}
	if logger == nil {
		logger = log.Default()
	}
	if questionLimit <= 0 {
		questionLimit = 40
	}
	if perSubjectLimit <= 0 {
		perSubjectLimit = 10
	}
	return &QuestionService{
		store:           store,
		subjects:        subjects,
		questionLimit:   questionLimit,
		perSubjectLimit: perSubjectLimit,
		logger:          logger,
	}
}

// FindSubject resolves a slug through the configured finder.
func (s *QuestionService) FindSubject(ctx context.Context, slug string) (domain.Subject, error) {
	return s.subjects.FindSubjectBySlug(ctx, slug)
}

// FetchQuestions produces the question list for a config. A missing subject
// or an empty match yields an empty slice, not an error; callers render the
// "no questions available" state.
func (s *QuestionService) FetchQuestions(ctx context.Context, cfg domain.QuizConfig) ([]domain.QuizQuestion, error) {
	switch cfg.Selection {
	case domain.SelectBySubject:
		return s.fetchBySubject(ctx, cfg)
	case domain.SelectByYear:
		return s.fetchByYear(ctx, cfg)
	case domain.SelectByCategory:
		return s.fetchByCategory(ctx, cfg)
	}
	return nil, fmt.Errorf("unsupported selection method %q", string(cfg.Selection))
}

func (s *QuestionService) fetchBySubject(ctx context.Context, cfg domain.QuizConfig) ([]domain.QuizQuestion, error) {
	subject, err := s.subjects.FindSubjectBySlug(ctx, cfg.SubjectSlug)
	if errors.Is(err, domain.ErrSubjectNotFound) {
		return []domain.QuizQuestion{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("resolve subject %q: %w", cfg.SubjectSlug, err)
	}
	return s.fetchForSubject(ctx, subject, cfg.ExamType, cfg.Year, s.questionLimit)
}

// fetchByYear aggregates across every subject of the exam type. Per-subject
// failures are logged and skipped; the aggregate carries whatever succeeded.
func (s *QuestionService) fetchByYear(ctx context.Context, cfg domain.QuizConfig) ([]domain.QuizQuestion, error) {
	subjects, err := s.store.ListSubjects(ctx, cfg.ExamType)
	if err != nil {
		return nil, fmt.Errorf("list subjects for %s: %w", cfg.ExamType, err)
	}
	return s.aggregate(ctx, subjects, cfg), nil
}

func (s *QuestionService) fetchByCategory(ctx context.Context, cfg domain.QuizConfig) ([]domain.QuizQuestion, error) {
	subjects := make([]domain.Subject, 0, len(cfg.SubjectSlugs))
	for _, slug := range cfg.SubjectSlugs {
		subject, err := s.subjects.FindSubjectBySlug(ctx, slug)
		if err != nil {
			s.logger.Printf("category fetch: skipping subject %q: %v", slug, err)
			continue
		}
		subjects = append(subjects, subject)
	}
	return s.aggregate(ctx, subjects, cfg), nil
}

// aggregate fetches each subject's share concurrently and concatenates after
// all fetches settle. Order follows the subject list; a failed subject leaves
// a gap rather than aborting the rest.
func (s *QuestionService) aggregate(ctx context.Context, subjects []domain.Subject, cfg domain.QuizConfig) []domain.QuizQuestion {
	perSubject := make([][]domain.QuizQuestion, len(subjects))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for i, subject := range subjects {
		i, subject := i, subject
		g.Go(func() error {
			questions, err := s.fetchForSubject(gctx, subject, cfg.ExamType, cfg.Year, s.perSubjectLimit)
			if err != nil {
				s.logger.Printf("aggregate fetch: skipping subject %q: %v", subject.Slug, err)
				return nil
			}
			perSubject[i] = questions
			return nil
		})
	}
	_ = g.Wait()

	var out []domain.QuizQuestion
	for _, questions := range perSubject {
		out = append(out, questions...)
	}
	if out == nil {
		out = []domain.QuizQuestion{}
	}
	return out
}

func (s *QuestionService) fetchForSubject(ctx context.Context, subject domain.Subject, examType domain.ExamType, year, limit int) ([]domain.QuizQuestion, error) {
	records, err := s.store.ListQuestions(ctx, QuestionFilter{
		SubjectID: subject.ID,
		ExamType:  examType,
		ExamYear:  year,
		Limit:     limit,
	})
	if err != nil {
		return nil, fmt.Errorf("list questions for %q: %w", subject.Slug, err)
	}
	questions := make([]domain.QuizQuestion, 0, len(records))
	for _, record := range records {
		questions = append(questions, NormalizeQuestion(record, subject))
	}
	return questions, nil
}

// NormalizeQuestion maps a raw record to the uniform quiz shape. The
// subject/topic linkage distinction is erased here: the effective subject is
// resolved once at this boundary and downstream code never re-inspects the
// nullable fields.
func NormalizeQuestion(record domain.QuestionRecord, subject domain.Subject) domain.QuizQuestion {
	texts := []string{record.OptionA, record.OptionB, record.OptionC, record.OptionD}
	options := make([]domain.Option, 0, len(domain.OptionKeys))
	for i, key := range domain.OptionKeys {
		options = append(options, domain.Option{Key: key, Text: texts[i]})
	}
	return domain.QuizQuestion{
		ID:          record.ID,
		Text:        record.Text,
		Options:     options,
		Correct:     record.CorrectAnswer,
		Explanation: record.Explanation,
		ExamYear:    record.ExamYear,
		ExamType:    record.ExamType,
		SubjectSlug: subject.Slug,
		SubjectName: subject.Name,
	}
}
