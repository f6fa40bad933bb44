package memory

import (
	"context"

	"examprep-quiz-service/internal/app"
	"examprep-quiz-service/internal/domain"
)

// QuestionStore is an in-memory app.QuestionStore backed by static data,
// useful for demos and tests. It mirrors the relational store's matching
// rule: a question belongs to a subject via a direct reference or via a
// topic under that subject.
type QuestionStore struct {
	subjects  []domain.Subject
	questions []domain.QuestionRecord

	// topic ID -> owning subject ID
	topicSubjects map[string]string
}

func NewQuestionStore(subjects []domain.Subject, topics []domain.Topic, questions []domain.QuestionRecord) *QuestionStore {
	topicSubjects := make(map[string]string, len(topics))
	for _, topic := range topics {
		topicSubjects[topic.ID] = topic.SubjectID
	}
	return &QuestionStore{
		subjects:      subjects,
		questions:     questions,
		topicSubjects: topicSubjects,
	}
}

func (s *QuestionStore) FindSubjectBySlug(_ context.Context, slug string) (domain.Subject, error) {
	for _, subject := range s.subjects {
		if subject.Slug == slug {
			return subject, nil
		}
	}
	return domain.Subject{}, domain.ErrSubjectNotFound
}

func (s *QuestionStore) ListSubjects(_ context.Context, examType domain.ExamType) ([]domain.Subject, error) {
	var out []domain.Subject
	for _, subject := range s.subjects {
		if examType == "" || subject.SupportsExamType(examType) {
			out = append(out, subject)
		}
	}
	return out, nil
}

func (s *QuestionStore) ListQuestions(_ context.Context, filter app.QuestionFilter) ([]domain.QuestionRecord, error) {
	var out []domain.QuestionRecord
	for _, record := range s.questions {
		if !s.matchesSubject(record, filter.SubjectID) {
			continue
		}
		if filter.ExamType != "" && record.ExamType != filter.ExamType {
			continue
		}
		if filter.ExamYear != 0 && record.ExamYear != filter.ExamYear {
			continue
		}
		out = append(out, record)
		if filter.Limit > 0 && len(out) >= filter.Limit {
			break
		}
	}
	return out, nil
}

func (s *QuestionStore) matchesSubject(record domain.QuestionRecord, subjectID string) bool {
	if subjectID == "" {
		return true
	}
	if record.SubjectID == subjectID {
		return true
	}
	if record.TopicID != "" && s.topicSubjects[record.TopicID] == subjectID {
		return true
	}
	return false
}
