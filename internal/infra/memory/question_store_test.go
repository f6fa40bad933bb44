package memory

import (
	"context"
	"testing"

	"examprep-quiz-service/internal/app"
	"examprep-quiz-service/internal/domain"
)

func TestListQuestionsMatchesBothLinkagePaths(t *testing.T) {
	store := sampleStore()

	records, err := store.ListQuestions(context.Background(), app.QuestionFilter{SubjectID: "sub-math"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected direct and topic-linked questions, got %d", len(records))
	}
}

func TestListQuestionsAppliesFilters(t *testing.T) {
	store := sampleStore()

	records, err := store.ListQuestions(context.Background(), app.QuestionFilter{
		SubjectID: "sub-math",
		ExamType:  domain.ExamTypeWAEC,
	})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(records) != 1 || records[0].ID != "q-topic" {
		t.Fatalf("expected exam type filter applied, got %+v", records)
	}

	records, err = store.ListQuestions(context.Background(), app.QuestionFilter{
		SubjectID: "sub-math",
		Limit:     1,
	})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected limit respected, got %d", len(records))
	}
}

func TestListSubjectsFiltersByExamType(t *testing.T) {
	store := sampleStore()

	subjects, err := store.ListSubjects(context.Background(), domain.ExamTypeWAEC)
	if err != nil {
		t.Fatalf("list subjects: %v", err)
	}
	if len(subjects) != 1 || subjects[0].Slug != "mathematics" {
		t.Fatalf("expected only WAEC subjects, got %+v", subjects)
	}
}
