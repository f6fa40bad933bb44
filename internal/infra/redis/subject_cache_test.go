package redis

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"examprep-quiz-service/internal/domain"
	"examprep-quiz-service/internal/infra/memory"
)

func TestSubjectCacheCachesInRedis(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	finder := &countingFinder{store: sampleQuestionStore()}
	cache := NewSubjectCache(client, finder, time.Minute)

	subject, err := cache.FindSubjectBySlug(context.Background(), "mathematics")
	if err != nil {
		t.Fatalf("find subject: %v", err)
	}
	if finder.calls != 1 {
		t.Fatalf("expected finder called once, got %d", finder.calls)
	}
	if !mr.Exists("subject:mathematics") {
		t.Fatalf("expected redis key set")
	}

	// Second call should hit the redis hash, finder not incremented.
	cached, err := cache.FindSubjectBySlug(context.Background(), "mathematics")
	if err != nil {
		t.Fatalf("find subject 2: %v", err)
	}
	if finder.calls != 1 {
		t.Fatalf("expected cache hit, finder calls=%d", finder.calls)
	}
	if cached.ID != subject.ID || cached.Name != subject.Name {
		t.Fatalf("cached subject mismatch: %+v vs %+v", cached, subject)
	}
	if len(cached.ExamTypes) != 2 {
		t.Fatalf("exam types lost in cache round trip: %+v", cached.ExamTypes)
	}
}

type countingFinder struct {
	store *memory.QuestionStore
	calls int
}

func (f *countingFinder) FindSubjectBySlug(ctx context.Context, slug string) (domain.Subject, error) {
	f.calls++
	return f.store.FindSubjectBySlug(ctx, slug)
}

func sampleQuestionStore() *memory.QuestionStore {
	return memory.NewQuestionStore(
		[]domain.Subject{
			{ID: "sub-math", Slug: "mathematics", Name: "Mathematics", ExamTypes: []domain.ExamType{domain.ExamTypeJAMB, domain.ExamTypeWAEC}},
		},
		nil,
		nil,
	)
}
