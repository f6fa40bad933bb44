package redis

import (
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"examprep-quiz-service/internal/app"
	"examprep-quiz-service/internal/domain"
)

func TestSessionStoreSetsAndClearsKeys(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store := NewSessionStore(client, time.Minute)

	cfg := domain.NewPracticeConfig(domain.ExamTypeJAMB, domain.SelectBySubject, domain.ConfigOptions{SubjectSlug: "mathematics"})
	store.Put("u1", app.NewSession("s1", cfg, nil, nil))
	if !mr.Exists("quiz:session:u1") {
		t.Fatalf("expected redis liveness key to be set")
	}

	if _, ok := store.Get("u1"); !ok {
		t.Fatalf("expected session retrievable")
	}

	store.Delete("u1")
	if mr.Exists("quiz:session:u1") {
		t.Fatalf("expected redis key to be removed")
	}
}
