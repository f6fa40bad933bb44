package redis

import (
	"context"
	"math/rand"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"examprep-quiz-service/internal/app"
	"examprep-quiz-service/internal/domain"
)

// SubjectCache caches subject lookups in Redis (hash per slug) and falls
// back to the underlying finder on cache miss.
// Stored as: HSET subject:{slug} id {id} name {name} examTypes {A,B}
type SubjectCache struct {
	client *redis.Client
	finder app.SubjectFinder
	ttl    time.Duration
	sf     singleflight.Group
	rnd    *rand.Rand
}

func NewSubjectCache(client *redis.Client, finder app.SubjectFinder, ttl time.Duration) *SubjectCache {
	return &SubjectCache{
		client: client,
		finder: finder,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (c *SubjectCache) FindSubjectBySlug(ctx context.Context, slug string) (domain.Subject, error) {
	key := c.key(slug)

	fields, err := c.client.HGetAll(ctx, key).Result()
	if err == nil && len(fields) > 0 {
		return subjectFromFields(slug, fields), nil
	}

	result, err, _ := c.sf.Do(slug, func() (interface{}, error) {
		// Re-check cache in case another goroutine filled it.
		fields, err := c.client.HGetAll(ctx, key).Result()
		if err == nil && len(fields) > 0 {
			return subjectFromFields(slug, fields), nil
		}

		subject, err := c.finder.FindSubjectBySlug(ctx, slug)
		if err != nil {
			return domain.Subject{}, err
		}

		types := make([]string, 0, len(subject.ExamTypes))
		for _, et := range subject.ExamTypes {
			types = append(types, string(et))
		}
		pipe := c.client.Pipeline()
		pipe.HSet(ctx, key, "id", subject.ID, "name", subject.Name, "examTypes", strings.Join(types, ","))
		if ttl := c.ttlWithJitter(); ttl > 0 {
			pipe.Expire(ctx, key, ttl)
		}
		_, _ = pipe.Exec(ctx)

		return subject, nil
	})
	if err != nil {
		return domain.Subject{}, err
	}
	return result.(domain.Subject), nil
}

func (c *SubjectCache) key(slug string) string {
	return "subject:" + slug
}

func subjectFromFields(slug string, fields map[string]string) domain.Subject {
	subject := domain.Subject{
		ID:   fields["id"],
		Slug: slug,
		Name: fields["name"],
	}
	for _, raw := range strings.Split(fields["examTypes"], ",") {
		if raw == "" {
			continue
		}
		subject.ExamTypes = append(subject.ExamTypes, domain.ExamType(raw))
	}
	return subject
}

func (c *SubjectCache) ttlWithJitter() time.Duration {
	if c.ttl <= 0 {
		return 0
	}
	jitterMax := int64(c.ttl) / 10
	return c.ttl + time.Duration(c.rnd.Int63n(jitterMax+1))
}
