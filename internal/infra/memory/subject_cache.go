package memory

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"examprep-quiz-service/internal/app"
	"examprep-quiz-service/internal/domain"
)

// SubjectCache memoizes subject lookups with a TTL to avoid repeated store
// hits. It is an explicitly injected object (per process, TTL-bounded), not a
// package-level memo, so sessions never share hidden state.
type SubjectCache struct {
	finder app.SubjectFinder
	ttl    time.Duration
	clock  func() time.Time
	sf     singleflight.Group
	rnd    *rand.Rand

	mu    sync.RWMutex
	cache map[string]cachedSubject
}

type cachedSubject struct {
	subject   domain.Subject
	expiresAt time.Time
}

func NewSubjectCache(finder app.SubjectFinder, ttl time.Duration) *SubjectCache {
	return &SubjectCache{
		finder: finder,
		ttl:    ttl,
		clock:  time.Now,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
		cache:  make(map[string]cachedSubject),
	}
}

func (c *SubjectCache) FindSubjectBySlug(ctx context.Context, slug string) (domain.Subject, error) {
	now := c.clock()

	c.mu.RLock()
	if entry, ok := c.cache[slug]; ok && entry.expiresAt.After(now) {
		c.mu.RUnlock()
		return entry.subject, nil
	}
	c.mu.RUnlock()

	result, err, _ := c.sf.Do(slug, func() (interface{}, error) {
		now := c.clock()
		c.mu.RLock()
		if entry, ok := c.cache[slug]; ok && entry.expiresAt.After(now) {
			c.mu.RUnlock()
			return entry.subject, nil
		}
		c.mu.RUnlock()

		subject, err := c.finder.FindSubjectBySlug(ctx, slug)
		if err != nil {
			return domain.Subject{}, err
		}

		c.mu.Lock()
		c.cache[slug] = cachedSubject{
			subject:   subject,
			expiresAt: now.Add(c.ttlWithJitter()),
		}
		c.mu.Unlock()
		return subject, nil
	})
	if err != nil {
		return domain.Subject{}, err
	}
	return result.(domain.Subject), nil
}

func (c *SubjectCache) ttlWithJitter() time.Duration {
	if c.ttl <= 0 {
		return 0
	}
	// add up to 10% jitter to spread expirations
	jitterMax := int64(c.ttl) / 10
	return c.ttl + time.Duration(c.rnd.Int63n(jitterMax+1))
}
