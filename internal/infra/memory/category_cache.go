package memory

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"trivia-quiz/internal/domain"

	"golang.org/x/sync/singleflight"
)

// CategorySource fetches the catalog from the provider.
type CategorySource interface {
	Categories(ctx context.Context) ([]domain.Category, error)
}

// CategoryCache caches the category catalog with TTL. The provider
// rate-limits aggressively, so concurrent fills are deduplicated with
// singleflight and expirations are jittered.
type CategoryCache struct {
	source CategorySource
	ttl    time.Duration
	clock  func() time.Time
	sf     singleflight.Group
	rnd    *rand.Rand

	mu        sync.RWMutex
	cached    []domain.Category
	expiresAt time.Time
}

func NewCategoryCache(source CategorySource, ttl time.Duration) *CategoryCache {
	return &CategoryCache{
		source: source,
		ttl:    ttl,
		clock:  time.Now,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (c *CategoryCache) Categories(ctx context.Context) ([]domain.Category, error) {
	now := c.clock()

	c.mu.RLock()
	if c.cached != nil && c.expiresAt.After(now) {
		cached := c.cached
		c.mu.RUnlock()
		return cached, nil
	}
	c.mu.RUnlock()

	result, err, _ := c.sf.Do("categories", func() (interface{}, error) {
		now := c.clock()
		c.mu.RLock()
		if c.cached != nil && c.expiresAt.After(now) {
			cached := c.cached
			c.mu.RUnlock()
			return cached, nil
		}
		c.mu.RUnlock()

		categories, err := c.source.Categories(ctx)
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		c.cached = categories
		c.expiresAt = now.Add(c.ttlWithJitter())
		c.mu.Unlock()
		return categories, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]domain.Category), nil
}

func (c *CategoryCache) ttlWithJitter() time.Duration {
	if c.ttl <= 0 {
		return 0
	}
	// add up to 10% jitter to spread expirations
	jitterMax := int64(c.ttl) / 10
	return c.ttl + time.Duration(c.rnd.Int63n(jitterMax+1))
}

// StaticCategorySource serves a fixed catalog (useful for tests/demos).
type StaticCategorySource struct {
	categories []domain.Category
}

func NewStaticCategorySource(categories []domain.Category) *StaticCategorySource {
	return &StaticCategorySource{categories: categories}
}

func (s *StaticCategorySource) Categories(_ context.Context) ([]domain.Category, error) {
	return s.categories, nil
}
