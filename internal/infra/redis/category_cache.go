package redis

import (
	"context"
	"math/rand"
	"sort"
	"strconv"
	"time"

	"trivia-quiz/internal/domain"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

const categoriesKey = "opentdb:categories"

// CategorySource fetches the catalog from the provider.
type CategorySource interface {
	Categories(ctx context.Context) ([]domain.Category, error)
}

// CategoryCache caches the category catalog in a Redis hash
// (HSET opentdb:categories {id} {name}) and falls back to the source on a
// cache miss. Fills are deduplicated with singleflight.
type CategoryCache struct {
	client *redis.Client
	source CategorySource
	ttl    time.Duration
	sf     singleflight.Group
	rnd    *rand.Rand
}

func NewCategoryCache(client *redis.Client, source CategorySource, ttl time.Duration) *CategoryCache {
	return &CategoryCache{
		client: client,
		source: source,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (c *CategoryCache) Categories(ctx context.Context) ([]domain.Category, error) {
	fields, err := c.client.HGetAll(ctx, categoriesKey).Result()
	if err == nil && len(fields) > 0 {
		return categoriesFromHash(fields), nil
	}

	result, err, _ := c.sf.Do(categoriesKey, func() (interface{}, error) {
		// Re-check cache in case another goroutine filled it.
		fields, err := c.client.HGetAll(ctx, categoriesKey).Result()
		if err == nil && len(fields) > 0 {
			return categoriesFromHash(fields), nil
		}

		categories, err := c.source.Categories(ctx)
		if err != nil {
			return nil, err
		}

		ttl := c.ttlWithJitter()
		pipe := c.client.Pipeline()
		for _, category := range categories {
			pipe.HSet(ctx, categoriesKey, strconv.Itoa(category.ID), category.Name)
		}
		if ttl > 0 {
			pipe.Expire(ctx, categoriesKey, ttl)
		}
		_, _ = pipe.Exec(ctx)

		return categories, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]domain.Category), nil
}

func categoriesFromHash(fields map[string]string) []domain.Category {
	categories := make([]domain.Category, 0, len(fields))
	for idRaw, name := range fields {
		id, err := strconv.Atoi(idRaw)
		if err != nil {
			continue
		}
		categories = append(categories, domain.Category{ID: id, Name: name})
	}
	sort.Slice(categories, func(i, j int) bool {
		return categories[i].ID < categories[j].ID
	})
	return categories
}

func (c *CategoryCache) ttlWithJitter() time.Duration {
	if c.ttl <= 0 {
		return 0
	}
	jitterMax := int64(c.ttl) / 10
	return c.ttl + time.Duration(c.rnd.Int63n(jitterMax+1))
}
