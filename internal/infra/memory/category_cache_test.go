package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"trivia-quiz/internal/domain"
)

func TestCategoryCacheCaches(t *testing.T) {
	source := &countingSource{
		CategorySource: NewStaticCategorySource(sampleCategories()),
	}
	cache := NewCategoryCache(source, time.Minute)

	if _, err := cache.Categories(context.Background()); err != nil {
		t.Fatalf("categories: %v", err)
	}
	if source.calls != 1 {
		t.Fatalf("expected source once, got %d", source.calls)
	}

	categories, err := cache.Categories(context.Background())
	if err != nil {
		t.Fatalf("categories 2: %v", err)
	}
	if source.calls != 1 {
		t.Fatalf("expected cache hit, source calls %d", source.calls)
	}
	if len(categories) != 2 || categories[0].ID != 9 {
		t.Fatalf("unexpected categories: %+v", categories)
	}
}

func TestCategoryCacheDoesNotCacheFailures(t *testing.T) {
	source := &failingSource{err: errors.New("network down")}
	cache := NewCategoryCache(source, time.Minute)

	if _, err := cache.Categories(context.Background()); err == nil {
		t.Fatalf("expected error")
	}
	if _, err := cache.Categories(context.Background()); err == nil {
		t.Fatalf("expected error on second call too")
	}
	if source.calls != 2 {
		t.Fatalf("failures must not be cached, source calls %d", source.calls)
	}
}

type countingSource struct {
	CategorySource
	calls int
}

func (s *countingSource) Categories(ctx context.Context) ([]domain.Category, error) {
	s.calls++
	return s.CategorySource.Categories(ctx)
}

type failingSource struct {
	err   error
	calls int
}

func (s *failingSource) Categories(context.Context) ([]domain.Category, error) {
	s.calls++
	return nil, s.err
}

func sampleCategories() []domain.Category {
	return []domain.Category{
		{ID: 9, Name: "General Knowledge"},
		{ID: 18, Name: "Science: Computers"},
	}
}
