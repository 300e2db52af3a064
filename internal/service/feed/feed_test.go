package feed

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akulinich/gazzeta/internal/cache"
	"github.com/akulinich/gazzeta/internal/logger"
	"github.com/akulinich/gazzeta/internal/models"
	"github.com/akulinich/gazzeta/internal/repository"
	"github.com/akulinich/gazzeta/internal/testutil"
)

type fakePostRepo struct {
	repository.PostRepo
	trendingCalls int
	topCalls      int
	trending      []models.Post
	top           []models.CategoryPosts
}

func (f *fakePostRepo) Trending(_ context.Context, limit int) ([]models.Post, error) {
	f.trendingCalls++
	if len(f.trending) > limit {
		return f.trending[:limit], nil
	}
	return f.trending, nil
}

func (f *fakePostRepo) TopByCategory(_ context.Context, _ int) ([]models.CategoryPosts, error) {
	f.topCalls++
	return f.top, nil
}

func TestFeedService(t *testing.T) {
	post := models.Post{ID: uuid.New(), Slug: "hit", Title: "Hit piece"}

	t.Run("trending is computed once then cached", func(t *testing.T) {
		rdb, _ := testutil.StartMiniredis(t)
		c := cache.NewRedis(rdb)
		posts := &fakePostRepo{trending: []models.Post{post}}
		s := New(posts, c, logger.NewNoOpLogger())

		first, err := s.Trending(t.Context())
		require.NoError(t, err)
		require.Len(t, first, 1)
		assert.Equal(t, "hit", first[0].Slug)

		second, err := s.Trending(t.Context())
		require.NoError(t, err)
		assert.Equal(t, first, second)
		assert.Equal(t, 1, posts.trendingCalls, "second read should come from cache")
	})

	t.Run("post mutations drop the cached feed", func(t *testing.T) {
		rdb, _ := testutil.StartMiniredis(t)
		c := cache.NewRedis(rdb)
		invalidator := cache.NewInvalidator(c, logger.NewNoOpLogger())
		posts := &fakePostRepo{trending: []models.Post{post}}
		s := New(posts, c, logger.NewNoOpLogger())

		_, err := s.Trending(t.Context())
		require.NoError(t, err)

		invalidator.Apply(t.Context(), cache.Event{Kind: cache.MutationPostChanged})

		_, err = s.Trending(t.Context())
		require.NoError(t, err)
		assert.Equal(t, 2, posts.trendingCalls, "invalidation should force a recompute")
	})

	t.Run("top by category cached independently", func(t *testing.T) {
		rdb, _ := testutil.StartMiniredis(t)
		c := cache.NewRedis(rdb)
		group := models.CategoryPosts{
			Category: models.Category{ID: uuid.New(), Name: "tech"},
			Posts:    []models.Post{post},
		}
		posts := &fakePostRepo{top: []models.CategoryPosts{group}}
		s := New(posts, c, logger.NewNoOpLogger())

		got, err := s.TopByCategory(t.Context())
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "tech", got[0].Category.Name)

		_, err = s.TopByCategory(t.Context())
		require.NoError(t, err)
		assert.Equal(t, 1, posts.topCalls)
	})

	t.Run("trending expires on the aggregate ttl, top by category outlives it", func(t *testing.T) {
		rdb, mr := testutil.StartMiniredis(t)
		c := cache.NewRedis(rdb)
		group := models.CategoryPosts{
			Category: models.Category{ID: uuid.New(), Name: "tech"},
			Posts:    []models.Post{post},
		}
		posts := &fakePostRepo{trending: []models.Post{post}, top: []models.CategoryPosts{group}}
		s := New(posts, c, logger.NewNoOpLogger())

		_, err := s.Trending(t.Context())
		require.NoError(t, err)
		_, err = s.TopByCategory(t.Context())
		require.NoError(t, err)

		mr.FastForward(cache.TTLAggregate + time.Second)

		_, err = s.Trending(t.Context())
		require.NoError(t, err)
		assert.Equal(t, 2, posts.trendingCalls, "trending must recompute once the aggregate ttl elapses")

		_, err = s.TopByCategory(t.Context())
		require.NoError(t, err)
		assert.Equal(t, 1, posts.topCalls, "top by category keeps the longer ttl")
	})

	t.Run("redis outage degrades to direct reads", func(t *testing.T) {
		rdb, mr := testutil.StartMiniredis(t)
		c := cache.NewRedis(rdb)
		posts := &fakePostRepo{trending: []models.Post{post}}
		s := New(posts, c, logger.NewNoOpLogger())

		mr.Close()

		got, err := s.Trending(t.Context())
		require.NoError(t, err, "cache outage must not break the homepage")
		require.Len(t, got, 1)
		assert.Equal(t, 1, posts.trendingCalls)
	})
}
