// Package feed serves the homepage aggregates. These are the hottest reads in
// the system, so both go through the cache: trending with the short aggregate
// TTL since favorite counts move constantly, top-by-category with the long one.
package feed

import (
	"context"

	"github.com/akulinich/gazzeta/internal/cache"
	"github.com/akulinich/gazzeta/internal/logger"
	"github.com/akulinich/gazzeta/internal/models"
	"github.com/akulinich/gazzeta/internal/repository"
)

const (
	trendingLimit  = 6
	topPerCategory = 3
)

type Service struct {
	posts  repository.PostRepo
	cache  cache.Cache
	logger logger.Logger
}

func New(posts repository.PostRepo, c cache.Cache, l logger.Logger) *Service {
	return &Service{posts: posts, cache: c, logger: l}
}

// Trending returns the most favorited posts
func (s *Service) Trending(ctx context.Context) ([]models.Post, error) {
	return cache.ReadThrough(ctx, s.cache, s.logger, cache.KeyTrendingPosts(), cache.TTLAggregate,
		func(ctx context.Context) ([]models.Post, error) {
			return s.posts.Trending(ctx, trendingLimit)
		})
}

// TopByCategory returns the latest posts of every category
func (s *Service) TopByCategory(ctx context.Context) ([]models.CategoryPosts, error) {
	return cache.ReadThrough(ctx, s.cache, s.logger, cache.KeyTopByCategory(), cache.TTLHomepage,
		func(ctx context.Context) ([]models.CategoryPosts, error) {
			return s.posts.TopByCategory(ctx, topPerCategory)
		})
}
