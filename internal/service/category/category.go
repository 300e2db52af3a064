// Package category manages categories and the cached category listings
package category

import (
	"context"

	"github.com/google/uuid"

	"github.com/akulinich/gazzeta/internal/cache"
	"github.com/akulinich/gazzeta/internal/logger"
	"github.com/akulinich/gazzeta/internal/models"
	"github.com/akulinich/gazzeta/internal/repository"
)

type Service struct {
	categories  repository.CategoryRepo
	tags        repository.TagRepo
	cache       cache.Cache
	invalidator *cache.Invalidator
	logger      logger.Logger
}

func New(categories repository.CategoryRepo, tags repository.TagRepo, c cache.Cache, invalidator *cache.Invalidator, l logger.Logger) *Service {
	return &Service{categories: categories, tags: tags, cache: c, invalidator: invalidator, logger: l}
}

// List returns all categories, cached
func (s *Service) List(ctx context.Context) ([]models.Category, error) {
	return cache.ReadThrough(ctx, s.cache, s.logger, cache.KeyAllCategories(), cache.TTLHomepage,
		func(ctx context.Context) ([]models.Category, error) {
			return s.categories.List(ctx)
		})
}

// Sidebar returns categories with post counts for the sidebar widget, cached
func (s *Service) Sidebar(ctx context.Context) ([]models.CategoryCount, error) {
	return cache.ReadThrough(ctx, s.cache, s.logger, cache.KeyCategorySidebar(), cache.TTLAggregate,
		func(ctx context.Context) ([]models.CategoryCount, error) {
			return s.categories.ListWithCounts(ctx)
		})
}

// Tags returns every tag name in use. Tags live and die with the posts that
// reference them, so there is no create or delete here
func (s *Service) Tags(ctx context.Context) ([]string, error) {
	return s.tags.List(ctx)
}

func (s *Service) Create(ctx context.Context, name string) (models.Category, error) {
	created, err := s.categories.Create(ctx, name)
	if err != nil {
		return created, err
	}
	s.invalidator.Apply(ctx, cache.Event{Kind: cache.MutationCategoryChanged})
	return created, nil
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, name string) (models.Category, error) {
	updated, err := s.categories.Update(ctx, id, name)
	if err != nil {
		return updated, err
	}
	s.invalidator.Apply(ctx, cache.Event{Kind: cache.MutationCategoryChanged})
	return updated, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.categories.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidator.Apply(ctx, cache.Event{Kind: cache.MutationCategoryChanged})
	return nil
}
