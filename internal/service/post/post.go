// Package post holds the write and read logic around posts: CRUD with
// ownership checks and the cached homepage aggregates built on top of them.
package post

import (
	"context"

	"github.com/google/uuid"

	"github.com/akulinich/gazzeta/internal/apperrors"
	"github.com/akulinich/gazzeta/internal/cache"
	"github.com/akulinich/gazzeta/internal/models"
	"github.com/akulinich/gazzeta/internal/repository"
)

const (
	searchLimit     = 20
	relatedLimit    = 3
	defaultPageSize = 10
)

type Service struct {
	posts       repository.PostRepo
	invalidator *cache.Invalidator
}

func New(posts repository.PostRepo, invalidator *cache.Invalidator) *Service {
	return &Service{posts: posts, invalidator: invalidator}
}

// Create stores a new post authored by the actor
func (s *Service) Create(ctx context.Context, actor models.User, arg repository.CreatePostParams) (models.Post, error) {
	arg.AuthorID = actor.ID

	created, err := s.posts.Create(ctx, arg)
	if err != nil {
		return created, err
	}

	s.invalidator.Apply(ctx, cache.Event{Kind: cache.MutationPostChanged, AuthorID: actor.ID})
	return created, nil
}

func (s *Service) GetBySlug(ctx context.Context, slug string) (models.Post, error) {
	return s.posts.GetBySlug(ctx, slug)
}

func (s *Service) List(ctx context.Context, filter models.PostFilter) (models.PostPage, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = defaultPageSize
	}
	return s.posts.List(ctx, filter)
}

func (s *Service) ListByAuthor(ctx context.Context, authorID uuid.UUID) ([]models.Post, error) {
	return s.posts.ListByAuthor(ctx, authorID)
}

func (s *Service) ListWithVideos(ctx context.Context) ([]models.Post, error) {
	return s.posts.ListWithVideos(ctx)
}

func (s *Service) Search(ctx context.Context, query string) ([]models.Post, error) {
	return s.posts.Search(ctx, query, searchLimit)
}

// Related returns posts sharing a category or tag with the given one, for the
// "read next" block under an article
func (s *Service) Related(ctx context.Context, slug string) ([]models.Post, error) {
	post, err := s.posts.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	return s.posts.Related(ctx, post.ID, relatedLimit)
}

// Neighbors returns the chronological prev and next posts for the reader's
// navigation arrows
func (s *Service) Neighbors(ctx context.Context, slug string) (models.PostNeighbors, error) {
	return s.posts.Neighbors(ctx, slug)
}

// Update edits the post if the actor wrote it or is an admin
func (s *Service) Update(ctx context.Context, actor models.User, slug string, arg repository.UpdatePostParams) (models.Post, error) {
	existing, err := s.posts.GetBySlug(ctx, slug)
	if err != nil {
		return existing, err
	}
	if err := s.mayTouch(actor, existing); err != nil {
		return models.Post{}, err
	}

	updated, err := s.posts.Update(ctx, slug, arg)
	if err != nil {
		return updated, err
	}

	s.invalidator.Apply(ctx, cache.Event{Kind: cache.MutationPostChanged, AuthorID: existing.AuthorID})
	return updated, nil
}

// Delete removes the post if the actor wrote it or is an admin
func (s *Service) Delete(ctx context.Context, actor models.User, slug string) error {
	existing, err := s.posts.GetBySlug(ctx, slug)
	if err != nil {
		return err
	}
	if err := s.mayTouch(actor, existing); err != nil {
		return err
	}

	if err := s.posts.DeleteBySlug(ctx, slug); err != nil {
		return err
	}

	s.invalidator.Apply(ctx, cache.Event{Kind: cache.MutationPostChanged, AuthorID: existing.AuthorID})
	return nil
}

func (s *Service) mayTouch(actor models.User, post models.Post) error {
	if actor.ID == post.AuthorID || actor.Role == models.RoleAdmin {
		return nil
	}
	return apperrors.ErrForbidden
}
