// Package favorite implements the save-for-later toggle
package favorite

import (
	"context"

	"github.com/google/uuid"

	"github.com/akulinich/gazzeta/internal/cache"
	"github.com/akulinich/gazzeta/internal/models"
	"github.com/akulinich/gazzeta/internal/repository"
)

type Service struct {
	favorites   repository.FavoriteRepo
	posts       repository.PostRepo
	invalidator *cache.Invalidator
}

func New(favorites repository.FavoriteRepo, posts repository.PostRepo, invalidator *cache.Invalidator) *Service {
	return &Service{favorites: favorites, posts: posts, invalidator: invalidator}
}

// Toggle flips the favorite for the post and reports the new state.
// Trending depends on favorite counts, so the toggle invalidates it
func (s *Service) Toggle(ctx context.Context, actor models.User, postID uuid.UUID) (saved bool, err error) {
	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		return false, err
	}

	saved, err = s.favorites.Toggle(ctx, actor.ID, postID)
	if err != nil {
		return false, err
	}

	s.invalidator.Apply(ctx, cache.Event{Kind: cache.MutationFavoriteToggled, AuthorID: post.AuthorID})
	return saved, nil
}

func (s *Service) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Post, error) {
	return s.favorites.ListByUser(ctx, userID)
}
