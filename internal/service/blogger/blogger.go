// Package blogger serves the public author profiles. Posts are written by
// admins, so only users holding that role have a profile; anyone else looks
// absent to the outside.
package blogger

import (
	"context"

	"github.com/google/uuid"

	"github.com/akulinich/gazzeta/internal/apperrors"
	"github.com/akulinich/gazzeta/internal/models"
	"github.com/akulinich/gazzeta/internal/repository"
)

const defaultPageSize = 10

type Service struct {
	users repository.UserRepo
	posts repository.PostRepo
}

func New(users repository.UserRepo, posts repository.PostRepo) *Service {
	return &Service{users: users, posts: posts}
}

// Profile returns the blogger and one page of their posts with engagement
// counts, optionally narrowed to a tag
func (s *Service) Profile(ctx context.Context, id uuid.UUID, tag string, page, limit int) (models.User, models.BloggerPostPage, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return models.User{}, models.BloggerPostPage{}, err
	}
	if user.Role != models.RoleAdmin {
		return models.User{}, models.BloggerPostPage{}, apperrors.ErrUserNotFound
	}

	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultPageSize
	}

	posts, err := s.posts.ListByBlogger(ctx, id, tag, page, limit)
	if err != nil {
		return user, models.BloggerPostPage{}, err
	}

	return user, posts, nil
}
