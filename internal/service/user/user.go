// Package user covers profile reads and updates
package user

import (
	"context"

	"github.com/google/uuid"

	"github.com/akulinich/gazzeta/internal/cache"
	"github.com/akulinich/gazzeta/internal/models"
	"github.com/akulinich/gazzeta/internal/repository"
)

type Service struct {
	users       repository.UserRepo
	invalidator *cache.Invalidator
}

func New(users repository.UserRepo, invalidator *cache.Invalidator) *Service {
	return &Service{users: users, invalidator: invalidator}
}

func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (models.User, error) {
	return s.users.GetByID(ctx, id)
}

// UpdateProfile applies the non-nil fields to the actor's own profile
func (s *Service) UpdateProfile(ctx context.Context, actor models.User, arg repository.UpdateUserParams) (models.User, error) {
	updated, err := s.users.Update(ctx, actor.ID, arg)
	if err != nil {
		return updated, err
	}

	s.invalidator.Apply(ctx, cache.Event{Kind: cache.MutationUserChanged})
	return updated, nil
}
