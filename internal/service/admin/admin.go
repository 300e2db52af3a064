// Package admin backs the moderation panel: dashboards, analytics, reported
// content and moderation deletes.
//
// Dashboards are role-split. Admins see counters over their own posts,
// holders see platform-wide counters. Both variants are cached under
// separate keys so one role's view never leaks into the other's.
package admin

import (
	"context"

	"github.com/google/uuid"

	"github.com/akulinich/gazzeta/internal/apperrors"
	"github.com/akulinich/gazzeta/internal/cache"
	"github.com/akulinich/gazzeta/internal/logger"
	"github.com/akulinich/gazzeta/internal/models"
	"github.com/akulinich/gazzeta/internal/repository"
)

const analyticsMonths = 6

// Dashboard is the role-split dashboard payload. Exactly one of the two
// stat fields is set, matching the actor's role
type Dashboard struct {
	Global *models.GlobalStats `json:"global,omitempty"`
	Author *models.AuthorStats `json:"author,omitempty"`
}

type Service struct {
	storage     repository.Storage
	cache       cache.Cache
	invalidator *cache.Invalidator
	logger      logger.Logger
}

func New(storage repository.Storage, c cache.Cache, invalidator *cache.Invalidator, l logger.Logger) *Service {
	return &Service{storage: storage, cache: c, invalidator: invalidator, logger: l}
}

// Dashboard returns counters scoped by the actor's role
func (s *Service) Dashboard(ctx context.Context, actor models.User) (Dashboard, error) {
	switch actor.Role {
	case models.RoleHolder:
		stats, err := cache.ReadThrough(ctx, s.cache, s.logger, cache.KeyGlobalDashboard(), cache.TTLAggregate,
			func(ctx context.Context) (models.GlobalStats, error) {
				return s.storage.Stats().Global(ctx)
			})
		return Dashboard{Global: &stats}, err
	case models.RoleAdmin:
		stats, err := cache.ReadThrough(ctx, s.cache, s.logger, cache.KeyAdminDashboard(actor.ID), cache.TTLAggregate,
			func(ctx context.Context) (models.AuthorStats, error) {
				return s.storage.Stats().Author(ctx, actor.ID)
			})
		return Dashboard{Author: &stats}, err
	}
	return Dashboard{}, apperrors.ErrForbidden
}

// Analytics returns the monthly activity series scoped by the actor's role
func (s *Service) Analytics(ctx context.Context, actor models.User) ([]models.MonthlyActivity, error) {
	switch actor.Role {
	case models.RoleHolder:
		return cache.ReadThrough(ctx, s.cache, s.logger, cache.KeyGlobalAnalytics(), cache.TTLAggregate,
			func(ctx context.Context) ([]models.MonthlyActivity, error) {
				return s.storage.Stats().GlobalActivity(ctx, analyticsMonths)
			})
	case models.RoleAdmin:
		return cache.ReadThrough(ctx, s.cache, s.logger, cache.KeyAdminAnalytics(actor.ID), cache.TTLAggregate,
			func(ctx context.Context) ([]models.MonthlyActivity, error) {
				return s.storage.Stats().AuthorActivity(ctx, actor.ID, analyticsMonths)
			})
	}
	return nil, apperrors.ErrForbidden
}

func (s *Service) ReportedPosts(ctx context.Context, page, limit int) ([]models.ReportedPost, error) {
	if limit < 1 {
		limit = 10
	}
	return s.storage.Report().ReportedPosts(ctx, page, limit)
}

func (s *Service) ReportedComments(ctx context.Context, page, limit int) ([]models.ReportedComment, error) {
	if limit < 1 {
		limit = 10
	}
	return s.storage.Report().ReportedComments(ctx, page, limit)
}

// DeletePost removes any post regardless of author, moderation power
func (s *Service) DeletePost(ctx context.Context, id uuid.UUID) error {
	post, err := s.storage.Post().GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.storage.Post().DeleteByID(ctx, id); err != nil {
		return err
	}

	s.invalidator.Apply(ctx, cache.Event{Kind: cache.MutationPostChanged, AuthorID: post.AuthorID})
	return nil
}

// DeleteComment removes any comment regardless of owner
func (s *Service) DeleteComment(ctx context.Context, id uuid.UUID) error {
	if err := s.storage.Comment().DeleteByID(ctx, id); err != nil {
		return err
	}

	s.invalidator.Apply(ctx, cache.Event{Kind: cache.MutationCommentChanged})
	return nil
}
