// Package report lets users flag posts and comments for moderation
package report

import (
	"context"

	"github.com/google/uuid"

	"github.com/akulinich/gazzeta/internal/models"
	"github.com/akulinich/gazzeta/internal/repository"
)

type Service struct {
	reports repository.ReportRepo
}

func New(reports repository.ReportRepo) *Service {
	return &Service{reports: reports}
}

func (s *Service) ReportPost(ctx context.Context, actor models.User, postID uuid.UUID, reason string) error {
	return s.reports.CreateForPost(ctx, actor.ID, postID, reason)
}

func (s *Service) ReportComment(ctx context.Context, actor models.User, commentID uuid.UUID, reason string) error {
	return s.reports.CreateForComment(ctx, actor.ID, commentID, reason)
}
