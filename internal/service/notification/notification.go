// Package notification serves the per-user notification feed
package notification

import (
	"context"

	"github.com/google/uuid"

	"github.com/akulinich/gazzeta/internal/models"
	"github.com/akulinich/gazzeta/internal/repository"
)

type Page struct {
	Notifications []models.Notification
	Total         int
	TotalPages    int
}

type Service struct {
	notifications repository.NotificationRepo
}

func New(notifications repository.NotificationRepo) *Service {
	return &Service{notifications: notifications}
}

func (s *Service) List(ctx context.Context, userID uuid.UUID, page, limit int) (Page, error) {
	if limit < 1 {
		limit = 10
	}

	notifications, total, err := s.notifications.ListByUser(ctx, userID, page, limit)
	if err != nil {
		return Page{}, err
	}

	return Page{
		Notifications: notifications,
		Total:         total,
		TotalPages:    (total + limit - 1) / limit,
	}, nil
}

func (s *Service) UnreadCount(ctx context.Context, userID uuid.UUID) (int, error) {
	return s.notifications.UnreadCount(ctx, userID)
}

func (s *Service) MarkRead(ctx context.Context, actor models.User, id uuid.UUID) error {
	return s.notifications.MarkRead(ctx, id, actor.ID)
}

func (s *Service) ClearAll(ctx context.Context, actor models.User) error {
	return s.notifications.ClearAll(ctx, actor.ID)
}
