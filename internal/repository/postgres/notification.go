package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/akulinich/gazzeta/internal/apperrors"
	"github.com/akulinich/gazzeta/internal/models"
)

type NotificationRepo struct {
	DB DBTX
}

const createNotification = `-- name: CreateNotification
INSERT INTO notifications (user_id, type, message, post_id, comment_id)
VALUES ($1, $2, $3, $4, $5)
RETURNING id, created_at, user_id, type, message, post_id, comment_id, is_read
`

func (r *NotificationRepo) Create(ctx context.Context, n models.Notification) (models.Notification, error) {
	rows, _ := r.DB.Query(ctx, createNotification, n.UserID, n.Type, n.Message, n.PostID, n.CommentID)
	created, err := pgx.CollectOneRow(rows, rowToNotification)
	if err != nil {
		return created, fmt.Errorf("db error: %w", err)
	}
	return created, nil
}

const listNotifications = `-- name: ListNotifications
SELECT id, created_at, user_id, type, message, post_id, comment_id, is_read,
       COUNT(*) OVER() AS total
FROM notifications
WHERE user_id = $1
ORDER BY created_at DESC
LIMIT $2 OFFSET $3
`

func (r *NotificationRepo) ListByUser(ctx context.Context, userID uuid.UUID, page, limit int) ([]models.Notification, int, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}

	total := 0
	rows, _ := r.DB.Query(ctx, listNotifications, userID, limit, (page-1)*limit)
	notifications, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.Notification, error) {
		var n models.Notification
		err := row.Scan(&n.ID, &n.CreatedAt, &n.UserID, &n.Type, &n.Message, &n.PostID, &n.CommentID, &n.IsRead, &total)
		return n, err
	})
	if err != nil {
		return nil, 0, fmt.Errorf("db error: %w", err)
	}

	return notifications, total, nil
}

func (r *NotificationRepo) UnreadCount(ctx context.Context, userID uuid.UUID) (int, error) {
	count := 0
	err := r.DB.QueryRow(ctx,
		"SELECT COUNT(*) FROM notifications WHERE user_id = $1 AND is_read = FALSE", userID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return count, nil
}

func (r *NotificationRepo) MarkRead(ctx context.Context, id, userID uuid.UUID) error {
	tag, err := r.DB.Exec(ctx,
		"UPDATE notifications SET is_read = TRUE WHERE id = $1 AND user_id = $2", id, userID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo error: %w", apperrors.ErrNotificationNotFound)
	}
	return nil
}

func (r *NotificationRepo) ClearAll(ctx context.Context, userID uuid.UUID) error {
	_, err := r.DB.Exec(ctx, "DELETE FROM notifications WHERE user_id = $1", userID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func rowToNotification(row pgx.CollectableRow) (models.Notification, error) {
	var n models.Notification
	err := row.Scan(&n.ID, &n.CreatedAt, &n.UserID, &n.Type, &n.Message, &n.PostID, &n.CommentID, &n.IsRead)
	return n, err
}
