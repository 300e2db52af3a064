package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	NotificationTypeComment = "comment"
	NotificationTypeReport  = "report"
)

type Notification struct {
	ID        uuid.UUID
	CreatedAt time.Time
	UserID    uuid.UUID
	Type      string
	Message   string
	PostID    *uuid.UUID
	CommentID *uuid.UUID
	IsRead    bool
}
