package models

import (
	"time"

	"github.com/google/uuid"
)

type Comment struct {
	ID        uuid.UUID
	CreatedAt time.Time
	PostID    uuid.UUID
	UserID    uuid.UUID
	UserName  string
	Content   string
}
