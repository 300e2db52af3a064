package models

import (
	"time"

	"github.com/google/uuid"
)

type Report struct {
	ID        uuid.UUID
	CreatedAt time.Time
	UserID    uuid.UUID
	PostID    *uuid.UUID
	CommentID *uuid.UUID
	Reason    string
}

// Reported post or comment with report count, for moderation listings
type ReportedPost struct {
	Post        Post
	ReportCount int
	LastReason  string
}

type ReportedComment struct {
	Comment     Comment
	ReportCount int
	LastReason  string
}
