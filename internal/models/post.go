package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	PostSortNewest    = "newest"
	PostSortPopular   = "popular"
	PostSortCommented = "commented"
)

type Post struct {
	ID        uuid.UUID
	CreatedAt time.Time
	Title     string
	Slug      string
	Content   string
	ImageURL  *string
	VideoURL  *string
	AuthorID  uuid.UUID

	// Denormalized author fields, filled by list queries
	AuthorName     string
	AuthorImageURL *string

	Categories []Category
	Tags       []string
}

// Filter and paging options for post listings
type PostFilter struct {
	CategoryID *uuid.UUID
	Tag        string
	Query      string
	Sort       string
	Page       int
	Limit      int
}

// One page of posts with paging info calculated by the repository
type PostPage struct {
	Page    int
	Limit   int
	Total   int
	HasMore bool
	Posts   []Post
}

// A post with its engagement counts, as listed on a blogger's public profile
type BloggerPost struct {
	Post
	CommentCount  int
	FavoriteCount int
}

// One page of a blogger's posts. Profiles show no total, so HasMore is
// inferred from a full page
type BloggerPostPage struct {
	Page    int
	Limit   int
	HasMore bool
	Posts   []BloggerPost
}

// Chronological neighbors of a post. Prev is the next older post, Next the
// next newer one; nil at the ends of the timeline
type PostNeighbors struct {
	Prev *Post
	Next *Post
}
