package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/akulinich/gazzeta/internal/models"
)

// Storage aggregates all repositories and lets services run several of them
// in one transaction
type Storage interface {
	User() UserRepo
	Refresh() RefreshTokenRepo
	Post() PostRepo
	Comment() CommentRepo
	Category() CategoryRepo
	Tag() TagRepo
	Favorite() FavoriteRepo
	Report() ReportRepo
	Notification() NotificationRepo
	Stats() StatsRepo

	InTx(ctx context.Context, fn func(Storage) error) error
}

type CreateUserParams struct {
	Name         string
	Email        string
	Role         string
	PasswordHash string
}

type UpdateUserParams struct {
	Name     *string
	Email    *string
	ImageURL *string
}

// User repository interface
type UserRepo interface {
	// Create user
	// If user with email exists already has to return apperrors.ErrUserAlreadyExists
	Create(ctx context.Context, arg CreateUserParams) (models.User, error)

	// Get user by id or email
	// If user not found must return apperrors.ErrUserNotFound
	GetByID(ctx context.Context, id uuid.UUID) (models.User, error)
	GetByEmail(ctx context.Context, email string) (models.User, error)

	// Update only the fields that are non-nil
	Update(ctx context.Context, id uuid.UUID, arg UpdateUserParams) (models.User, error)
}

// RefreshToken repository interface
type RefreshTokenRepo interface {
	// Save token
	Save(ctx context.Context, token models.RefreshToken) error

	// Return the token if it exists, even expired or used
	// If not found must return apperrors.ErrRefreshTokenNotFound
	Get(ctx context.Context, tokenString string) (models.RefreshToken, error)

	// Mark token as used, must not overwrite an existing used_at
	// If already used must return apperrors.ErrRefreshTokenIsUsed
	MarkUsed(ctx context.Context, tokenString string) (usedAt time.Time, err error)

	// Delete token by value, used on logout. No error if absent
	Delete(ctx context.Context, tokenString string) error

	// Remove tokens that expired before the given time, returns removed count
	DeleteExpired(ctx context.Context, before time.Time) (int64, error)
}

type CreatePostParams struct {
	Title       string
	Slug        string
	Content     string
	ImageURL    *string
	VideoURL    *string
	AuthorID    uuid.UUID
	CategoryIDs []uuid.UUID
	TagNames    []string
}

type UpdatePostParams struct {
	Title       *string
	Slug        *string
	Content     *string
	ImageURL    *string
	CategoryIDs []uuid.UUID // nil means keep, empty means clear
	TagNames    []string
}

// Post repository interface
type PostRepo interface {
	// Create post with its category links; missing tags are created on demand
	// Duplicate slug must return apperrors.ErrSlugAlreadyTaken
	Create(ctx context.Context, arg CreatePostParams) (models.Post, error)

	// Not found must return apperrors.ErrPostNotFound
	GetBySlug(ctx context.Context, slug string) (models.Post, error)
	GetByID(ctx context.Context, id uuid.UUID) (models.Post, error)

	List(ctx context.Context, filter models.PostFilter) (models.PostPage, error)
	ListByAuthor(ctx context.Context, authorID uuid.UUID) ([]models.Post, error)
	ListWithVideos(ctx context.Context) ([]models.Post, error)

	// One page of an author's posts with comment and favorite counts for the
	// public profile, newest first, optionally narrowed to a tag
	ListByBlogger(ctx context.Context, authorID uuid.UUID, tag string, page, limit int) (models.BloggerPostPage, error)

	// Posts sharing a category or tag with the given post, the heaviest
	// overlap first. The post itself is never included
	Related(ctx context.Context, postID uuid.UUID, limit int) ([]models.Post, error)

	// Chronological neighbors of the post with the given slug
	// Missing slug must return apperrors.ErrPostNotFound
	Neighbors(ctx context.Context, slug string) (models.PostNeighbors, error)

	Update(ctx context.Context, slug string, arg UpdatePostParams) (models.Post, error)
	DeleteBySlug(ctx context.Context, slug string) error
	DeleteByID(ctx context.Context, id uuid.UUID) error

	// Aggregates for the homepage
	Trending(ctx context.Context, limit int) ([]models.Post, error)
	TopByCategory(ctx context.Context, perCategory int) ([]models.CategoryPosts, error)

	// Title and content search for the search endpoint
	Search(ctx context.Context, query string, limit int) ([]models.Post, error)
}

// Comment repository interface
type CommentRepo interface {
	Create(ctx context.Context, postID, userID uuid.UUID, content string) (models.Comment, error)
	GetByID(ctx context.Context, id uuid.UUID) (models.Comment, error)
	ListByPost(ctx context.Context, postID uuid.UUID) ([]models.Comment, error)

	// Update only if owned by userID, else apperrors.ErrCommentNotFound
	Update(ctx context.Context, id, userID uuid.UUID, content string) (models.Comment, error)

	// DeleteOwned removes the user's own comment
	// DeleteOnOwnPosts removes any comment under posts the author wrote
	// Both return apperrors.ErrCommentNotFound when nothing matched
	DeleteOwned(ctx context.Context, id, userID uuid.UUID) error
	DeleteOnOwnPosts(ctx context.Context, id, authorID uuid.UUID) error
	DeleteByID(ctx context.Context, id uuid.UUID) error
}

// Category repository interface
type CategoryRepo interface {
	// Duplicate name must return apperrors.ErrCategoryExists
	Create(ctx context.Context, name string) (models.Category, error)
	List(ctx context.Context) ([]models.Category, error)
	ListWithCounts(ctx context.Context) ([]models.CategoryCount, error)
	Update(ctx context.Context, id uuid.UUID, name string) (models.Category, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// Tag repository interface
type TagRepo interface {
	List(ctx context.Context) ([]string, error)
}

// Favorite repository interface
type FavoriteRepo interface {
	// Toggle returns true when the favorite was added, false when removed
	Toggle(ctx context.Context, userID, postID uuid.UUID) (saved bool, err error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Post, error)
}

// Report repository interface
type ReportRepo interface {
	// Duplicate report by the same user must return apperrors.ErrAlreadyReported
	CreateForPost(ctx context.Context, userID, postID uuid.UUID, reason string) error
	CreateForComment(ctx context.Context, userID, commentID uuid.UUID, reason string) error

	ReportedPosts(ctx context.Context, page, limit int) ([]models.ReportedPost, error)
	ReportedComments(ctx context.Context, page, limit int) ([]models.ReportedComment, error)
}

// Notification repository interface
type NotificationRepo interface {
	Create(ctx context.Context, n models.Notification) (models.Notification, error)
	ListByUser(ctx context.Context, userID uuid.UUID, page, limit int) ([]models.Notification, int, error)
	UnreadCount(ctx context.Context, userID uuid.UUID) (int, error)

	// Not found or owned by another user must return apperrors.ErrNotificationNotFound
	MarkRead(ctx context.Context, id, userID uuid.UUID) error
	ClearAll(ctx context.Context, userID uuid.UUID) error
}

// Stats repository interface, read-only aggregates for the admin dashboards
type StatsRepo interface {
	Global(ctx context.Context) (models.GlobalStats, error)
	Author(ctx context.Context, authorID uuid.UUID) (models.AuthorStats, error)
	GlobalActivity(ctx context.Context, months int) ([]models.MonthlyActivity, error)
	AuthorActivity(ctx context.Context, authorID uuid.UUID, months int) ([]models.MonthlyActivity, error)
}
