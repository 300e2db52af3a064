package comment

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akulinich/gazzeta/internal/apperrors"
	"github.com/akulinich/gazzeta/internal/cache"
	"github.com/akulinich/gazzeta/internal/logger"
	"github.com/akulinich/gazzeta/internal/models"
	"github.com/akulinich/gazzeta/internal/repository"
	"github.com/akulinich/gazzeta/internal/testutil"
)

// Fakes embed the repository interfaces so only the methods the service
// actually touches need an implementation

type fakePostRepo struct {
	repository.PostRepo
	posts map[uuid.UUID]models.Post
}

func (f *fakePostRepo) GetByID(_ context.Context, id uuid.UUID) (models.Post, error) {
	post, ok := f.posts[id]
	if !ok {
		return models.Post{}, apperrors.ErrPostNotFound
	}
	return post, nil
}

type fakeCommentRepo struct {
	repository.CommentRepo
	created      []models.Comment
	deletedOwned []uuid.UUID
	moderated    []uuid.UUID
}

func (f *fakeCommentRepo) Create(_ context.Context, postID, userID uuid.UUID, content string) (models.Comment, error) {
	comment := models.Comment{ID: uuid.New(), PostID: postID, UserID: userID, Content: content}
	f.created = append(f.created, comment)
	return comment, nil
}

func (f *fakeCommentRepo) DeleteOwned(_ context.Context, id, _ uuid.UUID) error {
	f.deletedOwned = append(f.deletedOwned, id)
	return nil
}

func (f *fakeCommentRepo) DeleteOnOwnPosts(_ context.Context, id, _ uuid.UUID) error {
	f.moderated = append(f.moderated, id)
	return nil
}

type fakeNotificationRepo struct {
	repository.NotificationRepo
	created []models.Notification
}

func (f *fakeNotificationRepo) Create(_ context.Context, n models.Notification) (models.Notification, error) {
	n.ID = uuid.New()
	f.created = append(f.created, n)
	return n, nil
}

type fakeStorage struct {
	repository.Storage
	posts         *fakePostRepo
	comments      *fakeCommentRepo
	notifications *fakeNotificationRepo
}

func (s *fakeStorage) Post() repository.PostRepo                 { return s.posts }
func (s *fakeStorage) Comment() repository.CommentRepo           { return s.comments }
func (s *fakeStorage) Notification() repository.NotificationRepo { return s.notifications }

func (s *fakeStorage) InTx(_ context.Context, fn func(repository.Storage) error) error {
	return fn(s)
}

func newTestService(t *testing.T, posts map[uuid.UUID]models.Post) (*Service, *fakeStorage) {
	t.Helper()

	rdb, _ := testutil.StartMiniredis(t)
	invalidator := cache.NewInvalidator(cache.NewRedis(rdb), logger.NewNoOpLogger())

	storage := &fakeStorage{
		posts:         &fakePostRepo{posts: posts},
		comments:      &fakeCommentRepo{},
		notifications: &fakeNotificationRepo{},
	}
	return New(storage, invalidator), storage
}

func TestCommentService_Create(t *testing.T) {
	author := models.User{ID: uuid.New(), Name: "author", Role: models.RoleAdmin}
	commenter := models.User{ID: uuid.New(), Name: "reader", Role: models.RoleUser}
	post := models.Post{ID: uuid.New(), Title: "Hot take", AuthorID: author.ID}

	t.Run("notifies the post author", func(t *testing.T) {
		s, storage := newTestService(t, map[uuid.UUID]models.Post{post.ID: post})

		comment, err := s.Create(t.Context(), commenter, post.ID, "disagree")

		require.NoError(t, err)
		assert.Equal(t, "disagree", comment.Content)
		require.Len(t, storage.notifications.created, 1)

		n := storage.notifications.created[0]
		assert.Equal(t, author.ID, n.UserID)
		assert.Equal(t, models.NotificationTypeComment, n.Type)
		assert.Contains(t, n.Message, "reader")
		assert.Contains(t, n.Message, "Hot take")
		require.NotNil(t, n.CommentID)
		assert.Equal(t, comment.ID, *n.CommentID)
	})

	t.Run("no notification for own comment", func(t *testing.T) {
		s, storage := newTestService(t, map[uuid.UUID]models.Post{post.ID: post})

		_, err := s.Create(t.Context(), author, post.ID, "replying to myself")

		require.NoError(t, err)
		assert.Len(t, storage.comments.created, 1)
		assert.Empty(t, storage.notifications.created)
	})

	t.Run("missing post fails before writing", func(t *testing.T) {
		s, storage := newTestService(t, nil)

		_, err := s.Create(t.Context(), commenter, uuid.New(), "into the void")

		assert.ErrorIs(t, err, apperrors.ErrPostNotFound)
		assert.Empty(t, storage.comments.created)
		assert.Empty(t, storage.notifications.created)
	})
}

func TestCommentService_Delete(t *testing.T) {
	commentID := uuid.New()

	t.Run("regular user deletes own comment", func(t *testing.T) {
		s, storage := newTestService(t, nil)
		user := models.User{ID: uuid.New(), Role: models.RoleUser}

		require.NoError(t, s.Delete(t.Context(), user, commentID))

		assert.Equal(t, []uuid.UUID{commentID}, storage.comments.deletedOwned)
		assert.Empty(t, storage.comments.moderated)
	})

	t.Run("admin moderates comments under own posts", func(t *testing.T) {
		s, storage := newTestService(t, nil)
		admin := models.User{ID: uuid.New(), Role: models.RoleAdmin}

		require.NoError(t, s.Delete(t.Context(), admin, commentID))

		assert.Equal(t, []uuid.UUID{commentID}, storage.comments.moderated)
		assert.Empty(t, storage.comments.deletedOwned)
	})
}
