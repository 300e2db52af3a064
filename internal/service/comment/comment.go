// Package comment handles comments and the notifications they produce
package comment

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/akulinich/gazzeta/internal/cache"
	"github.com/akulinich/gazzeta/internal/models"
	"github.com/akulinich/gazzeta/internal/repository"
)

type Service struct {
	storage     repository.Storage
	invalidator *cache.Invalidator
}

func New(storage repository.Storage, invalidator *cache.Invalidator) *Service {
	return &Service{storage: storage, invalidator: invalidator}
}

// Create stores the comment and, when someone comments on another author's
// post, notifies that author. Both writes land in one transaction so a
// notification never points at a comment that failed to commit
func (s *Service) Create(ctx context.Context, actor models.User, postID uuid.UUID, content string) (models.Comment, error) {
	var created models.Comment
	var authorID uuid.UUID

	err := s.storage.InTx(ctx, func(tx repository.Storage) error {
		post, err := tx.Post().GetByID(ctx, postID)
		if err != nil {
			return err
		}
		authorID = post.AuthorID

		created, err = tx.Comment().Create(ctx, postID, actor.ID, content)
		if err != nil {
			return err
		}

		// Authors are not notified about their own comments
		if post.AuthorID == actor.ID {
			return nil
		}

		_, err = tx.Notification().Create(ctx, models.Notification{
			UserID:    post.AuthorID,
			Type:      models.NotificationTypeComment,
			Message:   fmt.Sprintf("%s commented on your post %q", actor.Name, post.Title),
			PostID:    &post.ID,
			CommentID: &created.ID,
		})
		return err
	})
	if err != nil {
		return created, err
	}

	s.invalidator.Apply(ctx, cache.Event{Kind: cache.MutationCommentChanged, AuthorID: authorID})
	return created, nil
}

func (s *Service) ListByPost(ctx context.Context, postID uuid.UUID) ([]models.Comment, error) {
	return s.storage.Comment().ListByPost(ctx, postID)
}

// Update edits the actor's own comment
func (s *Service) Update(ctx context.Context, actor models.User, id uuid.UUID, content string) (models.Comment, error) {
	return s.storage.Comment().Update(ctx, id, actor.ID, content)
}

// Delete removes the comment. Regular users may delete their own comments,
// admins may also prune comments under their own posts
func (s *Service) Delete(ctx context.Context, actor models.User, id uuid.UUID) error {
	var err error
	if actor.Role == models.RoleAdmin {
		err = s.storage.Comment().DeleteOnOwnPosts(ctx, id, actor.ID)
	} else {
		err = s.storage.Comment().DeleteOwned(ctx, id, actor.ID)
	}
	if err != nil {
		return err
	}

	s.invalidator.Apply(ctx, cache.Event{Kind: cache.MutationCommentChanged})
	return nil
}
