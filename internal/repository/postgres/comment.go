package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/akulinich/gazzeta/internal/apperrors"
	"github.com/akulinich/gazzeta/internal/models"
)

type CommentRepo struct {
	DB DBTX
}

const createComment = `-- name: CreateComment
WITH inserted AS (
	INSERT INTO comments (post_id, user_id, content)
	VALUES ($1, $2, $3)
	RETURNING id, created_at, post_id, user_id, content
)
SELECT i.id, i.created_at, i.post_id, i.user_id, u.name, i.content
FROM inserted i
JOIN users u ON u.id = i.user_id
`

func (r *CommentRepo) Create(ctx context.Context, postID, userID uuid.UUID, content string) (models.Comment, error) {
	rows, _ := r.DB.Query(ctx, createComment, postID, userID, content)
	comment, err := pgx.CollectOneRow(rows, rowToComment)
	if err != nil {
		return comment, fmt.Errorf("db error: %w", err)
	}
	return comment, nil
}

const getCommentByID = `-- name: GetCommentByID
SELECT c.id, c.created_at, c.post_id, c.user_id, u.name, c.content
FROM comments c
JOIN users u ON u.id = c.user_id
WHERE c.id = $1
`

func (r *CommentRepo) GetByID(ctx context.Context, id uuid.UUID) (models.Comment, error) {
	rows, _ := r.DB.Query(ctx, getCommentByID, id)
	comment, err := pgx.CollectOneRow(rows, rowToComment)

	switch {
	case err == nil:
		return comment, nil
	case errors.Is(err, pgx.ErrNoRows):
		return comment, fmt.Errorf("repo error: %w", apperrors.ErrCommentNotFound)
	default:
		return comment, fmt.Errorf("db error: %w", err)
	}
}

const listCommentsByPost = `-- name: ListCommentsByPost
SELECT c.id, c.created_at, c.post_id, c.user_id, u.name, c.content
FROM comments c
JOIN users u ON u.id = c.user_id
WHERE c.post_id = $1
ORDER BY c.created_at DESC
`

func (r *CommentRepo) ListByPost(ctx context.Context, postID uuid.UUID) ([]models.Comment, error) {
	rows, _ := r.DB.Query(ctx, listCommentsByPost, postID)
	comments, err := pgx.CollectRows(rows, rowToComment)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return comments, nil
}

const updateComment = `-- name: UpdateComment owned by user
WITH updated AS (
	UPDATE comments
	SET content = $3
	WHERE id = $1 AND user_id = $2
	RETURNING id, created_at, post_id, user_id, content
)
SELECT up.id, up.created_at, up.post_id, up.user_id, u.name, up.content
FROM updated up
JOIN users u ON u.id = up.user_id
`

func (r *CommentRepo) Update(ctx context.Context, id, userID uuid.UUID, content string) (models.Comment, error) {
	rows, _ := r.DB.Query(ctx, updateComment, id, userID, content)
	comment, err := pgx.CollectOneRow(rows, rowToComment)

	switch {
	case err == nil:
		return comment, nil
	case errors.Is(err, pgx.ErrNoRows):
		return comment, fmt.Errorf("repo error: %w", apperrors.ErrCommentNotFound)
	default:
		return comment, fmt.Errorf("db error: %w", err)
	}
}

func (r *CommentRepo) DeleteOwned(ctx context.Context, id, userID uuid.UUID) error {
	tag, err := r.DB.Exec(ctx, "DELETE FROM comments WHERE id = $1 AND user_id = $2", id, userID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo error: %w", apperrors.ErrCommentNotFound)
	}
	return nil
}

const deleteCommentOnOwnPosts = `-- name: DeleteCommentOnOwnPosts
DELETE FROM comments c
USING posts p
WHERE c.id = $1 AND c.post_id = p.id AND p.author_id = $2
`

// DeleteOnOwnPosts lets an admin moderate comments under posts they wrote
func (r *CommentRepo) DeleteOnOwnPosts(ctx context.Context, id, authorID uuid.UUID) error {
	tag, err := r.DB.Exec(ctx, deleteCommentOnOwnPosts, id, authorID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo error: %w", apperrors.ErrCommentNotFound)
	}
	return nil
}

func (r *CommentRepo) DeleteByID(ctx context.Context, id uuid.UUID) error {
	tag, err := r.DB.Exec(ctx, "DELETE FROM comments WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo error: %w", apperrors.ErrCommentNotFound)
	}
	return nil
}

func rowToComment(row pgx.CollectableRow) (models.Comment, error) {
	var c models.Comment
	err := row.Scan(&c.ID, &c.CreatedAt, &c.PostID, &c.UserID, &c.UserName, &c.Content)
	return c, err
}
