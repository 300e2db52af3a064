package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/akulinich/gazzeta/internal/apperrors"
	"github.com/akulinich/gazzeta/internal/models"
)

type ReportRepo struct {
	DB DBTX
}

func (r *ReportRepo) CreateForPost(ctx context.Context, userID, postID uuid.UUID, reason string) error {
	_, err := r.DB.Exec(ctx,
		"INSERT INTO reports (user_id, post_id, reason) VALUES ($1, $2, $3)",
		userID, postID, reason,
	)
	return r.mapCreateErr(err, apperrors.ErrPostNotFound)
}

func (r *ReportRepo) CreateForComment(ctx context.Context, userID, commentID uuid.UUID, reason string) error {
	_, err := r.DB.Exec(ctx,
		"INSERT INTO reports (user_id, comment_id, reason) VALUES ($1, $2, $3)",
		userID, commentID, reason,
	)
	return r.mapCreateErr(err, apperrors.ErrCommentNotFound)
}

func (r *ReportRepo) mapCreateErr(err error, notFound error) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgerrcode.UniqueViolation:
			return fmt.Errorf("repo error: %w", apperrors.ErrAlreadyReported)
		case pgerrcode.ForeignKeyViolation:
			return fmt.Errorf("repo error: %w", notFound)
		}
	}
	return fmt.Errorf("db error: %w", err)
}

const reportedPosts = `-- name: ReportedPosts
SELECT p.id, p.created_at, p.title, p.slug, p.content, p.image_url, p.video_url, p.author_id, u.name, u.image_url,
       COUNT(r.id) AS report_count,
       (SELECT reason FROM reports WHERE post_id = p.id ORDER BY created_at DESC LIMIT 1) AS last_reason
FROM reports r
JOIN posts p ON p.id = r.post_id
JOIN users u ON u.id = p.author_id
WHERE r.post_id IS NOT NULL
GROUP BY p.id, p.created_at, p.title, p.slug, p.content, p.image_url, p.video_url, p.author_id, u.name, u.image_url
ORDER BY report_count DESC, p.created_at DESC
LIMIT $1 OFFSET $2
`

func (r *ReportRepo) ReportedPosts(ctx context.Context, page, limit int) ([]models.ReportedPost, error) {
	if page < 1 {
		page = 1
	}
	rows, _ := r.DB.Query(ctx, reportedPosts, limit, (page-1)*limit)
	reported, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.ReportedPost, error) {
		var rp models.ReportedPost
		p := &rp.Post
		err := row.Scan(&p.ID, &p.CreatedAt, &p.Title, &p.Slug, &p.Content, &p.ImageURL, &p.VideoURL, &p.AuthorID, &p.AuthorName, &p.AuthorImageURL, &rp.ReportCount, &rp.LastReason)
		return rp, err
	})
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return reported, nil
}

const reportedComments = `-- name: ReportedComments
SELECT c.id, c.created_at, c.post_id, c.user_id, u.name, c.content,
       COUNT(r.id) AS report_count,
       (SELECT reason FROM reports WHERE comment_id = c.id ORDER BY created_at DESC LIMIT 1) AS last_reason
FROM reports r
JOIN comments c ON c.id = r.comment_id
JOIN users u ON u.id = c.user_id
WHERE r.comment_id IS NOT NULL
GROUP BY c.id, c.created_at, c.post_id, c.user_id, u.name, c.content
ORDER BY report_count DESC, c.created_at DESC
LIMIT $1 OFFSET $2
`

func (r *ReportRepo) ReportedComments(ctx context.Context, page, limit int) ([]models.ReportedComment, error) {
	if page < 1 {
		page = 1
	}
	rows, _ := r.DB.Query(ctx, reportedComments, limit, (page-1)*limit)
	reported, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.ReportedComment, error) {
		var rc models.ReportedComment
		c := &rc.Comment
		err := row.Scan(&c.ID, &c.CreatedAt, &c.PostID, &c.UserID, &c.UserName, &c.Content, &rc.ReportCount, &rc.LastReason)
		return rc, err
	})
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return reported, nil
}
