package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/akulinich/gazzeta/internal/models"
)

type StatsRepo struct {
	DB DBTX
}

const globalStats = `-- name: GlobalStats
SELECT
	(SELECT COUNT(*) FROM posts),
	(SELECT COUNT(*) FROM users),
	(SELECT COUNT(*) FROM comments),
	(SELECT COUNT(*) FROM favorites),
	(SELECT COUNT(*) FROM posts WHERE created_at >= NOW() - INTERVAL '1 week'),
	(SELECT COUNT(*) FROM users WHERE created_at >= NOW() - INTERVAL '1 week'),
	(SELECT COUNT(*) FROM comments WHERE created_at >= NOW() - INTERVAL '1 week')
`

func (r *StatsRepo) Global(ctx context.Context) (models.GlobalStats, error) {
	var s models.GlobalStats
	err := r.DB.QueryRow(ctx, globalStats).Scan(
		&s.TotalPosts, &s.TotalUsers, &s.TotalComments, &s.TotalFavorites,
		&s.PostsWeek, &s.UsersWeek, &s.CommentsWeek,
	)
	if err != nil {
		return s, fmt.Errorf("db error: %w", err)
	}
	return s, nil
}

const authorStats = `-- name: AuthorStats
SELECT
	(SELECT COUNT(*) FROM posts WHERE author_id = $1),
	(SELECT COUNT(*) FROM comments c JOIN posts p ON c.post_id = p.id WHERE p.author_id = $1),
	(SELECT COUNT(*) FROM favorites f JOIN posts p ON f.post_id = p.id WHERE p.author_id = $1),
	(SELECT COUNT(*) FROM posts WHERE author_id = $1 AND created_at >= NOW() - INTERVAL '7 days'),
	(SELECT COUNT(*) FROM comments c JOIN posts p ON c.post_id = p.id WHERE p.author_id = $1 AND c.created_at >= NOW() - INTERVAL '7 days')
`

func (r *StatsRepo) Author(ctx context.Context, authorID uuid.UUID) (models.AuthorStats, error) {
	var s models.AuthorStats
	err := r.DB.QueryRow(ctx, authorStats, authorID).Scan(
		&s.TotalPosts, &s.TotalComments, &s.TotalFavorites,
		&s.PostsWeek, &s.CommentsWeek,
	)
	if err != nil {
		return s, fmt.Errorf("db error: %w", err)
	}
	return s, nil
}

const globalActivity = `-- name: GlobalActivity
WITH months AS (
	SELECT date_trunc('month', NOW()) - (n || ' month')::interval AS month
	FROM generate_series(0, $1 - 1) AS n
)
SELECT to_char(m.month, 'YYYY-MM'),
	(SELECT COUNT(*) FROM posts p WHERE date_trunc('month', p.created_at) = m.month),
	(SELECT COUNT(*) FROM comments c WHERE date_trunc('month', c.created_at) = m.month),
	(SELECT COUNT(*) FROM favorites f WHERE date_trunc('month', f.created_at) = m.month)
FROM months m
ORDER BY m.month ASC
`

func (r *StatsRepo) GlobalActivity(ctx context.Context, months int) ([]models.MonthlyActivity, error) {
	rows, _ := r.DB.Query(ctx, globalActivity, months)
	activity, err := pgx.CollectRows(rows, rowToActivity)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return activity, nil
}

const authorActivity = `-- name: AuthorActivity
WITH months AS (
	SELECT date_trunc('month', NOW()) - (n || ' month')::interval AS month
	FROM generate_series(0, $2 - 1) AS n
)
SELECT to_char(m.month, 'YYYY-MM'),
	(SELECT COUNT(*) FROM posts p WHERE p.author_id = $1 AND date_trunc('month', p.created_at) = m.month),
	(SELECT COUNT(*) FROM comments c JOIN posts p ON c.post_id = p.id WHERE p.author_id = $1 AND date_trunc('month', c.created_at) = m.month),
	(SELECT COUNT(*) FROM favorites f JOIN posts p ON f.post_id = p.id WHERE p.author_id = $1 AND date_trunc('month', f.created_at) = m.month)
FROM months m
ORDER BY m.month ASC
`

func (r *StatsRepo) AuthorActivity(ctx context.Context, authorID uuid.UUID, months int) ([]models.MonthlyActivity, error) {
	rows, _ := r.DB.Query(ctx, authorActivity, authorID, months)
	activity, err := pgx.CollectRows(rows, rowToActivity)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return activity, nil
}

func rowToActivity(row pgx.CollectableRow) (models.MonthlyActivity, error) {
	var a models.MonthlyActivity
	err := row.Scan(&a.Month, &a.Posts, &a.Comments, &a.Favorites)
	return a, err
}
