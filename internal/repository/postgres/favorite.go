package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/akulinich/gazzeta/internal/models"
)

type FavoriteRepo struct {
	DB DBTX
}

// Toggle adds the favorite if absent, removes it if present.
// The insert relies on the primary key to stay race-safe: if a concurrent
// request inserted first, ON CONFLICT turns ours into a delete.
func (r *FavoriteRepo) Toggle(ctx context.Context, userID, postID uuid.UUID) (bool, error) {
	tag, err := r.DB.Exec(ctx, `
		INSERT INTO favorites (user_id, post_id) VALUES ($1, $2)
		ON CONFLICT (user_id, post_id) DO NOTHING`, userID, postID)
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}

	if tag.RowsAffected() > 0 {
		return true, nil
	}

	_, err = r.DB.Exec(ctx, "DELETE FROM favorites WHERE user_id = $1 AND post_id = $2", userID, postID)
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return false, nil
}

const listFavoritesByUser = `-- name: ListFavoritesByUser
SELECT ` + postColumns + `
FROM favorites f
JOIN posts p ON p.id = f.post_id
JOIN users u ON u.id = p.author_id
WHERE f.user_id = $1
ORDER BY f.created_at DESC
`

func (r *FavoriteRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Post, error) {
	rows, _ := r.DB.Query(ctx, listFavoritesByUser, userID)
	posts, err := pgx.CollectRows(rows, rowToPost)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return posts, nil
}
