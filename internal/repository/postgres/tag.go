package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

type TagRepo struct {
	DB DBTX
}

func (r *TagRepo) List(ctx context.Context) ([]string, error) {
	rows, _ := r.DB.Query(ctx, "SELECT name FROM tags ORDER BY name ASC")
	tags, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return tags, nil
}
