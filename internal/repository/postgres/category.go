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

type CategoryRepo struct {
	DB DBTX
}

func (r *CategoryRepo) Create(ctx context.Context, name string) (models.Category, error) {
	rows, _ := r.DB.Query(ctx, "INSERT INTO categories (name) VALUES ($1) RETURNING id, name", name)
	category, err := pgx.CollectOneRow(rows, rowToCategory)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgerrcode.IsIntegrityConstraintViolation(pgErr.Code) {
			return category, fmt.Errorf("repo error: %w", apperrors.ErrCategoryExists)
		}
		return category, fmt.Errorf("db error: %w", err)
	}

	return category, nil
}

func (r *CategoryRepo) List(ctx context.Context) ([]models.Category, error) {
	rows, _ := r.DB.Query(ctx, "SELECT id, name FROM categories ORDER BY name ASC")
	categories, err := pgx.CollectRows(rows, rowToCategory)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return categories, nil
}

const listCategoriesWithCounts = `-- name: ListCategoriesWithCounts
SELECT c.id, c.name, COUNT(pc.post_id) AS post_count
FROM categories c
LEFT JOIN post_categories pc ON pc.category_id = c.id
GROUP BY c.id, c.name
ORDER BY c.name ASC
`

func (r *CategoryRepo) ListWithCounts(ctx context.Context) ([]models.CategoryCount, error) {
	rows, _ := r.DB.Query(ctx, listCategoriesWithCounts)
	counts, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.CategoryCount, error) {
		var c models.CategoryCount
		err := row.Scan(&c.ID, &c.Name, &c.PostCount)
		return c, err
	})
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return counts, nil
}

func (r *CategoryRepo) Update(ctx context.Context, id uuid.UUID, name string) (models.Category, error) {
	rows, _ := r.DB.Query(ctx, "UPDATE categories SET name = $2 WHERE id = $1 RETURNING id, name", id, name)
	category, err := pgx.CollectOneRow(rows, rowToCategory)

	switch {
	case err == nil:
		return category, nil
	case errors.Is(err, pgx.ErrNoRows):
		return category, fmt.Errorf("repo error: %w", apperrors.ErrCategoryNotFound)
	default:
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgerrcode.IsIntegrityConstraintViolation(pgErr.Code) {
			return category, fmt.Errorf("repo error: %w", apperrors.ErrCategoryExists)
		}
		return category, fmt.Errorf("db error: %w", err)
	}
}

func (r *CategoryRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.DB.Exec(ctx, "DELETE FROM categories WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo error: %w", apperrors.ErrCategoryNotFound)
	}
	return nil
}

func rowToCategory(row pgx.CollectableRow) (models.Category, error) {
	var c models.Category
	err := row.Scan(&c.ID, &c.Name)
	return c, err
}
