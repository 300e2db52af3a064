package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/akulinich/gazzeta/internal/apperrors"
	"github.com/akulinich/gazzeta/internal/models"
	"github.com/akulinich/gazzeta/internal/repository"
)

type PostRepo struct {
	DB DBTX
}

const postColumns = `p.id, p.created_at, p.title, p.slug, p.content, p.image_url, p.video_url, p.author_id, u.name, u.image_url`

const createPost = `-- name: CreatePost
INSERT INTO posts (title, slug, content, image_url, video_url, author_id)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING id, created_at
`

func (r *PostRepo) Create(ctx context.Context, arg repository.CreatePostParams) (models.Post, error) {
	post := models.Post{
		Title:    arg.Title,
		Slug:     arg.Slug,
		Content:  arg.Content,
		ImageURL: arg.ImageURL,
		VideoURL: arg.VideoURL,
		AuthorID: arg.AuthorID,
	}

	rows, _ := r.DB.Query(ctx, createPost, arg.Title, arg.Slug, arg.Content, arg.ImageURL, arg.VideoURL, arg.AuthorID)
	ids, err := pgx.CollectOneRow(rows, func(row pgx.CollectableRow) (models.Post, error) {
		var p models.Post
		err := row.Scan(&p.ID, &p.CreatedAt)
		return p, err
	})
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgerrcode.IsIntegrityConstraintViolation(pgErr.Code) {
			return post, fmt.Errorf("repo error: %w", apperrors.ErrSlugAlreadyTaken)
		}
		return post, fmt.Errorf("db error: %w", err)
	}
	post.ID = ids.ID
	post.CreatedAt = ids.CreatedAt

	if err := r.linkCategories(ctx, post.ID, arg.CategoryIDs); err != nil {
		return post, err
	}
	if err := r.linkTags(ctx, post.ID, arg.TagNames); err != nil {
		return post, err
	}
	post.Tags = arg.TagNames

	return post, nil
}

const getPostBySlug = `-- name: GetPostBySlug
SELECT ` + postColumns + `
FROM posts p
JOIN users u ON u.id = p.author_id
WHERE p.slug = $1
`

func (r *PostRepo) GetBySlug(ctx context.Context, slug string) (models.Post, error) {
	rows, _ := r.DB.Query(ctx, getPostBySlug, slug)
	post, err := pgx.CollectOneRow(rows, rowToPost)

	switch {
	case err == nil:
		return r.attachRelations(ctx, post)
	case errors.Is(err, pgx.ErrNoRows):
		return post, fmt.Errorf("repo error: %w", apperrors.ErrPostNotFound)
	default:
		return post, fmt.Errorf("db error: %w", err)
	}
}

const getPostByID = `-- name: GetPostByID
SELECT ` + postColumns + `
FROM posts p
JOIN users u ON u.id = p.author_id
WHERE p.id = $1
`

func (r *PostRepo) GetByID(ctx context.Context, id uuid.UUID) (models.Post, error) {
	rows, _ := r.DB.Query(ctx, getPostByID, id)
	post, err := pgx.CollectOneRow(rows, rowToPost)

	switch {
	case err == nil:
		return post, nil
	case errors.Is(err, pgx.ErrNoRows):
		return post, fmt.Errorf("repo error: %w", apperrors.ErrPostNotFound)
	default:
		return post, fmt.Errorf("db error: %w", err)
	}
}

// List returns one page of posts matching the filter, newest first unless
// the filter says otherwise. Total is counted in the same query via a window
// function to keep paging consistent with the rows returned.
func (r *PostRepo) List(ctx context.Context, filter models.PostFilter) (models.PostPage, error) {
	page := filter.Page
	if page < 1 {
		page = 1
	}
	limit := filter.Limit
	if limit < 1 {
		limit = 5
	}

	var (
		conds []string
		args  []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.CategoryID != nil {
		conds = append(conds, fmt.Sprintf(
			"EXISTS (SELECT 1 FROM post_categories pc WHERE pc.post_id = p.id AND pc.category_id = %s)", arg(*filter.CategoryID)))
	}
	if filter.Tag != "" {
		conds = append(conds, fmt.Sprintf(
			"EXISTS (SELECT 1 FROM post_tags pt JOIN tags t ON t.id = pt.tag_id WHERE pt.post_id = p.id AND t.name = %s)", arg(filter.Tag)))
	}
	if filter.Query != "" {
		p := arg("%" + filter.Query + "%")
		conds = append(conds, fmt.Sprintf("(p.title ILIKE %s OR p.content ILIKE %s)", p, p))
	}

	where := ""
	if len(conds) > 0 {
		where = "WHERE " + strings.Join(conds, " AND ")
	}

	var orderBy string
	switch filter.Sort {
	case models.PostSortPopular:
		orderBy = "(SELECT COUNT(*) FROM favorites f WHERE f.post_id = p.id) DESC, p.created_at DESC"
	case models.PostSortCommented:
		orderBy = "(SELECT COUNT(*) FROM comments c WHERE c.post_id = p.id) DESC, p.created_at DESC"
	default:
		orderBy = "p.created_at DESC"
	}

	query := fmt.Sprintf(`
		SELECT %s, COUNT(*) OVER() AS total
		FROM posts p
		JOIN users u ON u.id = p.author_id
		%s
		ORDER BY %s
		LIMIT %s OFFSET %s`,
		postColumns, where, orderBy, arg(limit), arg((page-1)*limit),
	)

	total := 0
	rows, _ := r.DB.Query(ctx, query, args...)
	posts, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.Post, error) {
		var p models.Post
		err := row.Scan(&p.ID, &p.CreatedAt, &p.Title, &p.Slug, &p.Content, &p.ImageURL, &p.VideoURL, &p.AuthorID, &p.AuthorName, &p.AuthorImageURL, &total)
		return p, err
	})
	if err != nil {
		return models.PostPage{}, fmt.Errorf("db error: %w", err)
	}

	return models.PostPage{
		Page:    page,
		Limit:   limit,
		Total:   total,
		HasMore: page*limit < total,
		Posts:   posts,
	}, nil
}

const listPostsByAuthor = `-- name: ListPostsByAuthor
SELECT ` + postColumns + `
FROM posts p
JOIN users u ON u.id = p.author_id
WHERE p.author_id = $1
ORDER BY p.created_at DESC
`

func (r *PostRepo) ListByAuthor(ctx context.Context, authorID uuid.UUID) ([]models.Post, error) {
	rows, _ := r.DB.Query(ctx, listPostsByAuthor, authorID)
	posts, err := pgx.CollectRows(rows, rowToPost)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return posts, nil
}

const listPostsWithVideos = `-- name: ListPostsWithVideos
SELECT ` + postColumns + `
FROM posts p
JOIN users u ON u.id = p.author_id
WHERE p.video_url IS NOT NULL
ORDER BY p.created_at DESC
`

func (r *PostRepo) ListWithVideos(ctx context.Context) ([]models.Post, error) {
	rows, _ := r.DB.Query(ctx, listPostsWithVideos)
	posts, err := pgx.CollectRows(rows, rowToPost)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return posts, nil
}

const listBloggerPosts = `-- name: ListBloggerPosts
SELECT ` + postColumns + `,
       (SELECT COUNT(*) FROM comments c WHERE c.post_id = p.id) AS comment_count,
       (SELECT COUNT(*) FROM favorites f WHERE f.post_id = p.id) AS favorite_count,
       COALESCE((SELECT array_agg(t.name ORDER BY t.name)
                 FROM post_tags pt JOIN tags t ON t.id = pt.tag_id
                 WHERE pt.post_id = p.id), '{}') AS tags
FROM posts p
JOIN users u ON u.id = p.author_id
WHERE p.author_id = $1
  AND ($2 = '' OR EXISTS (
      SELECT 1 FROM post_tags pt JOIN tags t ON t.id = pt.tag_id
      WHERE pt.post_id = p.id AND t.name = $2))
ORDER BY p.created_at DESC
LIMIT $3 OFFSET $4
`

func (r *PostRepo) ListByBlogger(ctx context.Context, authorID uuid.UUID, tag string, page, limit int) (models.BloggerPostPage, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}

	rows, _ := r.DB.Query(ctx, listBloggerPosts, authorID, tag, limit, (page-1)*limit)
	posts, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.BloggerPost, error) {
		var p models.BloggerPost
		err := row.Scan(&p.ID, &p.CreatedAt, &p.Title, &p.Slug, &p.Content, &p.ImageURL, &p.VideoURL, &p.AuthorID, &p.AuthorName, &p.AuthorImageURL, &p.CommentCount, &p.FavoriteCount, &p.Tags)
		return p, err
	})
	if err != nil {
		return models.BloggerPostPage{}, fmt.Errorf("db error: %w", err)
	}

	return models.BloggerPostPage{
		Page:    page,
		Limit:   limit,
		HasMore: len(posts) == limit,
		Posts:   posts,
	}, nil
}

// Every shared category or tag counts as one link; posts are ranked by how
// many links they share with the source post
const relatedPosts = `-- name: RelatedPosts
SELECT ` + postColumns + `
FROM posts p
JOIN users u ON u.id = p.author_id
JOIN (
    SELECT pc2.post_id
    FROM post_categories pc1
    JOIN post_categories pc2 ON pc2.category_id = pc1.category_id
    WHERE pc1.post_id = $1
    UNION ALL
    SELECT pt2.post_id
    FROM post_tags pt1
    JOIN post_tags pt2 ON pt2.tag_id = pt1.tag_id
    WHERE pt1.post_id = $1
) shared ON shared.post_id = p.id
WHERE p.id <> $1
GROUP BY p.id, u.name, u.image_url
ORDER BY COUNT(*) DESC, p.created_at DESC
LIMIT $2
`

func (r *PostRepo) Related(ctx context.Context, postID uuid.UUID, limit int) ([]models.Post, error) {
	rows, _ := r.DB.Query(ctx, relatedPosts, postID, limit)
	posts, err := pgx.CollectRows(rows, rowToPost)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return posts, nil
}

const prevPost = `-- name: PrevPost
SELECT ` + postColumns + `
FROM posts p
JOIN users u ON u.id = p.author_id
WHERE (p.created_at, p.id) < ($1, $2)
ORDER BY p.created_at DESC, p.id DESC
LIMIT 1
`

const nextPost = `-- name: NextPost
SELECT ` + postColumns + `
FROM posts p
JOIN users u ON u.id = p.author_id
WHERE (p.created_at, p.id) > ($1, $2)
ORDER BY p.created_at ASC, p.id ASC
LIMIT 1
`

// Neighbors walks the timeline around the post with the slug. The id breaks
// ties between posts created in the same instant, so every post has a stable
// position
func (r *PostRepo) Neighbors(ctx context.Context, slug string) (models.PostNeighbors, error) {
	var (
		id        uuid.UUID
		createdAt time.Time
	)
	err := r.DB.QueryRow(ctx, "SELECT id, created_at FROM posts WHERE slug = $1", slug).Scan(&id, &createdAt)
	switch {
	case err == nil:
	case errors.Is(err, pgx.ErrNoRows):
		return models.PostNeighbors{}, fmt.Errorf("repo error: %w", apperrors.ErrPostNotFound)
	default:
		return models.PostNeighbors{}, fmt.Errorf("db error: %w", err)
	}

	var neighbors models.PostNeighbors

	rows, _ := r.DB.Query(ctx, prevPost, createdAt, id)
	prev, err := pgx.CollectOneRow(rows, rowToPost)
	switch {
	case err == nil:
		neighbors.Prev = &prev
	case errors.Is(err, pgx.ErrNoRows):
	default:
		return neighbors, fmt.Errorf("db error: %w", err)
	}

	rows, _ = r.DB.Query(ctx, nextPost, createdAt, id)
	next, err := pgx.CollectOneRow(rows, rowToPost)
	switch {
	case err == nil:
		neighbors.Next = &next
	case errors.Is(err, pgx.ErrNoRows):
	default:
		return neighbors, fmt.Errorf("db error: %w", err)
	}

	return neighbors, nil
}

const updatePost = `-- name: UpdatePost
UPDATE posts
SET title     = COALESCE($2, title),
    slug      = COALESCE($3, slug),
    content   = COALESCE($4, content),
    image_url = COALESCE($5, image_url)
WHERE slug = $1
RETURNING id
`

func (r *PostRepo) Update(ctx context.Context, slug string, arg repository.UpdatePostParams) (models.Post, error) {
	rows, _ := r.DB.Query(ctx, updatePost, slug, arg.Title, arg.Slug, arg.Content, arg.ImageURL)
	id, err := pgx.CollectOneRow(rows, pgx.RowTo[uuid.UUID])

	switch {
	case err == nil:
	case errors.Is(err, pgx.ErrNoRows):
		return models.Post{}, fmt.Errorf("repo error: %w", apperrors.ErrPostNotFound)
	default:
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgerrcode.IsIntegrityConstraintViolation(pgErr.Code) {
			return models.Post{}, fmt.Errorf("repo error: %w", apperrors.ErrSlugAlreadyTaken)
		}
		return models.Post{}, fmt.Errorf("db error: %w", err)
	}

	if arg.CategoryIDs != nil {
		if _, err := r.DB.Exec(ctx, "DELETE FROM post_categories WHERE post_id = $1", id); err != nil {
			return models.Post{}, fmt.Errorf("db error: %w", err)
		}
		if err := r.linkCategories(ctx, id, arg.CategoryIDs); err != nil {
			return models.Post{}, err
		}
	}
	if arg.TagNames != nil {
		if _, err := r.DB.Exec(ctx, "DELETE FROM post_tags WHERE post_id = $1", id); err != nil {
			return models.Post{}, fmt.Errorf("db error: %w", err)
		}
		if err := r.linkTags(ctx, id, arg.TagNames); err != nil {
			return models.Post{}, err
		}
	}

	return r.GetByID(ctx, id)
}

func (r *PostRepo) DeleteBySlug(ctx context.Context, slug string) error {
	tag, err := r.DB.Exec(ctx, "DELETE FROM posts WHERE slug = $1", slug)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo error: %w", apperrors.ErrPostNotFound)
	}
	return nil
}

func (r *PostRepo) DeleteByID(ctx context.Context, id uuid.UUID) error {
	tag, err := r.DB.Exec(ctx, "DELETE FROM posts WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo error: %w", apperrors.ErrPostNotFound)
	}
	return nil
}

const trendingPosts = `-- name: TrendingPosts
SELECT ` + postColumns + `
FROM posts p
JOIN users u ON u.id = p.author_id
ORDER BY (SELECT COUNT(*) FROM favorites f WHERE f.post_id = p.id) DESC, p.created_at DESC
LIMIT $1
`

func (r *PostRepo) Trending(ctx context.Context, limit int) ([]models.Post, error) {
	rows, _ := r.DB.Query(ctx, trendingPosts, limit)
	posts, err := pgx.CollectRows(rows, rowToPost)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return posts, nil
}

const topPostsForCategory = `-- name: TopPostsForCategory
SELECT ` + postColumns + `
FROM posts p
JOIN post_categories pc ON pc.post_id = p.id
JOIN users u ON u.id = p.author_id
WHERE pc.category_id = $1
ORDER BY p.created_at DESC
LIMIT $2
`

func (r *PostRepo) TopByCategory(ctx context.Context, perCategory int) ([]models.CategoryPosts, error) {
	catRepo := &CategoryRepo{DB: r.DB}
	categories, err := catRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	result := make([]models.CategoryPosts, 0, len(categories))
	for _, category := range categories {
		rows, _ := r.DB.Query(ctx, topPostsForCategory, category.ID, perCategory)
		posts, err := pgx.CollectRows(rows, rowToPost)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}

		result = append(result, models.CategoryPosts{Category: category, Posts: posts})
	}

	return result, nil
}

const searchPosts = `-- name: SearchPosts
SELECT ` + postColumns + `
FROM posts p
JOIN users u ON u.id = p.author_id
WHERE p.title ILIKE $1 OR p.content ILIKE $1
ORDER BY p.created_at DESC
LIMIT $2
`

func (r *PostRepo) Search(ctx context.Context, query string, limit int) ([]models.Post, error) {
	rows, _ := r.DB.Query(ctx, searchPosts, "%"+query+"%", limit)
	posts, err := pgx.CollectRows(rows, rowToPost)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return posts, nil
}

func (r *PostRepo) linkCategories(ctx context.Context, postID uuid.UUID, categoryIDs []uuid.UUID) error {
	for _, categoryID := range categoryIDs {
		_, err := r.DB.Exec(ctx,
			"INSERT INTO post_categories (post_id, category_id) VALUES ($1, $2) ON CONFLICT DO NOTHING",
			postID, categoryID,
		)
		if err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.ForeignKeyViolation {
				return fmt.Errorf("repo error: %w", apperrors.ErrCategoryNotFound)
			}
			return fmt.Errorf("db error: %w", err)
		}
	}
	return nil
}

// linkTags creates missing tags on demand and links them to the post
func (r *PostRepo) linkTags(ctx context.Context, postID uuid.UUID, tagNames []string) error {
	for _, name := range tagNames {
		name = strings.ToLower(strings.TrimSpace(name))
		if name == "" {
			continue
		}

		var tagID uuid.UUID
		err := r.DB.QueryRow(ctx, `
			INSERT INTO tags (name) VALUES ($1)
			ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
			RETURNING id`, name,
		).Scan(&tagID)
		if err != nil {
			return fmt.Errorf("db error: %w", err)
		}

		_, err = r.DB.Exec(ctx,
			"INSERT INTO post_tags (post_id, tag_id) VALUES ($1, $2) ON CONFLICT DO NOTHING",
			postID, tagID,
		)
		if err != nil {
			return fmt.Errorf("db error: %w", err)
		}
	}
	return nil
}

// attachRelations loads categories and tags of a single post
func (r *PostRepo) attachRelations(ctx context.Context, post models.Post) (models.Post, error) {
	rows, _ := r.DB.Query(ctx, `
		SELECT c.id, c.name
		FROM categories c
		JOIN post_categories pc ON pc.category_id = c.id
		WHERE pc.post_id = $1
		ORDER BY c.name ASC`, post.ID)
	categories, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.Category, error) {
		var c models.Category
		err := row.Scan(&c.ID, &c.Name)
		return c, err
	})
	if err != nil {
		return post, fmt.Errorf("db error: %w", err)
	}
	post.Categories = categories

	rows, _ = r.DB.Query(ctx, `
		SELECT t.name
		FROM tags t
		JOIN post_tags pt ON pt.tag_id = t.id
		WHERE pt.post_id = $1
		ORDER BY t.name ASC`, post.ID)
	tags, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return post, fmt.Errorf("db error: %w", err)
	}
	post.Tags = tags

	return post, nil
}

func rowToPost(row pgx.CollectableRow) (models.Post, error) {
	var p models.Post
	err := row.Scan(&p.ID, &p.CreatedAt, &p.Title, &p.Slug, &p.Content, &p.ImageURL, &p.VideoURL, &p.AuthorID, &p.AuthorName, &p.AuthorImageURL)
	return p, err
}
