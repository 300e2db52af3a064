package postgres

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akulinich/gazzeta/internal/apperrors"
	"github.com/akulinich/gazzeta/internal/models"
	"github.com/akulinich/gazzeta/internal/repository"
	"github.com/akulinich/gazzeta/internal/testutil"
)

func Test_PostRepo(t *testing.T) {
	t.Parallel()

	pg := testutil.StartPostgresContainer(t)
	t.Cleanup(pg.Terminate)

	t.Run("create post with relations", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			r := PostRepo{DB: tx}
			author := createTestUser(t, tx, "writer", models.RoleAdmin)
			golang := createTestCategory(t, tx, "golang")

			post, err := r.Create(t.Context(), repository.CreatePostParams{
				Title:       "Generics in practice",
				Slug:        "generics-in-practice",
				Content:     "long read",
				AuthorID:    author.ID,
				CategoryIDs: []uuid.UUID{golang.ID},
				TagNames:    []string{"Go", " generics "},
			})

			require.NoError(t, err)
			assert.NotEqual(t, uuid.Nil, post.ID)
			assert.WithinDuration(t, time.Now(), post.CreatedAt, time.Second)

			got, err := r.GetBySlug(t.Context(), "generics-in-practice")
			require.NoError(t, err)
			assert.Equal(t, author.ID, got.AuthorID)
			assert.Equal(t, "writer", got.AuthorName)
			assert.Equal(t, []models.Category{golang}, got.Categories)
			assert.Equal(t, []string{"generics", "go"}, got.Tags, "tags should be lowercased, trimmed and sorted")
		})
	})

	t.Run("create post duplicate slug fails", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			r := PostRepo{DB: tx}
			author := createTestUser(t, tx, "writer", models.RoleAdmin)
			createTestPost(t, tx, author, "taken", nil, nil)

			_, err := r.Create(t.Context(), repository.CreatePostParams{
				Title:    "Another",
				Slug:     "taken",
				Content:  "content",
				AuthorID: author.ID,
			})

			assert.ErrorIs(t, err, apperrors.ErrSlugAlreadyTaken)
		})
	})

	t.Run("create post with unknown category fails", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			r := PostRepo{DB: tx}
			author := createTestUser(t, tx, "writer", models.RoleAdmin)

			_, err := r.Create(t.Context(), repository.CreatePostParams{
				Title:       "Orphan",
				Slug:        "orphan",
				Content:     "content",
				AuthorID:    author.ID,
				CategoryIDs: []uuid.UUID{uuid.New()},
			})

			assert.ErrorIs(t, err, apperrors.ErrCategoryNotFound)
		})
	})

	t.Run("get by slug not found", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			r := PostRepo{DB: tx}

			_, err := r.GetBySlug(t.Context(), "no-such-slug")
			assert.ErrorIs(t, err, apperrors.ErrPostNotFound)
		})
	})

	t.Run("list with pagination", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			r := PostRepo{DB: tx}
			author := createTestUser(t, tx, "writer", models.RoleAdmin)
			for _, slug := range []string{"one", "two", "three"} {
				createTestPost(t, tx, author, slug, nil, nil)
			}

			page, err := r.List(t.Context(), models.PostFilter{Page: 1, Limit: 2})

			require.NoError(t, err)
			assert.Equal(t, 3, page.Total)
			assert.Len(t, page.Posts, 2)
			assert.True(t, page.HasMore)

			last, err := r.List(t.Context(), models.PostFilter{Page: 2, Limit: 2})
			require.NoError(t, err)
			assert.Len(t, last.Posts, 1)
			assert.False(t, last.HasMore)
		})
	})

	t.Run("list filters by category tag and query", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			r := PostRepo{DB: tx}
			author := createTestUser(t, tx, "writer", models.RoleAdmin)
			sport := createTestCategory(t, tx, "sport")
			createTestPost(t, tx, author, "derby-recap", []uuid.UUID{sport.ID}, []string{"football"})
			createTestPost(t, tx, author, "chess-opening", nil, []string{"chess"})

			byCategory, err := r.List(t.Context(), models.PostFilter{CategoryID: &sport.ID})
			require.NoError(t, err)
			require.Len(t, byCategory.Posts, 1)
			assert.Equal(t, "derby-recap", byCategory.Posts[0].Slug)

			byTag, err := r.List(t.Context(), models.PostFilter{Tag: "chess"})
			require.NoError(t, err)
			require.Len(t, byTag.Posts, 1)
			assert.Equal(t, "chess-opening", byTag.Posts[0].Slug)

			byQuery, err := r.List(t.Context(), models.PostFilter{Query: "DERBY"})
			require.NoError(t, err)
			require.Len(t, byQuery.Posts, 1, "query match should be case insensitive")
			assert.Equal(t, "derby-recap", byQuery.Posts[0].Slug)
		})
	})

	t.Run("list sorted by popularity", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			r := PostRepo{DB: tx}
			f := FavoriteRepo{DB: tx}
			author := createTestUser(t, tx, "writer", models.RoleAdmin)
			createTestPost(t, tx, author, "plain", nil, nil)
			popular := createTestPost(t, tx, author, "popular", nil, nil)

			fan := createTestUser(t, tx, "fan", models.RoleUser)
			_, err := f.Toggle(t.Context(), fan.ID, popular.ID)
			require.NoError(t, err)

			page, err := r.List(t.Context(), models.PostFilter{Sort: models.PostSortPopular})
			require.NoError(t, err)
			require.Len(t, page.Posts, 2)
			assert.Equal(t, "popular", page.Posts[0].Slug, "favorited post should come first")
		})
	})

	t.Run("list by author and with videos", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			r := PostRepo{DB: tx}
			alice := createTestUser(t, tx, "alice", models.RoleAdmin)
			bob := createTestUser(t, tx, "bob", models.RoleAdmin)
			createTestPost(t, tx, alice, "alice-post", nil, nil)
			createTestPost(t, tx, bob, "bob-post", nil, nil)

			videoURL := "https://videos.example.com/clip.mp4"
			_, err := r.Create(t.Context(), repository.CreatePostParams{
				Title:    "With video",
				Slug:     "with-video",
				Content:  "content",
				VideoURL: &videoURL,
				AuthorID: alice.ID,
			})
			require.NoError(t, err)

			byAuthor, err := r.ListByAuthor(t.Context(), alice.ID)
			require.NoError(t, err)
			assert.Len(t, byAuthor, 2)

			videos, err := r.ListWithVideos(t.Context())
			require.NoError(t, err)
			require.Len(t, videos, 1)
			assert.Equal(t, "with-video", videos[0].Slug)
		})
	})

	t.Run("update only non nil fields and relink", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			r := PostRepo{DB: tx}
			author := createTestUser(t, tx, "writer", models.RoleAdmin)
			oldCat := createTestCategory(t, tx, "old")
			newCat := createTestCategory(t, tx, "new")
			createTestPost(t, tx, author, "editable", []uuid.UUID{oldCat.ID}, []string{"draft"})

			title := "Edited title"
			newSlug := "edited"
			updated, err := r.Update(t.Context(), "editable", repository.UpdatePostParams{
				Title:       &title,
				Slug:        &newSlug,
				CategoryIDs: []uuid.UUID{newCat.ID},
				TagNames:    []string{"final"},
			})

			require.NoError(t, err)
			assert.Equal(t, "Edited title", updated.Title)
			assert.Equal(t, "edited", updated.Slug)
			assert.Equal(t, "content", updated.Content, "content should be unchanged")

			got, err := r.GetBySlug(t.Context(), "edited")
			require.NoError(t, err)
			assert.Equal(t, []models.Category{newCat}, got.Categories)
			assert.Equal(t, []string{"final"}, got.Tags)
		})
	})

	t.Run("update missing post", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			r := PostRepo{DB: tx}

			title := "nope"
			_, err := r.Update(t.Context(), "no-such-slug", repository.UpdatePostParams{Title: &title})
			assert.ErrorIs(t, err, apperrors.ErrPostNotFound)
		})
	})

	t.Run("delete by slug", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			r := PostRepo{DB: tx}
			author := createTestUser(t, tx, "writer", models.RoleAdmin)
			createTestPost(t, tx, author, "doomed", nil, nil)

			require.NoError(t, r.DeleteBySlug(t.Context(), "doomed"))

			_, err := r.GetBySlug(t.Context(), "doomed")
			assert.ErrorIs(t, err, apperrors.ErrPostNotFound)

			assert.ErrorIs(t, r.DeleteBySlug(t.Context(), "doomed"), apperrors.ErrPostNotFound)
		})
	})

	t.Run("trending orders by favorites", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			r := PostRepo{DB: tx}
			f := FavoriteRepo{DB: tx}
			author := createTestUser(t, tx, "writer", models.RoleAdmin)
			createTestPost(t, tx, author, "quiet", nil, nil)
			loud := createTestPost(t, tx, author, "loud", nil, nil)

			for _, name := range []string{"fan-1", "fan-2"} {
				fan := createTestUser(t, tx, name, models.RoleUser)
				_, err := f.Toggle(t.Context(), fan.ID, loud.ID)
				require.NoError(t, err)
			}

			trending, err := r.Trending(t.Context(), 1)
			require.NoError(t, err)
			require.Len(t, trending, 1)
			assert.Equal(t, "loud", trending[0].Slug)
		})
	})

	t.Run("top by category groups posts", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			r := PostRepo{DB: tx}
			author := createTestUser(t, tx, "writer", models.RoleAdmin)
			tech := createTestCategory(t, tx, "tech")
			life := createTestCategory(t, tx, "life")
			createTestPost(t, tx, author, "tech-1", []uuid.UUID{tech.ID}, nil)
			createTestPost(t, tx, author, "tech-2", []uuid.UUID{tech.ID}, nil)
			createTestPost(t, tx, author, "life-1", []uuid.UUID{life.ID}, nil)

			groups, err := r.TopByCategory(t.Context(), 1)

			require.NoError(t, err)
			require.Len(t, groups, 2)

			byName := map[string]models.CategoryPosts{}
			for _, g := range groups {
				byName[g.Category.Name] = g
			}
			assert.Len(t, byName["tech"].Posts, 1, "per-category limit should apply")
			assert.Len(t, byName["life"].Posts, 1)
		})
	})

	t.Run("related posts ranked by shared links", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			r := PostRepo{DB: tx}
			author := createTestUser(t, tx, "writer", models.RoleAdmin)
			tech := createTestCategory(t, tx, "tech")

			source := createTestPost(t, tx, author, "source", []uuid.UUID{tech.ID}, []string{"go"})
			createTestPost(t, tx, author, "twin", []uuid.UUID{tech.ID}, []string{"go"})
			createTestPost(t, tx, author, "cousin", nil, []string{"go"})
			createTestPost(t, tx, author, "stranger", nil, []string{"cooking"})

			related, err := r.Related(t.Context(), source.ID, 5)

			require.NoError(t, err)
			require.Len(t, related, 2, "unrelated posts and the source itself must be excluded")
			assert.Equal(t, "twin", related[0].Slug, "two shared links should outrank one")
			assert.Equal(t, "cousin", related[1].Slug)
		})
	})

	t.Run("neighbors walk the timeline", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			r := PostRepo{DB: tx}
			author := createTestUser(t, tx, "writer", models.RoleAdmin)

			// NOW() is frozen inside the transaction, spread the posts out
			// explicitly so the timeline has an order
			for i, slug := range []string{"oldest", "middle", "newest"} {
				p := createTestPost(t, tx, author, slug, nil, nil)
				_, err := tx.Exec(t.Context(),
					"UPDATE posts SET created_at = created_at - make_interval(mins => $2) WHERE id = $1",
					p.ID, 2-i)
				require.NoError(t, err)
			}

			neighbors, err := r.Neighbors(t.Context(), "middle")
			require.NoError(t, err)
			require.NotNil(t, neighbors.Prev)
			require.NotNil(t, neighbors.Next)
			assert.Equal(t, "oldest", neighbors.Prev.Slug)
			assert.Equal(t, "newest", neighbors.Next.Slug)

			first, err := r.Neighbors(t.Context(), "oldest")
			require.NoError(t, err)
			assert.Nil(t, first.Prev, "the oldest post has nothing before it")
			require.NotNil(t, first.Next)
			assert.Equal(t, "middle", first.Next.Slug)

			_, err = r.Neighbors(t.Context(), "no-such-slug")
			assert.ErrorIs(t, err, apperrors.ErrPostNotFound)
		})
	})

	t.Run("blogger posts carry engagement counts", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			r := PostRepo{DB: tx}
			c := CommentRepo{DB: tx}
			f := FavoriteRepo{DB: tx}
			author := createTestUser(t, tx, "writer", models.RoleAdmin)
			fan := createTestUser(t, tx, "fan", models.RoleUser)

			discussed := createTestPost(t, tx, author, "discussed", nil, []string{"go"})
			createTestPost(t, tx, author, "ignored", nil, nil)

			_, err := c.Create(t.Context(), discussed.ID, fan.ID, "great read")
			require.NoError(t, err)
			_, err = f.Toggle(t.Context(), fan.ID, discussed.ID)
			require.NoError(t, err)

			page, err := r.ListByBlogger(t.Context(), author.ID, "", 1, 10)
			require.NoError(t, err)
			require.Len(t, page.Posts, 2)
			assert.False(t, page.HasMore)

			bySlug := map[string]models.BloggerPost{}
			for _, p := range page.Posts {
				bySlug[p.Slug] = p
			}
			assert.Equal(t, 1, bySlug["discussed"].CommentCount)
			assert.Equal(t, 1, bySlug["discussed"].FavoriteCount)
			assert.Equal(t, []string{"go"}, bySlug["discussed"].Tags)
			assert.Equal(t, 0, bySlug["ignored"].CommentCount)

			tagged, err := r.ListByBlogger(t.Context(), author.ID, "go", 1, 10)
			require.NoError(t, err)
			require.Len(t, tagged.Posts, 1)
			assert.Equal(t, "discussed", tagged.Posts[0].Slug)

			// A full page implies more, even when the next one is empty
			full, err := r.ListByBlogger(t.Context(), author.ID, "", 1, 2)
			require.NoError(t, err)
			assert.True(t, full.HasMore)
		})
	})

	t.Run("search matches title and content", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			r := PostRepo{DB: tx}
			author := createTestUser(t, tx, "writer", models.RoleAdmin)
			createTestPost(t, tx, author, "kubernetes-intro", nil, nil)
			createTestPost(t, tx, author, "unrelated", nil, nil)

			found, err := r.Search(t.Context(), "KUBERNETES", 10)

			require.NoError(t, err)
			require.Len(t, found, 1)
			assert.Equal(t, "kubernetes-intro", found[0].Slug)
		})
	})
}
