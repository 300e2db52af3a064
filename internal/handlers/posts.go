package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/akulinich/gazzeta/internal/apperrors"
	"github.com/akulinich/gazzeta/internal/handlers/render"
	"github.com/akulinich/gazzeta/internal/handlers/userctx"
	"github.com/akulinich/gazzeta/internal/logger"
	"github.com/akulinich/gazzeta/internal/models"
	"github.com/akulinich/gazzeta/internal/repository"
)

type postService interface {
	Create(ctx context.Context, actor models.User, arg repository.CreatePostParams) (models.Post, error)
	GetBySlug(ctx context.Context, slug string) (models.Post, error)
	List(ctx context.Context, filter models.PostFilter) (models.PostPage, error)
	ListByAuthor(ctx context.Context, authorID uuid.UUID) ([]models.Post, error)
	ListWithVideos(ctx context.Context) ([]models.Post, error)
	Related(ctx context.Context, slug string) ([]models.Post, error)
	Neighbors(ctx context.Context, slug string) (models.PostNeighbors, error)
	Update(ctx context.Context, actor models.User, slug string, arg repository.UpdatePostParams) (models.Post, error)
	Delete(ctx context.Context, actor models.User, slug string) error
}

type categoryResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type postResponse struct {
	ID         string             `json:"id"`
	CreatedAt  time.Time          `json:"createdAt"`
	Title      string             `json:"title"`
	Slug       string             `json:"slug"`
	Content    string             `json:"content"`
	ImageURL   *string            `json:"imageUrl"`
	VideoURL   *string            `json:"videoUrl"`
	Author     postAuthorResponse `json:"author"`
	Categories []categoryResponse `json:"categories"`
	Tags       []string           `json:"tags"`
}

type postAuthorResponse struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	ImageURL *string `json:"imageUrl"`
}

type postPageResponse struct {
	Page    int            `json:"page"`
	Limit   int            `json:"limit"`
	Total   int            `json:"total"`
	HasMore bool           `json:"hasMore"`
	Posts   []postResponse `json:"posts"`
}

func toPostResponse(p models.Post) postResponse {
	categories := make([]categoryResponse, 0, len(p.Categories))
	for _, c := range p.Categories {
		categories = append(categories, categoryResponse{ID: c.ID.String(), Name: c.Name})
	}

	tags := p.Tags
	if tags == nil {
		tags = []string{}
	}

	return postResponse{
		ID:        p.ID.String(),
		CreatedAt: p.CreatedAt,
		Title:     p.Title,
		Slug:      p.Slug,
		Content:   p.Content,
		ImageURL:  p.ImageURL,
		VideoURL:  p.VideoURL,
		Author: postAuthorResponse{
			ID:       p.AuthorID.String(),
			Name:     p.AuthorName,
			ImageURL: p.AuthorImageURL,
		},
		Categories: categories,
		Tags:       tags,
	}
}

func toPostResponses(posts []models.Post) []postResponse {
	out := make([]postResponse, 0, len(posts))
	for _, p := range posts {
		out = append(out, toPostResponse(p))
	}
	return out
}

func handleListPosts(ps postService, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()

		filter := models.PostFilter{
			Tag:   q.Get("tag"),
			Query: q.Get("q"),
			Sort:  q.Get("sort"),
			Page:  intQueryParam(q.Get("page"), 1),
			Limit: intQueryParam(q.Get("limit"), 10),
		}

		if raw := q.Get("category"); raw != "" {
			id, err := uuid.Parse(raw)
			if err != nil {
				render.ServiceError(w, "Invalid category id", http.StatusBadRequest)
				return
			}
			filter.CategoryID = &id
		}

		page, err := ps.List(r.Context(), filter)
		if err != nil {
			l.Error("post listing failed", "error", err.Error())
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		render.JSON(w, postPageResponse{
			Page:    page.Page,
			Limit:   page.Limit,
			Total:   page.Total,
			HasMore: page.HasMore,
			Posts:   toPostResponses(page.Posts),
		})
	})
}

func handleGetPost(ps postService, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		post, err := ps.GetBySlug(r.Context(), r.PathValue("slug"))
		if err != nil {
			switch {
			case errors.Is(err, apperrors.ErrPostNotFound):
				render.ServiceError(w, "Post not found", http.StatusNotFound)
			default:
				l.Error("post fetch failed", "error", err.Error())
				render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			}
			return
		}

		render.JSON(w, toPostResponse(post))
	})
}

func handleListVideoPosts(ps postService, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		posts, err := ps.ListWithVideos(r.Context())
		if err != nil {
			l.Error("video posts listing failed", "error", err.Error())
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		render.JSON(w, toPostResponses(posts))
	})
}

func handleRelatedPosts(ps postService, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		posts, err := ps.Related(r.Context(), r.PathValue("slug"))
		if err != nil {
			switch {
			case errors.Is(err, apperrors.ErrPostNotFound):
				render.ServiceError(w, "Post not found", http.StatusNotFound)
			default:
				l.Error("related posts fetch failed", "error", err.Error())
				render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			}
			return
		}

		render.JSON(w, toPostResponses(posts))
	})
}

func handlePostNavigation(ps postService, l logger.Logger) http.Handler {
	type navigationResponse struct {
		Prev *postResponse `json:"prev"`
		Next *postResponse `json:"next"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		neighbors, err := ps.Neighbors(r.Context(), r.PathValue("slug"))
		if err != nil {
			switch {
			case errors.Is(err, apperrors.ErrPostNotFound):
				render.ServiceError(w, "Post not found", http.StatusNotFound)
			default:
				l.Error("post navigation fetch failed", "error", err.Error())
				render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			}
			return
		}

		var resp navigationResponse
		if neighbors.Prev != nil {
			prev := toPostResponse(*neighbors.Prev)
			resp.Prev = &prev
		}
		if neighbors.Next != nil {
			next := toPostResponse(*neighbors.Next)
			resp.Next = &next
		}

		render.JSON(w, resp)
	})
}

func handleMyPosts(ps postService, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, _ := userctx.FromContext(r.Context())

		posts, err := ps.ListByAuthor(r.Context(), user.ID)
		if err != nil {
			l.Error("own posts listing failed", "error", err.Error())
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		render.JSON(w, toPostResponses(posts))
	})
}

func handleCreatePost(ps postService, l logger.Logger) http.Handler {
	type createPostRequest struct {
		Title       string   `json:"title" validate:"required,min=3,max=200"`
		Slug        string   `json:"slug" validate:"required,min=3,max=200"`
		Content     string   `json:"content" validate:"required"`
		ImageURL    *string  `json:"imageUrl"`
		VideoURL    *string  `json:"videoUrl"`
		CategoryIDs []string `json:"categoryIds"`
		Tags        []string `json:"tags"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, _ := userctx.FromContext(r.Context())

		data, err := render.BindAndValidate[createPostRequest](w, r)
		if err != nil {
			return
		}

		categoryIDs, err := parseUUIDs(data.CategoryIDs)
		if err != nil {
			render.ServiceError(w, "Invalid category id", http.StatusBadRequest)
			return
		}

		post, err := ps.Create(r.Context(), user, repository.CreatePostParams{
			Title:       data.Title,
			Slug:        data.Slug,
			Content:     data.Content,
			ImageURL:    data.ImageURL,
			VideoURL:    data.VideoURL,
			CategoryIDs: categoryIDs,
			TagNames:    data.Tags,
		})
		if err != nil {
			switch {
			case errors.Is(err, apperrors.ErrSlugAlreadyTaken):
				render.ServiceError(w, "Slug already taken", http.StatusConflict)
			default:
				l.Error("post create failed", "error", err.Error())
				render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			}
			return
		}

		render.JSONWithStatus(w, toPostResponse(post), http.StatusCreated)
	})
}

func handleUpdatePost(ps postService, l logger.Logger) http.Handler {
	type updatePostRequest struct {
		Title       *string  `json:"title" validate:"omitempty,min=3,max=200"`
		NewSlug     *string  `json:"newSlug" validate:"omitempty,min=3,max=200"`
		Content     *string  `json:"content"`
		ImageURL    *string  `json:"imageUrl"`
		CategoryIDs []string `json:"categoryIds"`
		Tags        []string `json:"tags"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, _ := userctx.FromContext(r.Context())

		data, err := render.BindAndValidate[updatePostRequest](w, r)
		if err != nil {
			return
		}

		var categoryIDs []uuid.UUID
		if data.CategoryIDs != nil {
			categoryIDs, err = parseUUIDs(data.CategoryIDs)
			if err != nil {
				render.ServiceError(w, "Invalid category id", http.StatusBadRequest)
				return
			}
		}

		post, err := ps.Update(r.Context(), user, r.PathValue("slug"), repository.UpdatePostParams{
			Title:       data.Title,
			Slug:        data.NewSlug,
			Content:     data.Content,
			ImageURL:    data.ImageURL,
			CategoryIDs: categoryIDs,
			TagNames:    data.Tags,
		})
		if err != nil {
			switch {
			case errors.Is(err, apperrors.ErrPostNotFound):
				render.ServiceError(w, "Post not found", http.StatusNotFound)
			case errors.Is(err, apperrors.ErrForbidden):
				render.ServiceError(w, "Forbidden", http.StatusForbidden)
			case errors.Is(err, apperrors.ErrSlugAlreadyTaken):
				render.ServiceError(w, "Slug already taken", http.StatusConflict)
			default:
				l.Error("post update failed", "error", err.Error())
				render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			}
			return
		}

		render.JSON(w, toPostResponse(post))
	})
}

func handleDeletePost(ps postService, l logger.Logger) http.Handler {
	type deleteResponse struct {
		Message string `json:"message"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, _ := userctx.FromContext(r.Context())

		err := ps.Delete(r.Context(), user, r.PathValue("slug"))
		if err != nil {
			switch {
			case errors.Is(err, apperrors.ErrPostNotFound):
				render.ServiceError(w, "Post not found", http.StatusNotFound)
			case errors.Is(err, apperrors.ErrForbidden):
				render.ServiceError(w, "Forbidden", http.StatusForbidden)
			default:
				l.Error("post delete failed", "error", err.Error())
				render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			}
			return
		}

		render.JSON(w, deleteResponse{Message: "Post deleted"})
	})
}

func intQueryParam(raw string, def int) int {
	if raw == "" {
		return def
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 1 {
		return def
	}
	return value
}

func parseUUIDs(raw []string) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, 0, len(raw))
	for _, s := range raw {
		id, err := uuid.Parse(s)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}
