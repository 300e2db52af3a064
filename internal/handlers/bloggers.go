package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/akulinich/gazzeta/internal/apperrors"
	"github.com/akulinich/gazzeta/internal/handlers/render"
	"github.com/akulinich/gazzeta/internal/logger"
	"github.com/akulinich/gazzeta/internal/models"
)

type bloggerService interface {
	Profile(ctx context.Context, id uuid.UUID, tag string, page, limit int) (models.User, models.BloggerPostPage, error)
}

type bloggerResponse struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	ImageURL *string `json:"imageUrl"`
}

type bloggerPostResponse struct {
	postResponse
	CommentsCount  int `json:"commentsCount"`
	FavoritesCount int `json:"favoritesCount"`
}

type bloggerProfileResponse struct {
	Blogger bloggerResponse       `json:"blogger"`
	Posts   []bloggerPostResponse `json:"posts"`
	Page    int                   `json:"page"`
	Limit   int                   `json:"limit"`
	HasMore bool                  `json:"hasMore"`
}

func handleBloggerProfile(bs bloggerService, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(r.PathValue("id"))
		if err != nil {
			render.ServiceError(w, "Invalid blogger id", http.StatusBadRequest)
			return
		}

		q := r.URL.Query()
		blogger, page, err := bs.Profile(r.Context(), id, q.Get("tag"),
			intQueryParam(q.Get("page"), 1), intQueryParam(q.Get("limit"), 10))
		if err != nil {
			switch {
			case errors.Is(err, apperrors.ErrUserNotFound):
				render.ServiceError(w, "Blogger not found", http.StatusNotFound)
			default:
				l.Error("blogger profile fetch failed", "error", err.Error())
				render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			}
			return
		}

		posts := make([]bloggerPostResponse, 0, len(page.Posts))
		for _, p := range page.Posts {
			posts = append(posts, bloggerPostResponse{
				postResponse:   toPostResponse(p.Post),
				CommentsCount:  p.CommentCount,
				FavoritesCount: p.FavoriteCount,
			})
		}

		render.JSON(w, bloggerProfileResponse{
			Blogger: bloggerResponse{ID: blogger.ID.String(), Name: blogger.Name, ImageURL: blogger.ImageURL},
			Posts:   posts,
			Page:    page.Page,
			Limit:   page.Limit,
			HasMore: page.HasMore,
		})
	})
}
