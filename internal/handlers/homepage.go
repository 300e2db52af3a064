package handlers

import (
	"context"
	"net/http"

	"github.com/akulinich/gazzeta/internal/handlers/render"
	"github.com/akulinich/gazzeta/internal/logger"
	"github.com/akulinich/gazzeta/internal/models"
)

type feedService interface {
	Trending(ctx context.Context) ([]models.Post, error)
	TopByCategory(ctx context.Context) ([]models.CategoryPosts, error)
}

func handleTrending(fs feedService, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		posts, err := fs.Trending(r.Context())
		if err != nil {
			l.Error("trending failed", "error", err.Error())
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		render.JSON(w, toPostResponses(posts))
	})
}

func handleTopByCategory(fs feedService, l logger.Logger) http.Handler {
	type categoryFeed struct {
		Category categoryResponse `json:"category"`
		Posts    []postResponse   `json:"posts"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		feeds, err := fs.TopByCategory(r.Context())
		if err != nil {
			l.Error("top by category failed", "error", err.Error())
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		out := make([]categoryFeed, 0, len(feeds))
		for _, f := range feeds {
			out = append(out, categoryFeed{
				Category: categoryResponse{ID: f.Category.ID.String(), Name: f.Category.Name},
				Posts:    toPostResponses(f.Posts),
			})
		}
		render.JSON(w, out)
	})
}
