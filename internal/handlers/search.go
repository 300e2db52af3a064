package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/akulinich/gazzeta/internal/handlers/render"
	"github.com/akulinich/gazzeta/internal/logger"
	"github.com/akulinich/gazzeta/internal/models"
)

type searchService interface {
	Search(ctx context.Context, query string) ([]models.Post, error)
}

func handleSearch(ss searchService, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query := strings.TrimSpace(r.URL.Query().Get("query"))
		if query == "" {
			render.ServiceError(w, "Query parameter 'query' is required", http.StatusBadRequest)
			return
		}

		posts, err := ss.Search(r.Context(), query)
		if err != nil {
			l.Error("search failed", "error", err.Error())
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		render.JSON(w, toPostResponses(posts))
	})
}
