package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/akulinich/gazzeta/internal/apperrors"
	"github.com/akulinich/gazzeta/internal/handlers/render"
	"github.com/akulinich/gazzeta/internal/handlers/userctx"
	"github.com/akulinich/gazzeta/internal/logger"
	"github.com/akulinich/gazzeta/internal/models"
)

type favoriteService interface {
	Toggle(ctx context.Context, actor models.User, postID uuid.UUID) (saved bool, err error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Post, error)
}

func handleToggleFavorite(fs favoriteService, l logger.Logger) http.Handler {
	type toggleResponse struct {
		Saved bool `json:"saved"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, _ := userctx.FromContext(r.Context())

		postID, err := uuid.Parse(r.PathValue("postID"))
		if err != nil {
			render.ServiceError(w, "Invalid post id", http.StatusBadRequest)
			return
		}

		saved, err := fs.Toggle(r.Context(), user, postID)
		if err != nil {
			switch {
			case errors.Is(err, apperrors.ErrPostNotFound):
				render.ServiceError(w, "Post not found", http.StatusNotFound)
			default:
				l.Error("favorite toggle failed", "error", err.Error())
				render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			}
			return
		}

		render.JSON(w, toggleResponse{Saved: saved})
	})
}

func handleListFavorites(fs favoriteService, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, _ := userctx.FromContext(r.Context())

		posts, err := fs.ListByUser(r.Context(), user.ID)
		if err != nil {
			l.Error("favorites listing failed", "error", err.Error())
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		render.JSON(w, toPostResponses(posts))
	})
}
