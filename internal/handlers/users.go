package handlers

import (
	"context"
	"net/http"

	"github.com/akulinich/gazzeta/internal/handlers/render"
	"github.com/akulinich/gazzeta/internal/handlers/userctx"
	"github.com/akulinich/gazzeta/internal/logger"
	"github.com/akulinich/gazzeta/internal/models"
	"github.com/akulinich/gazzeta/internal/repository"
)

type userService interface {
	UpdateProfile(ctx context.Context, actor models.User, arg repository.UpdateUserParams) (models.User, error)
}

func handleUpdateProfile(us userService, l logger.Logger) http.Handler {
	type updateProfileRequest struct {
		Name     *string `json:"name" validate:"omitempty,min=2,max=50"`
		Email    *string `json:"email" validate:"omitempty,email"`
		ImageURL *string `json:"imageUrl"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, _ := userctx.FromContext(r.Context())

		data, err := render.BindAndValidate[updateProfileRequest](w, r)
		if err != nil {
			return
		}

		updated, err := us.UpdateProfile(r.Context(), user, repository.UpdateUserParams{
			Name:     data.Name,
			Email:    data.Email,
			ImageURL: data.ImageURL,
		})
		if err != nil {
			l.Error("profile update failed", "error", err.Error())
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		render.JSON(w, toUserResponse(updated))
	})
}
