package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/akulinich/gazzeta/internal/apperrors"
	"github.com/akulinich/gazzeta/internal/handlers/render"
	"github.com/akulinich/gazzeta/internal/handlers/userctx"
	"github.com/akulinich/gazzeta/internal/logger"
	"github.com/akulinich/gazzeta/internal/models"
)

type commentService interface {
	Create(ctx context.Context, actor models.User, postID uuid.UUID, content string) (models.Comment, error)
	ListByPost(ctx context.Context, postID uuid.UUID) ([]models.Comment, error)
	Update(ctx context.Context, actor models.User, id uuid.UUID, content string) (models.Comment, error)
	Delete(ctx context.Context, actor models.User, id uuid.UUID) error
}

type commentResponse struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	PostID    string    `json:"postId"`
	Content   string    `json:"content"`
	User      struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	} `json:"user"`
}

func toCommentResponse(c models.Comment) commentResponse {
	resp := commentResponse{
		ID:        c.ID.String(),
		CreatedAt: c.CreatedAt,
		PostID:    c.PostID.String(),
		Content:   c.Content,
	}
	resp.User.ID = c.UserID.String()
	resp.User.Name = c.UserName
	return resp
}

func handleListComments(cs commentService, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		postID, err := uuid.Parse(r.PathValue("postID"))
		if err != nil {
			render.ServiceError(w, "Invalid post id", http.StatusBadRequest)
			return
		}

		comments, err := cs.ListByPost(r.Context(), postID)
		if err != nil {
			l.Error("comments listing failed", "error", err.Error())
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		out := make([]commentResponse, 0, len(comments))
		for _, c := range comments {
			out = append(out, toCommentResponse(c))
		}
		render.JSON(w, out)
	})
}

type commentRequest struct {
	Content string `json:"content" validate:"required,min=1,max=2000"`
}

func handleCreateComment(cs commentService, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, _ := userctx.FromContext(r.Context())

		postID, err := uuid.Parse(r.PathValue("postID"))
		if err != nil {
			render.ServiceError(w, "Invalid post id", http.StatusBadRequest)
			return
		}

		data, err := render.BindAndValidate[commentRequest](w, r)
		if err != nil {
			return
		}

		comment, err := cs.Create(r.Context(), user, postID, data.Content)
		if err != nil {
			switch {
			case errors.Is(err, apperrors.ErrPostNotFound):
				render.ServiceError(w, "Post not found", http.StatusNotFound)
			default:
				l.Error("comment create failed", "error", err.Error())
				render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			}
			return
		}

		render.JSONWithStatus(w, toCommentResponse(comment), http.StatusCreated)
	})
}

func handleUpdateComment(cs commentService, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, _ := userctx.FromContext(r.Context())

		id, err := uuid.Parse(r.PathValue("id"))
		if err != nil {
			render.ServiceError(w, "Invalid comment id", http.StatusBadRequest)
			return
		}

		data, err := render.BindAndValidate[commentRequest](w, r)
		if err != nil {
			return
		}

		comment, err := cs.Update(r.Context(), user, id, data.Content)
		if err != nil {
			switch {
			case errors.Is(err, apperrors.ErrCommentNotFound):
				render.ServiceError(w, "Comment not found", http.StatusNotFound)
			default:
				l.Error("comment update failed", "error", err.Error())
				render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			}
			return
		}

		render.JSON(w, toCommentResponse(comment))
	})
}

func handleDeleteComment(cs commentService, l logger.Logger) http.Handler {
	type deleteResponse struct {
		Message string `json:"message"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, _ := userctx.FromContext(r.Context())

		id, err := uuid.Parse(r.PathValue("id"))
		if err != nil {
			render.ServiceError(w, "Invalid comment id", http.StatusBadRequest)
			return
		}

		err = cs.Delete(r.Context(), user, id)
		if err != nil {
			switch {
			case errors.Is(err, apperrors.ErrCommentNotFound):
				render.ServiceError(w, "Comment not found", http.StatusNotFound)
			default:
				l.Error("comment delete failed", "error", err.Error())
				render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			}
			return
		}

		render.JSON(w, deleteResponse{Message: "Comment deleted"})
	})
}
