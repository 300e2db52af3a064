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
	"github.com/akulinich/gazzeta/internal/service/admin"
)

type adminService interface {
	Dashboard(ctx context.Context, actor models.User) (admin.Dashboard, error)
	Analytics(ctx context.Context, actor models.User) ([]models.MonthlyActivity, error)
	ReportedPosts(ctx context.Context, page, limit int) ([]models.ReportedPost, error)
	ReportedComments(ctx context.Context, page, limit int) ([]models.ReportedComment, error)
	DeletePost(ctx context.Context, id uuid.UUID) error
	DeleteComment(ctx context.Context, id uuid.UUID) error
}

func handleAdminDashboard(as adminService, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, _ := userctx.FromContext(r.Context())

		dashboard, err := as.Dashboard(r.Context(), user)
		if err != nil {
			l.Error("dashboard failed", "error", err.Error())
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		render.JSON(w, dashboard)
	})
}

func handleAdminAnalytics(as adminService, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, _ := userctx.FromContext(r.Context())

		activity, err := as.Analytics(r.Context(), user)
		if err != nil {
			l.Error("analytics failed", "error", err.Error())
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		render.JSON(w, activity)
	})
}

func handleReportedPosts(as adminService, l logger.Logger) http.Handler {
	type reportedPostResponse struct {
		Post        postResponse `json:"post"`
		ReportCount int          `json:"reportCount"`
		LastReason  string       `json:"lastReason"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()

		reported, err := as.ReportedPosts(r.Context(), intQueryParam(q.Get("page"), 1), intQueryParam(q.Get("limit"), 10))
		if err != nil {
			l.Error("reported posts listing failed", "error", err.Error())
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		out := make([]reportedPostResponse, 0, len(reported))
		for _, rp := range reported {
			out = append(out, reportedPostResponse{
				Post:        toPostResponse(rp.Post),
				ReportCount: rp.ReportCount,
				LastReason:  rp.LastReason,
			})
		}
		render.JSON(w, out)
	})
}

func handleReportedComments(as adminService, l logger.Logger) http.Handler {
	type reportedCommentResponse struct {
		Comment     commentResponse `json:"comment"`
		ReportCount int             `json:"reportCount"`
		LastReason  string          `json:"lastReason"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()

		reported, err := as.ReportedComments(r.Context(), intQueryParam(q.Get("page"), 1), intQueryParam(q.Get("limit"), 10))
		if err != nil {
			l.Error("reported comments listing failed", "error", err.Error())
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		out := make([]reportedCommentResponse, 0, len(reported))
		for _, rc := range reported {
			out = append(out, reportedCommentResponse{
				Comment:     toCommentResponse(rc.Comment),
				ReportCount: rc.ReportCount,
				LastReason:  rc.LastReason,
			})
		}
		render.JSON(w, out)
	})
}

func handleAdminDeletePost(as adminService, l logger.Logger) http.Handler {
	type deleteResponse struct {
		Message string `json:"message"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(r.PathValue("id"))
		if err != nil {
			render.ServiceError(w, "Invalid post id", http.StatusBadRequest)
			return
		}

		err = as.DeletePost(r.Context(), id)
		if err != nil {
			switch {
			case errors.Is(err, apperrors.ErrPostNotFound):
				render.ServiceError(w, "Post not found", http.StatusNotFound)
			default:
				l.Error("moderation post delete failed", "error", err.Error())
				render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			}
			return
		}

		render.JSON(w, deleteResponse{Message: "Post deleted"})
	})
}

func handleAdminDeleteComment(as adminService, l logger.Logger) http.Handler {
	type deleteResponse struct {
		Message string `json:"message"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(r.PathValue("id"))
		if err != nil {
			render.ServiceError(w, "Invalid comment id", http.StatusBadRequest)
			return
		}

		err = as.DeleteComment(r.Context(), id)
		if err != nil {
			switch {
			case errors.Is(err, apperrors.ErrCommentNotFound):
				render.ServiceError(w, "Comment not found", http.StatusNotFound)
			default:
				l.Error("moderation comment delete failed", "error", err.Error())
				render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			}
			return
		}

		render.JSON(w, deleteResponse{Message: "Comment deleted"})
	})
}
