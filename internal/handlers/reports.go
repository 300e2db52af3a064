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

type reportService interface {
	ReportPost(ctx context.Context, actor models.User, postID uuid.UUID, reason string) error
	ReportComment(ctx context.Context, actor models.User, commentID uuid.UUID, reason string) error
}

type reportRequest struct {
	Reason string `json:"reason" validate:"required,min=3,max=500"`
}

type reportResponse struct {
	Message string `json:"message"`
}

func handleReportPost(rs reportService, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, _ := userctx.FromContext(r.Context())

		postID, err := uuid.Parse(r.PathValue("postID"))
		if err != nil {
			render.ServiceError(w, "Invalid post id", http.StatusBadRequest)
			return
		}

		data, err := render.BindAndValidate[reportRequest](w, r)
		if err != nil {
			return
		}

		err = rs.ReportPost(r.Context(), user, postID, data.Reason)
		if err != nil {
			reportError(w, l, err, "Post not found", apperrors.ErrPostNotFound)
			return
		}

		render.JSONWithStatus(w, reportResponse{Message: "Report submitted"}, http.StatusCreated)
	})
}

func handleReportComment(rs reportService, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, _ := userctx.FromContext(r.Context())

		commentID, err := uuid.Parse(r.PathValue("commentID"))
		if err != nil {
			render.ServiceError(w, "Invalid comment id", http.StatusBadRequest)
			return
		}

		data, err := render.BindAndValidate[reportRequest](w, r)
		if err != nil {
			return
		}

		err = rs.ReportComment(r.Context(), user, commentID, data.Reason)
		if err != nil {
			reportError(w, l, err, "Comment not found", apperrors.ErrCommentNotFound)
			return
		}

		render.JSONWithStatus(w, reportResponse{Message: "Report submitted"}, http.StatusCreated)
	})
}

func reportError(w http.ResponseWriter, l logger.Logger, err error, notFoundMsg string, notFound error) {
	switch {
	case errors.Is(err, notFound):
		render.ServiceError(w, notFoundMsg, http.StatusNotFound)
	case errors.Is(err, apperrors.ErrAlreadyReported):
		render.ServiceError(w, "Already reported", http.StatusConflict)
	default:
		l.Error("report create failed", "error", err.Error())
		render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
	}
}
