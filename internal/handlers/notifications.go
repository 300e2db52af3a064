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
	"github.com/akulinich/gazzeta/internal/service/notification"
)

type notificationService interface {
	List(ctx context.Context, userID uuid.UUID, page, limit int) (notification.Page, error)
	UnreadCount(ctx context.Context, userID uuid.UUID) (int, error)
	MarkRead(ctx context.Context, actor models.User, id uuid.UUID) error
	ClearAll(ctx context.Context, actor models.User) error
}

type notificationResponse struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	Type      string    `json:"type"`
	Message   string    `json:"message"`
	PostID    *string   `json:"postId"`
	CommentID *string   `json:"commentId"`
	IsRead    bool      `json:"isRead"`
}

func toNotificationResponse(n models.Notification) notificationResponse {
	resp := notificationResponse{
		ID:        n.ID.String(),
		CreatedAt: n.CreatedAt,
		Type:      n.Type,
		Message:   n.Message,
		IsRead:    n.IsRead,
	}
	if n.PostID != nil {
		id := n.PostID.String()
		resp.PostID = &id
	}
	if n.CommentID != nil {
		id := n.CommentID.String()
		resp.CommentID = &id
	}
	return resp
}

func handleListNotifications(ns notificationService, l logger.Logger) http.Handler {
	type listResponse struct {
		Notifications []notificationResponse `json:"notifications"`
		Total         int                    `json:"total"`
		TotalPages    int                    `json:"totalPages"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, _ := userctx.FromContext(r.Context())
		q := r.URL.Query()

		page, err := ns.List(r.Context(), user.ID, intQueryParam(q.Get("page"), 1), intQueryParam(q.Get("limit"), 10))
		if err != nil {
			l.Error("notifications listing failed", "error", err.Error())
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		out := listResponse{
			Notifications: make([]notificationResponse, 0, len(page.Notifications)),
			Total:         page.Total,
			TotalPages:    page.TotalPages,
		}
		for _, n := range page.Notifications {
			out.Notifications = append(out.Notifications, toNotificationResponse(n))
		}
		render.JSON(w, out)
	})
}

func handleUnreadCount(ns notificationService, l logger.Logger) http.Handler {
	type countResponse struct {
		Count int `json:"count"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, _ := userctx.FromContext(r.Context())

		count, err := ns.UnreadCount(r.Context(), user.ID)
		if err != nil {
			l.Error("unread count failed", "error", err.Error())
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		render.JSON(w, countResponse{Count: count})
	})
}

func handleMarkNotificationRead(ns notificationService, l logger.Logger) http.Handler {
	type markResponse struct {
		Message string `json:"message"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, _ := userctx.FromContext(r.Context())

		id, err := uuid.Parse(r.PathValue("id"))
		if err != nil {
			render.ServiceError(w, "Invalid notification id", http.StatusBadRequest)
			return
		}

		err = ns.MarkRead(r.Context(), user, id)
		if err != nil {
			switch {
			case errors.Is(err, apperrors.ErrNotificationNotFound):
				render.ServiceError(w, "Notification not found", http.StatusNotFound)
			default:
				l.Error("notification mark read failed", "error", err.Error())
				render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			}
			return
		}

		render.JSON(w, markResponse{Message: "Notification marked as read"})
	})
}

func handleClearNotifications(ns notificationService, l logger.Logger) http.Handler {
	type clearResponse struct {
		Message string `json:"message"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, _ := userctx.FromContext(r.Context())

		if err := ns.ClearAll(r.Context(), user); err != nil {
			l.Error("notifications clear failed", "error", err.Error())
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		render.JSON(w, clearResponse{Message: "Notifications cleared"})
	})
}
