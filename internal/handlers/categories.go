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

type categoryService interface {
	List(ctx context.Context) ([]models.Category, error)
	Sidebar(ctx context.Context) ([]models.CategoryCount, error)
	Tags(ctx context.Context) ([]string, error)
	Create(ctx context.Context, name string) (models.Category, error)
	Update(ctx context.Context, id uuid.UUID, name string) (models.Category, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type categoryRequest struct {
	Name string `json:"name" validate:"required,min=2,max=50"`
}

func handleListCategories(cs categoryService, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		categories, err := cs.List(r.Context())
		if err != nil {
			l.Error("categories listing failed", "error", err.Error())
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		out := make([]categoryResponse, 0, len(categories))
		for _, c := range categories {
			out = append(out, categoryResponse{ID: c.ID.String(), Name: c.Name})
		}
		render.JSON(w, out)
	})
}

func handleCategorySidebar(cs categoryService, l logger.Logger) http.Handler {
	type sidebarItem struct {
		ID        string `json:"id"`
		Name      string `json:"name"`
		PostCount int    `json:"postCount"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		counts, err := cs.Sidebar(r.Context())
		if err != nil {
			l.Error("category sidebar failed", "error", err.Error())
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		out := make([]sidebarItem, 0, len(counts))
		for _, c := range counts {
			out = append(out, sidebarItem{ID: c.ID.String(), Name: c.Name, PostCount: c.PostCount})
		}
		render.JSON(w, out)
	})
}

func handleListTags(cs categoryService, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tags, err := cs.Tags(r.Context())
		if err != nil {
			l.Error("tags listing failed", "error", err.Error())
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		if tags == nil {
			tags = []string{}
		}
		render.JSON(w, tags)
	})
}

func handleCreateCategory(cs categoryService, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, err := render.BindAndValidate[categoryRequest](w, r)
		if err != nil {
			return
		}

		category, err := cs.Create(r.Context(), data.Name)
		if err != nil {
			switch {
			case errors.Is(err, apperrors.ErrCategoryExists):
				render.ServiceError(w, "Category already exists", http.StatusConflict)
			default:
				l.Error("category create failed", "error", err.Error())
				render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			}
			return
		}

		render.JSONWithStatus(w, categoryResponse{ID: category.ID.String(), Name: category.Name}, http.StatusCreated)
	})
}

func handleUpdateCategory(cs categoryService, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(r.PathValue("id"))
		if err != nil {
			render.ServiceError(w, "Invalid category id", http.StatusBadRequest)
			return
		}

		data, err := render.BindAndValidate[categoryRequest](w, r)
		if err != nil {
			return
		}

		category, err := cs.Update(r.Context(), id, data.Name)
		if err != nil {
			switch {
			case errors.Is(err, apperrors.ErrCategoryNotFound):
				render.ServiceError(w, "Category not found", http.StatusNotFound)
			case errors.Is(err, apperrors.ErrCategoryExists):
				render.ServiceError(w, "Category already exists", http.StatusConflict)
			default:
				l.Error("category update failed", "error", err.Error())
				render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			}
			return
		}

		render.JSON(w, categoryResponse{ID: category.ID.String(), Name: category.Name})
	})
}

func handleDeleteCategory(cs categoryService, l logger.Logger) http.Handler {
	type deleteResponse struct {
		Message string `json:"message"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(r.PathValue("id"))
		if err != nil {
			render.ServiceError(w, "Invalid category id", http.StatusBadRequest)
			return
		}

		err = cs.Delete(r.Context(), id)
		if err != nil {
			switch {
			case errors.Is(err, apperrors.ErrCategoryNotFound):
				render.ServiceError(w, "Category not found", http.StatusNotFound)
			default:
				l.Error("category delete failed", "error", err.Error())
				render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			}
			return
		}

		render.JSON(w, deleteResponse{Message: "Category deleted"})
	})
}
