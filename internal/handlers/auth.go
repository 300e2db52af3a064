package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/akulinich/gazzeta/internal/apperrors"
	"github.com/akulinich/gazzeta/internal/handlers/render"
	"github.com/akulinich/gazzeta/internal/handlers/userctx"
	"github.com/akulinich/gazzeta/internal/logger"
	"github.com/akulinich/gazzeta/internal/models"
	"github.com/akulinich/gazzeta/internal/service/auth"
)

type authService interface {
	// Register a regular user account
	// Has to return apperrors.ErrUserAlreadyExists if email is taken
	Register(ctx context.Context, name, email, password string) (models.User, models.TokenPair, error)

	// Register an admin account, the route must be gated behind the holder role
	RegisterAdmin(ctx context.Context, name, email, password string) (models.User, models.TokenPair, error)

	// Login with email and password
	// Has to return apperrors.ErrInvalidCredentials on bad credentials
	Login(ctx context.Context, email, password string) (models.User, models.TokenPair, error)

	// Rotate the refresh token and issue a new pair
	Refresh(ctx context.Context, refresh string) (models.User, models.TokenPair, error)

	// Revoke the refresh token, idempotent
	Logout(ctx context.Context, refresh string) error
}

type userResponse struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Email    string  `json:"email"`
	Role     string  `json:"role"`
	ImageURL *string `json:"imageUrl"`
}

func toUserResponse(u models.User) userResponse {
	return userResponse{
		ID:       u.ID.String(),
		Name:     u.Name,
		Email:    u.Email,
		Role:     u.Role,
		ImageURL: u.ImageURL,
	}
}

type registerRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=50"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

func handleRegister(as authService, cookies auth.CookieWriter, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, err := render.BindAndValidate[registerRequest](w, r)
		if err != nil {
			return
		}

		user, pair, err := as.Register(r.Context(), data.Name, data.Email, data.Password)
		if err != nil {
			switch {
			case errors.Is(err, apperrors.ErrUserAlreadyExists):
				render.ServiceError(w, "User already exists", http.StatusConflict)
			default:
				l.Error("register failed", "error", err.Error())
				render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			}
			return
		}

		cookies.SetTokens(w, pair)
		render.JSONWithStatus(w, toUserResponse(user), http.StatusCreated)
	})
}

// handleRegisterAdmin creates admin accounts. Gated behind the holder role in
// the router
func handleRegisterAdmin(as authService, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, err := render.BindAndValidate[registerRequest](w, r)
		if err != nil {
			return
		}

		user, _, err := as.RegisterAdmin(r.Context(), data.Name, data.Email, data.Password)
		if err != nil {
			switch {
			case errors.Is(err, apperrors.ErrUserAlreadyExists):
				render.ServiceError(w, "User already exists", http.StatusConflict)
			default:
				l.Error("admin register failed", "error", err.Error())
				render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			}
			return
		}

		// The new admin logs in themselves, the creator's session is untouched
		render.JSONWithStatus(w, toUserResponse(user), http.StatusCreated)
	})
}

func handleLogin(as authService, cookies auth.CookieWriter, l logger.Logger) http.Handler {
	type loginRequest struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, err := render.BindAndValidate[loginRequest](w, r)
		if err != nil {
			return
		}

		user, pair, err := as.Login(r.Context(), data.Email, data.Password)
		if err != nil {
			switch {
			case errors.Is(err, apperrors.ErrInvalidCredentials):
				render.ServiceError(w, "Invalid email or password", http.StatusUnauthorized)
			default:
				l.Error("login failed", "error", err.Error())
				render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			}
			return
		}

		cookies.SetTokens(w, pair)
		render.JSON(w, toUserResponse(user))
	})
}

func handleTokenRefresh(as authService, cookies auth.CookieWriter, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		refresh, ok := auth.RefreshFromRequest(r)
		if !ok {
			render.ServiceError(w, "Refresh token not found", http.StatusUnauthorized)
			return
		}

		user, pair, err := as.Refresh(r.Context(), refresh)
		if err != nil {
			switch {
			case errors.Is(err, apperrors.ErrRefreshTokenExpired):
				render.ServiceError(w, "Refresh token expired", http.StatusUnauthorized)
			case errors.Is(err, apperrors.ErrRefreshTokenIsUsed),
				errors.Is(err, apperrors.ErrRefreshTokenNotFound):
				render.ServiceError(w, "Refresh token not found", http.StatusUnauthorized)
			default:
				l.Error("token refresh failed", "error", err.Error())
				render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			}
			return
		}

		cookies.SetTokens(w, pair)
		render.JSON(w, toUserResponse(user))
	})
}

func handleLogout(as authService, cookies auth.CookieWriter, l logger.Logger) http.Handler {
	type logoutResponse struct {
		Message string `json:"message"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if refresh, ok := auth.RefreshFromRequest(r); ok {
			if err := as.Logout(r.Context(), refresh); err != nil {
				l.Error("logout failed", "error", err.Error())
			}
		}

		cookies.ClearTokens(w)
		render.JSON(w, logoutResponse{Message: "Logged out"})
	})
}

func handleUserMe() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, _ := userctx.FromContext(r.Context())
		render.JSON(w, toUserResponse(user))
	})
}
