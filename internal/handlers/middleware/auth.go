package middleware

import (
	"net/http"

	"github.com/akulinich/gazzeta/internal/handlers/render"
	"github.com/akulinich/gazzeta/internal/handlers/userctx"
	"github.com/akulinich/gazzeta/internal/models"
	"github.com/akulinich/gazzeta/internal/service/authz"
)

type sessionResolver interface {
	Resolve(r *http.Request) (models.User, bool)
}

// Session resolves the request's session once and stores the user in the
// context. It never rejects: public routes serve anonymous requests, gated
// routes reject later in RequireRoles
func Session(resolver sessionResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if user, ok := resolver.Resolve(r); ok {
				r = r.WithContext(userctx.New(r.Context(), user))
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireRoles rejects requests without a session with 401, and sessions
// whose role is not in roles with 403. Empty roles means any signed-in user
func RequireRoles(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := userctx.FromContext(r.Context())
			if !ok {
				render.ServiceError(w, "Unauthorized", http.StatusUnauthorized)
				return
			}
			if !authz.Allowed(user, roles...) {
				render.ServiceError(w, "Forbidden", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
