package auth

import (
	"net/http"

	"github.com/akulinich/gazzeta/internal/models"
	"github.com/akulinich/gazzeta/internal/repository"
)

// Resolver turns an incoming request into the user behind it.
// Any failure along the way (no cookie, bad token, deleted user) resolves to
// "no session" rather than an error, so handlers on public routes can serve
// anonymous traffic without special cases
type Resolver struct {
	tokens *TokenManager
	users  repository.UserRepo
}

func NewResolver(tokens *TokenManager, users repository.UserRepo) *Resolver {
	return &Resolver{tokens: tokens, users: users}
}

// Resolve returns the authenticated user, or ok=false when the request
// carries no valid session.
// The user is always re-read from storage so role changes and deletions take
// effect on the next request, not at token expiry
func (r *Resolver) Resolve(req *http.Request) (models.User, bool) {
	access, ok := AccessFromRequest(req)
	if !ok {
		return models.User{}, false
	}

	userID, _, err := r.tokens.ParseAccess(req.Context(), access)
	if err != nil {
		return models.User{}, false
	}

	user, err := r.users.GetByID(req.Context(), userID)
	if err != nil {
		return models.User{}, false
	}

	return user, true
}
