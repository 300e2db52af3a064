// Package authz decides whether a resolved user may perform an operation.
// It is a pure predicate over the user's role, transport concerns stay in the
// middleware that calls it.
package authz

import "github.com/akulinich/gazzeta/internal/models"

// Allowed reports whether the user's role is one of the given roles.
// Roles are checked literally: holder does not imply admin, a route that
// should accept both must list both
func Allowed(user models.User, roles ...string) bool {
	if len(roles) == 0 {
		return true
	}
	for _, role := range roles {
		if user.Role == role {
			return true
		}
	}
	return false
}
