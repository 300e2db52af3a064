package auth

import (
	"net/http"
	"time"

	"github.com/akulinich/gazzeta/internal/models"
)

const (
	// AccessCookieName carries the JWT access token
	AccessCookieName = "access_token"

	// Older frontend builds still send the access token under this name
	legacyAccessCookieName = "token"

	// RefreshCookieName carries the opaque refresh token
	RefreshCookieName = "refresh_token"
)

// CookieWriter sets and clears the token cookies on responses.
// Secure is off in development so cookies survive plain http
type CookieWriter struct {
	Secure bool
}

func (c CookieWriter) SetTokens(w http.ResponseWriter, pair models.TokenPair) {
	http.SetCookie(w, c.cookie(AccessCookieName, pair.Access.Value, pair.Access.ExpiresAt))
	http.SetCookie(w, c.cookie(RefreshCookieName, pair.Refresh.Value, pair.Refresh.ExpiresAt))
}

func (c CookieWriter) ClearTokens(w http.ResponseWriter) {
	expired := time.Unix(0, 0)
	http.SetCookie(w, c.cookie(AccessCookieName, "", expired))
	http.SetCookie(w, c.cookie(legacyAccessCookieName, "", expired))
	http.SetCookie(w, c.cookie(RefreshCookieName, "", expired))
}

func (c CookieWriter) cookie(name, value string, expiresAt time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		Expires:  expiresAt,
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: http.SameSiteStrictMode,
	}
}

// AccessFromRequest reads the access token cookie, falling back to the legacy
// cookie name. Ok is false when neither cookie is present
func AccessFromRequest(r *http.Request) (string, bool) {
	for _, name := range []string{AccessCookieName, legacyAccessCookieName} {
		if cookie, err := r.Cookie(name); err == nil && cookie.Value != "" {
			return cookie.Value, true
		}
	}
	return "", false
}

// RefreshFromRequest reads the refresh token cookie
func RefreshFromRequest(r *http.Request) (string, bool) {
	cookie, err := r.Cookie(RefreshCookieName)
	if err != nil || cookie.Value == "" {
		return "", false
	}
	return cookie.Value, true
}
