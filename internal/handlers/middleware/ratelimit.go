package middleware

import (
	"net"
	"net/http"
	"strings"

	"github.com/akulinich/gazzeta/internal/handlers/render"
	"github.com/akulinich/gazzeta/internal/handlers/userctx"
	"github.com/akulinich/gazzeta/internal/logger"
	"github.com/akulinich/gazzeta/internal/ratelimit"
)

// RateLimitByIP counts requests per client IP.
// Limiter outage fails open: blocking all traffic because redis is down is
// worse than briefly not limiting it
func RateLimitByIP(l *ratelimit.Limiter, log logger.Logger) func(http.Handler) http.Handler {
	return rateLimit(l, log, func(r *http.Request) string {
		return clientIP(r)
	})
}

// RateLimitByUser counts requests per authenticated user, falling back to the
// client IP for anonymous requests. Must run after Session
func RateLimitByUser(l *ratelimit.Limiter, log logger.Logger) func(http.Handler) http.Handler {
	return rateLimit(l, log, func(r *http.Request) string {
		if user, ok := userctx.FromContext(r.Context()); ok {
			return user.ID.String()
		}
		return clientIP(r)
	})
}

func rateLimit(l *ratelimit.Limiter, log logger.Logger, identify func(*http.Request) string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			result, err := l.Check(r.Context(), identify(r))
			if err != nil {
				log.Warn("rate limiter check failed, letting request through", "error", err.Error())
				next.ServeHTTP(w, r)
				return
			}

			if !result.Allowed {
				render.RateLimited(w, result.ResetAt)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// clientIP prefers the first X-Forwarded-For hop set by the reverse proxy,
// falling back to the connection's remote address
func clientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		ip, _, _ := strings.Cut(forwarded, ",")
		return strings.TrimSpace(ip)
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
