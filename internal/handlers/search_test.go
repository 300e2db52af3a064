package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akulinich/gazzeta/internal/handlers/middleware"
	"github.com/akulinich/gazzeta/internal/logger"
	"github.com/akulinich/gazzeta/internal/models"
	"github.com/akulinich/gazzeta/internal/ratelimit"
)

type fakeSearchService struct {
	searchFn func(ctx context.Context, query string) ([]models.Post, error)
}

func (f *fakeSearchService) Search(ctx context.Context, query string) ([]models.Post, error) {
	return f.searchFn(ctx, query)
}

func TestHandleSearch(t *testing.T) {
	t.Run("query is required", func(t *testing.T) {
		h := handleSearch(&fakeSearchService{}, logger.NewNoOpLogger())

		r := httptest.NewRequest(http.MethodGet, "/search?query=++", nil)
		w := httptest.NewRecorder()
		h.ServeHTTP(w, r)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("matching posts returned", func(t *testing.T) {
		ss := &fakeSearchService{
			searchFn: func(_ context.Context, query string) ([]models.Post, error) {
				assert.Equal(t, "go generics", query)
				return []models.Post{{ID: uuid.New(), Slug: "generics", Title: "On generics"}}, nil
			},
		}
		h := handleSearch(ss, logger.NewNoOpLogger())

		r := httptest.NewRequest(http.MethodGet, "/search?query=go+generics", nil)
		w := httptest.NewRecorder()
		h.ServeHTTP(w, r)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"slug":"generics"`)
	})
}

// Search is limited per client IP: two different signed-in users behind one
// address share a window, while another address gets its own.
func TestSearchRateLimitedByIP(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	limiter, err := ratelimit.New(rdb, "search", 1, time.Minute)
	require.NoError(t, err)

	ss := &fakeSearchService{
		searchFn: func(context.Context, string) ([]models.Post, error) { return nil, nil },
	}
	h := chain(handleSearch(ss, logger.NewNoOpLogger()), middleware.RateLimitByIP(limiter, logger.NewNoOpLogger()))

	searchFrom := func(user models.User, ip string) int {
		r := requestAs(user, http.MethodGet, "/search?query=go", "")
		r.Header.Set("X-Forwarded-For", ip)
		w := httptest.NewRecorder()
		h.ServeHTTP(w, r)
		return w.Code
	}

	alice := models.User{ID: uuid.New(), Role: models.RoleUser}
	bob := models.User{ID: uuid.New(), Role: models.RoleUser}

	require.Equal(t, http.StatusOK, searchFrom(alice, "203.0.113.7"))
	assert.Equal(t, http.StatusTooManyRequests, searchFrom(bob, "203.0.113.7"),
		"a different user on the same address shares the window")
	assert.Equal(t, http.StatusOK, searchFrom(bob, "203.0.113.8"),
		"another address has its own window")
}
