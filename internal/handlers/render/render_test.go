package render

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender_JSON(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		data := map[string]any{"key1": 1, "key2": "222"}
		JSON(w, data)
	}))
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/test")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	defer resp.Body.Close() //nolint:errcheck

	assert.Equal(t, "application/json; charset=utf-8", resp.Header.Get("Content-Type"))
	assert.JSONEq(t, `{"key1":1,"key2":"222"}`+"\n", string(body))
}

func TestRender_JSONWithStatus(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		JSONWithStatus(w, map[string]string{"id": "42"}, http.StatusCreated)
	}))
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/test")
	require.NoError(t, err)
	defer resp.Body.Close() //nolint:errcheck

	assert.Equal(t, http.StatusCreated, resp.StatusCode)
}

func TestRender_ServiceError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		message := "something terrible happened"
		ServiceError(w, message, http.StatusForbidden)
	}))
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/test")
	require.NoError(t, err)
	require.Equal(t, http.StatusForbidden, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	defer resp.Body.Close() //nolint:errcheck

	assert.Equal(t, "application/json; charset=utf-8", resp.Header.Get("Content-Type"))
	assert.JSONEq(t, `{
			"error": "service_error",
			"message": "something terrible happened"
		}`,
		string(body),
	)
}

func TestRender_RateLimited(t *testing.T) {
	resetAt := time.Now().Add(42 * time.Second)

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		RateLimited(w, resetAt)
	}))
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/test")
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	defer resp.Body.Close() //nolint:errcheck

	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)

	retryAfter, err := strconv.Atoi(resp.Header.Get("Retry-After"))
	require.NoError(t, err)
	assert.Greater(t, retryAfter, 0)
	assert.LessOrEqual(t, retryAfter, 42)

	assert.JSONEq(t, `{
			"error": "rate_limited",
			"message": "Too many requests, slow down"
		}`,
		string(body),
	)
}

func TestRender_RateLimited_PastReset(t *testing.T) {
	rec := httptest.NewRecorder()
	RateLimited(rec, time.Now().Add(-time.Minute))

	// Hint never goes below one second
	assert.Equal(t, "1", rec.Header().Get("Retry-After"))
}

func TestBindAndValidate(t *testing.T) {
	type request struct {
		Name  string `json:"name" validate:"required,min=2"`
		Email string `json:"email" validate:"required,email"`
	}

	tests := []struct {
		name         string
		body         string
		expectStatus int
		expectError  string
		expectField  string
	}{
		{
			name:         "valid",
			body:         `{"name":"gopher","email":"gopher@example.com"}`,
			expectStatus: http.StatusOK,
		},
		{
			name:         "invalid json",
			body:         `not-json`,
			expectStatus: http.StatusBadRequest,
			expectError:  DecodingErrorType,
		},
		{
			name:         "wrong field type",
			body:         `{"name":42,"email":"gopher@example.com"}`,
			expectStatus: http.StatusBadRequest,
			expectError:  DecodingErrorType,
		},
		{
			name:         "missing required field reported by json tag name",
			body:         `{"email":"gopher@example.com"}`,
			expectStatus: http.StatusBadRequest,
			expectError:  ValidationErrorType,
			expectField:  "name",
		},
		{
			name:         "bad email",
			body:         `{"name":"gopher","email":"nope"}`,
			expectStatus: http.StatusBadRequest,
			expectError:  ValidationErrorType,
			expectField:  "email",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()

			value, err := BindAndValidate[request](rec, req)

			if tt.expectStatus == http.StatusOK {
				require.NoError(t, err)
				assert.Equal(t, "gopher", value.Name)
				return
			}

			require.Error(t, err)
			assert.Equal(t, tt.expectStatus, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.expectError)
			if tt.expectField != "" {
				assert.Contains(t, rec.Body.String(), `"`+tt.expectField+`"`)
			}
		})
	}
}
