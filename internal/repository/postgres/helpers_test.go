package postgres

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/akulinich/gazzeta/internal/models"
	"github.com/akulinich/gazzeta/internal/repository"
)

// Helpers to build fixture rows inside the test transaction

func createTestUser(t *testing.T, db DBTX, name, role string) models.User {
	t.Helper()

	r := UserRepo{DB: db}
	user, err := r.Create(t.Context(), repository.CreateUserParams{
		Name:         name,
		Email:        fmt.Sprintf("%s@example.com", name),
		Role:         role,
		PasswordHash: "hashedpassword123",
	})
	require.NoError(t, err, "fixture user should be created")
	return user
}

func createTestPost(t *testing.T, db DBTX, author models.User, slug string, categoryIDs []uuid.UUID, tags []string) models.Post {
	t.Helper()

	r := PostRepo{DB: db}
	post, err := r.Create(t.Context(), repository.CreatePostParams{
		Title:       "Title for " + slug,
		Slug:        slug,
		Content:     "content",
		AuthorID:    author.ID,
		CategoryIDs: categoryIDs,
		TagNames:    tags,
	})
	require.NoError(t, err, "fixture post should be created")
	return post
}

func createTestCategory(t *testing.T, db DBTX, name string) models.Category {
	t.Helper()

	r := CategoryRepo{DB: db}
	category, err := r.Create(t.Context(), name)
	require.NoError(t, err, "fixture category should be created")
	return category
}
