package apperrors

import (
	"errors"
)

var (
	ErrUserAlreadyExists = errors.New("user already exists")
	ErrUserNotFound      = errors.New("user not found")

	ErrInvalidCredentials = errors.New("invalid email or password")

	// The user is authenticated but not allowed to touch the resource
	ErrForbidden = errors.New("operation is not allowed")

	ErrInvalidToken         = errors.New("token is invalid")
	ErrRefreshTokenNotFound = errors.New("refresh token not found")
	ErrRefreshTokenIsUsed   = errors.New("refresh token is used")
	ErrRefreshTokenExpired  = errors.New("refresh token is expired")

	ErrPostNotFound     = errors.New("post not found")
	ErrSlugAlreadyTaken = errors.New("post slug already taken")
	ErrCommentNotFound  = errors.New("comment not found")
	ErrCategoryNotFound = errors.New("category not found")
	ErrCategoryExists   = errors.New("category already exists")

	ErrNotificationNotFound = errors.New("notification not found")
	ErrAlreadyReported      = errors.New("already reported")

	// Returned by the cache facade when redis is unreachable
	// Callers must treat it as a cache miss and read the authoritative store
	ErrCacheUnavailable = errors.New("cache unavailable")
)
