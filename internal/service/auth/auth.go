package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/akulinich/gazzeta/internal/apperrors"
	"github.com/akulinich/gazzeta/internal/models"
	"github.com/akulinich/gazzeta/internal/repository"
)

// AuthService registers and authenticates users and rotates token pairs
type AuthService struct {
	users  repository.UserRepo
	tokens *TokenManager
	hasher PasswordHasher
}

func NewAuthService(users repository.UserRepo, tokens *TokenManager, hasher PasswordHasher) *AuthService {
	if hasher == nil {
		hasher = DefaultHasher
	}
	return &AuthService{
		users:  users,
		tokens: tokens,
		hasher: hasher,
	}
}

// Register creates a regular user account and logs it in
func (s *AuthService) Register(ctx context.Context, name, email, password string) (models.User, models.TokenPair, error) {
	return s.register(ctx, name, email, password, models.RoleUser)
}

// RegisterAdmin creates an admin account. Callers must gate it behind the
// holder role
func (s *AuthService) RegisterAdmin(ctx context.Context, name, email, password string) (models.User, models.TokenPair, error) {
	return s.register(ctx, name, email, password, models.RoleAdmin)
}

func (s *AuthService) register(ctx context.Context, name, email, password, role string) (models.User, models.TokenPair, error) {
	var pair models.TokenPair

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return models.User{}, pair, fmt.Errorf("error while hashing password. Err: %w", err)
	}

	user, err := s.users.Create(ctx, repository.CreateUserParams{
		Name:         name,
		Email:        email,
		Role:         role,
		PasswordHash: hash,
	})
	if err != nil {
		return models.User{}, pair, err
	}

	pair, err = s.tokens.GeneratePair(ctx, user)
	if err != nil {
		return models.User{}, pair, err
	}

	return user, pair, nil
}

// Login verifies credentials and issues a fresh token pair.
// Unknown email and wrong password both map to apperrors.ErrInvalidCredentials
func (s *AuthService) Login(ctx context.Context, email, password string) (models.User, models.TokenPair, error) {
	var pair models.TokenPair

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return models.User{}, pair, apperrors.ErrInvalidCredentials
		}
		return models.User{}, pair, err
	}

	if err := s.hasher.Compare(user.HashedPassword, password); err != nil {
		return models.User{}, pair, apperrors.ErrInvalidCredentials
	}

	pair, err = s.tokens.GeneratePair(ctx, user)
	if err != nil {
		return models.User{}, pair, err
	}

	return user, pair, nil
}

// Refresh rotates the refresh token: the presented token is marked used and a
// new pair is issued for its owner
func (s *AuthService) Refresh(ctx context.Context, refresh string) (models.User, models.TokenPair, error) {
	var pair models.TokenPair

	token, err := s.tokens.UseRefresh(ctx, refresh)
	if err != nil {
		return models.User{}, pair, err
	}

	user, err := s.users.GetByID(ctx, token.UserID)
	if err != nil {
		return models.User{}, pair, err
	}

	pair, err = s.tokens.GeneratePair(ctx, user)
	if err != nil {
		return models.User{}, pair, err
	}

	return user, pair, nil
}

// Logout revokes the refresh token. Missing token is not an error, logout is
// idempotent
func (s *AuthService) Logout(ctx context.Context, refresh string) error {
	if refresh == "" {
		return nil
	}
	return s.tokens.Revoke(ctx, refresh)
}
