package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/msomdec/microblog/internal/domain"
)

// AuthService handles sign up and sign in.
type AuthService struct {
	users  *UserService
	store  domain.Store
	hasher PasswordHasher
	tokens *TokenService
}

// NewAuthService creates a new AuthService.
func NewAuthService(users *UserService, store domain.Store, hasher PasswordHasher, tokens *TokenService) *AuthService {
	return &AuthService{
		users:  users,
		store:  store,
		hasher: hasher,
		tokens: tokens,
	}
}

// SignUp registers a new account.
func (s *AuthService) SignUp(ctx context.Context, username, email, password string) (*domain.User, error) {
	return s.users.Create(ctx, UserInput{Username: username, Email: email, Password: password})
}

// SignIn verifies credentials and returns a signed token. Unknown users and
// wrong passwords both yield domain.ErrUnauthorized.
func (s *AuthService) SignIn(ctx context.Context, username, password string) (string, error) {
	user, err := s.store.Users().GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", fmt.Errorf("%w: invalid username or password", domain.ErrUnauthorized)
		}
		return "", fmt.Errorf("get user: %w", err)
	}

	if err := s.hasher.Compare(user.PasswordHash, password); err != nil {
		return "", fmt.Errorf("%w: invalid username or password", domain.ErrUnauthorized)
	}

	token, err := s.tokens.Issue(user.Username)
	if err != nil {
		return "", fmt.Errorf("issue token: %w", err)
	}
	return token, nil
}
