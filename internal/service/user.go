package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/msomdec/microblog/internal/domain"
)

// UserInput carries the caller-supplied fields of a user.
type UserInput struct {
	Username string
	Email    string
	Password string
}

// UserService manages user accounts.
type UserService struct {
	store  domain.Store
	hasher PasswordHasher
}

// NewUserService creates a new UserService.
func NewUserService(store domain.Store, hasher PasswordHasher) *UserService {
	return &UserService{store: store, hasher: hasher}
}

// Create validates in, digests the password and stores a new user.
func (s *UserService) Create(ctx context.Context, in UserInput) (*domain.User, error) {
	if isBlank(in.Username) {
		return nil, fmt.Errorf("%w: username cannot be empty", domain.ErrInvalidInput)
	}
	if isBlank(in.Email) {
		return nil, fmt.Errorf("%w: email cannot be empty", domain.ErrInvalidInput)
	}
	if isBlank(in.Password) {
		return nil, fmt.Errorf("%w: password cannot be empty", domain.ErrInvalidInput)
	}

	var user *domain.User
	err := s.store.WithinTx(ctx, func(tx domain.Store) error {
		users := tx.Users()

		taken, err := users.ExistsByUsername(ctx, in.Username)
		if err != nil {
			return err
		}
		if taken {
			return domain.ErrDuplicateUsername
		}
		taken, err = users.ExistsByEmail(ctx, in.Email)
		if err != nil {
			return err
		}
		if taken {
			return domain.ErrDuplicateEmail
		}

		digest, err := s.hasher.Hash(in.Password)
		if err != nil {
			return err
		}

		user = &domain.User{
			Username:     in.Username,
			Email:        in.Email,
			PasswordHash: digest,
		}
		return users.Create(ctx, user)
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

// GetByID returns the user with id.
func (s *UserService) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	user, err := s.store.Users().GetByID(ctx, id)
	if err != nil {
		return nil, userLookupError(err, "id", id)
	}
	return user, nil
}

// GetByUsername returns the user named username.
func (s *UserService) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	if isBlank(username) {
		return nil, fmt.Errorf("%w: username cannot be empty", domain.ErrInvalidInput)
	}
	user, err := s.store.Users().GetByUsername(ctx, username)
	if err != nil {
		return nil, userLookupError(err, "username", username)
	}
	return user, nil
}

// List returns every user ordered by id.
func (s *UserService) List(ctx context.Context) ([]domain.User, error) {
	users, err := s.store.Users().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// Update replaces username and email of user id. The password is only
// re-digested when in.Password is non-empty.
func (s *UserService) Update(ctx context.Context, id int64, in UserInput) (*domain.User, error) {
	var user *domain.User
	err := s.store.WithinTx(ctx, func(tx domain.Store) error {
		users := tx.Users()

		var err error
		user, err = users.GetByID(ctx, id)
		if err != nil {
			return userLookupError(err, "id", id)
		}

		if isBlank(in.Username) {
			return fmt.Errorf("%w: username cannot be empty", domain.ErrInvalidInput)
		}
		if isBlank(in.Email) {
			return fmt.Errorf("%w: email cannot be empty", domain.ErrInvalidInput)
		}

		if in.Username != user.Username {
			taken, err := users.ExistsByUsername(ctx, in.Username)
			if err != nil {
				return err
			}
			if taken {
				return domain.ErrDuplicateUsername
			}
		}
		if in.Email != user.Email {
			taken, err := users.ExistsByEmail(ctx, in.Email)
			if err != nil {
				return err
			}
			if taken {
				return domain.ErrDuplicateEmail
			}
		}

		user.Username = in.Username
		user.Email = in.Email
		if in.Password != "" {
			digest, err := s.hasher.Hash(in.Password)
			if err != nil {
				return err
			}
			user.PasswordHash = digest
		}
		return users.Update(ctx, user)
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

// Delete removes user id together with the user's posts.
func (s *UserService) Delete(ctx context.Context, id int64) error {
	return s.store.WithinTx(ctx, func(tx domain.Store) error {
		if err := tx.Users().Delete(ctx, id); err != nil {
			return userLookupError(err, "id", id)
		}
		return nil
	})
}

func userLookupError(err error, field string, value any) error {
	if errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("%w: user not found with %s %v", domain.ErrNotFound, field, value)
	}
	return fmt.Errorf("get user: %w", err)
}
