package service

import (
	"errors"
	"fmt"

	"github.com/msomdec/microblog/internal/domain"
	"golang.org/x/crypto/bcrypt"
)

// PasswordHasher turns plaintext passwords into digests and checks them.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(digest, password string) error
}

// BcryptHasher is a PasswordHasher backed by bcrypt.
type BcryptHasher struct {
	cost int
}

// NewBcryptHasher returns a hasher using cost. Out of range costs fall back
// to bcrypt.DefaultCost.
func NewBcryptHasher(cost int) *BcryptHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &BcryptHasher{cost: cost}
}

func (h *BcryptHasher) Hash(password string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", fmt.Errorf("%w: password must be 72 bytes or fewer", domain.ErrInvalidInput)
		}
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(digest), nil
}

// Compare returns domain.ErrUnauthorized when password does not match digest.
func (h *BcryptHasher) Compare(digest, password string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(digest), []byte(password)); err != nil {
		return domain.ErrUnauthorized
	}
	return nil
}
