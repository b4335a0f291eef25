package service

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/msomdec/microblog/internal/domain"
)

// DefaultTokenTTL is the lifetime of an issued token when none is configured.
const DefaultTokenTTL = 24 * time.Hour

// TokenService issues and verifies HS512-signed JWTs whose subject is a
// username. It holds no mutable state and is safe for concurrent use.
type TokenService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// TokenOption customizes a TokenService.
type TokenOption func(*TokenService)

// WithClock overrides the time source used to stamp and validate tokens.
func WithClock(now func() time.Time) TokenOption {
	return func(s *TokenService) { s.now = now }
}

// NewTokenService creates a TokenService. A non-positive ttl selects
// DefaultTokenTTL.
func NewTokenService(secret string, ttl time.Duration, opts ...TokenOption) *TokenService {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	s := &TokenService{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// TTL returns the lifetime given to issued tokens.
func (s *TokenService) TTL() time.Duration {
	return s.ttl
}

// Issue returns a signed token for username valid from now until now+TTL.
// Claims carry whole seconds, so now is rounded up to the next second and
// the token never expires before now+TTL.
func (s *TokenService) Issue(username string) (string, error) {
	now := s.now()
	if whole := now.Truncate(time.Second); whole.Before(now) {
		now = whole.Add(time.Second)
	}
	claims := jwt.RegisteredClaims{
		Subject:   username,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return token, nil
}

// Verify reports whether token is well-formed, signed with the configured
// secret and unexpired. Failures are logged, never returned.
func (s *TokenService) Verify(token string) bool {
	if token == "" {
		slog.Warn("jwt claims string is empty")
		return false
	}
	if _, err := s.parse(token); err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenMalformed):
			slog.Warn("invalid jwt token", "error", err)
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			slog.Warn("invalid jwt signature", "error", err)
		case errors.Is(err, jwt.ErrTokenExpired):
			slog.Warn("jwt token is expired", "error", err)
		case errors.Is(err, jwt.ErrTokenUnverifiable):
			slog.Warn("jwt token is unsupported", "error", err)
		default:
			slog.Warn("jwt validation failed", "error", err)
		}
		return false
	}
	return true
}

// SubjectOf returns the username carried by token. Invalid tokens yield
// domain.ErrUnauthorized.
func (s *TokenService) SubjectOf(token string) (string, error) {
	claims, err := s.parse(token)
	if err != nil {
		return "", domain.ErrUnauthorized
	}
	if claims.Subject == "" {
		return "", domain.ErrUnauthorized
	}
	return claims.Subject, nil
}

func (s *TokenService) parse(token string) (*jwt.RegisteredClaims, error) {
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS512.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, err
	}
	return claims, nil
}
