package service_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/msomdec/microblog/internal/repository/sqlite"
	"github.com/msomdec/microblog/internal/service"
)

const testJWTSecret = "test-secret-key-for-unit-tests-0123456789"

type testServices struct {
	db      *sqlite.DB
	users   *service.UserService
	streams *service.StreamService
	posts   *service.PostService
	auth    *service.AuthService
	tokens  *service.TokenService
}

func newTestServices(t *testing.T) *testServices {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := sqlite.New(dbPath)
	if err != nil {
		t.Fatalf("New DB: %v", err)
	}
	if err := db.Migrate(context.Background()); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	// Use cost 4 for fast tests.
	hasher := service.NewBcryptHasher(4)
	tokens := service.NewTokenService(testJWTSecret, time.Hour)
	users := service.NewUserService(db, hasher)
	return &testServices{
		db:      db,
		users:   users,
		streams: service.NewStreamService(db),
		posts:   service.NewPostService(db),
		auth:    service.NewAuthService(users, db, hasher, tokens),
		tokens:  tokens,
	}
}
