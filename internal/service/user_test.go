package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/msomdec/microblog/internal/domain"
	"github.com/msomdec/microblog/internal/service"
)

func createTestUser(t *testing.T, svc *testServices, username string) *domain.User {
	t.Helper()
	user, err := svc.users.Create(context.Background(), service.UserInput{
		Username: username,
		Email:    username + "@example.com",
		Password: "password123",
	})
	if err != nil {
		t.Fatalf("create user %s: %v", username, err)
	}
	return user
}

func TestUserService_Create_BlankFields(t *testing.T) {
	svc := newTestServices(t)
	ctx := context.Background()

	tests := []struct {
		name string
		in   service.UserInput
	}{
		{"blank username", service.UserInput{Username: "  ", Email: "a@b.com", Password: "pw"}},
		{"blank email", service.UserInput{Username: "a", Email: "", Password: "pw"}},
		{"blank password", service.UserInput{Username: "a", Email: "a@b.com", Password: " "}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.users.Create(ctx, tc.in)
			if !errors.Is(err, domain.ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestUserService_GetByID_NotFound(t *testing.T) {
	svc := newTestServices(t)

	_, err := svc.users.GetByID(context.Background(), 42)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUserService_GetByUsername(t *testing.T) {
	svc := newTestServices(t)
	ctx := context.Background()
	created := createTestUser(t, svc, "alice")

	got, err := svc.users.GetByUsername(ctx, "alice")
	if err != nil {
		t.Fatalf("GetByUsername: %v", err)
	}
	if got.ID != created.ID {
		t.Fatalf("expected id %d, got %d", created.ID, got.ID)
	}

	if _, err := svc.users.GetByUsername(ctx, " "); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for blank username, got %v", err)
	}
	if _, err := svc.users.GetByUsername(ctx, "nobody"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUserService_Update(t *testing.T) {
	svc := newTestServices(t)
	ctx := context.Background()
	alice := createTestUser(t, svc, "alice")
	createTestUser(t, svc, "bob")

	// Keeping the same username and email is not a conflict.
	same, err := svc.users.Update(ctx, alice.ID, service.UserInput{Username: "alice", Email: "alice@example.com"})
	if err != nil {
		t.Fatalf("Update unchanged: %v", err)
	}
	if same.PasswordHash != alice.PasswordHash {
		t.Fatal("expected password digest to be unchanged when no password supplied")
	}

	_, err = svc.users.Update(ctx, alice.ID, service.UserInput{Username: "bob", Email: "alice@example.com"})
	if !errors.Is(err, domain.ErrDuplicateUsername) {
		t.Fatalf("expected ErrDuplicateUsername, got %v", err)
	}
	_, err = svc.users.Update(ctx, alice.ID, service.UserInput{Username: "alice", Email: "bob@example.com"})
	if !errors.Is(err, domain.ErrDuplicateEmail) {
		t.Fatalf("expected ErrDuplicateEmail, got %v", err)
	}
	_, err = svc.users.Update(ctx, alice.ID, service.UserInput{Username: "", Email: "alice@example.com"})
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	_, err = svc.users.Update(ctx, 999, service.UserInput{Username: "x", Email: "x@example.com"})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	updated, err := svc.users.Update(ctx, alice.ID, service.UserInput{Username: "alicia", Email: "alicia@example.com", Password: "newpassword"})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Username != "alicia" || updated.PasswordHash == alice.PasswordHash {
		t.Fatalf("unexpected update result: %+v", updated)
	}
	if _, err := svc.auth.SignIn(ctx, "alicia", "newpassword"); err != nil {
		t.Fatalf("SignIn with new password: %v", err)
	}
}

func TestUserService_Delete(t *testing.T) {
	svc := newTestServices(t)
	ctx := context.Background()
	alice := createTestUser(t, svc, "alice")

	stream, err := svc.streams.Create(ctx, service.StreamInput{Name: "general"})
	if err != nil {
		t.Fatalf("create stream: %v", err)
	}
	if _, err := svc.posts.Create(ctx, "hello", alice.ID, stream.ID); err != nil {
		t.Fatalf("create post: %v", err)
	}

	if err := svc.users.Delete(ctx, alice.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := svc.users.GetByID(ctx, alice.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}

	page, err := svc.posts.ListByStream(ctx, stream.ID, domain.PageRequest{})
	if err != nil {
		t.Fatalf("ListByStream: %v", err)
	}
	if page.TotalElements != 0 {
		t.Fatalf("expected user's posts to be deleted, got %d", page.TotalElements)
	}

	if err := svc.users.Delete(ctx, alice.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
}
