package postgres_test

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/msomdec/microblog/internal/domain"
	"github.com/msomdec/microblog/internal/repository/postgres"
)

var (
	_ domain.Database = (*postgres.DB)(nil)
	_ domain.Store    = (*postgres.DB)(nil)
)

// newTestDB connects to the database named by MICROBLOG_TEST_POSTGRES_DSN and
// empties every table. Tests are skipped when the variable is unset.
func newTestDB(t *testing.T) *postgres.DB {
	t.Helper()
	dsn := os.Getenv("MICROBLOG_TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("MICROBLOG_TEST_POSTGRES_DSN not set")
	}
	ctx := context.Background()
	db, err := postgres.New(ctx, dsn)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := db.Migrate(ctx); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	if _, err := db.SqlDB.ExecContext(ctx, `TRUNCATE posts, streams, users RESTART IDENTITY CASCADE`); err != nil {
		t.Fatalf("truncate: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestUserUniqueness(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	u := &domain.User{Username: "alice", Email: "alice@example.com", PasswordHash: "x"}
	if err := db.Users().Create(ctx, u); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if u.ID == 0 || u.CreatedAt.IsZero() {
		t.Fatalf("expected id and created_at to be set, got %+v", u)
	}

	err := db.Users().Create(ctx, &domain.User{Username: "alice", Email: "other@example.com", PasswordHash: "x"})
	if !errors.Is(err, domain.ErrDuplicateUsername) {
		t.Fatalf("expected ErrDuplicateUsername, got %v", err)
	}
	err = db.Users().Create(ctx, &domain.User{Username: "bob", Email: "alice@example.com", PasswordHash: "x"})
	if !errors.Is(err, domain.ErrDuplicateEmail) {
		t.Fatalf("expected ErrDuplicateEmail, got %v", err)
	}
}

func TestStreamDeleteCascadesPosts(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	u := &domain.User{Username: "alice", Email: "alice@example.com", PasswordHash: "x"}
	if err := db.Users().Create(ctx, u); err != nil {
		t.Fatalf("create user: %v", err)
	}
	s := &domain.Stream{Name: "general"}
	if err := db.Streams().Create(ctx, s); err != nil {
		t.Fatalf("create stream: %v", err)
	}
	if err := db.Streams().Create(ctx, &domain.Stream{Name: "general"}); !errors.Is(err, domain.ErrDuplicateStreamName) {
		t.Fatalf("expected ErrDuplicateStreamName, got %v", err)
	}

	for _, content := range []string{"one", "two", "three"} {
		p := &domain.Post{Content: content, UserID: u.ID, StreamID: s.ID}
		if err := db.Posts().Create(ctx, p); err != nil {
			t.Fatalf("create post: %v", err)
		}
	}

	posts, total, err := db.Posts().ListByStream(ctx, s.ID, domain.PageRequest{Page: 0, Size: 2})
	if err != nil {
		t.Fatalf("ListByStream: %v", err)
	}
	if total != 3 || len(posts) != 2 {
		t.Fatalf("expected 2 of 3 posts, got %d of %d", len(posts), total)
	}
	if posts[0].Username != "alice" || posts[0].StreamName != "general" {
		t.Fatalf("expected joined names, got %+v", posts[0])
	}

	err = db.WithinTx(ctx, func(tx domain.Store) error {
		if _, err := tx.Posts().DeleteByStream(ctx, s.ID); err != nil {
			return err
		}
		return tx.Streams().Delete(ctx, s.ID)
	})
	if err != nil {
		t.Fatalf("delete stream: %v", err)
	}

	_, total, err = db.Posts().List(ctx, domain.PageRequest{Size: 10})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if total != 0 {
		t.Fatalf("expected no posts after cascade, got %d", total)
	}
}

func TestPostMissingOwner(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	err := db.Posts().Create(ctx, &domain.Post{Content: "hi", UserID: 99, StreamID: 99})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestWithinTxRollback(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	boom := errors.New("boom")
	err := db.WithinTx(ctx, func(tx domain.Store) error {
		if err := tx.Streams().Create(ctx, &domain.Stream{Name: "temp"}); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if _, err := db.Streams().GetByName(ctx, "temp"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected rolled back stream to be absent, got %v", err)
	}
}
