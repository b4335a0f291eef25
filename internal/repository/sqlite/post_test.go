package sqlite_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/msomdec/microblog/internal/domain"
	"github.com/msomdec/microblog/internal/repository/sqlite"
)

func createPost(t *testing.T, db *sqlite.DB, userID, streamID int64, content string) *domain.Post {
	t.Helper()
	post := &domain.Post{Content: content, UserID: userID, StreamID: streamID}
	if err := db.Posts().Create(context.Background(), post); err != nil {
		t.Fatalf("Create post: %v", err)
	}
	return post
}

func TestPostRepository_CreateAndGet(t *testing.T) {
	db := newTestDB(t)
	repo := sqlite.NewPostRepository(db)
	ctx := context.Background()

	user := createUser(t, db, "alice", "alice@example.com")
	stream := createStream(t, db, "news")

	created := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	post := &domain.Post{Content: "hi", UserID: user.ID, StreamID: stream.ID, CreatedAt: created}
	if err := repo.Create(ctx, post); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if post.ID == 0 {
		t.Fatal("expected post ID to be set")
	}

	found, err := repo.GetByID(ctx, post.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if found.Content != "hi" {
		t.Fatalf("expected content hi, got %q", found.Content)
	}
	if found.Username != "alice" || found.StreamName != "news" {
		t.Fatalf("expected joined owner names, got %q / %q", found.Username, found.StreamName)
	}
	if !found.CreatedAt.Equal(created) {
		t.Fatalf("expected created_at %v, got %v", created, found.CreatedAt)
	}
}

func TestPostRepository_Create_MissingOwner(t *testing.T) {
	db := newTestDB(t)
	repo := sqlite.NewPostRepository(db)
	ctx := context.Background()

	user := createUser(t, db, "alice", "alice@example.com")

	err := repo.Create(ctx, &domain.Post{Content: "hi", UserID: user.ID, StreamID: 777})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for missing stream, got %v", err)
	}

	_, total, err := repo.List(ctx, domain.PageRequest{Size: 10})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if total != 0 {
		t.Fatalf("expected no posts persisted, got %d", total)
	}
}

func TestPostRepository_ListPagination(t *testing.T) {
	db := newTestDB(t)
	repo := sqlite.NewPostRepository(db)
	ctx := context.Background()

	user := createUser(t, db, "alice", "alice@example.com")
	stream := createStream(t, db, "news")

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		post := &domain.Post{
			Content:   fmt.Sprintf("post %d", i),
			UserID:    user.ID,
			StreamID:  stream.ID,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}
		if err := repo.Create(ctx, post); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	posts, total, err := repo.List(ctx, domain.PageRequest{Page: 0, Size: 2})
	if err != nil {
		t.Fatalf("List page 0: %v", err)
	}
	if total != 5 {
		t.Fatalf("expected total 5, got %d", total)
	}
	if len(posts) != 2 || posts[0].Content != "post 4" || posts[1].Content != "post 3" {
		t.Fatalf("expected newest first, got %+v", posts)
	}

	posts, _, err = repo.List(ctx, domain.PageRequest{Page: 2, Size: 2})
	if err != nil {
		t.Fatalf("List page 2: %v", err)
	}
	if len(posts) != 1 || posts[0].Content != "post 0" {
		t.Fatalf("expected last page with oldest post, got %+v", posts)
	}
}

func TestPostRepository_ListByStreamAndUser(t *testing.T) {
	db := newTestDB(t)
	repo := sqlite.NewPostRepository(db)
	ctx := context.Background()

	alice := createUser(t, db, "alice", "alice@example.com")
	bob := createUser(t, db, "bob", "bob@example.com")
	news := createStream(t, db, "news")
	sports := createStream(t, db, "sports")

	createPost(t, db, alice.ID, news.ID, "a1")
	createPost(t, db, alice.ID, sports.ID, "a2")
	createPost(t, db, bob.ID, news.ID, "b1")

	byStream, total, err := repo.ListByStream(ctx, news.ID, domain.PageRequest{Size: 10})
	if err != nil {
		t.Fatalf("ListByStream: %v", err)
	}
	if total != 2 || len(byStream) != 2 {
		t.Fatalf("expected 2 news posts, got total=%d len=%d", total, len(byStream))
	}
	for _, p := range byStream {
		if p.StreamID != news.ID {
			t.Fatalf("post %d belongs to stream %d", p.ID, p.StreamID)
		}
	}

	byUser, total, err := repo.ListByUser(ctx, alice.ID, domain.PageRequest{Size: 10})
	if err != nil {
		t.Fatalf("ListByUser: %v", err)
	}
	if total != 2 || len(byUser) != 2 {
		t.Fatalf("expected 2 posts by alice, got total=%d len=%d", total, len(byUser))
	}
	for _, p := range byUser {
		if p.Username != "alice" {
			t.Fatalf("post %d authored by %q", p.ID, p.Username)
		}
	}
}

func TestPostRepository_UpdateContentAndDelete(t *testing.T) {
	db := newTestDB(t)
	repo := sqlite.NewPostRepository(db)
	ctx := context.Background()

	user := createUser(t, db, "alice", "alice@example.com")
	stream := createStream(t, db, "news")
	post := createPost(t, db, user.ID, stream.ID, "draft")

	if err := repo.UpdateContent(ctx, post.ID, "final"); err != nil {
		t.Fatalf("UpdateContent: %v", err)
	}
	found, err := repo.GetByID(ctx, post.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if found.Content != "final" {
		t.Fatalf("expected content final, got %q", found.Content)
	}

	if err := repo.UpdateContent(ctx, 9999, "x"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on update, got %v", err)
	}

	if err := repo.Delete(ctx, post.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := repo.Delete(ctx, post.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestPostRepository_DeleteByStream(t *testing.T) {
	db := newTestDB(t)
	repo := sqlite.NewPostRepository(db)
	ctx := context.Background()

	user := createUser(t, db, "alice", "alice@example.com")
	news := createStream(t, db, "news")
	sports := createStream(t, db, "sports")
	createPost(t, db, user.ID, news.ID, "n1")
	createPost(t, db, user.ID, news.ID, "n2")
	createPost(t, db, user.ID, sports.ID, "s1")

	removed, err := repo.DeleteByStream(ctx, news.ID)
	if err != nil {
		t.Fatalf("DeleteByStream: %v", err)
	}
	if removed != 2 {
		t.Fatalf("expected 2 posts removed, got %d", removed)
	}

	_, total, err := repo.List(ctx, domain.PageRequest{Size: 10})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if total != 1 {
		t.Fatalf("expected 1 remaining post, got %d", total)
	}
}
