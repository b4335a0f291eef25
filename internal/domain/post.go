package domain

import (
	"context"
	"time"
)

const MaxPostContentLength = 140

// Post is a short message authored by a user within a stream. Username and
// StreamName are populated on reads by joining the owning rows.
type Post struct {
	ID         int64
	Content    string
	UserID     int64
	Username   string
	StreamID   int64
	StreamName string
	CreatedAt  time.Time
}

// PostRepository defines persistence operations for posts.
type PostRepository interface {
	Create(ctx context.Context, post *Post) error
	GetByID(ctx context.Context, id int64) (*Post, error)
	List(ctx context.Context, page PageRequest) ([]Post, int, error)
	ListByStream(ctx context.Context, streamID int64, page PageRequest) ([]Post, int, error)
	ListByUser(ctx context.Context, userID int64, page PageRequest) ([]Post, int, error)
	UpdateContent(ctx context.Context, id int64, content string) error
	Delete(ctx context.Context, id int64) error
	DeleteByStream(ctx context.Context, streamID int64) (int64, error)
}
