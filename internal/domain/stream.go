package domain

import (
	"context"
	"time"
)

const (
	MaxStreamNameLength        = 50
	MaxStreamDescriptionLength = 200
)

// Stream is a named topical channel that groups posts.
type Stream struct {
	ID          int64
	Name        string
	Description string
	CreatedAt   time.Time
}

// StreamRepository defines persistence operations for streams.
type StreamRepository interface {
	Create(ctx context.Context, stream *Stream) error
	GetByID(ctx context.Context, id int64) (*Stream, error)
	GetByName(ctx context.Context, name string) (*Stream, error)
	ExistsByName(ctx context.Context, name string) (bool, error)
	List(ctx context.Context) ([]Stream, error)
	Update(ctx context.Context, stream *Stream) error
	Delete(ctx context.Context, id int64) error
}
