package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/msomdec/microblog/internal/domain"
)

// StreamInput carries the caller-supplied fields of a stream.
type StreamInput struct {
	Name        string
	Description string
}

// StreamService manages streams and the posts they own.
type StreamService struct {
	store domain.Store
	now   func() time.Time
}

// NewStreamService creates a new StreamService.
func NewStreamService(store domain.Store) *StreamService {
	return &StreamService{store: store, now: time.Now}
}

// Create validates in and stores a new stream stamped with the current time.
func (s *StreamService) Create(ctx context.Context, in StreamInput) (*domain.Stream, error) {
	if err := validateStream(in); err != nil {
		return nil, err
	}

	var stream *domain.Stream
	err := s.store.WithinTx(ctx, func(tx domain.Store) error {
		taken, err := tx.Streams().ExistsByName(ctx, in.Name)
		if err != nil {
			return err
		}
		if taken {
			return domain.ErrDuplicateStreamName
		}

		stream = &domain.Stream{
			Name:        in.Name,
			Description: in.Description,
			CreatedAt:   s.now().UTC(),
		}
		return tx.Streams().Create(ctx, stream)
	})
	if err != nil {
		return nil, err
	}
	return stream, nil
}

// GetByID returns the stream with id.
func (s *StreamService) GetByID(ctx context.Context, id int64) (*domain.Stream, error) {
	stream, err := s.store.Streams().GetByID(ctx, id)
	if err != nil {
		return nil, streamLookupError(err, "id", id)
	}
	return stream, nil
}

// GetByName returns the stream called name.
func (s *StreamService) GetByName(ctx context.Context, name string) (*domain.Stream, error) {
	if isBlank(name) {
		return nil, fmt.Errorf("%w: stream name cannot be empty", domain.ErrInvalidInput)
	}
	stream, err := s.store.Streams().GetByName(ctx, name)
	if err != nil {
		return nil, streamLookupError(err, "name", name)
	}
	return stream, nil
}

// List returns every stream ordered by name.
func (s *StreamService) List(ctx context.Context) ([]domain.Stream, error) {
	streams, err := s.store.Streams().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list streams: %w", err)
	}
	return streams, nil
}

// Update replaces the name and description of stream id. Keeping the current
// name never conflicts.
func (s *StreamService) Update(ctx context.Context, id int64, in StreamInput) (*domain.Stream, error) {
	var stream *domain.Stream
	err := s.store.WithinTx(ctx, func(tx domain.Store) error {
		var err error
		stream, err = tx.Streams().GetByID(ctx, id)
		if err != nil {
			return streamLookupError(err, "id", id)
		}

		if err := validateStream(in); err != nil {
			return err
		}

		if in.Name != stream.Name {
			taken, err := tx.Streams().ExistsByName(ctx, in.Name)
			if err != nil {
				return err
			}
			if taken {
				return domain.ErrDuplicateStreamName
			}
		}

		stream.Name = in.Name
		stream.Description = in.Description
		return tx.Streams().Update(ctx, stream)
	})
	if err != nil {
		return nil, err
	}
	return stream, nil
}

// Delete removes stream id and all of its posts in one transaction.
func (s *StreamService) Delete(ctx context.Context, id int64) error {
	return s.store.WithinTx(ctx, func(tx domain.Store) error {
		if _, err := tx.Streams().GetByID(ctx, id); err != nil {
			return streamLookupError(err, "id", id)
		}
		if _, err := tx.Posts().DeleteByStream(ctx, id); err != nil {
			return fmt.Errorf("delete stream posts: %w", err)
		}
		if err := tx.Streams().Delete(ctx, id); err != nil {
			return streamLookupError(err, "id", id)
		}
		return nil
	})
}

func validateStream(in StreamInput) error {
	if isBlank(in.Name) {
		return fmt.Errorf("%w: stream name cannot be empty", domain.ErrInvalidInput)
	}
	if charLen(in.Name) > domain.MaxStreamNameLength {
		return fmt.Errorf("%w: stream name exceeds %d characters limit", domain.ErrInvalidInput, domain.MaxStreamNameLength)
	}
	if charLen(in.Description) > domain.MaxStreamDescriptionLength {
		return fmt.Errorf("%w: stream description exceeds %d characters limit", domain.ErrInvalidInput, domain.MaxStreamDescriptionLength)
	}
	return nil
}

func streamLookupError(err error, field string, value any) error {
	if errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("%w: stream not found with %s %v", domain.ErrNotFound, field, value)
	}
	return fmt.Errorf("get stream: %w", err)
}
