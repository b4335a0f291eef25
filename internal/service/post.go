package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/msomdec/microblog/internal/domain"
)

// PostService manages posts and their paginated listings.
type PostService struct {
	store domain.Store
	now   func() time.Time
}

// NewPostService creates a new PostService.
func NewPostService(store domain.Store) *PostService {
	return &PostService{store: store, now: time.Now}
}

// Create stores a post by userID in streamID.
func (s *PostService) Create(ctx context.Context, content string, userID, streamID int64) (*domain.Post, error) {
	var post *domain.Post
	err := s.store.WithinTx(ctx, func(tx domain.Store) error {
		user, err := tx.Users().GetByID(ctx, userID)
		if err != nil {
			return userLookupError(err, "id", userID)
		}
		stream, err := tx.Streams().GetByID(ctx, streamID)
		if err != nil {
			return streamLookupError(err, "id", streamID)
		}
		if err := validateContent(content); err != nil {
			return err
		}

		post = &domain.Post{
			Content:    content,
			UserID:     user.ID,
			Username:   user.Username,
			StreamID:   stream.ID,
			StreamName: stream.Name,
			CreatedAt:  s.now().UTC(),
		}
		return tx.Posts().Create(ctx, post)
	})
	if err != nil {
		return nil, err
	}
	return post, nil
}

// GetByID returns the post with id.
func (s *PostService) GetByID(ctx context.Context, id int64) (*domain.Post, error) {
	post, err := s.store.Posts().GetByID(ctx, id)
	if err != nil {
		return nil, postLookupError(err, id)
	}
	return post, nil
}

// List returns one page of all posts, newest first.
func (s *PostService) List(ctx context.Context, req domain.PageRequest) (domain.Page[domain.Post], error) {
	req = req.Normalize()
	posts, total, err := s.store.Posts().List(ctx, req)
	if err != nil {
		return domain.Page[domain.Post]{}, fmt.Errorf("list posts: %w", err)
	}
	return domain.NewPage(posts, req, total), nil
}

// ListByStream returns one page of the posts in streamID.
func (s *PostService) ListByStream(ctx context.Context, streamID int64, req domain.PageRequest) (domain.Page[domain.Post], error) {
	if _, err := s.store.Streams().GetByID(ctx, streamID); err != nil {
		return domain.Page[domain.Post]{}, streamLookupError(err, "id", streamID)
	}
	req = req.Normalize()
	posts, total, err := s.store.Posts().ListByStream(ctx, streamID, req)
	if err != nil {
		return domain.Page[domain.Post]{}, fmt.Errorf("list stream posts: %w", err)
	}
	return domain.NewPage(posts, req, total), nil
}

// ListByUser returns one page of the posts written by userID.
func (s *PostService) ListByUser(ctx context.Context, userID int64, req domain.PageRequest) (domain.Page[domain.Post], error) {
	if _, err := s.store.Users().GetByID(ctx, userID); err != nil {
		return domain.Page[domain.Post]{}, userLookupError(err, "id", userID)
	}
	req = req.Normalize()
	posts, total, err := s.store.Posts().ListByUser(ctx, userID, req)
	if err != nil {
		return domain.Page[domain.Post]{}, fmt.Errorf("list user posts: %w", err)
	}
	return domain.NewPage(posts, req, total), nil
}

// Update replaces the content of post id. Owners and timestamps are fixed.
func (s *PostService) Update(ctx context.Context, id int64, content string) (*domain.Post, error) {
	var post *domain.Post
	err := s.store.WithinTx(ctx, func(tx domain.Store) error {
		var err error
		post, err = tx.Posts().GetByID(ctx, id)
		if err != nil {
			return postLookupError(err, id)
		}
		if err := validateContent(content); err != nil {
			return err
		}
		if err := tx.Posts().UpdateContent(ctx, id, content); err != nil {
			return postLookupError(err, id)
		}
		post.Content = content
		return nil
	})
	if err != nil {
		return nil, err
	}
	return post, nil
}

// Delete removes post id.
func (s *PostService) Delete(ctx context.Context, id int64) error {
	return s.store.WithinTx(ctx, func(tx domain.Store) error {
		if err := tx.Posts().Delete(ctx, id); err != nil {
			return postLookupError(err, id)
		}
		return nil
	})
}

func validateContent(content string) error {
	if isBlank(content) {
		return fmt.Errorf("%w: post content cannot be empty", domain.ErrInvalidInput)
	}
	if charLen(content) > domain.MaxPostContentLength {
		return fmt.Errorf("%w: post content exceeds %d characters limit", domain.ErrInvalidInput, domain.MaxPostContentLength)
	}
	return nil
}

func postLookupError(err error, id int64) error {
	if errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("%w: post not found with id %d", domain.ErrNotFound, id)
	}
	return fmt.Errorf("get post: %w", err)
}
