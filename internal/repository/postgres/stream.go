package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/msomdec/microblog/internal/domain"
)

// StreamRepository implements domain.StreamRepository using PostgreSQL.
type StreamRepository struct {
	db dbtx
}

// NewStreamRepository creates a new PostgreSQL-backed StreamRepository.
func NewStreamRepository(db *DB) *StreamRepository {
	return &StreamRepository{db: db.SqlDB}
}

func (r *StreamRepository) Create(ctx context.Context, stream *domain.Stream) error {
	createdAt := stream.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO streams (name, description, created_at) VALUES ($1, $2, $3) RETURNING id`,
		stream.Name, stream.Description, createdAt,
	).Scan(&stream.ID)
	if err != nil {
		if uniqueViolation(err, constraintStreamsName) {
			return domain.ErrDuplicateStreamName
		}
		return fmt.Errorf("insert stream: %w", err)
	}
	stream.CreatedAt = createdAt
	return nil
}

func (r *StreamRepository) GetByID(ctx context.Context, id int64) (*domain.Stream, error) {
	return r.getOne(ctx, `SELECT id, name, description, created_at FROM streams WHERE id = $1`, id)
}

func (r *StreamRepository) GetByName(ctx context.Context, name string) (*domain.Stream, error) {
	return r.getOne(ctx, `SELECT id, name, description, created_at FROM streams WHERE name = $1`, name)
}

func (r *StreamRepository) getOne(ctx context.Context, query string, arg any) (*domain.Stream, error) {
	s := &domain.Stream{}
	err := r.db.QueryRowContext(ctx, query, arg).Scan(&s.ID, &s.Name, &s.Description, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("query stream: %w", err)
	}
	return s, nil
}

func (r *StreamRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	var exists bool
	if err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM streams WHERE name = $1)`, name,
	).Scan(&exists); err != nil {
		return false, fmt.Errorf("check stream name: %w", err)
	}
	return exists, nil
}

func (r *StreamRepository) List(ctx context.Context) ([]domain.Stream, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, description, created_at FROM streams ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list streams: %w", err)
	}
	defer rows.Close()

	var streams []domain.Stream
	for rows.Next() {
		var s domain.Stream
		if err := rows.Scan(&s.ID, &s.Name, &s.Description, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan stream: %w", err)
		}
		streams = append(streams, s)
	}
	return streams, rows.Err()
}

func (r *StreamRepository) Update(ctx context.Context, stream *domain.Stream) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE streams SET name = $1, description = $2 WHERE id = $3`,
		stream.Name, stream.Description, stream.ID,
	)
	if err != nil {
		if uniqueViolation(err, constraintStreamsName) {
			return domain.ErrDuplicateStreamName
		}
		return fmt.Errorf("update stream: %w", err)
	}
	return requireAffected(result)
}

func (r *StreamRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM streams WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete stream: %w", err)
	}
	return requireAffected(result)
}
