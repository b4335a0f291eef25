package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/msomdec/microblog/internal/domain"
)

// StreamRepository implements domain.StreamRepository using SQLite.
type StreamRepository struct {
	db dbtx
}

// NewStreamRepository creates a new SQLite-backed StreamRepository.
func NewStreamRepository(db *DB) *StreamRepository {
	return &StreamRepository{db: db.SqlDB}
}

func (r *StreamRepository) Create(ctx context.Context, stream *domain.Stream) error {
	createdAt := stream.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO streams (name, description, created_at) VALUES (?, ?, ?)`,
		stream.Name, stream.Description, createdAt,
	)
	if err != nil {
		if uniqueViolation(err, "streams.name") {
			return domain.ErrDuplicateStreamName
		}
		return fmt.Errorf("insert stream: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("get last insert id: %w", err)
	}

	stream.ID = id
	stream.CreatedAt = createdAt
	return nil
}

func (r *StreamRepository) GetByID(ctx context.Context, id int64) (*domain.Stream, error) {
	s := &domain.Stream{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, description, created_at FROM streams WHERE id = ?`, id,
	).Scan(&s.ID, &s.Name, &s.Description, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get stream by id: %w", err)
	}
	return s, nil
}

func (r *StreamRepository) GetByName(ctx context.Context, name string) (*domain.Stream, error) {
	s := &domain.Stream{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, description, created_at FROM streams WHERE name = ?`, name,
	).Scan(&s.ID, &s.Name, &s.Description, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get stream by name: %w", err)
	}
	return s, nil
}

func (r *StreamRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM streams WHERE name = ?)`, name,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check stream name: %w", err)
	}
	return exists, nil
}

func (r *StreamRepository) List(ctx context.Context) ([]domain.Stream, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, description, created_at FROM streams ORDER BY name`)
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
		`UPDATE streams SET name = ?, description = ? WHERE id = ?`,
		stream.Name, stream.Description, stream.ID,
	)
	if err != nil {
		if uniqueViolation(err, "streams.name") {
			return domain.ErrDuplicateStreamName
		}
		return fmt.Errorf("update stream: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *StreamRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM streams WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete stream: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}
