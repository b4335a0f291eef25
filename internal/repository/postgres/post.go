package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/msomdec/microblog/internal/domain"
)

const postSelect = `SELECT p.id, p.content, p.user_id, u.username, p.stream_id, s.name, p.created_at
	FROM posts p
	JOIN users u ON u.id = p.user_id
	JOIN streams s ON s.id = p.stream_id`

// PostRepository implements domain.PostRepository using PostgreSQL.
type PostRepository struct {
	db dbtx
}

// NewPostRepository creates a new PostgreSQL-backed PostRepository.
func NewPostRepository(db *DB) *PostRepository {
	return &PostRepository{db: db.SqlDB}
}

func (r *PostRepository) Create(ctx context.Context, post *domain.Post) error {
	createdAt := post.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO posts (content, user_id, stream_id, created_at) VALUES ($1, $2, $3, $4) RETURNING id`,
		post.Content, post.UserID, post.StreamID, createdAt,
	).Scan(&post.ID)
	if err != nil {
		if foreignKeyViolation(err) {
			return fmt.Errorf("%w: post owner does not exist", domain.ErrNotFound)
		}
		return fmt.Errorf("insert post: %w", err)
	}
	post.CreatedAt = createdAt
	return nil
}

func (r *PostRepository) GetByID(ctx context.Context, id int64) (*domain.Post, error) {
	p := &domain.Post{}
	err := r.db.QueryRowContext(ctx, postSelect+` WHERE p.id = $1`, id).
		Scan(&p.ID, &p.Content, &p.UserID, &p.Username, &p.StreamID, &p.StreamName, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get post by id: %w", err)
	}
	return p, nil
}

func (r *PostRepository) List(ctx context.Context, page domain.PageRequest) ([]domain.Post, int, error) {
	return r.listWhere(ctx, "", nil, page)
}

func (r *PostRepository) ListByStream(ctx context.Context, streamID int64, page domain.PageRequest) ([]domain.Post, int, error) {
	return r.listWhere(ctx, "stream_id = $1", []any{streamID}, page)
}

func (r *PostRepository) ListByUser(ctx context.Context, userID int64, page domain.PageRequest) ([]domain.Post, int, error) {
	return r.listWhere(ctx, "user_id = $1", []any{userID}, page)
}

func (r *PostRepository) listWhere(ctx context.Context, filter string, args []any, page domain.PageRequest) ([]domain.Post, int, error) {
	countQuery := `SELECT COUNT(*) FROM posts`
	listQuery := postSelect
	if filter != "" {
		countQuery += ` WHERE ` + filter
		listQuery += ` WHERE p.` + filter
	}
	n := len(args)
	listQuery += ` ORDER BY p.created_at DESC, p.id DESC LIMIT $` + strconv.Itoa(n+1) + ` OFFSET $` + strconv.Itoa(n+2)

	var total int
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count posts: %w", err)
	}
	offset := page.Offset()
	if offset >= total {
		return nil, total, nil
	}

	rows, err := r.db.QueryContext(ctx, listQuery, append(args, page.Size, offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("list posts: %w", err)
	}
	defer rows.Close()

	var posts []domain.Post
	for rows.Next() {
		var p domain.Post
		if err := rows.Scan(&p.ID, &p.Content, &p.UserID, &p.Username, &p.StreamID, &p.StreamName, &p.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("scan post: %w", err)
		}
		posts = append(posts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}

func (r *PostRepository) UpdateContent(ctx context.Context, id int64, content string) error {
	result, err := r.db.ExecContext(ctx, `UPDATE posts SET content = $1 WHERE id = $2`, content, id)
	if err != nil {
		return fmt.Errorf("update post: %w", err)
	}
	return requireAffected(result)
}

func (r *PostRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	return requireAffected(result)
}

func (r *PostRepository) DeleteByStream(ctx context.Context, streamID int64) (int64, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM posts WHERE stream_id = $1`, streamID)
	if err != nil {
		return 0, fmt.Errorf("delete posts by stream: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return rows, nil
}
