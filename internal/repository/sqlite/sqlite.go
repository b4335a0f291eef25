package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"

	"github.com/msomdec/microblog/internal/domain"
	"github.com/msomdec/microblog/internal/repository/sqlite/migrations"
	_ "modernc.org/sqlite"
)

// dbtx is the subset of database/sql used by the repositories.
// Both *sql.DB and *sql.Tx satisfy it.
type dbtx interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// DB wraps a SQLite connection pool and implements domain.Database and
// domain.Store.
type DB struct {
	SqlDB *sql.DB
}

// New opens a SQLite database at the given path and configures it for use.
// WAL mode, foreign keys and a busy timeout are set through the DSN so every
// pooled connection carries them.
func New(dbPath string) (*DB, error) {
	dsn := "file:" + dbPath + "?" + url.Values{
		"_pragma": {"journal_mode(WAL)", "foreign_keys(1)", "busy_timeout(5000)"},
	}.Encode()

	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// A single connection serializes writers, which SQLite requires anyway.
	sqlDB.SetMaxOpenConns(1)

	if err := sqlDB.PingContext(context.Background()); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &DB{SqlDB: sqlDB}, nil
}

// Migrate applies all pending schema migrations.
func (db *DB) Migrate(ctx context.Context) error {
	return migrations.Run(ctx, db.SqlDB)
}

// Close closes the underlying connection pool.
func (db *DB) Close() error {
	return db.SqlDB.Close()
}

func (db *DB) Users() domain.UserRepository     { return NewUserRepository(db) }
func (db *DB) Streams() domain.StreamRepository { return NewStreamRepository(db) }
func (db *DB) Posts() domain.PostRepository     { return NewPostRepository(db) }

// WithinTx runs fn against repositories bound to a single transaction. The
// transaction commits when fn returns nil and rolls back otherwise. Panics
// roll back and are rethrown.
func (db *DB) WithinTx(ctx context.Context, fn func(tx domain.Store) error) (err error) {
	tx, err := db.SqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback()
			return
		}
		if cerr := tx.Commit(); cerr != nil {
			err = fmt.Errorf("commit: %w", cerr)
		}
	}()

	return fn(&txStore{tx: tx})
}

// txStore exposes repositories that share one open transaction.
type txStore struct {
	tx *sql.Tx
}

func (s *txStore) Users() domain.UserRepository     { return &UserRepository{db: s.tx} }
func (s *txStore) Streams() domain.StreamRepository { return &StreamRepository{db: s.tx} }
func (s *txStore) Posts() domain.PostRepository     { return &PostRepository{db: s.tx} }

func (s *txStore) WithinTx(_ context.Context, fn func(tx domain.Store) error) error {
	return fn(s)
}
