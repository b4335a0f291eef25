// Package postgres implements the microblog store on PostgreSQL through the
// pgx database/sql driver.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/msomdec/microblog/internal/domain"
	"github.com/msomdec/microblog/internal/repository/postgres/migrations"
)

type dbtx interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// DB wraps a PostgreSQL connection pool and implements domain.Database and
// domain.Store.
type DB struct {
	SqlDB *sql.DB
}

// New opens a connection pool for dsn and verifies it is reachable.
func New(ctx context.Context, dsn string) (*DB, error) {
	sqlDB, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetConnMaxIdleTime(5 * time.Minute)

	if err := sqlDB.PingContext(ctx); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &DB{SqlDB: sqlDB}, nil
}

func (db *DB) Migrate(ctx context.Context) error {
	return migrations.Run(ctx, db.SqlDB)
}

func (db *DB) Close() error {
	return db.SqlDB.Close()
}

func (db *DB) Users() domain.UserRepository     { return &UserRepository{db: db.SqlDB} }
func (db *DB) Streams() domain.StreamRepository { return &StreamRepository{db: db.SqlDB} }
func (db *DB) Posts() domain.PostRepository     { return &PostRepository{db: db.SqlDB} }

// WithinTx runs fn inside a read committed transaction. Concurrent writers
// that slip past a uniqueness pre-check are stopped by the unique indexes.
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

type txStore struct {
	tx *sql.Tx
}

func (s *txStore) Users() domain.UserRepository     { return &UserRepository{db: s.tx} }
func (s *txStore) Streams() domain.StreamRepository { return &StreamRepository{db: s.tx} }
func (s *txStore) Posts() domain.PostRepository     { return &PostRepository{db: s.tx} }

func (s *txStore) WithinTx(_ context.Context, fn func(tx domain.Store) error) error {
	return fn(s)
}
