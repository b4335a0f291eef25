package domain

import "context"

// Database defines lifecycle operations for the underlying database.
// Each implementation (SQLite, Postgres) owns its own migration files, so
// the whole backend is swappable.
type Database interface {
	Migrate(ctx context.Context) error
	Close() error
}

// Store gives services access to repositories and a transactional boundary.
// Repositories handed to fn by WithinTx share one transaction that commits
// only if fn returns nil. Calling WithinTx on a transactional Store reuses
// the open transaction.
type Store interface {
	Users() UserRepository
	Streams() StreamRepository
	Posts() PostRepository
	WithinTx(ctx context.Context, fn func(tx Store) error) error
}
