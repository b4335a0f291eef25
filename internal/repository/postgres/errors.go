package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
)

// Constraint names follow the PostgreSQL defaults for inline UNIQUE columns.
const (
	constraintUsersUsername = "users_username_key"
	constraintUsersEmail    = "users_email_key"
	constraintStreamsName   = "streams_name_key"
)

func pgError(err error) *pgconn.PgError {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr
	}
	return nil
}

func uniqueViolation(err error, constraint string) bool {
	pgErr := pgError(err)
	return pgErr != nil && pgErr.Code == codeUniqueViolation && pgErr.ConstraintName == constraint
}

func foreignKeyViolation(err error) bool {
	pgErr := pgError(err)
	return pgErr != nil && pgErr.Code == codeForeignKeyViolation
}
