// Package postgres contains the PostgreSQL implementations of the store
// interfaces.
package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// PostgreSQL error codes we care about.
const (
	pgUniqueViolationCode     = "23505"
	pgForeignKeyViolationCode = "23503"
)

// uniqueViolationConstraint returns the name of the violated unique
// constraint if the error is a PostgreSQL unique violation, or "" otherwise.
// The constraint name tells us which field (email, username) collided.
func uniqueViolationConstraint(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolationCode {
		return pgErr.ConstraintName
	}
	return ""
}

// isForeignKeyViolation checks if the given error is a PostgreSQL foreign
// key constraint violation, such as a task referencing a missing user.
func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgForeignKeyViolationCode
}
