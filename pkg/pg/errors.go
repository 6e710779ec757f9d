package pg

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrOpenConnection     = errors.New("pg: failed to open connection")
	ErrParseConfig        = errors.New("pg: failed to parse connection config")
	ErrHealthcheckFailed  = errors.New("pg: healthcheck failed")
	ErrApplyMigrations    = errors.New("pg: failed to apply migrations")
	ErrMigrationsNotFound = errors.New("pg: migrations directory not found")
)

// IsNotFound reports whether the error indicates an empty query result.
func IsNotFound(err error) bool {
	return err != nil && errors.Is(err, pgx.ErrNoRows)
}

// IsDuplicateKey reports a unique constraint violation (SQLSTATE 23505),
// the database-level guard behind slug and email uniqueness.
func IsDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// IsForeignKeyViolation reports a referential integrity violation
// (SQLSTATE 23503).
func IsForeignKeyViolation(err error) bool {
	if err == nil {
		return false
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23503"
}
