package postgres

import (
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// SQLSTATE codes the repositories translate into domain errors
const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
)

// pgCode returns the SQLSTATE of a Postgres error anywhere in err's chain
func pgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// IsPgDuplicateError reports a unique constraint violation (duplicate username)
func IsPgDuplicateError(err error) bool {
	return pgCode(err) == codeUniqueViolation
}

// IsPgForeignKeyError reports a foreign key violation (materi author missing)
func IsPgForeignKeyError(err error) bool {
	return pgCode(err) == codeForeignKeyViolation
}

// IsPgNoRowsError reports a single-row query that matched nothing
func IsPgNoRowsError(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}

// isUUID reports whether id can be compared against a UUID column.
// Anything else can't match a row, and would make Postgres fail with 22P02.
func isUUID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
