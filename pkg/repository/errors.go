package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

const pgUndefinedTableCode = "42P01"

// ErrSchemaMissing indicates the target table does not exist; run migrations.
var ErrSchemaMissing = errors.New("database schema missing")

// MapError translates database errors to domain errors.
// sql.ErrNoRows maps to notFoundErr and an undefined table (42P01) to
// ErrSchemaMissing. Other errors are returned unchanged.
func MapError(err error, notFoundErr error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, sql.ErrNoRows) {
		return notFoundErr
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUndefinedTableCode {
		return fmt.Errorf("%w: %s", ErrSchemaMissing, pgErr.Message)
	}

	return err
}
