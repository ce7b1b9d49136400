package repository

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolationCode = "23505"

// isNoRows reports whether err is pgx's empty-result sentinel.
func isNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}

// IsNotFound is the exported form for service-layer checks.
func IsNotFound(err error) bool {
	return isNoRows(err)
}

// IsUniqueViolation reports whether err is a postgres unique-constraint
// violation. Services use it to turn insert races into their domain errors.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode
}
