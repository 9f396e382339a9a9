// Copyright (c) 2026 Revio. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package dberr provides a bridge between low-level database errors and
// higher-level application errors.
//
// # Constraint Translation
//
// The uniqueness invariants of the review platform (one review per
// (title, author), unique usernames/emails/slugs) are enforced by PostgreSQL
// constraints, not only by application pre-checks. Two concurrent creations
// for the same key therefore race at the storage layer, and the loser's
// SQLSTATE 23505 must be translated into a domain error instead of leaking
// as a raw storage fault.
package dberr

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/taibuivan/revio/internal/platform/apperr"
)

// PostgreSQL SQLSTATE classes handled by this package.
const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
)

var (
	// ErrNotFound is a standard error returned when a queried row doesn't exist.
	ErrNotFound = apperr.NotFound("Resource")
)

// Wrap inspects a database error and wraps it into a meaningful [apperr.AppError].
// It hides internal database details from the client while classifying the error type.
func Wrap(err error, action string) error {
	if err == nil {
		return nil
	}

	// 1. Not Found mapping
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}

	// 2. Constraint violations become client errors
	var pgError *pgconn.PgError
	if errors.As(err, &pgError) {
		switch pgError.Code {
		case codeUniqueViolation:
			return apperr.Conflict("Resource already exists")
		case codeForeignKeyViolation:
			return apperr.ValidationError("Referenced resource does not exist")
		}
	}

	// 3. Unknown query errors become Internal Server Errors
	return apperr.Internal(err)
}

// IsUniqueViolation reports whether err is a PostgreSQL unique-constraint
// violation, optionally matching a specific constraint name.
//
// Stores use this to translate a specific constraint into a specific domain
// error (e.g. the one-review-per-title rule reports a validation failure,
// not a generic conflict).
func IsUniqueViolation(err error, constraint string) bool {
	var pgError *pgconn.PgError
	if !errors.As(err, &pgError) {
		return false
	}
	if pgError.Code != codeUniqueViolation {
		return false
	}
	return constraint == "" || pgError.ConstraintName == constraint
}
