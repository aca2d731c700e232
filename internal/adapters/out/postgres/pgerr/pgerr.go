// Package pgerr maps PostgreSQL outcomes onto the errs taxonomy: driver
// error codes on insert, and zero-row versioned updates.
package pgerr

import (
	"errors"

	"labflow/internal/pkg/errs"

	"github.com/jackc/pgx/v5/pgconn"
)

const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"
)

// IsUniqueViolation reports whether err is a unique constraint violation.
func IsUniqueViolation(err error) bool {
	return hasCode(err, uniqueViolation)
}

// IsForeignKeyViolation reports whether err is a foreign key violation.
func IsForeignKeyViolation(err error) bool {
	return hasCode(err, foreignKeyViolation)
}

// TranslateInsert maps insert failures: a duplicate row becomes a
// ConcurrencyConflictError for entity/id. Other errors pass through.
func TranslateInsert(err error, entity string, id any) error {
	if err == nil {
		return nil
	}
	if IsUniqueViolation(err) {
		return errs.NewConcurrencyConflictError(entity, id)
	}
	return err
}

func hasCode(err error, code string) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == code
	}
	return false
}
