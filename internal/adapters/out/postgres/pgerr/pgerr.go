// Package pgerr translates PostgreSQL failures into workshop error kinds.
package pgerr

import (
	"errors"

	"workshop/internal/pkg/errs"

	"github.com/jackc/pgx/v5/pgconn"
)

// SQLSTATE codes reported when two writers collide on the same rows.
const (
	SerializationFailure = "40001"
	DeadlockDetected     = "40P01"
	LockNotAvailable     = "55P03"
	UniqueViolation      = "23505"
)

// IsConflict reports whether err carries one of the conflict SQLSTATE codes.
func IsConflict(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	switch pgErr.Code {
	case SerializationFailure, DeadlockDetected, LockNotAvailable, UniqueViolation:
		return true
	}
	return false
}

// Classify wraps conflict errors as errs.StorageConflictError and returns any
// other error unchanged.
func Classify(operation string, err error) error {
	if err == nil {
		return nil
	}
	if IsConflict(err) {
		return errs.NewStorageConflictError(operation, err)
	}
	return err
}
