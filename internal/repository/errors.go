package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

const (
	pqUniqueViolation     = "23505"
	pqForeignKeyViolation = "23503"
)

var (
	// ErrNotFound is returned when no row matched the lookup or mutation.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicateKey is matched by every *DuplicateKeyError.
	ErrDuplicateKey = errors.New("duplicate key value")

	// ErrForeignKeyViolation is returned when a referenced row does not exist.
	ErrForeignKeyViolation = errors.New("foreign key violation")

	// ErrInvalidPassword is returned by VerifyPassword on a hash mismatch.
	ErrInvalidPassword = errors.New("invalid password")
)

// DuplicateKeyError reports which unique constraint rejected a write.
type DuplicateKeyError struct {
	Constraint string
	Err        error
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("duplicate key value violates unique constraint %q", e.Constraint)
}

func (e *DuplicateKeyError) Unwrap() error {
	return e.Err
}

func (e *DuplicateKeyError) Is(target error) bool {
	return target == ErrDuplicateKey
}

// IsDuplicate reports whether err is a unique violation on the given constraint.
func IsDuplicate(err error, constraint string) bool {
	var dup *DuplicateKeyError
	return errors.As(err, &dup) && dup.Constraint == constraint
}

// mapPQError turns constraint violations reported by Postgres into
// repository errors; anything else is returned unchanged.
func mapPQError(err error) error {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return err
	}

	switch pqErr.Code {
	case pqUniqueViolation:
		return &DuplicateKeyError{Constraint: pqErr.Constraint, Err: err}
	case pqForeignKeyViolation:
		return fmt.Errorf("%w: %s: %v", ErrForeignKeyViolation, pqErr.Constraint, err)
	}
	return err
}

func withTx(ctx context.Context, db *sqlx.DB, fn func(tx *sqlx.Tx) error) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func checkAffected(res interface{ RowsAffected() (int64, error) }) error {
	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
