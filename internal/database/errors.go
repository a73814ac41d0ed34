package database

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/mattn/go-sqlite3"

	"github.com/go-while/go-words/internal/models"
)

// isUniqueViolation reports whether err is a sqlite UNIQUE/PRIMARY KEY constraint failure
func isUniqueViolation(err error) bool {
	var sqErr sqlite3.Error
	if !errors.As(err, &sqErr) {
		return false
	}
	return sqErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
		sqErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
}

// isForeignKeyViolation reports whether err is a sqlite FOREIGN KEY constraint failure
func isForeignKeyViolation(err error) bool {
	var sqErr sqlite3.Error
	if !errors.As(err, &sqErr) {
		return false
	}
	return sqErr.ExtendedCode == sqlite3.ErrConstraintForeignKey
}

// mapWriteError turns driver errors of INSERT/UPDATE into model errors.
// Foreign key failures on write mean a referenced row is missing.
func mapWriteError(what string, err error) error {
	switch {
	case err == nil:
		return nil
	case isUniqueViolation(err):
		return fmt.Errorf("%s: %w", what, models.ErrConflict)
	case isForeignKeyViolation(err):
		return fmt.Errorf("%s: unknown reference: %w", what, models.ErrInvalid)
	default:
		return fmt.Errorf("%s: %w", what, err)
	}
}

// mapDeleteError turns driver errors of DELETE into model errors.
// Foreign key failures on delete mean the row is still referenced.
func mapDeleteError(what string, err error) error {
	switch {
	case err == nil:
		return nil
	case isForeignKeyViolation(err):
		return fmt.Errorf("%s: still in use: %w", what, models.ErrConflict)
	default:
		return fmt.Errorf("%s: %w", what, err)
	}
}

// mapReadError turns sql.ErrNoRows into models.ErrNotFound
func mapReadError(what string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, sql.ErrNoRows):
		return fmt.Errorf("%s: %w", what, models.ErrNotFound)
	default:
		return fmt.Errorf("%s: %w", what, err)
	}
}

// expectAffected returns models.ErrNotFound when an UPDATE/DELETE touched no row
func expectAffected(what string, res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", what, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", what, models.ErrNotFound)
	}
	return nil
}
