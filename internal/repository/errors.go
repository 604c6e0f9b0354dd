// Package repository holds the errors every store implementation returns and
// testify doubles of the domain repository contracts.
package repository

import "errors"

var (
	// ErrNotFound is returned when a requested entity doesn't exist for the owner
	ErrNotFound = errors.New("not found")

	// ErrConflict is returned when a unique constraint rejects a write
	ErrConflict = errors.New("conflict: unique constraint violated")

	// ErrForeignKeyViolation is returned when a write references a missing row or
	// a delete would orphan one
	ErrForeignKeyViolation = errors.New("foreign key violation")
)
