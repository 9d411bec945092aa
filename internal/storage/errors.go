package storage

import "errors"

var (
	// ErrNotFound is returned when a referenced row does not exist.
	ErrNotFound = errors.New("not found")

	// ErrConflict is returned when a write violates a uniqueness or
	// referential constraint. The transaction has been rolled back.
	ErrConflict = errors.New("conflict")
)
