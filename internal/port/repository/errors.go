package repository

import "errors"

var (
	// ErrNotFound is returned when the referenced document does not resolve.
	ErrNotFound = errors.New("document not found")
	// ErrDuplicate is returned when a write violates a uniqueness guard
	// (duplicate email, duplicate pending swap request).
	ErrDuplicate = errors.New("duplicate document")
)
