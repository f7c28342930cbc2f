package usecase

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNotFound           = errors.New("resource not found")
	ErrForbidden          = errors.New("actor not authorized to perform this action")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrBanned             = errors.New("account is banned")
)

// ValidationError reports every violating field, not just the first.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Fields, ", ")
}

// ConflictError marks a violated uniqueness or state invariant, such as a
// duplicate pending swap request.
type ConflictError struct {
	Reason string
}

func (e *ConflictError) Error() string {
	return "conflict: " + e.Reason
}

// InvalidOperationError marks an operation the current state or actor can
// never perform, such as requesting a swap on one's own item.
type InvalidOperationError struct {
	Reason string
}

func (e *InvalidOperationError) Error() string {
	return "invalid operation: " + e.Reason
}

func invalidTransition(from, to string) *InvalidOperationError {
	return &InvalidOperationError{Reason: fmt.Sprintf("cannot transition item from %s to %s", from, to)}
}
