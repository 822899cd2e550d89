package db

import (
	"errors"
	"fmt"
)

// The two kinds of failure a directory operation can report.
var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("already exists")
)

// Refinements naming which collection the failure concerns. They match
// their kind with errors.Is.
var (
	ErrUserNotFound  = fmt.Errorf("user %w", ErrNotFound)
	ErrGroupNotFound = fmt.Errorf("group %w", ErrNotFound)
	ErrUserExists    = fmt.Errorf("user %w", ErrConflict)
	ErrGroupExists   = fmt.Errorf("group %w", ErrConflict)
)

// result maps an operation error to a metrics label.
func result(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrConflict):
		return "conflict"
	default:
		return "error"
	}
}
