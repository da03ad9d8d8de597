package records

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when no record matches a lookup.
	ErrNotFound = errors.New("record not found")

	// ErrConflict is returned when an insert violates a uniqueness
	// constraint.
	ErrConflict = errors.New("record already exists")
)

// OperationError wraps a backend failure with the operation and collection
// it occurred in.
type OperationError struct {
	Op         string
	Collection string
	Err        error
}

func (e *OperationError) Error() string {
	return fmt.Sprintf("record store %s on %s: %v", e.Op, e.Collection, e.Err)
}

func (e *OperationError) Unwrap() error {
	return e.Err
}
