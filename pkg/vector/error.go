package vector

import "errors"

var (
	// ErrNotFound is returned when a collection is not found in the vector store.
	ErrNotFound = errors.New("collection not found")

	// ErrConnection is returned when the vector store connection fails.
	ErrConnection = errors.New("vector store connection failed")

	// ErrUnknownField is returned when a filter names a field that has no
	// payload index.
	ErrUnknownField = errors.New("filter field is not indexed")
)
