// Package vector provides interfaces and implementations for vector storage
// with payload filtering.
package vector

import "context"

// Document represents a stored item with its embedding and payload.
type Document struct {
	// ID is the unique identifier of the document, the string form of the
	// source record's UUID.
	ID string

	// Embedding is the vector representation of the document content.
	Embedding []float32

	// Payload holds the filterable, displayable fields of the document.
	Payload map[string]any
}

// QueryResult represents a search result with similarity score.
type QueryResult struct {
	Document

	// Score represents the similarity score (higher = more similar).
	Score float32
}

// FieldType is the index type of a payload field.
type FieldType int

const (
	// FieldKeyword supports exact string matches.
	FieldKeyword FieldType = iota

	// FieldFloat supports numeric range conditions.
	FieldFloat
)

func (t FieldType) String() string {
	switch t {
	case FieldKeyword:
		return "keyword"
	case FieldFloat:
		return "float"
	default:
		return "unknown"
	}
}

// Driver handles storage and retrieval of vector embeddings grouped in
// named collections.
type Driver interface {
	// Upsert stores documents with their embeddings, creating the collection
	// on first use. A document with an existing ID is replaced.
	Upsert(ctx context.Context, collection string, docs []Document) error

	// Search finds up to limit documents most similar to embedding that
	// satisfy filter, ordered by descending score. Filtering on a field with
	// no index returns ErrUnknownField.
	Search(ctx context.Context, collection string, embedding []float32, limit int, filter Filter) ([]QueryResult, error)

	// CreateFieldIndex declares a filterable payload field.
	CreateFieldIndex(ctx context.Context, collection, field string, fieldType FieldType) error

	// DeleteCollection drops a collection and its indexes. A missing
	// collection returns ErrNotFound.
	DeleteCollection(ctx context.Context, collection string) error

	// Close releases any resources held by the driver.
	Close() error
}
