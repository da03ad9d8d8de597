package content

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Vector store collections holding embedded documents.
const (
	ExhibitionsCollection = "embedded_exhibitions"
	ReflectionsCollection = "embedded_reflections"
)

// EmbeddingMetadata records which model produced a vector so stale
// embeddings can be detected after a model change.
type EmbeddingMetadata struct {
	ModelID        string `json:"embedding_model_id"`
	Size           int    `json:"embedding_size"`
	MaxInputLength int    `json:"max_input_length"`
}

// Field is one labelled line of rendered context.
type Field struct {
	Key   string
	Value string
}

// Embedded is a cleaned record paired with its vector. Vector returns nil
// until the embedding stage has run; such documents must not be searched.
type Embedded interface {
	Record
	Vector() []float32
	Provenance() EmbeddingMetadata
	Collection() string
	ContextFields() []Field
	embedded()
}

type EmbeddedExhibition struct {
	CleanedExhibition
	Embedding []float32         `json:"-"`
	Metadata  EmbeddingMetadata `json:"metadata"`
}

func (e *EmbeddedExhibition) Vector() []float32 { return e.Embedding }

func (e *EmbeddedExhibition) Provenance() EmbeddingMetadata { return e.Metadata }

func (*EmbeddedExhibition) Collection() string { return ExhibitionsCollection }

func (*EmbeddedExhibition) embedded() {}

func (e *EmbeddedExhibition) ContextFields() []Field {
	return []Field{
		{Key: "Name", Value: e.Name},
		{Key: "Description", Value: e.Description},
		{Key: "Start Date", Value: formatDate(e.StartDate)},
		{Key: "End Date", Value: formatDate(e.EndDate)},
		{Key: "Gallery ID", Value: e.GalleryID.String()},
	}
}

type EmbeddedReflection struct {
	CleanedReflection
	Embedding []float32         `json:"-"`
	Metadata  EmbeddingMetadata `json:"metadata"`
}

func (r *EmbeddedReflection) Vector() []float32 { return r.Embedding }

func (r *EmbeddedReflection) Provenance() EmbeddingMetadata { return r.Metadata }

func (*EmbeddedReflection) Collection() string { return ReflectionsCollection }

func (*EmbeddedReflection) embedded() {}

func (r *EmbeddedReflection) ContextFields() []Field {
	fields := []Field{
		{Key: "Name", Value: r.Name},
		{Key: "Reflection", Value: r.Content},
	}
	if r.ReflectionDate != nil {
		fields = append(fields, Field{Key: "Date", Value: formatDate(*r.ReflectionDate)})
	}
	return fields
}

// EmbeddedQuery is never stored; it exists to carry the query vector into
// the search.
type EmbeddedQuery struct {
	CleanedQuery
	Embedding []float32         `json:"-"`
	Metadata  EmbeddingMetadata `json:"embedding_metadata"`
}

func (q *EmbeddedQuery) Vector() []float32 { return q.Embedding }

func (q *EmbeddedQuery) Provenance() EmbeddingMetadata { return q.Metadata }

func (*EmbeddedQuery) Collection() string { return "" }

func (*EmbeddedQuery) embedded() {}

func (q *EmbeddedQuery) ContextFields() []Field {
	return []Field{{Key: "Query", Value: q.Content}}
}

// Payload flattens an embedded document into the JSON object stored next to
// its vector. Times become RFC 3339 strings, ids become strings.
func Payload(doc Embedded) (map[string]any, error) {
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encoding payload: %w", err)
	}

	var payload map[string]any
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("decoding payload: %w", err)
	}
	delete(payload, "id")
	return payload, nil
}

// ExhibitionFromPayload rebuilds an EmbeddedExhibition from a stored payload.
func ExhibitionFromPayload(id uuid.UUID, payload map[string]any, vector []float32) (*EmbeddedExhibition, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encoding payload: %w", err)
	}

	doc := &EmbeddedExhibition{}
	if err := json.Unmarshal(data, doc); err != nil {
		return nil, fmt.Errorf("decoding exhibition payload: %w", err)
	}
	doc.ID = id
	doc.Embedding = vector
	return doc, nil
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.DateOnly)
}
