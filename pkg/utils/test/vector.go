package testutils

import (
	"context"
	"sync"

	"github.com/papercomputeco/artomo/pkg/vector"
)

// SearchCall records one Search invocation.
type SearchCall struct {
	Collection string
	Embedding  []float32
	Limit      int
	Filter     vector.Filter
}

// MockVectorDriver is a test vector driver that returns scripted results.
type MockVectorDriver struct {
	mu sync.Mutex

	Results   []vector.QueryResult
	SearchErr error
	UpsertErr error
	IndexErr  error

	Upserted map[string][]vector.Document
	Indexes  map[string]map[string]vector.FieldType
	Searches []SearchCall
	Deleted  []string
}

func NewMockVectorDriver() *MockVectorDriver {
	return &MockVectorDriver{
		Upserted: make(map[string][]vector.Document),
		Indexes:  make(map[string]map[string]vector.FieldType),
	}
}

func (m *MockVectorDriver) Upsert(_ context.Context, collection string, docs []vector.Document) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.UpsertErr != nil {
		return m.UpsertErr
	}
	m.Upserted[collection] = append(m.Upserted[collection], docs...)
	return nil
}

func (m *MockVectorDriver) Search(_ context.Context, collection string, embedding []float32, limit int, filter vector.Filter) ([]vector.QueryResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Searches = append(m.Searches, SearchCall{
		Collection: collection,
		Embedding:  embedding,
		Limit:      limit,
		Filter:     filter,
	})
	if m.SearchErr != nil {
		return nil, m.SearchErr
	}
	if len(m.Results) < limit {
		return m.Results, nil
	}
	return m.Results[:limit], nil
}

func (m *MockVectorDriver) CreateFieldIndex(_ context.Context, collection, field string, fieldType vector.FieldType) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.IndexErr != nil {
		return m.IndexErr
	}
	if m.Indexes[collection] == nil {
		m.Indexes[collection] = make(map[string]vector.FieldType)
	}
	m.Indexes[collection][field] = fieldType
	return nil
}

func (m *MockVectorDriver) DeleteCollection(_ context.Context, collection string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Deleted = append(m.Deleted, collection)
	return nil
}

func (m *MockVectorDriver) Close() error {
	return nil
}

var _ vector.Driver = (*MockVectorDriver)(nil)
