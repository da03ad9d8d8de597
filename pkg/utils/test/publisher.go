package testutils

import (
	"context"
	"sync"

	"github.com/papercomputeco/artomo/pkg/eventstream"
)

// MockPublisher records published events.
type MockPublisher struct {
	Err error

	mu     sync.Mutex
	events []*eventstream.ReportRequestedEvent
}

func NewMockPublisher() *MockPublisher {
	return &MockPublisher{}
}

func (m *MockPublisher) PublishReportRequest(_ context.Context, event *eventstream.ReportRequestedEvent) error {
	if event == nil {
		return eventstream.ErrNilEvent
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.Err != nil {
		return m.Err
	}
	m.events = append(m.events, event)
	return nil
}

// Events returns the events published so far.
func (m *MockPublisher) Events() []*eventstream.ReportRequestedEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*eventstream.ReportRequestedEvent(nil), m.events...)
}

func (m *MockPublisher) Close() error {
	return nil
}

var _ eventstream.Publisher = (*MockPublisher)(nil)
