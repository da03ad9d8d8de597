package nop

import (
	"context"

	"github.com/papercomputeco/artomo/pkg/eventstream"
)

// Publisher is a no-op eventstream publisher used for tests and disabled mode.
type Publisher struct{}

func NewPublisher() *Publisher {
	return &Publisher{}
}

// PublishReportRequest validates input and otherwise does nothing.
func (p *Publisher) PublishReportRequest(_ context.Context, event *eventstream.ReportRequestedEvent) error {
	if event == nil {
		return eventstream.ErrNilEvent
	}

	return nil
}

// Close is a no-op.
func (p *Publisher) Close() error {
	return nil
}

var _ eventstream.Publisher = (*Publisher)(nil)
