package eventstream

import "context"

// Publisher publishes report events to an event stream backend.
type Publisher interface {
	PublishReportRequest(ctx context.Context, event *ReportRequestedEvent) error
	Close() error
}

// Handler processes one consumed event. A returned error is logged by the
// consumer; the event is not redelivered.
type Handler func(ctx context.Context, event *ReportRequestedEvent) error
