package report

import (
	"context"
	"errors"
	"log/slog"

	"github.com/papercomputeco/artomo/pkg/eventstream"
)

// EventSource delivers report events to a handler until ctx is done.
type EventSource interface {
	Run(ctx context.Context, handle eventstream.Handler) error
}

// Worker warms the report cache from report events.
type Worker struct {
	service *Service
	logger  *slog.Logger
}

func NewWorker(service *Service, logger *slog.Logger) *Worker {
	return &Worker{service: service, logger: logger}
}

// Run consumes events from src until ctx is done.
func (w *Worker) Run(ctx context.Context, src EventSource) error {
	w.logger.Info("report worker started")
	defer w.logger.Info("report worker stopped")
	return src.Run(ctx, w.Handle)
}

// Handle generates and caches the report for one event. Events for unknown
// exhibitions are dropped.
func (w *Worker) Handle(ctx context.Context, event *eventstream.ReportRequestedEvent) error {
	if event == nil {
		return eventstream.ErrNilEvent
	}

	_, err := w.service.Exhibition(ctx, event.ExhibitionID, event.Query, event.Refresh)
	if errors.Is(err, ErrExhibitionNotFound) {
		w.logger.Warn("dropping report event for unknown exhibition", "exhibition_id", event.ExhibitionID, "event_id", event.EventID)
		return nil
	}
	return err
}
