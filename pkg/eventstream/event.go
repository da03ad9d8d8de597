package eventstream

import (
	"time"

	"github.com/google/uuid"
)

const (
	// SchemaVersionV1 is the first version of the event payload schema.
	SchemaVersionV1 = 1

	// EventTypeReportRequested asks a worker to generate and cache the
	// report for one exhibition.
	EventTypeReportRequested = "artomo.report.requested"
)

// ReportRequestedEvent is a transport-neutral report generation task.
type ReportRequestedEvent struct {
	SchemaVersion int       `json:"schema_version"`
	EventType     string    `json:"event_type"`
	EventID       string    `json:"event_id"`
	EmittedAt     time.Time `json:"emitted_at"`

	ExhibitionID uuid.UUID `json:"exhibition_id"`

	// Query is the structured query the report is tailored to.
	Query map[string]string `json:"query,omitempty"`

	// Refresh regenerates the report even when one is cached.
	Refresh bool `json:"refresh"`
}

// NewReportRequestedEvent builds a v1 event for one exhibition.
func NewReportRequestedEvent(exhibitionID uuid.UUID, query map[string]string, now time.Time) *ReportRequestedEvent {
	return &ReportRequestedEvent{
		SchemaVersion: SchemaVersionV1,
		EventType:     EventTypeReportRequested,
		EventID:       uuid.NewString(),
		EmittedAt:     now.UTC(),
		ExhibitionID:  exhibitionID,
		Query:         query,
	}
}
