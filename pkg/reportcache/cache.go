// Package reportcache stores generated exhibition reports keyed by
// exhibition id.
package reportcache

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrMiss is returned by Get when no report is cached.
var ErrMiss = errors.New("report not cached")

// Cache holds one report per exhibition.
type Cache interface {
	// Get returns the cached report, or ErrMiss.
	Get(ctx context.Context, exhibitionID uuid.UUID) (string, error)

	// Set stores report, replacing any previous one.
	Set(ctx context.Context, exhibitionID uuid.UUID, report string) error

	// Delete removes the cached report. Deleting a missing entry succeeds.
	Delete(ctx context.Context, exhibitionID uuid.UUID) error

	Close() error
}
