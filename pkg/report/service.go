package report

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"github.com/papercomputeco/artomo/pkg/records"
	"github.com/papercomputeco/artomo/pkg/reportcache"
)

// Service serves exhibition reports from the cache and generates them on
// a miss.
type Service struct {
	store     records.Store
	cache     reportcache.Cache
	generator *Generator
	logger    *slog.Logger
}

func NewService(store records.Store, cache reportcache.Cache, generator *Generator, logger *slog.Logger) *Service {
	return &Service{store: store, cache: cache, generator: generator, logger: logger}
}

// Exhibition returns the report for an exhibition. Unless refresh is set a
// cached report is returned as is; otherwise the report is generated and
// cached. An unknown id returns ErrExhibitionNotFound.
func (s *Service) Exhibition(ctx context.Context, id uuid.UUID, query map[string]string, refresh bool) (string, error) {
	logger := s.logger.With("exhibition_id", id)

	if !refresh {
		cached, err := s.cache.Get(ctx, id)
		switch {
		case err == nil:
			logger.Debug("report cache hit")
			return cached, nil
		case !errors.Is(err, reportcache.ErrMiss):
			logger.Warn("reading report cache", "error", err)
		}
	}

	exhibition, err := records.ExhibitionByID(ctx, s.store, id)
	if errors.Is(err, records.ErrNotFound) {
		return "", ErrExhibitionNotFound
	}
	if err != nil {
		return "", err
	}

	report, err := s.generator.Exhibition(ctx, query, exhibition)
	if err != nil {
		return "", err
	}

	if err := s.cache.Set(ctx, id, report); err != nil {
		logger.Warn("writing report cache", "error", err)
	}
	logger.Info("report generated", "refresh", refresh)
	return report, nil
}
