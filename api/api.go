package api

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"

	"github.com/papercomputeco/artomo/pkg/pipeline"
	"github.com/papercomputeco/artomo/pkg/records"
)

// Server is the API server for recommending exhibitions.
type Server struct {
	config Config
	store  records.Store
	logger *slog.Logger
	app    *fiber.App
	now    func() time.Time
}

// NewServer creates a new API server.
// The record store is injected so it can be shared with the report worker
// when both run in one process.
func NewServer(config Config, store records.Store, logger *slog.Logger) (*Server, error) {
	if store == nil {
		return nil, errors.New("record store is required")
	}
	if config.Recommender == nil {
		return nil, errors.New("recommender is required")
	}
	if config.Reports == nil {
		return nil, errors.New("report service is required")
	}

	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})

	s := &Server{
		config: config,
		store:  store,
		logger: logger,
		app:    app,
		now:    time.Now,
	}

	app.Get("/ping", s.handlePing)

	v1 := app.Group("/v1")
	v1.Get("/exhibitions/active", s.handleActiveExhibitions)
	v1.Post("/recommend", s.handleRecommend)
	v1.Post("/exhibition_reports", s.handleExhibitionReports)

	if config.MCPHandler != nil {
		app.All("/mcp", adaptor.HTTPHandler(config.MCPHandler))
	}

	return s, nil
}

// Run creates the payload indices and serves until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	if s.config.VectorDriver != nil {
		created := pipeline.InitializeIndices(ctx, s.config.VectorDriver, s.logger)
		s.logger.Info("payload indices ready", "created", created)
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting API server", "listen", s.config.ListenAddr)
		errCh <- s.app.Listen(s.config.ListenAddr)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		s.logger.Info("shutting down API server")
		return s.Shutdown()
	}
}

// Shutdown gracefully shuts down the API server.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}
