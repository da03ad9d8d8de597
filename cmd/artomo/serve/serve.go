// Package servecmder provides the serve command running the artomo API
// server.
package servecmder

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/papercomputeco/artomo/api"
	"github.com/papercomputeco/artomo/api/mcp"
	"github.com/papercomputeco/artomo/api/recommend"
	"github.com/papercomputeco/artomo/cmd/artomo/bootstrap"
	"github.com/papercomputeco/artomo/pkg/config"
	"github.com/papercomputeco/artomo/pkg/eventstream/kafka"
	"github.com/papercomputeco/artomo/pkg/report"
)

const serveLongDesc string = `Run the artomo API server.

Endpoints:
  GET  /ping                      Health check
  GET  /v1/exhibitions/active     Active exhibitions grouped by area
  POST /v1/recommend              Recommend exhibitions with a report
  POST /v1/exhibition_reports     Report for one exhibition
  ALL  /mcp                       MCP endpoint (recommend_exhibitions tool)

Every recommendation queues one report task per exhibition. With
--with-worker and the kafka event stream, the report worker runs in the
same process and shares the record store.

Examples:
  artomo serve
  artomo serve --listen :9000 --vector-store-provider qdrant --vector-store-target localhost:6334
  artomo serve --eventstream kafka --brokers localhost:9092 --with-worker`

const serveShortDesc string = "Run the artomo API server"

var serveFlags = append(append([]string{
	config.FlagAPIListen,
	config.FlagRerankerProv,
	config.FlagRerankerTgt,
	config.FlagLLMTarget,
	config.FlagLLMModel,
	config.FlagReportCacheProv,
	config.FlagReportCacheTgt,
	config.FlagEventStreamProv,
	config.FlagEventStreamBrk,
	config.FlagEventStreamTopic,
}, config.StorageFlags...), config.VectorFlags...)

type serveCommander struct {
	withWorker bool
	noMCP      bool

	cfg    *config.Config
	logger *slog.Logger
}

func NewServeCmd() *cobra.Command {
	cmder := &serveCommander{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: serveShortDesc,
		Long:  serveLongDesc,
		Args:  cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			cmder.cfg, err = bootstrap.Load(cmd, serveFlags...)
			return err
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			log, err := bootstrap.Logger(cmd, "api")
			if err != nil {
				return err
			}
			cmder.logger = log
			return cmder.run(cmd.Context())
		},
	}

	config.AddFlags(cmd, config.Flags, serveFlags...)
	cmd.Flags().BoolVar(&cmder.withWorker, "with-worker", false, "Run the report worker in this process")
	cmd.Flags().BoolVar(&cmder.noMCP, "no-mcp", false, "Serve an empty MCP endpoint")

	return cmd
}

func (c *serveCommander) run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := c.cfg
	if c.withWorker && cfg.EventStream.Provider != "kafka" {
		return errors.New("--with-worker requires the kafka event stream")
	}

	store, err := bootstrap.NewStore(ctx, cfg, c.logger)
	if err != nil {
		return err
	}
	defer store.Close()

	vectors, err := bootstrap.NewVectorDriver(ctx, cfg, c.logger)
	if err != nil {
		return err
	}
	defer vectors.Close()

	embedder, err := bootstrap.NewEmbedder(ctx, cfg, c.logger)
	if err != nil {
		return err
	}
	defer embedder.Close()

	retriever, err := bootstrap.NewRetriever(cfg, embedder, vectors, c.logger)
	if err != nil {
		return err
	}

	generator, err := bootstrap.NewGenerator(cfg, c.logger)
	if err != nil {
		return err
	}

	cache, err := bootstrap.NewReportCache(ctx, cfg, c.logger)
	if err != nil {
		return err
	}
	defer cache.Close()

	publisher, err := bootstrap.NewPublisher(cfg, c.logger)
	if err != nil {
		return err
	}
	defer publisher.Close()

	reports := report.NewService(store, cache, generator, c.logger)
	recommender := recommend.NewRecommender(retriever, generator, store, publisher, c.logger)

	mcpServer, err := mcp.NewServer(mcp.Config{
		Recommender: recommender,
		Reports:     reports,
		Noop:        c.noMCP,
		Logger:      c.logger,
	})
	if err != nil {
		return fmt.Errorf("creating MCP server: %w", err)
	}

	server, err := api.NewServer(api.Config{
		ListenAddr:   cfg.API.Listen,
		Recommender:  recommender,
		Reports:      reports,
		VectorDriver: vectors,
		MCPHandler:   mcpServer.Handler(),
	}, store, c.logger)
	if err != nil {
		return fmt.Errorf("creating API server: %w", err)
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := server.Run(ctx); err != nil {
			return fmt.Errorf("API server error: %w", err)
		}
		return nil
	})

	if c.withWorker {
		consumer, err := kafka.NewConsumer(bootstrap.KafkaConfig(cfg), c.logger)
		if err != nil {
			return fmt.Errorf("creating report consumer: %w", err)
		}
		defer consumer.Close()

		worker := report.NewWorker(reports, c.logger)
		g.Go(func() error {
			return worker.Run(ctx, consumer)
		})
	}

	return g.Wait()
}
