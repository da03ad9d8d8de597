// Package workercmder provides the worker command that generates queued
// exhibition reports.
package workercmder

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/artomo/cmd/artomo/bootstrap"
	"github.com/papercomputeco/artomo/pkg/config"
	"github.com/papercomputeco/artomo/pkg/eventstream/kafka"
	"github.com/papercomputeco/artomo/pkg/report"
)

const workerLongDesc string = `Run the report worker.

Joins the Kafka consumer group and generates the report for every queued
exhibition, writing it to the report cache so later report requests are
served without a language model call.

Examples:
  artomo worker --brokers localhost:9092
  artomo worker --report-cache redis --report-cache-target localhost:6379`

const workerShortDesc string = "Generate queued exhibition reports"

var workerFlags = append([]string{
	config.FlagLLMTarget,
	config.FlagLLMModel,
	config.FlagReportCacheProv,
	config.FlagReportCacheTgt,
	config.FlagEventStreamBrk,
	config.FlagEventStreamTopic,
}, config.StorageFlags...)

type workerCommander struct {
	cfg    *config.Config
	logger *slog.Logger
}

func NewWorkerCmd() *cobra.Command {
	cmder := &workerCommander{}

	cmd := &cobra.Command{
		Use:   "worker",
		Short: workerShortDesc,
		Long:  workerLongDesc,
		Args:  cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			cmder.cfg, err = bootstrap.Load(cmd, workerFlags...)
			return err
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			log, err := bootstrap.Logger(cmd, "worker")
			if err != nil {
				return err
			}
			cmder.logger = log
			return cmder.run(cmd.Context())
		},
	}

	config.AddFlags(cmd, config.Flags, workerFlags...)

	return cmd
}

func (c *workerCommander) run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := bootstrap.NewStore(ctx, c.cfg, c.logger)
	if err != nil {
		return err
	}
	defer store.Close()

	generator, err := bootstrap.NewGenerator(c.cfg, c.logger)
	if err != nil {
		return err
	}

	cache, err := bootstrap.NewReportCache(ctx, c.cfg, c.logger)
	if err != nil {
		return err
	}
	defer cache.Close()

	consumer, err := kafka.NewConsumer(bootstrap.KafkaConfig(c.cfg), c.logger)
	if err != nil {
		return fmt.Errorf("creating report consumer: %w", err)
	}
	defer consumer.Close()

	worker := report.NewWorker(report.NewService(store, cache, generator, c.logger), c.logger)
	return worker.Run(ctx, consumer)
}
