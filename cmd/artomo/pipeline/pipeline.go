// Package pipelinecmder provides the pipeline command that loads records
// into the vector store.
package pipelinecmder

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/artomo/cmd/artomo/bootstrap"
	"github.com/papercomputeco/artomo/pkg/cliui"
	"github.com/papercomputeco/artomo/pkg/config"
	"github.com/papercomputeco/artomo/pkg/content"
	"github.com/papercomputeco/artomo/pkg/pipeline"
	"github.com/papercomputeco/artomo/pkg/preprocess"
)

const pipelineLongDesc string = `Run the feature pipeline.

Reads exhibitions and reflections from the record store, cleans and embeds
them, and upserts the embedded documents into the vector store. Documents
keep their record ids, so re-running the pipeline replaces rather than
duplicates. Payload indexes are created afterwards.

Examples:
  artomo pipeline
  artomo pipeline --sources exhibition
  artomo pipeline --embedding-provider tei --embedding-target http://localhost:8082`

const pipelineShortDesc string = "Embed records into the vector store"

var pipelineFlags = append(append([]string{
	config.FlagLoadBatchSize,
	config.FlagEmbedBatchSize,
}, config.StorageFlags...), config.VectorFlags...)

type pipelineCommander struct {
	sources []string

	cfg    *config.Config
	logger *slog.Logger
}

func NewPipelineCmd() *cobra.Command {
	cmder := &pipelineCommander{}

	cmd := &cobra.Command{
		Use:   "pipeline",
		Short: pipelineShortDesc,
		Long:  pipelineLongDesc,
		Args:  cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			cmder.cfg, err = bootstrap.Load(cmd, pipelineFlags...)
			return err
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			log, err := bootstrap.Logger(cmd, "pipeline")
			if err != nil {
				return err
			}
			cmder.logger = log
			return cmder.run(cmd.Context())
		},
	}

	config.AddFlags(cmd, config.Flags, pipelineFlags...)
	cmd.Flags().StringSliceVar(&cmder.sources, "sources", nil, "Categories to embed (default: exhibition, reflection)")

	return cmd
}

// ParseSources maps category names to categories.
func ParseSources(names []string) ([]content.Category, error) {
	out := make([]content.Category, 0, len(names))
	for _, name := range names {
		c, err := content.ParseCategory(strings.TrimSpace(name))
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

func (c *pipelineCommander) run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := []pipeline.Option{
		pipeline.WithLoadBatchSize(int(c.cfg.Pipeline.LoadBatchSize)),
		pipeline.WithEmbedBatchSize(int(c.cfg.Pipeline.EmbedBatchSize)),
	}
	if len(c.sources) > 0 {
		sources, err := ParseSources(c.sources)
		if err != nil {
			return err
		}
		opts = append(opts, pipeline.WithSources(sources...), pipeline.WithFetchWorkers(len(sources)))
	}

	store, err := bootstrap.NewStore(ctx, c.cfg, c.logger)
	if err != nil {
		return err
	}
	defer store.Close()

	vectors, err := bootstrap.NewVectorDriver(ctx, c.cfg, c.logger)
	if err != nil {
		return err
	}
	defer vectors.Close()

	embedder, err := bootstrap.NewEmbedder(ctx, c.cfg, c.logger)
	if err != nil {
		return err
	}
	defer embedder.Close()

	p := pipeline.New(
		store,
		vectors,
		preprocess.NewCleaningDispatcher(preprocess.DefaultCleaningHandlers(), c.logger),
		preprocess.NewEmbeddingDispatcher(embedder, preprocess.DefaultEmbeddingHandlers(), c.logger),
		c.logger,
		opts...,
	)

	var result *pipeline.Result
	err = cliui.Step(os.Stdout, "Running feature pipeline", func() error {
		var runErr error
		result, runErr = p.Run(ctx)
		return runErr
	})
	if result != nil {
		fmt.Printf("\n%s\n\n", result.Summary())
	}
	if err != nil {
		return err
	}

	created := pipeline.InitializeIndices(ctx, vectors, c.logger)
	fmt.Printf("  %s %s\n\n", cliui.SuccessMark, cliui.DimStyle.Render(fmt.Sprintf("%d payload indexes created", created)))
	return nil
}
