// Package bootstrap resolves configuration and constructs the shared
// services artomo commands run on.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/artomo/pkg/config"
	"github.com/papercomputeco/artomo/pkg/embeddings"
	embeddingutils "github.com/papercomputeco/artomo/pkg/embeddings/utils"
	"github.com/papercomputeco/artomo/pkg/eventstream"
	"github.com/papercomputeco/artomo/pkg/eventstream/kafka"
	"github.com/papercomputeco/artomo/pkg/eventstream/nop"
	"github.com/papercomputeco/artomo/pkg/logger"
	"github.com/papercomputeco/artomo/pkg/preprocess"
	"github.com/papercomputeco/artomo/pkg/records"
	recordsutils "github.com/papercomputeco/artomo/pkg/records/utils"
	"github.com/papercomputeco/artomo/pkg/report"
	"github.com/papercomputeco/artomo/pkg/report/openai"
	"github.com/papercomputeco/artomo/pkg/reportcache"
	cacheinmemory "github.com/papercomputeco/artomo/pkg/reportcache/inmemory"
	"github.com/papercomputeco/artomo/pkg/reportcache/redis"
	"github.com/papercomputeco/artomo/pkg/rerank/tei"
	"github.com/papercomputeco/artomo/pkg/retrieval"
	"github.com/papercomputeco/artomo/pkg/vector"
	vectorutils "github.com/papercomputeco/artomo/pkg/vector/utils"
)

// Load resolves the config for cmd: registered flags override ARTOMO_*
// environment variables, which override config.toml, which overrides
// defaults.
func Load(cmd *cobra.Command, flagKeys ...string) (*config.Config, error) {
	configDir, _ := cmd.Flags().GetString("config-dir")

	v, err := config.InitViper(configDir)
	if err != nil {
		return nil, err
	}

	config.BindRegisteredFlags(v, cmd, config.Flags, flagKeys)

	cfg, err := config.FromViper(v)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

// Logger builds the command logger from the persistent --debug, --log-json
// and --log-file flags. Console logs go to stderr so command output stays
// pipeable; --log-file additionally appends JSON lines to the named file,
// which stays open for the life of the process.
func Logger(cmd *cobra.Command, service string) (*slog.Logger, error) {
	debug, _ := cmd.Flags().GetBool("debug")
	asJSON, _ := cmd.Flags().GetBool("log-json")
	logFile, _ := cmd.Flags().GetString("log-file")

	console := logger.New(
		logger.WithDebug(debug),
		logger.WithPretty(!asJSON),
		logger.WithJSON(asJSON),
		logger.WithService(service),
		logger.WithWriter(os.Stderr),
	)
	if logFile == "" {
		return console, nil
	}

	f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("opening log file: %w", err)
	}
	file := logger.New(
		logger.WithDebug(debug),
		logger.WithJSON(true),
		logger.WithService(service),
		logger.WithWriter(f),
	)
	return logger.Multi(console, file), nil
}

// NewStore opens the configured record store.
func NewStore(ctx context.Context, cfg *config.Config, log *slog.Logger) (records.Store, error) {
	target := cfg.Storage.SQLitePath
	if cfg.Storage.Provider == "postgres" {
		target = cfg.Storage.PostgresDSN
	}

	store, err := recordsutils.NewStore(ctx, &recordsutils.NewStoreOpts{
		ProviderType: cfg.Storage.Provider,
		Target:       target,
		Logger:       log,
	})
	if err != nil {
		return nil, fmt.Errorf("opening record store: %w", err)
	}

	log.Info("record store ready", "provider", cfg.Storage.Provider)
	return store, nil
}

// NewVectorDriver opens the configured vector store.
func NewVectorDriver(ctx context.Context, cfg *config.Config, log *slog.Logger) (vector.Driver, error) {
	driver, err := vectorutils.NewVectorDriver(ctx, &vectorutils.NewVectorDriverOpts{
		ProviderType: cfg.VectorStore.Provider,
		TargetURL:    cfg.VectorStore.Target,
		APIKey:       cfg.VectorStore.APIKey,
		Dimensions:   cfg.Embedding.Dimensions,
		Logger:       log,
	})
	if err != nil {
		return nil, fmt.Errorf("opening vector store: %w", err)
	}

	log.Info("vector store ready", "provider", cfg.VectorStore.Provider, "target", cfg.VectorStore.Target)
	return driver, nil
}

// NewEmbedder connects the configured embedding model.
func NewEmbedder(ctx context.Context, cfg *config.Config, log *slog.Logger) (embeddings.Embedder, error) {
	embedder, err := embeddingutils.NewEmbedder(ctx, &embeddingutils.NewEmbedderOpts{
		ProviderType:   cfg.Embedding.Provider,
		TargetURL:      cfg.Embedding.Target,
		Model:          cfg.Embedding.Model,
		Dimensions:     int(cfg.Embedding.Dimensions),
		MaxInputLength: int(cfg.Embedding.MaxInputLength),
	})
	if err != nil {
		return nil, fmt.Errorf("creating embedder: %w", err)
	}

	log.Info("embedder ready", "provider", cfg.Embedding.Provider, "model", cfg.Embedding.Model)
	return embedder, nil
}

// NewReranker returns the configured cross-encoder, or the passthrough
// reranker for the "mock" provider.
func NewReranker(cfg *config.Config) (*retrieval.Reranker, error) {
	switch cfg.Reranker.Provider {
	case "tei":
		if cfg.Reranker.Target == "" {
			return nil, errors.New("reranker target is required for the tei provider")
		}
		return retrieval.NewReranker(tei.NewScorer(cfg.Reranker.Target)), nil
	case "mock", "":
		return retrieval.NewMockReranker(), nil
	default:
		return nil, fmt.Errorf("unsupported reranker provider: %s", cfg.Reranker.Provider)
	}
}

// NewRetriever wires the query embedder, vector store and reranker.
func NewRetriever(cfg *config.Config, embedder embeddings.Embedder, vectors vector.Driver, log *slog.Logger) (*retrieval.Retriever, error) {
	reranker, err := NewReranker(cfg)
	if err != nil {
		return nil, err
	}

	dispatcher := preprocess.NewEmbeddingDispatcher(embedder, preprocess.DefaultEmbeddingHandlers(), log)
	return retrieval.NewRetriever(dispatcher, vectors, reranker, log), nil
}

// NewGenerator wires the report writer to the configured language model.
func NewGenerator(cfg *config.Config, log *slog.Logger) (*report.Generator, error) {
	if cfg.LLM.Provider != "openai" && cfg.LLM.Provider != "" {
		return nil, fmt.Errorf("unsupported llm provider: %s", cfg.LLM.Provider)
	}

	model, err := openai.NewClient(openai.Config{
		BaseURL: cfg.LLM.Target,
		APIKey:  cfg.LLM.APIKey,
		Model:   cfg.LLM.Model,
	}, log)
	if err != nil {
		return nil, fmt.Errorf("creating language model: %w", err)
	}

	return report.NewGenerator(model, report.Params{
		Temperature: cfg.LLM.Temperature,
		MaxTokens:   int(cfg.LLM.MaxTokens),
		TopP:        cfg.LLM.TopP,
	}, log), nil
}

// NewReportCache opens the configured report cache.
func NewReportCache(ctx context.Context, cfg *config.Config, log *slog.Logger) (reportcache.Cache, error) {
	switch cfg.ReportCache.Provider {
	case "redis":
		opts := redis.Options{TTL: cfg.ReportCache.TTL}
		if strings.HasPrefix(cfg.ReportCache.Target, "redis://") || strings.HasPrefix(cfg.ReportCache.Target, "rediss://") {
			opts.URL = cfg.ReportCache.Target
		} else {
			opts.Address = cfg.ReportCache.Target
		}
		cache, err := redis.NewCache(ctx, opts, log)
		if err != nil {
			return nil, fmt.Errorf("connecting report cache: %w", err)
		}
		return cache, nil
	case "memory", "":
		return cacheinmemory.NewCache(cfg.ReportCache.TTL), nil
	default:
		return nil, fmt.Errorf("unsupported report cache provider: %s", cfg.ReportCache.Provider)
	}
}

// KafkaConfig converts the eventstream section.
func KafkaConfig(cfg *config.Config) kafka.Config {
	var brokers []string
	for _, b := range strings.Split(cfg.EventStream.Brokers, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	return kafka.Config{
		Brokers: brokers,
		Topic:   cfg.EventStream.Topic,
		GroupID: cfg.EventStream.GroupID,
	}
}

// NewPublisher opens the configured report task queue.
func NewPublisher(cfg *config.Config, log *slog.Logger) (eventstream.Publisher, error) {
	switch cfg.EventStream.Provider {
	case "kafka":
		pub, err := kafka.NewPublisher(KafkaConfig(cfg), log)
		if err != nil {
			return nil, fmt.Errorf("creating report publisher: %w", err)
		}
		return pub, nil
	case "nop", "":
		return nop.NewPublisher(), nil
	default:
		return nil, fmt.Errorf("unsupported eventstream provider: %s", cfg.EventStream.Provider)
	}
}
