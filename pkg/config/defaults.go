package config

import "time"

const (
	defaultStorageProvider = "sqlite"
	defaultSQLitePath      = "artomo.sqlite"

	defaultVectorProvider = "sqlite"
	defaultVectorTarget   = "artomo-vectors.sqlite"

	defaultEmbeddingProvider       = "ollama"
	defaultEmbeddingTarget         = "http://localhost:11434"
	defaultEmbeddingModel          = "nomic-embed-text"
	defaultEmbeddingDimensions     = 768
	defaultEmbeddingMaxInputLength = 512

	defaultRerankerProvider = "mock"

	defaultLLMProvider    = "openai"
	defaultLLMTarget      = "https://api.openai.com/v1"
	defaultLLMModel       = "gpt-4o-mini"
	defaultLLMTemperature = 0.7
	defaultLLMMaxTokens   = 1024
	defaultLLMTopP        = 1.0

	defaultAPIListen       = ":8081"
	defaultClientAPITarget = "http://localhost:8081"

	defaultReportCacheProvider = "memory"
	defaultReportCacheTTL      = 24 * time.Hour

	defaultEventStreamProvider = "nop"
	defaultEventStreamTopic    = "artomo.reports"
	defaultEventStreamGroupID  = "artomo-report-worker"

	defaultLoadBatchSize  = 4
	defaultEmbedBatchSize = 32

	defaultIngestWorkers  = 1
	defaultIngestTimezone = "Asia/Tokyo"
)

// NewDefaultConfig returns a Config with sane defaults for all fields.
// This is the single source of truth for default values.
func NewDefaultConfig() *Config {
	return &Config{
		Version: CurrentV,
		Storage: StorageConfig{
			Provider:   defaultStorageProvider,
			SQLitePath: defaultSQLitePath,
		},
		VectorStore: VectorStoreConfig{
			Provider: defaultVectorProvider,
			Target:   defaultVectorTarget,
		},
		Embedding: EmbeddingConfig{
			Provider:       defaultEmbeddingProvider,
			Target:         defaultEmbeddingTarget,
			Model:          defaultEmbeddingModel,
			Dimensions:     defaultEmbeddingDimensions,
			MaxInputLength: defaultEmbeddingMaxInputLength,
		},
		Reranker: RerankerConfig{
			Provider: defaultRerankerProvider,
		},
		LLM: LLMConfig{
			Provider:    defaultLLMProvider,
			Target:      defaultLLMTarget,
			Model:       defaultLLMModel,
			Temperature: defaultLLMTemperature,
			MaxTokens:   defaultLLMMaxTokens,
			TopP:        defaultLLMTopP,
		},
		API: APIConfig{
			Listen: defaultAPIListen,
		},
		Client: ClientConfig{
			APITarget: defaultClientAPITarget,
		},
		ReportCache: ReportCacheConfig{
			Provider: defaultReportCacheProvider,
			TTL:      defaultReportCacheTTL,
		},
		EventStream: EventStreamConfig{
			Provider: defaultEventStreamProvider,
			Topic:    defaultEventStreamTopic,
			GroupID:  defaultEventStreamGroupID,
		},
		Pipeline: PipelineConfig{
			LoadBatchSize:  defaultLoadBatchSize,
			EmbedBatchSize: defaultEmbedBatchSize,
		},
		Ingest: IngestConfig{
			Workers:  defaultIngestWorkers,
			Timezone: defaultIngestTimezone,
		},
	}
}
