package config

import (
	"fmt"
	"strconv"
	"time"
)

// Config represents the persistent artomo configuration stored as config.toml
// in the .artomo/ directory. The TOML layout uses sections for logical grouping.
type Config struct {
	Version     int               `toml:"version"`
	Storage     StorageConfig     `toml:"storage"`
	VectorStore VectorStoreConfig `toml:"vector_store"`
	Embedding   EmbeddingConfig   `toml:"embedding"`
	Reranker    RerankerConfig    `toml:"reranker"`
	LLM         LLMConfig         `toml:"llm"`
	API         APIConfig         `toml:"api"`
	Client      ClientConfig      `toml:"client"`
	ReportCache ReportCacheConfig `toml:"report_cache"`
	EventStream EventStreamConfig `toml:"eventstream"`
	Pipeline    PipelineConfig    `toml:"pipeline"`
	Ingest      IngestConfig      `toml:"ingest"`
}

// StorageConfig selects the record store holding raw galleries and exhibitions.
type StorageConfig struct {
	Provider    string `toml:"provider,omitempty"`
	SQLitePath  string `toml:"sqlite_path,omitempty"`
	PostgresDSN string `toml:"postgres_dsn,omitempty"`
}

// VectorStoreConfig holds vector store settings.
type VectorStoreConfig struct {
	Provider string `toml:"provider,omitempty"`
	Target   string `toml:"target,omitempty"`
	APIKey   string `toml:"api_key,omitempty"`
}

// EmbeddingConfig holds embedding provider settings.
type EmbeddingConfig struct {
	Provider       string `toml:"provider,omitempty"`
	Target         string `toml:"target,omitempty"`
	Model          string `toml:"model,omitempty"`
	Dimensions     uint   `toml:"dimensions,omitempty"`
	MaxInputLength uint   `toml:"max_input_length,omitempty"`
}

// RerankerConfig holds cross-encoder settings. The "mock" provider keeps
// the vector search order.
type RerankerConfig struct {
	Provider string `toml:"provider,omitempty"`
	Target   string `toml:"target,omitempty"`
}

// LLMConfig holds the report-writing language model settings.
type LLMConfig struct {
	Provider    string  `toml:"provider,omitempty"`
	Target      string  `toml:"target,omitempty"`
	Model       string  `toml:"model,omitempty"`
	APIKey      string  `toml:"api_key,omitempty"`
	Temperature float64 `toml:"temperature,omitempty"`
	MaxTokens   uint    `toml:"max_tokens,omitempty"`
	TopP        float64 `toml:"top_p,omitempty"`
}

// APIConfig holds API server settings.
type APIConfig struct {
	Listen string `toml:"listen,omitempty"`
}

// ClientConfig holds settings for CLI commands that talk to a running API
// server (e.g. artomo recommend). Values are full URLs.
type ClientConfig struct {
	APITarget string `toml:"api_target,omitempty"`
}

// ReportCacheConfig holds settings for the exhibition report cache.
type ReportCacheConfig struct {
	Provider string        `toml:"provider,omitempty"`
	Target   string        `toml:"target,omitempty"`
	TTL      time.Duration `toml:"ttl,omitempty"`
}

// EventStreamConfig holds settings for the report task queue.
type EventStreamConfig struct {
	Provider string `toml:"provider,omitempty"`
	Brokers  string `toml:"brokers,omitempty"`
	Topic    string `toml:"topic,omitempty"`
	GroupID  string `toml:"group_id,omitempty"`
}

// PipelineConfig holds feature pipeline batch sizes.
type PipelineConfig struct {
	LoadBatchSize  uint `toml:"load_batch_size,omitempty"`
	EmbedBatchSize uint `toml:"embed_batch_size,omitempty"`
}

// IngestConfig holds crawl settings.
type IngestConfig struct {
	Source   string `toml:"source,omitempty"`
	Workers  uint   `toml:"workers,omitempty"`
	Timezone string `toml:"timezone,omitempty"`
}

// configKeyInfo maps a user-facing dotted key name to a getter and setter on *Config.
type configKeyInfo struct {
	get func(c *Config) string
	set func(c *Config, v string) error
}

func stringKey(field func(c *Config) *string) configKeyInfo {
	return configKeyInfo{
		get: func(c *Config) string { return *field(c) },
		set: func(c *Config, v string) error { *field(c) = v; return nil },
	}
}

func uintKey(name string, field func(c *Config) *uint) configKeyInfo {
	return configKeyInfo{
		get: func(c *Config) string {
			if *field(c) == 0 {
				return ""
			}
			return strconv.FormatUint(uint64(*field(c)), 10)
		},
		set: func(c *Config, v string) error {
			n, err := strconv.ParseUint(v, 10, 64)
			if err != nil {
				return fmt.Errorf("invalid value for %s: %w", name, err)
			}
			*field(c) = uint(n)
			return nil
		},
	}
}

func floatKey(name string, field func(c *Config) *float64) configKeyInfo {
	return configKeyInfo{
		get: func(c *Config) string {
			if *field(c) == 0 {
				return ""
			}
			return strconv.FormatFloat(*field(c), 'f', -1, 64)
		},
		set: func(c *Config, v string) error {
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return fmt.Errorf("invalid value for %s: %w", name, err)
			}
			*field(c) = f
			return nil
		},
	}
}

func durationKey(name string, field func(c *Config) *time.Duration) configKeyInfo {
	return configKeyInfo{
		get: func(c *Config) string {
			if *field(c) == 0 {
				return ""
			}
			return field(c).String()
		},
		set: func(c *Config, v string) error {
			d, err := time.ParseDuration(v)
			if err != nil {
				return fmt.Errorf("invalid value for %s: %w", name, err)
			}
			*field(c) = d
			return nil
		},
	}
}

// orderedConfigKeys lists every supported key in TOML section order.
var orderedConfigKeys = []string{
	"storage.provider",
	"storage.sqlite_path",
	"storage.postgres_dsn",
	"vector_store.provider",
	"vector_store.target",
	"vector_store.api_key",
	"embedding.provider",
	"embedding.target",
	"embedding.model",
	"embedding.dimensions",
	"embedding.max_input_length",
	"reranker.provider",
	"reranker.target",
	"llm.provider",
	"llm.target",
	"llm.model",
	"llm.api_key",
	"llm.temperature",
	"llm.max_tokens",
	"llm.top_p",
	"api.listen",
	"client.api_target",
	"report_cache.provider",
	"report_cache.target",
	"report_cache.ttl",
	"eventstream.provider",
	"eventstream.brokers",
	"eventstream.topic",
	"eventstream.group_id",
	"pipeline.load_batch_size",
	"pipeline.embed_batch_size",
	"ingest.source",
	"ingest.workers",
	"ingest.timezone",
}

// configKeys is the authoritative map of all supported config keys.
// Keys use dotted notation matching the TOML section structure.
var configKeys = map[string]configKeyInfo{
	"storage.provider":     stringKey(func(c *Config) *string { return &c.Storage.Provider }),
	"storage.sqlite_path":  stringKey(func(c *Config) *string { return &c.Storage.SQLitePath }),
	"storage.postgres_dsn": stringKey(func(c *Config) *string { return &c.Storage.PostgresDSN }),

	"vector_store.provider": stringKey(func(c *Config) *string { return &c.VectorStore.Provider }),
	"vector_store.target":   stringKey(func(c *Config) *string { return &c.VectorStore.Target }),
	"vector_store.api_key":  stringKey(func(c *Config) *string { return &c.VectorStore.APIKey }),

	"embedding.provider":         stringKey(func(c *Config) *string { return &c.Embedding.Provider }),
	"embedding.target":           stringKey(func(c *Config) *string { return &c.Embedding.Target }),
	"embedding.model":            stringKey(func(c *Config) *string { return &c.Embedding.Model }),
	"embedding.dimensions":       uintKey("embedding.dimensions", func(c *Config) *uint { return &c.Embedding.Dimensions }),
	"embedding.max_input_length": uintKey("embedding.max_input_length", func(c *Config) *uint { return &c.Embedding.MaxInputLength }),

	"reranker.provider": stringKey(func(c *Config) *string { return &c.Reranker.Provider }),
	"reranker.target":   stringKey(func(c *Config) *string { return &c.Reranker.Target }),

	"llm.provider":    stringKey(func(c *Config) *string { return &c.LLM.Provider }),
	"llm.target":      stringKey(func(c *Config) *string { return &c.LLM.Target }),
	"llm.model":       stringKey(func(c *Config) *string { return &c.LLM.Model }),
	"llm.api_key":     stringKey(func(c *Config) *string { return &c.LLM.APIKey }),
	"llm.temperature": floatKey("llm.temperature", func(c *Config) *float64 { return &c.LLM.Temperature }),
	"llm.max_tokens":  uintKey("llm.max_tokens", func(c *Config) *uint { return &c.LLM.MaxTokens }),
	"llm.top_p":       floatKey("llm.top_p", func(c *Config) *float64 { return &c.LLM.TopP }),

	"api.listen":        stringKey(func(c *Config) *string { return &c.API.Listen }),
	"client.api_target": stringKey(func(c *Config) *string { return &c.Client.APITarget }),

	"report_cache.provider": stringKey(func(c *Config) *string { return &c.ReportCache.Provider }),
	"report_cache.target":   stringKey(func(c *Config) *string { return &c.ReportCache.Target }),
	"report_cache.ttl":      durationKey("report_cache.ttl", func(c *Config) *time.Duration { return &c.ReportCache.TTL }),

	"eventstream.provider": stringKey(func(c *Config) *string { return &c.EventStream.Provider }),
	"eventstream.brokers":  stringKey(func(c *Config) *string { return &c.EventStream.Brokers }),
	"eventstream.topic":    stringKey(func(c *Config) *string { return &c.EventStream.Topic }),
	"eventstream.group_id": stringKey(func(c *Config) *string { return &c.EventStream.GroupID }),

	"pipeline.load_batch_size":  uintKey("pipeline.load_batch_size", func(c *Config) *uint { return &c.Pipeline.LoadBatchSize }),
	"pipeline.embed_batch_size": uintKey("pipeline.embed_batch_size", func(c *Config) *uint { return &c.Pipeline.EmbedBatchSize }),

	"ingest.source":   stringKey(func(c *Config) *string { return &c.Ingest.Source }),
	"ingest.workers":  uintKey("ingest.workers", func(c *Config) *uint { return &c.Ingest.Workers }),
	"ingest.timezone": stringKey(func(c *Config) *string { return &c.Ingest.Timezone }),
}
