package config

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Flag is the single source of truth for a CLI flag.
// Commands reference flags by registry key rather than hard-coding names,
// shorthands, defaults, and descriptions inline. This prevents flag drift
// when the same logical flag appears on multiple commands (e.g., --sqlite
// on "artomo serve", "artomo ingest" and "artomo pipeline").
type Flag struct {
	// Name is the long flag name (e.g. "sqlite").
	Name string

	// Shorthand is the one-letter short flag (e.g. "s"). Empty for no shorthand.
	Shorthand string

	// ViperKey is the dotted config key this flag maps to (e.g. "storage.sqlite_path").
	ViperKey string

	// Description is the help text shown in --help output.
	Description string
}

// FlagSet is a mapping of flag names to Flag structs that hold their name,
// shorthand, viper key, etc.
type FlagSet map[string]Flag

// Flag registry keys.
// Use these constants when calling AddStringFlag, AddUintFlag,
// and BindRegisteredFlags to avoid typos or drift from one command to another.
const (
	FlagAPIListen        = "api-listen"
	FlagAPITarget        = "api-target"
	FlagStorageProvider  = "storage-provider"
	FlagSQLite           = "sqlite"
	FlagPostgres         = "postgres"
	FlagVectorStoreProv  = "vector-store-provider"
	FlagVectorStoreTgt   = "vector-store-target"
	FlagEmbeddingProv    = "embedding-provider"
	FlagEmbeddingTgt     = "embedding-target"
	FlagEmbeddingModel   = "embedding-model"
	FlagEmbeddingDims    = "embedding-dimensions"
	FlagRerankerProv     = "reranker-provider"
	FlagRerankerTgt      = "reranker-target"
	FlagLLMTarget        = "llm-target"
	FlagLLMModel         = "llm-model"
	FlagReportCacheProv  = "report-cache-provider"
	FlagReportCacheTgt   = "report-cache-target"
	FlagEventStreamProv  = "eventstream-provider"
	FlagEventStreamBrk   = "eventstream-brokers"
	FlagEventStreamTopic = "eventstream-topic"
	FlagLoadBatchSize    = "load-batch-size"
	FlagEmbedBatchSize   = "embed-batch-size"
	FlagIngestSource     = "source"
	FlagIngestWorkers    = "workers"
)

// Flags is the artomo flag registry.
var Flags = FlagSet{
	FlagAPIListen: {
		Name:        "listen",
		Shorthand:   "l",
		ViperKey:    "api.listen",
		Description: "Address for the API server to listen on",
	},
	FlagAPITarget: {
		Name:        "api-target",
		Shorthand:   "a",
		ViperKey:    "client.api_target",
		Description: "artomo API server URL",
	},
	FlagStorageProvider: {
		Name:        "storage",
		ViperKey:    "storage.provider",
		Description: "Record store provider (sqlite, postgres, memory)",
	},
	FlagSQLite: {
		Name:        "sqlite",
		Shorthand:   "s",
		ViperKey:    "storage.sqlite_path",
		Description: "Path to the SQLite record store",
	},
	FlagPostgres: {
		Name:        "postgres",
		ViperKey:    "storage.postgres_dsn",
		Description: "PostgreSQL connection string",
	},
	FlagVectorStoreProv: {
		Name:        "vector-store-provider",
		ViperKey:    "vector_store.provider",
		Description: "Vector store provider (qdrant, chroma, sqlite, memory)",
	},
	FlagVectorStoreTgt: {
		Name:        "vector-store-target",
		ViperKey:    "vector_store.target",
		Description: "Vector store URL, address or database path",
	},
	FlagEmbeddingProv: {
		Name:        "embedding-provider",
		ViperKey:    "embedding.provider",
		Description: "Embedding provider (ollama, tei)",
	},
	FlagEmbeddingTgt: {
		Name:        "embedding-target",
		ViperKey:    "embedding.target",
		Description: "Embedding provider URL",
	},
	FlagEmbeddingModel: {
		Name:        "embedding-model",
		ViperKey:    "embedding.model",
		Description: "Embedding model name",
	},
	FlagEmbeddingDims: {
		Name:        "embedding-dimensions",
		ViperKey:    "embedding.dimensions",
		Description: "Embedding vector size",
	},
	FlagRerankerProv: {
		Name:        "reranker-provider",
		ViperKey:    "reranker.provider",
		Description: "Reranker provider (tei, mock)",
	},
	FlagRerankerTgt: {
		Name:        "reranker-target",
		ViperKey:    "reranker.target",
		Description: "Reranker URL",
	},
	FlagLLMTarget: {
		Name:        "llm-target",
		ViperKey:    "llm.target",
		Description: "Chat completions base URL",
	},
	FlagLLMModel: {
		Name:        "llm-model",
		ViperKey:    "llm.model",
		Description: "Language model used for reports",
	},
	FlagReportCacheProv: {
		Name:        "report-cache",
		ViperKey:    "report_cache.provider",
		Description: "Report cache provider (redis, memory)",
	},
	FlagReportCacheTgt: {
		Name:        "report-cache-target",
		ViperKey:    "report_cache.target",
		Description: "Report cache address or redis:// URL",
	},
	FlagEventStreamProv: {
		Name:        "eventstream",
		ViperKey:    "eventstream.provider",
		Description: "Report task queue provider (kafka, nop)",
	},
	FlagEventStreamBrk: {
		Name:        "brokers",
		ViperKey:    "eventstream.brokers",
		Description: "Comma separated Kafka brokers",
	},
	FlagEventStreamTopic: {
		Name:        "topic",
		ViperKey:    "eventstream.topic",
		Description: "Kafka topic for report tasks",
	},
	FlagLoadBatchSize: {
		Name:        "load-batch-size",
		ViperKey:    "pipeline.load_batch_size",
		Description: "Documents per vector store upsert",
	},
	FlagEmbedBatchSize: {
		Name:        "embed-batch-size",
		ViperKey:    "pipeline.embed_batch_size",
		Description: "Documents per embedding call",
	},
	FlagIngestSource: {
		Name:        "source",
		ViperKey:    "ingest.source",
		Description: "Google Sheets link or CSV file to crawl",
	},
	FlagIngestWorkers: {
		Name:        "workers",
		Shorthand:   "w",
		ViperKey:    "ingest.workers",
		Description: "Rows ingested in parallel",
	},
}

// Shared flag groups.
var (
	StorageFlags = []string{FlagStorageProvider, FlagSQLite, FlagPostgres}

	VectorFlags = []string{
		FlagVectorStoreProv,
		FlagVectorStoreTgt,
		FlagEmbeddingProv,
		FlagEmbeddingTgt,
		FlagEmbeddingModel,
		FlagEmbeddingDims,
	}
)

// AddStringFlag registers a string flag on cmd from the given FlagSet.
// The flag's name, shorthand, default, and description all come from the
// FlagSet entry so they cannot drift across commands.
func AddStringFlag(cmd *cobra.Command, fs FlagSet, key string, target *string) {
	def, ok := fs[key]
	if !ok {
		return
	}

	defaultVal := defaultString(def.ViperKey)
	if def.Shorthand != "" {
		cmd.Flags().StringVarP(target, def.Name, def.Shorthand, defaultVal, def.Description)
	} else {
		cmd.Flags().StringVar(target, def.Name, defaultVal, def.Description)
	}
}

// AddUintFlag registers a uint flag on cmd from the given FlagSet.
func AddUintFlag(cmd *cobra.Command, fs FlagSet, registryKey string, target *uint) {
	def, ok := fs[registryKey]
	if !ok {
		return
	}

	defaultVal := defaultUint(def.ViperKey)
	if def.Shorthand != "" {
		cmd.Flags().UintVarP(target, def.Name, def.Shorthand, defaultVal, def.Description)
	} else {
		cmd.Flags().UintVar(target, def.Name, defaultVal, def.Description)
	}
}

// AddFlags registers every key as a string or uint flag depending on the
// type of its config key. Targets are unused; values are read back through
// viper after BindRegisteredFlags.
func AddFlags(cmd *cobra.Command, fs FlagSet, registryKeys ...string) {
	for _, key := range registryKeys {
		def, ok := fs[key]
		if !ok {
			continue
		}
		switch def.ViperKey {
		case "embedding.dimensions", "ingest.workers", "pipeline.load_batch_size", "pipeline.embed_batch_size":
			AddUintFlag(cmd, fs, key, new(uint))
		default:
			AddStringFlag(cmd, fs, key, new(string))
		}
	}
}

// BindRegisteredFlags binds already-registered flags to viper using definitions
// from the given FlagSet. Call this in PreRunE after InitViper to connect flags
// to the viper precedence chain (flag > env > config file > default).
func BindRegisteredFlags(v *viper.Viper, cmd *cobra.Command, fs FlagSet, registryKeys []string) {
	for _, registryKey := range registryKeys {
		def, ok := fs[registryKey]
		if !ok {
			continue
		}

		f := cmd.Flags().Lookup(def.Name)
		if f == nil {
			continue
		}

		_ = v.BindPFlag(def.ViperKey, f)
	}
}

// defaultString returns the default string value for a viper key from NewDefaultConfig.
func defaultString(viperKey string) string {
	v := viper.New()
	setViperDefaults(v)
	return v.GetString(viperKey)
}

// defaultUint returns the default uint value for a viper key from NewDefaultConfig.
func defaultUint(viperKey string) uint {
	v := viper.New()
	setViperDefaults(v)
	return v.GetUint(viperKey)
}
