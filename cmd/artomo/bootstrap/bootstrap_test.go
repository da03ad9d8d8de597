package bootstrap_test

import (
	"context"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/spf13/cobra"

	"github.com/papercomputeco/artomo/cmd/artomo/bootstrap"
	"github.com/papercomputeco/artomo/pkg/config"
	artomologger "github.com/papercomputeco/artomo/pkg/logger"
)

var _ = Describe("Bootstrap", func() {
	var (
		ctx context.Context
		cfg *config.Config
	)

	BeforeEach(func() {
		ctx = context.Background()
		cfg = config.NewDefaultConfig()
	})

	Describe("Logger", func() {
		newCmd := func(logFile string) *cobra.Command {
			cmd := &cobra.Command{Use: "test"}
			cmd.Flags().Bool("debug", false, "")
			cmd.Flags().Bool("log-json", false, "")
			cmd.Flags().String("log-file", logFile, "")
			return cmd
		}

		It("appends JSON lines to the log file", func() {
			path := filepath.Join(GinkgoT().TempDir(), "artomo.log")

			log, err := bootstrap.Logger(newCmd(path), "worker")
			Expect(err).NotTo(HaveOccurred())
			log.Info("report cached", "exhibition_id", "abc")

			data, err := os.ReadFile(path)
			Expect(err).NotTo(HaveOccurred())
			Expect(string(data)).To(ContainSubstring(`"service":"worker"`))
			Expect(string(data)).To(ContainSubstring(`"msg":"report cached"`))
		})

		It("fails when the log file cannot be opened", func() {
			path := filepath.Join(GinkgoT().TempDir(), "missing", "artomo.log")
			_, err := bootstrap.Logger(newCmd(path), "api")
			Expect(err).To(MatchError(ContainSubstring("opening log file")))
		})
	})

	Describe("Load", func() {
		newCmd := func(configDir string) *cobra.Command {
			cmd := &cobra.Command{Use: "test"}
			cmd.Flags().String("config-dir", configDir, "")
			config.AddFlags(cmd, config.Flags, config.FlagAPIListen, config.FlagIngestWorkers)
			return cmd
		}

		It("layers flags over the config file", func() {
			dir := GinkgoT().TempDir()
			Expect(os.WriteFile(filepath.Join(dir, "config.toml"), []byte(`
[api]
listen = ":9000"

[llm]
model = "gpt-4o"
`), 0o600)).To(Succeed())

			cmd := newCmd(dir)
			Expect(cmd.Flags().Set("listen", ":9100")).To(Succeed())

			loaded, err := bootstrap.Load(cmd, config.FlagAPIListen, config.FlagIngestWorkers)
			Expect(err).NotTo(HaveOccurred())
			Expect(loaded.API.Listen).To(Equal(":9100"))
			Expect(loaded.LLM.Model).To(Equal("gpt-4o"))
			Expect(loaded.Ingest.Workers).To(Equal(uint(1)))
		})

		It("falls back to defaults without a config file", func() {
			loaded, err := bootstrap.Load(newCmd(GinkgoT().TempDir()))
			Expect(err).NotTo(HaveOccurred())
			Expect(loaded.Storage.Provider).To(Equal("sqlite"))
			Expect(loaded.ReportCache.TTL).To(Equal(config.NewDefaultConfig().ReportCache.TTL))
		})
	})

	Describe("NewReranker", func() {
		It("passes through for the mock provider", func() {
			r, err := bootstrap.NewReranker(cfg)
			Expect(err).NotTo(HaveOccurred())
			Expect(r.Mock()).To(BeTrue())
		})

		It("uses the cross-encoder for tei", func() {
			cfg.Reranker.Provider = "tei"
			cfg.Reranker.Target = "http://localhost:8083"
			r, err := bootstrap.NewReranker(cfg)
			Expect(err).NotTo(HaveOccurred())
			Expect(r.Mock()).To(BeFalse())
		})

		It("requires a tei target", func() {
			cfg.Reranker.Provider = "tei"
			_, err := bootstrap.NewReranker(cfg)
			Expect(err).To(MatchError(ContainSubstring("reranker target is required")))
		})

		It("rejects unknown providers", func() {
			cfg.Reranker.Provider = "cohere"
			_, err := bootstrap.NewReranker(cfg)
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("service factories", func() {
		It("opens in-memory stores", func() {
			cfg.Storage.Provider = "memory"
			cfg.VectorStore.Provider = "memory"

			store, err := bootstrap.NewStore(ctx, cfg, artomologger.Nop())
			Expect(err).NotTo(HaveOccurred())
			Expect(store.Close()).To(Succeed())

			driver, err := bootstrap.NewVectorDriver(ctx, cfg, artomologger.Nop())
			Expect(err).NotTo(HaveOccurred())
			Expect(driver.Close()).To(Succeed())
		})

		It("uses the in-memory report cache by default", func() {
			cache, err := bootstrap.NewReportCache(ctx, cfg, artomologger.Nop())
			Expect(err).NotTo(HaveOccurred())
			Expect(cache).NotTo(BeNil())
		})

		It("uses the nop publisher by default", func() {
			pub, err := bootstrap.NewPublisher(cfg, artomologger.Nop())
			Expect(err).NotTo(HaveOccurred())
			Expect(pub.Close()).To(Succeed())
		})

		It("requires brokers for kafka", func() {
			cfg.EventStream.Provider = "kafka"
			_, err := bootstrap.NewPublisher(cfg, artomologger.Nop())
			Expect(err).To(HaveOccurred())
		})

		It("requires an api key for the language model", func() {
			_, err := bootstrap.NewGenerator(cfg, artomologger.Nop())
			Expect(err).To(MatchError(ContainSubstring("api key is required")))

			cfg.LLM.APIKey = "sk-test"
			_, err = bootstrap.NewGenerator(cfg, artomologger.Nop())
			Expect(err).NotTo(HaveOccurred())
		})
	})

	Describe("KafkaConfig", func() {
		It("splits and trims brokers", func() {
			cfg.EventStream.Brokers = "kafka-1:9092, kafka-2:9092,"
			kc := bootstrap.KafkaConfig(cfg)
			Expect(kc.Brokers).To(Equal([]string{"kafka-1:9092", "kafka-2:9092"}))
			Expect(kc.Topic).To(Equal("artomo.reports"))
		})
	})
})
