package configcmder_test

import (
	"bytes"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	configcmder "github.com/papercomputeco/artomo/cmd/artomo/config"
	"github.com/papercomputeco/artomo/pkg/config"
)

var _ = Describe("NewConfigCmd", func() {
	It("creates a command with the correct use string", func() {
		cmd := configcmder.NewConfigCmd()
		Expect(cmd.Use).To(Equal("config"))
	})

	It("has set, get, and list subcommands", func() {
		cmd := configcmder.NewConfigCmd()
		subcommands := make([]string, 0, len(cmd.Commands()))
		for _, sub := range cmd.Commands() {
			subcommands = append(subcommands, sub.Name())
		}
		Expect(subcommands).To(ContainElements("set", "get", "list"))
	})
})

var _ = Describe("Config command execution", func() {
	var (
		tmpDir  string
		origDir string
	)

	run := func(args ...string) error {
		cmd := configcmder.NewConfigCmd()
		cmd.SetArgs(args)
		return cmd.Execute()
	}

	loadConfig := func() *config.Config {
		cfger, err := config.NewConfiger(filepath.Join(tmpDir, ".artomo"))
		Expect(err).NotTo(HaveOccurred())
		cfg, err := cfger.LoadConfig()
		Expect(err).NotTo(HaveOccurred())
		return cfg
	}

	BeforeEach(func() {
		tmpDir = GinkgoT().TempDir()

		var err error
		origDir, err = os.Getwd()
		Expect(err).NotTo(HaveOccurred())

		// A local .artomo dir takes precedence over ~/.artomo
		Expect(os.MkdirAll(filepath.Join(tmpDir, ".artomo"), 0o755)).To(Succeed())
		Expect(os.Chdir(tmpDir)).To(Succeed())
	})

	AfterEach(func() {
		Expect(os.Chdir(origDir)).To(Succeed())
	})

	Describe("set subcommand", func() {
		It("writes the value to config.toml", func() {
			Expect(run("set", "vector_store.provider", "qdrant")).To(Succeed())

			_, err := os.Stat(filepath.Join(tmpDir, ".artomo", "config.toml"))
			Expect(err).NotTo(HaveOccurred())
			Expect(loadConfig().VectorStore.Provider).To(Equal("qdrant"))
		})

		It("parses durations", func() {
			Expect(run("set", "report_cache.ttl", "90m")).To(Succeed())
			Expect(loadConfig().ReportCache.TTL.Minutes()).To(BeNumerically("==", 90))
		})

		It("rejects unknown keys", func() {
			Expect(run("set", "proxy.provider", "anthropic")).To(HaveOccurred())
		})

		It("requires exactly two arguments", func() {
			Expect(run("set", "storage.provider")).To(HaveOccurred())
			Expect(run("set")).To(HaveOccurred())
		})

		It("rejects invalid uint values", func() {
			Expect(run("set", "embedding.dimensions", "not-a-number")).To(HaveOccurred())
		})
	})

	Describe("get subcommand", func() {
		It("gets a previously set value", func() {
			Expect(run("set", "llm.model", "gpt-4o")).To(Succeed())
			Expect(run("get", "llm.model")).To(Succeed())
		})

		It("runs without error for unset keys", func() {
			Expect(run("get", "eventstream.brokers")).To(Succeed())
		})

		It("prints only the value with --raw", func() {
			Expect(run("set", "api.listen", ":9000")).To(Succeed())

			var out bytes.Buffer
			cmd := configcmder.NewConfigCmd()
			cmd.SetOut(&out)
			cmd.SetArgs([]string{"get", "--raw", "api.listen"})
			Expect(cmd.Execute()).To(Succeed())
			Expect(out.String()).To(Equal(":9000\n"))
		})

		It("rejects unknown keys", func() {
			Expect(run("get", "invalid_key")).To(HaveOccurred())
		})

		It("requires exactly one argument", func() {
			Expect(run("get")).To(HaveOccurred())
		})
	})

	Describe("list subcommand", func() {
		It("runs without error when no config exists", func() {
			Expect(run("list")).To(Succeed())
		})

		It("runs without error when config has values", func() {
			Expect(run("set", "llm.api_key", "sk-secret")).To(Succeed())
			Expect(run("list")).To(Succeed())
		})

		It("rejects any arguments", func() {
			Expect(run("list", "extra")).To(HaveOccurred())
		})
	})
})
