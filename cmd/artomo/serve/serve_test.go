package servecmder_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/spf13/cobra"

	servecmder "github.com/papercomputeco/artomo/cmd/artomo/serve"
)

var _ = Describe("NewServeCmd", func() {
	var cmd *cobra.Command

	BeforeEach(func() {
		cmd = servecmder.NewServeCmd()
	})

	It("creates a command with the correct use string", func() {
		Expect(cmd.Use).To(Equal("serve"))
	})

	DescribeTable("registers flags from the registry",
		func(name, def string) {
			f := cmd.Flags().Lookup(name)
			Expect(f).NotTo(BeNil())
			Expect(f.DefValue).To(Equal(def))
		},
		Entry("listen", "listen", ":8081"),
		Entry("storage", "storage", "sqlite"),
		Entry("vector store", "vector-store-provider", "sqlite"),
		Entry("embedding dimensions", "embedding-dimensions", "768"),
		Entry("reranker", "reranker-provider", "mock"),
		Entry("report cache", "report-cache", "memory"),
		Entry("event stream", "eventstream", "nop"),
		Entry("worker", "with-worker", "false"),
	)

	It("uses the -l shorthand for listen", func() {
		Expect(cmd.Flags().ShorthandLookup("l")).NotTo(BeNil())
	})
})
