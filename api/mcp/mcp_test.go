package mcp_test

import (
	"context"

	"github.com/google/uuid"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/artomo/api/mcp"
	"github.com/papercomputeco/artomo/api/recommend"
	artomologger "github.com/papercomputeco/artomo/pkg/logger"
)

type nopRecommender struct{}

func (nopRecommender) Recommend(context.Context, map[string]string, map[string]string) (*recommend.Output, error) {
	return &recommend.Output{}, nil
}

type nopReporter struct{}

func (nopReporter) Exhibition(context.Context, uuid.UUID, map[string]string, bool) (string, error) {
	return "", nil
}

var _ = Describe("MCP Server", func() {
	Describe("NewServer", func() {
		It("returns an error when the recommender is nil", func() {
			_, err := mcp.NewServer(mcp.Config{Logger: artomologger.Nop()})
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("recommender is required"))
		})

		It("returns an error when logger is nil", func() {
			_, err := mcp.NewServer(mcp.Config{Recommender: nopRecommender{}})
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("logger is required"))
		})

		It("builds a server with both tools", func() {
			server, err := mcp.NewServer(mcp.Config{
				Recommender: nopRecommender{},
				Reports:     nopReporter{},
				Logger:      artomologger.Nop(),
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(server.Handler()).NotTo(BeNil())
		})

		It("builds an empty server when noop is set", func() {
			server, err := mcp.NewServer(mcp.Config{Noop: true})
			Expect(err).NotTo(HaveOccurred())
			Expect(server.Handler()).NotTo(BeNil())
		})
	})
})
