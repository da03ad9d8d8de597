package mcp

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/google/uuid"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/artomo/api/recommend"
	artomologger "github.com/papercomputeco/artomo/pkg/logger"
	"github.com/papercomputeco/artomo/pkg/report"
)

type fakeRecommender struct {
	output  *recommend.Output
	err     error
	facets  map[string]string
	filters map[string]string
}

func (f *fakeRecommender) Recommend(_ context.Context, facets, filters map[string]string) (*recommend.Output, error) {
	f.facets = facets
	f.filters = filters
	return f.output, f.err
}

type fakeReporter struct {
	text    string
	err     error
	refresh bool
}

func (f *fakeReporter) Exhibition(_ context.Context, _ uuid.UUID, _ map[string]string, refresh bool) (string, error) {
	f.refresh = refresh
	return f.text, f.err
}

func resultText(result *mcp.CallToolResult) string {
	Expect(result.Content).To(HaveLen(1))
	text, ok := result.Content[0].(*mcp.TextContent)
	Expect(ok).To(BeTrue())
	return text.Text
}

var _ = ginkgo.Describe("Tools", func() {
	var (
		ctx         context.Context
		recommender *fakeRecommender
		reporter    *fakeReporter
		server      *Server
	)

	ginkgo.BeforeEach(func() {
		ctx = context.Background()
		recommender = &fakeRecommender{output: &recommend.Output{
			RecommendedExhibitions: []recommend.Card{{UID: "e1", ExhibitionName: "Prints"}},
			Report:                 "Go see the prints.",
		}}
		reporter = &fakeReporter{text: "A quiet show."}

		var err error
		server, err = NewServer(Config{
			Recommender: recommender,
			Reports:     reporter,
			Logger:      artomologger.Nop(),
		})
		Expect(err).NotTo(HaveOccurred())
	})

	ginkgo.Describe("recommend_exhibitions", func() {
		ginkgo.It("passes only the facets that were given", func() {
			result, output, err := server.handleRecommend(ctx, nil, RecommendInput{
				Duration: "2 hours",
				Mood:     "calm",
				Filters:  map[string]string{"area": "Ginza"},
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(result.IsError).To(BeFalse())

			Expect(recommender.facets).To(Equal(map[string]string{"duration": "2 hours", "mood": "calm"}))
			Expect(recommender.filters).To(Equal(map[string]string{"area": "Ginza"}))
			Expect(output.Report).To(Equal("Go see the prints."))

			var decoded recommend.Output
			Expect(json.Unmarshal([]byte(resultText(result)), &decoded)).To(Succeed())
			Expect(decoded.RecommendedExhibitions).To(HaveLen(1))
		})

		ginkgo.It("reports failures as tool errors", func() {
			recommender.err = errors.New("model down")

			result, _, err := server.handleRecommend(ctx, nil, RecommendInput{Duration: "1 hour"})
			Expect(err).NotTo(HaveOccurred())
			Expect(result.IsError).To(BeTrue())
			Expect(resultText(result)).To(ContainSubstring("model down"))
		})
	})

	ginkgo.Describe("exhibition_report", func() {
		ginkgo.It("returns the report", func() {
			id := uuid.New()
			result, output, err := server.handleExhibitionReport(ctx, nil, ReportInput{UID: id.String(), Refresh: true})
			Expect(err).NotTo(HaveOccurred())
			Expect(result.IsError).To(BeFalse())
			Expect(output).To(Equal(ReportOutput{UID: id.String(), Report: "A quiet show."}))
			Expect(reporter.refresh).To(BeTrue())
		})

		ginkgo.It("rejects ids that are not uuids", func() {
			result, _, err := server.handleExhibitionReport(ctx, nil, ReportInput{UID: "nope"})
			Expect(err).NotTo(HaveOccurred())
			Expect(result.IsError).To(BeTrue())
		})

		ginkgo.It("reports unknown exhibitions", func() {
			reporter.err = report.ErrExhibitionNotFound

			result, _, err := server.handleExhibitionReport(ctx, nil, ReportInput{UID: uuid.NewString()})
			Expect(err).NotTo(HaveOccurred())
			Expect(result.IsError).To(BeTrue())
			Expect(resultText(result)).To(Equal("Exhibition not found"))
		})
	})
})
