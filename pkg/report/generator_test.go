package report_test

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/artomo/pkg/content"
	artomologger "github.com/papercomputeco/artomo/pkg/logger"
	"github.com/papercomputeco/artomo/pkg/report"
	testutils "github.com/papercomputeco/artomo/pkg/utils/test"
)

var _ = Describe("ParseReport", func() {
	DescribeTable("extracts the report",
		func(answer, want string) {
			got, err := report.ParseReport(answer)
			Expect(err).NotTo(HaveOccurred())
			Expect(got).To(Equal(want))
		},
		Entry("plain JSON", `{"report": "**Hello**\nworld"}`, "**Hello**\nworld"),
		Entry("code fence", "```json\n{\"report\": \"fenced\"}\n```", "fenced"),
		Entry("typographic quotes", "{“report”: “curly”}", "curly"),
		Entry("zero-width characters", "{\"report\":\u200b \"ok\"}", "ok"),
	)

	DescribeTable("rejects answers without a report",
		func(answer string) {
			_, err := report.ParseReport(answer)
			Expect(err).To(MatchError(report.ErrMalformedReport))
		},
		Entry("prose", "Sorry, I cannot help with that."),
		Entry("broken JSON", `{"report": "unterminated}`),
		Entry("wrong key", `{"summary": "x"}`),
	)
})

var _ = Describe("Generator", func() {
	var (
		model *testutils.MockLanguageModel
		gen   *report.Generator
	)

	BeforeEach(func() {
		model = testutils.NewMockLanguageModel(`{"report": "A fine day out"}`)
		gen = report.NewGenerator(model, report.Params{Temperature: 0.7}, artomologger.Nop())
	})

	It("renders the shortlist and facets into the recommendation prompt", func() {
		query := content.NewStructuredQuery(map[string]string{"level": "beginner", "duration": "2 hours", "mood": "calm"})
		docs := []*content.EmbeddedExhibition{
			{CleanedExhibition: content.CleanedExhibition{Exhibition: content.Exhibition{Base: content.NewBase(), Name: "Echoes", Description: "Ink on paper"}}},
			{CleanedExhibition: content.CleanedExhibition{Exhibition: content.Exhibition{Base: content.NewBase(), Name: "Drift", Description: "Light works"}}},
		}

		out, err := gen.Recommendation(context.Background(), query, map[string]string{"area": "Ginza"}, docs)
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(Equal("A fine day out"))

		prompt := model.Prompts()[0]
		Expect(prompt).To(ContainSubstring("Art Knowledge Level: beginner"))
		Expect(prompt).To(ContainSubstring("Area: Ginza"))
		Expect(prompt).To(ContainSubstring("covers 2 exhibitions"))
		Expect(prompt).To(ContainSubstring("Exhibition 2:\nName: Drift"))
		Expect(prompt).NotTo(ContainSubstring("Request:"))
	})

	It("passes free text queries through", func() {
		_, err := gen.Recommendation(context.Background(), content.NewTextQuery("quiet photography"), nil, nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(model.Prompts()[0]).To(ContainSubstring("Request: quiet photography"))
	})

	It("tailors the exhibition prompt only when a query is given", func() {
		e := &content.Exhibition{
			Base:      content.NewBase(),
			Name:      "Echoes",
			Artist:    "Ota",
			StartDate: time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC),
			EndDate:   time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC),
			GalleryID: uuid.New(),
		}

		_, err := gen.Exhibition(context.Background(), nil, e)
		Expect(err).NotTo(HaveOccurred())
		_, err = gen.Exhibition(context.Background(), map[string]string{"mood": "curious"}, e)
		Expect(err).NotTo(HaveOccurred())

		prompts := model.Prompts()
		Expect(prompts[0]).To(ContainSubstring("Exhibition End Date: 2026-06-01"))
		Expect(prompts[0]).To(ContainSubstring("Artist: Ota"))
		Expect(prompts[0]).NotTo(ContainSubstring("Why It Connects to You"))
		Expect(prompts[1]).To(ContainSubstring("Current Mood: curious"))
		Expect(prompts[1]).To(ContainSubstring("Why It Connects to You"))
	})

	It("wraps model failures", func() {
		model.Err = errors.New("quota exceeded")

		_, err := gen.Exhibition(context.Background(), nil, &content.Exhibition{Base: content.NewBase()})
		Expect(err).To(MatchError(report.ErrCompletion))
	})
})
