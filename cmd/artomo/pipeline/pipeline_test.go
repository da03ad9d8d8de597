package pipelinecmder_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	pipelinecmder "github.com/papercomputeco/artomo/cmd/artomo/pipeline"
	"github.com/papercomputeco/artomo/pkg/content"
)

var _ = Describe("NewPipelineCmd", func() {
	It("registers the batch size flags with their defaults", func() {
		cmd := pipelinecmder.NewPipelineCmd()
		Expect(cmd.Flags().Lookup("load-batch-size").DefValue).To(Equal("4"))
		Expect(cmd.Flags().Lookup("embed-batch-size").DefValue).To(Equal("32"))
		Expect(cmd.Flags().Lookup("sources")).NotTo(BeNil())
	})
})

var _ = Describe("ParseSources", func() {
	It("maps names to categories", func() {
		sources, err := pipelinecmder.ParseSources([]string{"exhibition", " reflection"})
		Expect(err).NotTo(HaveOccurred())
		Expect(sources).To(Equal([]content.Category{content.CategoryExhibition, content.CategoryReflection}))
	})

	It("rejects unknown categories", func() {
		_, err := pipelinecmder.ParseSources([]string{"sculpture"})
		Expect(err).To(MatchError(ContainSubstring("unknown category")))
	})
})
