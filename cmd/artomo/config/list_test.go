package configcmder

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("secret masking", func() {
	It("treats api keys and the postgres dsn as secrets", func() {
		Expect(isSecret("llm.api_key")).To(BeTrue())
		Expect(isSecret("vector_store.api_key")).To(BeTrue())
		Expect(isSecret("storage.postgres_dsn")).To(BeTrue())
		Expect(isSecret("llm.model")).To(BeFalse())
	})

	It("keeps only a short prefix", func() {
		Expect(mask("sk-abcdef")).To(Equal("sk-a****"))
		Expect(mask("abc")).To(Equal("****"))
	})
})
