package openai_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	artomologger "github.com/papercomputeco/artomo/pkg/logger"
	"github.com/papercomputeco/artomo/pkg/report"
	"github.com/papercomputeco/artomo/pkg/report/openai"
)

var _ = Describe("Client", func() {
	var (
		server   *httptest.Server
		received map[string]any
		auth     string
		status   int
		reply    string
	)

	BeforeEach(func() {
		received = nil
		status = http.StatusOK
		reply = `{"id":"c1","model":"gpt-4o-mini","choices":[{"index":0,"message":{"role":"assistant","content":"{\"report\":\"hi\"}"},"finish_reason":"stop"}],"usage":{"prompt_tokens":5,"completion_tokens":3,"total_tokens":8}}`

		server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer GinkgoRecover()
			Expect(r.URL.Path).To(Equal("/v1/chat/completions"))
			auth = r.Header.Get("Authorization")
			Expect(json.NewDecoder(r.Body).Decode(&received)).To(Succeed())

			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(status)
			_, _ = w.Write([]byte(reply))
		}))
	})

	AfterEach(func() {
		server.Close()
	})

	newClient := func() *openai.Client {
		c, err := openai.NewClient(openai.Config{BaseURL: server.URL + "/v1/", APIKey: "sk-test"}, artomologger.Nop())
		Expect(err).NotTo(HaveOccurred())
		return c
	}

	It("requires an api key", func() {
		_, err := openai.NewClient(openai.Config{}, artomologger.Nop())
		Expect(err).To(HaveOccurred())
	})

	It("sends the prompt as a single user message", func() {
		out, err := newClient().Complete(context.Background(), "write a report", report.Params{Temperature: 0.7, MaxTokens: 500})
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(Equal(`{"report":"hi"}`))

		Expect(auth).To(Equal("Bearer sk-test"))
		Expect(received).To(HaveKeyWithValue("model", openai.DefaultModel))
		Expect(received).To(HaveKeyWithValue("temperature", 0.7))
		Expect(received).To(HaveKeyWithValue("max_tokens", BeNumerically("==", 500)))
		Expect(received).NotTo(HaveKey("top_p"))
		Expect(received["messages"]).To(Equal([]any{map[string]any{"role": "user", "content": "write a report"}}))
	})

	It("surfaces api error messages", func() {
		status = http.StatusTooManyRequests
		reply = `{"error":{"message":"rate limited","type":"requests"}}`

		_, err := newClient().Complete(context.Background(), "p", report.Params{})
		Expect(err).To(MatchError(ContainSubstring("rate limited")))
	})

	It("fails on empty choices", func() {
		reply = `{"id":"c1","choices":[]}`

		_, err := newClient().Complete(context.Background(), "p", report.Params{})
		Expect(err).To(HaveOccurred())
	})
})
