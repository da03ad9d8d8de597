package logger_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/artomo/pkg/logger"
)

func decodeLine(buf *bytes.Buffer) map[string]any {
	var parsed map[string]any
	ExpectWithOffset(1, json.Unmarshal([]byte(strings.TrimSpace(buf.String())), &parsed)).To(Succeed())
	return parsed
}

var timeZero time.Time

type failingHandler struct{ slog.Handler }

func (failingHandler) Enabled(context.Context, slog.Level) bool  { return true }
func (failingHandler) Handle(context.Context, slog.Record) error { return errors.New("disk full") }

var _ = Describe("New", func() {
	var buf bytes.Buffer

	BeforeEach(func() {
		buf.Reset()
	})

	It("writes text at Info by default", func() {
		l := logger.New(logger.WithWriter(&buf))
		l.Debug("hidden")
		l.Info("pipeline finished", "loaded", 12)

		Expect(buf.String()).NotTo(ContainSubstring("hidden"))
		Expect(buf.String()).To(ContainSubstring("pipeline finished"))
		Expect(buf.String()).To(ContainSubstring("loaded=12"))
	})

	It("logs Debug when enabled", func() {
		l := logger.New(logger.WithWriter(&buf), logger.WithDebug(true))
		l.Debug("reranking", "candidates", 10)

		Expect(buf.String()).To(ContainSubstring("reranking"))
	})

	It("writes JSON with the service tag", func() {
		l := logger.New(logger.WithWriter(&buf), logger.WithJSON(true), logger.WithService("worker"))
		l.Info("report cached", "exhibition_id", "abc")

		parsed := decodeLine(&buf)
		Expect(parsed).To(HaveKeyWithValue("msg", "report cached"))
		Expect(parsed).To(HaveKeyWithValue("service", "worker"))
		Expect(parsed).To(HaveKeyWithValue("exhibition_id", "abc"))
	})

	It("prefixes pretty output with the service", func() {
		l := logger.New(logger.WithWriter(&buf), logger.WithPretty(true), logger.WithService("api"))
		l.Info("starting API server")

		Expect(buf.String()).To(ContainSubstring("api"))
		Expect(buf.String()).To(ContainSubstring("starting API server"))
	})

	It("prefers JSON over pretty", func() {
		l := logger.New(logger.WithWriter(&buf), logger.WithPretty(true), logger.WithJSON(true))
		l.Info("structured")

		Expect(decodeLine(&buf)).To(HaveKeyWithValue("msg", "structured"))
	})

	It("writes to every writer", func() {
		var other bytes.Buffer
		l := logger.New(logger.WithWriters(&buf, &other))
		l.Info("ingest done")

		Expect(buf.String()).To(ContainSubstring("ingest done"))
		Expect(other.String()).To(ContainSubstring("ingest done"))
	})
})

var _ = Describe("Nop", func() {
	It("is disabled at every level", func() {
		l := logger.Nop()
		Expect(l.Handler().Enabled(context.Background(), slog.LevelError)).To(BeFalse())
		Expect(func() { l.With("k", "v").WithGroup("g").Error("msg") }).NotTo(Panic())
	})
})

var _ = Describe("Multi", func() {
	It("honors each logger's level", func() {
		var console, file bytes.Buffer
		multi := logger.Multi(
			logger.New(logger.WithWriter(&console)),
			logger.New(logger.WithWriter(&file), logger.WithJSON(true), logger.WithDebug(true)),
		)

		multi.Debug("batch loaded", "batch", 3)

		Expect(console.String()).To(BeEmpty())
		Expect(decodeLine(&file)).To(HaveKeyWithValue("msg", "batch loaded"))
	})

	It("carries attributes and groups to every handler", func() {
		var a, b bytes.Buffer
		multi := logger.Multi(
			logger.New(logger.WithWriter(&a), logger.WithJSON(true)),
			logger.New(logger.WithWriter(&b), logger.WithJSON(true)),
		)

		multi.With("service", "api").WithGroup("request").Info("served", "path", "/v1/recommend")

		for _, buf := range []*bytes.Buffer{&a, &b} {
			parsed := decodeLine(buf)
			Expect(parsed).To(HaveKeyWithValue("service", "api"))
			Expect(parsed["request"]).To(HaveKeyWithValue("path", "/v1/recommend"))
		}
	})

	It("keeps writing after one handler fails", func() {
		var buf bytes.Buffer
		ok := logger.New(logger.WithWriter(&buf))
		multi := logger.Multi(slog.New(failingHandler{}), ok)

		err := multi.Handler().Handle(context.Background(), slog.NewRecord(timeZero, slog.LevelInfo, "still here", 0))
		Expect(err).To(MatchError("disk full"))
		Expect(buf.String()).To(ContainSubstring("still here"))
	})
})
