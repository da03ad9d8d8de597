package cliui_test

import (
	"bytes"
	"errors"
	"strings"
	"time"

	"github.com/charmbracelet/x/ansi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/artomo/pkg/cliui"
)

var _ = Describe("FormatDuration", func() {
	It("uses milliseconds below a second", func() {
		Expect(cliui.FormatDuration(12 * time.Millisecond)).To(Equal("12ms"))
	})

	It("uses seconds with one decimal above a second", func() {
		Expect(cliui.FormatDuration(3200 * time.Millisecond)).To(Equal("3.2s"))
	})
})

var _ = Describe("Step", func() {
	It("returns the error from fn and prints the message", func() {
		var buf bytes.Buffer
		boom := errors.New("boom")

		err := cliui.Step(&buf, "Embedding exhibitions", func() error { return boom })
		Expect(err).To(MatchError(boom))

		out := ansi.Strip(buf.String())
		Expect(out).To(ContainSubstring("✗ Embedding exhibitions"))
		Expect(out).To(HaveSuffix("\n"))
	})

	It("marks success", func() {
		var buf bytes.Buffer
		Expect(cliui.Step(&buf, "Loading", func() error { return nil })).To(Succeed())
		Expect(ansi.Strip(buf.String())).To(ContainSubstring("✓ Loading"))
	})
})

var _ = Describe("Card", func() {
	It("renders the title and non-empty fields", func() {
		out := ansi.Strip(cliui.Card("Light and Space", []cliui.Field{
			{Key: "Gallery", Value: "SCAI THE BATHHOUSE"},
			{Key: "Artist", Value: ""},
			{Key: "Area", Value: "Ueno"},
		}, 60))

		Expect(out).To(ContainSubstring("Light and Space"))
		Expect(out).To(ContainSubstring("Gallery: SCAI THE BATHHOUSE"))
		Expect(out).To(ContainSubstring("Area: Ueno"))
		Expect(out).NotTo(ContainSubstring("Artist"))
	})

	It("keeps every line within the width", func() {
		out := cliui.Card("Title", []cliui.Field{
			{Key: "Description", Value: strings.Repeat("long text ", 30)},
		}, 40)

		for _, line := range strings.Split(out, "\n") {
			Expect(ansi.StringWidth(line)).To(BeNumerically("<=", 40))
		}
		Expect(ansi.Strip(out)).To(ContainSubstring("…"))
	})
})
