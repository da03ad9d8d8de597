package cliui

import (
	"os"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"
	"golang.org/x/term"
)

// DefaultWidth is used when stdout is not a terminal.
const DefaultWidth = 80

var cardStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(lipgloss.Color("63")).
	Padding(0, 1)

// Field is one labelled line of a card.
type Field struct {
	Key   string
	Value string
}

// TerminalWidth returns the width of stdout, or DefaultWidth when stdout is
// not a terminal.
func TerminalWidth() int {
	fd := int(os.Stdout.Fd())
	if !term.IsTerminal(fd) {
		return DefaultWidth
	}
	w, _, err := term.GetSize(fd)
	if err != nil || w <= 0 {
		return DefaultWidth
	}
	return w
}

// Card renders a bordered block with a title and one line per non-empty
// field. Lines wider than width are truncated with an ellipsis.
func Card(title string, fields []Field, width int) string {
	inner := max(width-4, 10)

	lines := []string{ansi.Truncate(NameStyle.Render(title), inner, "…")}
	for _, f := range fields {
		if f.Value == "" {
			continue
		}
		line := KeyStyle.Render(f.Key+":") + " " + ValueStyle.Render(oneLine(f.Value))
		lines = append(lines, ansi.Truncate(line, inner, "…"))
	}

	return cardStyle.Render(strings.Join(lines, "\n"))
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
