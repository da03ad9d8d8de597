package content

import (
	"fmt"
	"strings"
)

// ContextString renders documents as numbered, labelled blocks for a
// language model prompt. Blocks are separated by a blank line.
func ContextString(docs []Embedded) string {
	var b strings.Builder
	for i, doc := range docs {
		fmt.Fprintf(&b, "%s %d:\n", contextTitle(doc.Category()), i+1)
		for _, f := range doc.ContextFields() {
			fmt.Fprintf(&b, "%s: %s\n", f.Key, f.Value)
		}
		if i < len(docs)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

// ExhibitionContext is ContextString for a slice of exhibitions.
func ExhibitionContext(docs []*EmbeddedExhibition) string {
	generic := make([]Embedded, len(docs))
	for i, d := range docs {
		generic[i] = d
	}
	return ContextString(generic)
}

func contextTitle(c Category) string {
	switch c {
	case CategoryExhibition:
		return "Exhibition"
	case CategoryReflection:
		return "Reflection"
	case CategoryQuery:
		return "Query"
	default:
		return string(c)
	}
}
