package report

import (
	"bytes"
	"embed"
	"fmt"
	"text/template"
)

//go:embed prompts/*.tmpl
var promptFS embed.FS

var prompts = template.Must(template.New("prompts").Option("missingkey=zero").ParseFS(promptFS, "prompts/*.tmpl"))

// RecommendationPrompt is the data rendered into the recommendation
// report prompt.
type RecommendationPrompt struct {
	Query   map[string]string
	Filters map[string]string
	Text    string
	Context string
	Count   int
}

// ExhibitionPrompt is the data rendered into the single exhibition prompt.
// A nil Query renders the untailored variant.
type ExhibitionPrompt struct {
	Query   map[string]string
	Context string
}

func render(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := prompts.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("rendering %s: %w", name, err)
	}
	return buf.String(), nil
}
