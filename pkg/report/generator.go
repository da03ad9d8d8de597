package report

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/papercomputeco/artomo/pkg/content"
)

// Generator renders prompts and turns model answers into reports.
type Generator struct {
	model  LanguageModel
	params Params
	logger *slog.Logger
}

func NewGenerator(model LanguageModel, params Params, logger *slog.Logger) *Generator {
	return &Generator{model: model, params: params, logger: logger}
}

// Recommendation writes the report for a ranked shortlist.
func (g *Generator) Recommendation(ctx context.Context, query *content.Query, filters map[string]string, docs []*content.EmbeddedExhibition) (string, error) {
	prompt, err := render("recommendation.tmpl", RecommendationPrompt{
		Query:   query.Facets,
		Filters: filters,
		Text:    textOnly(query),
		Context: content.ExhibitionContext(docs),
		Count:   len(docs),
	})
	if err != nil {
		return "", err
	}
	return g.complete(ctx, prompt)
}

// Exhibition writes the report for one exhibition.
func (g *Generator) Exhibition(ctx context.Context, query map[string]string, e *content.Exhibition) (string, error) {
	prompt, err := render("exhibition.tmpl", ExhibitionPrompt{
		Query:   query,
		Context: exhibitionContext(e),
	})
	if err != nil {
		return "", err
	}
	return g.complete(ctx, prompt)
}

func (g *Generator) complete(ctx context.Context, prompt string) (string, error) {
	g.logger.Debug("requesting completion", "prompt_len", len(prompt))

	answer, err := g.model.Complete(ctx, prompt, g.params)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrCompletion, err)
	}
	return ParseReport(answer)
}

// ParseReport extracts the report from a model answer of the form
// {"report": "..."}. Typographic quotes and zero-width characters are
// normalized and surrounding prose or code fences are ignored.
func ParseReport(answer string) (string, error) {
	raw := sanitize(answer)

	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end < start {
		return "", fmt.Errorf("%w: no JSON object", ErrMalformedReport)
	}

	var payload struct {
		Report *string `json:"report"`
	}
	if err := json.Unmarshal([]byte(raw[start:end+1]), &payload); err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformedReport, err)
	}
	if payload.Report == nil {
		return "", fmt.Errorf("%w: missing report field", ErrMalformedReport)
	}
	return *payload.Report, nil
}

var sanitizer = strings.NewReplacer(
	"\u201c", `"`, "\u201d", `"`,
	"\u200b", "", "\u200c", "", "\u200d", "", "\u200e", "", "\u200f", "",
	"\u202a", "", "\u202b", "", "\u202c", "", "\u202d", "", "\u202e", "",
)

func sanitize(s string) string {
	return sanitizer.Replace(s)
}

// textOnly returns the free text of a query that carries no facets.
func textOnly(q *content.Query) string {
	if len(q.Facets) > 0 {
		return ""
	}
	return q.Content
}

func exhibitionContext(e *content.Exhibition) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Exhibition Name: %s\n", e.Name)
	fmt.Fprintf(&b, "Description: %s\n", e.Description)
	if !e.StartDate.IsZero() {
		fmt.Fprintf(&b, "Exhibition Start Date: %s\n", e.StartDate.Format("2006-01-02"))
	}
	if !e.EndDate.IsZero() {
		fmt.Fprintf(&b, "Exhibition End Date: %s\n", e.EndDate.Format("2006-01-02"))
	}
	if e.Artist != "" {
		fmt.Fprintf(&b, "Artist: %s\n", e.Artist)
	}
	return b.String()
}
