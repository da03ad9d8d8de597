package preprocess

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/papercomputeco/artomo/pkg/content"
)

// CleaningHandlers has one cleaner per category. A nil field means the
// category cannot be cleaned and dispatching it is a configuration error.
type CleaningHandlers struct {
	Gallery    func(*content.Gallery) *content.CleanedGallery
	Exhibition func(*content.Exhibition) *content.CleanedExhibition
	User       func(*content.User) *content.CleanedUser
	Prompt     func(*content.Prompt) *content.CleanedPrompt
	Query      func(*content.Query) *content.CleanedQuery
	Reflection func(*content.Reflection) *content.CleanedReflection
}

// DefaultCleaningHandlers covers every category. Long free text
// (descriptions, content) is normalized with CleanText. Names, artist, area
// and addresses are kept verbatim because they are matched exactly by
// deduplication and search filters.
func DefaultCleaningHandlers() CleaningHandlers {
	return CleaningHandlers{
		Gallery:    CleanGallery,
		Exhibition: CleanExhibition,
		User:       CleanUser,
		Prompt:     CleanPrompt,
		Query:      CleanQuery,
		Reflection: CleanReflection,
	}
}

func CleanGallery(g *content.Gallery) *content.CleanedGallery {
	out := *g
	out.Description = CleanText(g.Description)
	return &content.CleanedGallery{Gallery: out}
}

func CleanExhibition(e *content.Exhibition) *content.CleanedExhibition {
	out := *e
	out.Description = CleanText(e.Description)
	out.DescriptionJapanese = CleanText(e.DescriptionJapanese)
	out.DescriptionEnglish = CleanText(e.DescriptionEnglish)
	return &content.CleanedExhibition{Exhibition: out}
}

func CleanUser(u *content.User) *content.CleanedUser {
	out := *u
	out.Content = CleanText(u.Content)
	return &content.CleanedUser{User: out}
}

func CleanPrompt(p *content.Prompt) *content.CleanedPrompt {
	out := *p
	out.Content = CleanText(p.Content)
	return &content.CleanedPrompt{Prompt: out}
}

// CleanQuery only trims; the query text is embedded as the user wrote it.
func CleanQuery(q *content.Query) *content.CleanedQuery {
	out := *q
	out.Content = strings.Trim(q.Content, "\n ")
	return &content.CleanedQuery{Query: out}
}

func CleanReflection(r *content.Reflection) *content.CleanedReflection {
	return &content.CleanedReflection{
		Base:           r.Base,
		Name:           r.Name,
		Content:        CleanText(r.Description),
		ReflectionDate: r.ReflectionDate,
	}
}

// CleaningDispatcher resolves the cleaner for a raw record's category.
type CleaningDispatcher struct {
	handlers CleaningHandlers
	logger   *slog.Logger
}

func NewCleaningDispatcher(handlers CleaningHandlers, logger *slog.Logger) *CleaningDispatcher {
	return &CleaningDispatcher{handlers: handlers, logger: logger}
}

// Clean returns the cleaned variant of r. A category without a cleaner
// returns *content.ConfigurationError.
func (d *CleaningDispatcher) Clean(r content.Record) (content.Cleaned, error) {
	var out content.Cleaned

	switch rec := r.(type) {
	case *content.Gallery:
		if d.handlers.Gallery == nil {
			return nil, missingHandler(stageCleaning, rec.Category())
		}
		out = d.handlers.Gallery(rec)
	case *content.Exhibition:
		if d.handlers.Exhibition == nil {
			return nil, missingHandler(stageCleaning, rec.Category())
		}
		out = d.handlers.Exhibition(rec)
	case *content.User:
		if d.handlers.User == nil {
			return nil, missingHandler(stageCleaning, rec.Category())
		}
		out = d.handlers.User(rec)
	case *content.Prompt:
		if d.handlers.Prompt == nil {
			return nil, missingHandler(stageCleaning, rec.Category())
		}
		out = d.handlers.Prompt(rec)
	case *content.Query:
		if d.handlers.Query == nil {
			return nil, missingHandler(stageCleaning, rec.Category())
		}
		out = d.handlers.Query(rec)
	case *content.Reflection:
		if d.handlers.Reflection == nil {
			return nil, missingHandler(stageCleaning, rec.Category())
		}
		out = d.handlers.Reflection(rec)
	default:
		return nil, fmt.Errorf("%w: %T", ErrNotRaw, r)
	}

	d.logger.Debug("record cleaned",
		"category", out.Category(),
		"id", out.RecordID(),
		"cleaned_len", len(out.EmbeddingText()),
	)

	return out, nil
}

// CleanAll cleans records in order. The first configuration error stops
// the run.
func (d *CleaningDispatcher) CleanAll(records []content.Record) ([]content.Cleaned, error) {
	out := make([]content.Cleaned, 0, len(records))
	for _, r := range records {
		c, err := d.Clean(r)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}
