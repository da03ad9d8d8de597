package content

import "time"

// Cleaned is a record whose free text has been normalized. EmbeddingText is
// the text the embedding stage feeds to the model: the description for
// exhibitions and the content for every other category.
type Cleaned interface {
	Record
	EmbeddingText() string
	cleaned()
}

type CleanedGallery struct {
	Gallery
}

func (CleanedGallery) cleaned() {}

func (g CleanedGallery) EmbeddingText() string { return "" }

type CleanedExhibition struct {
	Exhibition
}

func (CleanedExhibition) cleaned() {}

func (e CleanedExhibition) EmbeddingText() string { return e.Description }

type CleanedUser struct {
	User
}

func (CleanedUser) cleaned() {}

func (u CleanedUser) EmbeddingText() string { return u.Content }

type CleanedPrompt struct {
	Prompt
}

func (CleanedPrompt) cleaned() {}

func (p CleanedPrompt) EmbeddingText() string { return p.Content }

type CleanedQuery struct {
	Query
}

func (CleanedQuery) cleaned() {}

func (q CleanedQuery) EmbeddingText() string { return q.Content }

// CleanedReflection carries the normalized reflection text as Content.
type CleanedReflection struct {
	Base
	Name           string     `json:"name"`
	Content        string     `json:"content"`
	ReflectionDate *time.Time `json:"reflection_date,omitempty"`
}

func (CleanedReflection) Category() Category { return CategoryReflection }

func (CleanedReflection) cleaned() {}

func (r CleanedReflection) EmbeddingText() string { return r.Content }
