// Package content holds the artomo data model: the closed set of content
// categories and the raw, cleaned and embedded records that flow through the
// ingestion and retrieval pipelines.
package content

import "fmt"

// Category is the closed enumeration of content kinds. The string value is
// also the record store collection name for the category.
type Category string

const (
	CategoryGallery    Category = "gallery"
	CategoryExhibition Category = "exhibition"
	CategoryUser       Category = "user"
	CategoryPrompt     Category = "prompt"
	CategoryQuery      Category = "queries"
	CategoryReflection Category = "reflection"
)

var categories = []Category{
	CategoryGallery,
	CategoryExhibition,
	CategoryUser,
	CategoryPrompt,
	CategoryQuery,
	CategoryReflection,
}

// Categories returns every category in declaration order.
func Categories() []Category {
	out := make([]Category, len(categories))
	copy(out, categories)
	return out
}

// ParseCategory maps a collection name back to its Category.
func ParseCategory(s string) (Category, error) {
	for _, c := range categories {
		if string(c) == s {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown category %q", s)
}

// Valid reports whether c is one of the declared categories.
func (c Category) Valid() bool {
	_, err := ParseCategory(string(c))
	return err == nil
}

func (c Category) String() string {
	return string(c)
}
