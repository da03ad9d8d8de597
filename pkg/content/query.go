package content

import (
	"sort"
	"strings"
)

// Facet keys understood by the recommender. A structured query may carry any
// subset of them plus arbitrary extra keys.
const (
	FacetLevel    = "level"
	FacetDuration = "duration"
	FacetReason   = "reason"
	FacetMood     = "mood"
	FacetArea     = "area"
)

var facetOrder = []string{FacetLevel, FacetDuration, FacetReason, FacetMood, FacetArea}

// Query is a user request, either free text or a set of structured facets
// canonicalized into Content.
type Query struct {
	Base
	Content string            `json:"content"`
	Facets  map[string]string `json:"metadata,omitempty"`
}

func (Query) Category() Category { return CategoryQuery }

// NewTextQuery builds a query from free text.
func NewTextQuery(text string) *Query {
	return &Query{
		Base:    NewBase(),
		Content: strings.Trim(text, "\n "),
	}
}

// NewStructuredQuery builds a query from facets. The same facets always
// produce the same Content.
func NewStructuredQuery(facets map[string]string) *Query {
	kept := make(map[string]string, len(facets))
	for k, v := range facets {
		kept[k] = v
	}
	return &Query{
		Base:    NewBase(),
		Content: CanonicalizeFacets(facets),
		Facets:  kept,
	}
}

// CanonicalizeFacets renders facets as "key: value" pairs joined by ", ".
// Known facets come first in a fixed order, remaining keys follow sorted.
// Empty values are skipped.
func CanonicalizeFacets(facets map[string]string) string {
	parts := make([]string, 0, len(facets))
	seen := make(map[string]bool, len(facetOrder))
	for _, k := range facetOrder {
		seen[k] = true
		if v := strings.TrimSpace(facets[k]); v != "" {
			parts = append(parts, k+": "+v)
		}
	}

	extra := make([]string, 0, len(facets))
	for k := range facets {
		if !seen[k] {
			extra = append(extra, k)
		}
	}
	sort.Strings(extra)
	for _, k := range extra {
		if v := strings.TrimSpace(facets[k]); v != "" {
			parts = append(parts, k+": "+v)
		}
	}

	return strings.Join(parts, ", ")
}

// Duration returns the duration facet, if any.
func (q *Query) Duration() (string, bool) {
	v, ok := q.Facets[FacetDuration]
	return v, ok && v != ""
}
