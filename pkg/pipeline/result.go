package pipeline

import (
	"fmt"
	"sort"
	"strings"

	"github.com/papercomputeco/artomo/pkg/content"
)

// Result contains statistics from a feature pipeline run.
type Result struct {
	Fetched  map[content.Category]int `json:"fetched"`
	Embedded map[content.Category]int `json:"embedded"`
	Loaded   int                      `json:"loaded"`
	Batches  int                      `json:"batches"`

	// Provenance is the embedding metadata of each category's documents.
	Provenance map[content.Category]content.EmbeddingMetadata `json:"provenance"`
}

func newResult() *Result {
	return &Result{
		Fetched:    make(map[content.Category]int),
		Embedded:   make(map[content.Category]int),
		Provenance: make(map[content.Category]content.EmbeddingMetadata),
	}
}

// Summary returns a human-readable summary of the run.
func (r *Result) Summary() string {
	categories := make([]string, 0, len(r.Fetched))
	for c := range r.Fetched {
		categories = append(categories, string(c))
	}
	sort.Strings(categories)

	var b strings.Builder
	fmt.Fprintf(&b, "Pipeline complete: %d documents loaded in %d batches", r.Loaded, r.Batches)
	for _, c := range categories {
		cat := content.Category(c)
		fmt.Fprintf(&b, "\n  %s: %d fetched, %d embedded", c, r.Fetched[cat], r.Embedded[cat])
		if meta, ok := r.Provenance[cat]; ok {
			fmt.Fprintf(&b, " (%s, %d dims)", meta.ModelID, meta.Size)
		}
	}
	return b.String()
}
