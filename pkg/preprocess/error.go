package preprocess

import (
	"errors"

	"github.com/papercomputeco/artomo/pkg/content"
)

const (
	stageCleaning  = "cleaning"
	stageEmbedding = "embedding"
)

var (
	// ErrNotRaw is returned when Clean is given a value that is not a raw
	// record, such as an already cleaned one.
	ErrNotRaw = errors.New("not a raw record")

	// ErrMixedCategories is returned when an embedding batch spans more
	// than one category.
	ErrMixedCategories = errors.New("embedding batch mixes categories")
)

func missingHandler(stage string, c content.Category) error {
	return &content.ConfigurationError{Stage: stage, Category: c}
}
