// Package embeddingutils is the embeddings utility package
package embeddingutils

import (
	"context"
	"fmt"

	"github.com/papercomputeco/artomo/pkg/embeddings"
	"github.com/papercomputeco/artomo/pkg/embeddings/ollama"
	"github.com/papercomputeco/artomo/pkg/embeddings/tei"
)

type NewEmbedderOpts struct {
	ProviderType   string
	TargetURL      string
	Model          string
	Dimensions     int
	MaxInputLength int
}

func NewEmbedder(ctx context.Context, o *NewEmbedderOpts) (embeddings.Embedder, error) {
	switch o.ProviderType {
	case "ollama":
		return ollama.NewEmbedder(ollama.EmbedderConfig{
			BaseURL:        o.TargetURL,
			Model:          o.Model,
			Dimensions:     o.Dimensions,
			MaxInputLength: o.MaxInputLength,
		})
	case "tei":
		return tei.NewEmbedder(ctx, tei.Config{
			BaseURL:        o.TargetURL,
			Model:          o.Model,
			Dimensions:     o.Dimensions,
			MaxInputLength: o.MaxInputLength,
		})
	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", o.ProviderType)
	}
}
