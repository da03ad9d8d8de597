package vectorutils

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/papercomputeco/artomo/pkg/vector"
	"github.com/papercomputeco/artomo/pkg/vector/chroma"
	"github.com/papercomputeco/artomo/pkg/vector/inmemory"
	"github.com/papercomputeco/artomo/pkg/vector/qdrant"
	"github.com/papercomputeco/artomo/pkg/vector/sqlitevec"
)

type NewVectorDriverOpts struct {
	ProviderType string
	TargetURL    string
	APIKey       string
	Dimensions   uint
	Logger       *slog.Logger
}

func NewVectorDriver(_ context.Context, o *NewVectorDriverOpts) (vector.Driver, error) {
	switch o.ProviderType {
	case "qdrant":
		return qdrant.NewDriver(qdrant.Config{
			Target:     o.TargetURL,
			APIKey:     o.APIKey,
			Dimensions: uint64(o.Dimensions),
		}, o.Logger)
	case "chroma":
		return chroma.NewDriver(chroma.Config{
			URL: o.TargetURL,
		}, o.Logger)
	case "sqlite":
		return sqlitevec.NewDriver(sqlitevec.Config{
			DBPath:     o.TargetURL,
			Dimensions: o.Dimensions,
		}, o.Logger)
	case "memory", "":
		return inmemory.NewDriver(o.Logger), nil
	default:
		return nil, fmt.Errorf("unsupported vector store provider: %s", o.ProviderType)
	}
}
