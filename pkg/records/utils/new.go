package recordsutils

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/papercomputeco/artomo/pkg/records"
	"github.com/papercomputeco/artomo/pkg/records/inmemory"
	"github.com/papercomputeco/artomo/pkg/records/postgres"
	"github.com/papercomputeco/artomo/pkg/records/sqlite"
)

type NewStoreOpts struct {
	// ProviderType is one of "postgres", "sqlite" or "memory".
	ProviderType string

	// Target is the connection string or database path.
	Target string

	Logger *slog.Logger
}

func NewStore(ctx context.Context, o *NewStoreOpts) (records.Store, error) {
	switch o.ProviderType {
	case "postgres":
		return postgres.NewDriver(ctx, o.Target, o.Logger)
	case "sqlite":
		return sqlite.NewDriver(ctx, o.Target, o.Logger)
	case "memory", "":
		return inmemory.NewDriver(), nil
	default:
		return nil, fmt.Errorf("unsupported record store provider: %s", o.ProviderType)
	}
}
