// Package deletecmder provides the delete command that drops record and
// vector collections.
package deletecmder

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/artomo/cmd/artomo/bootstrap"
	"github.com/papercomputeco/artomo/pkg/cliui"
	"github.com/papercomputeco/artomo/pkg/config"
	"github.com/papercomputeco/artomo/pkg/pipeline"
)

const deleteLongDesc string = `Delete collections.

Names containing "cleaned" or "embedded" are vector store collections and
are dropped with their indexes. Category names (gallery, exhibition, user,
prompt, queries, reflection) empty the matching record store collection.

Examples:
  artomo delete embedded_exhibitions
  artomo delete exhibition gallery`

const deleteShortDesc string = "Delete record or vector collections"

var deleteFlags = append(append([]string{}, config.StorageFlags...), config.VectorFlags...)

type deleteCommander struct {
	cfg    *config.Config
	logger *slog.Logger
}

func NewDeleteCmd() *cobra.Command {
	cmder := &deleteCommander{}

	cmd := &cobra.Command{
		Use:   "delete <collection>...",
		Short: deleteShortDesc,
		Long:  deleteLongDesc,
		Args:  cobra.MinimumNArgs(1),
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			cmder.cfg, err = bootstrap.Load(cmd, deleteFlags...)
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			log, err := bootstrap.Logger(cmd, "delete")
			if err != nil {
				return err
			}
			cmder.logger = log
			return cmder.run(cmd.Context(), args)
		},
	}

	config.AddFlags(cmd, config.Flags, deleteFlags...)

	return cmd
}

func (c *deleteCommander) run(ctx context.Context, names []string) error {
	store, err := bootstrap.NewStore(ctx, c.cfg, c.logger)
	if err != nil {
		return err
	}
	defer store.Close()

	vectors, err := bootstrap.NewVectorDriver(ctx, c.cfg, c.logger)
	if err != nil {
		return err
	}
	defer vectors.Close()

	deleted, failed := pipeline.NewDeleter(store, vectors, c.logger).Delete(ctx, names)

	fmt.Printf("\n  %s Deleted %s of %d collections\n\n",
		cliui.SuccessMark,
		cliui.NameStyle.Render(strconv.Itoa(deleted)),
		len(names),
	)
	if failed > 0 {
		return fmt.Errorf("%d collections could not be deleted", failed)
	}
	return nil
}
