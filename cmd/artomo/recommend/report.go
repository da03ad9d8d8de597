package recommendcmder

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/papercomputeco/artomo/cmd/artomo/bootstrap"
	"github.com/papercomputeco/artomo/pkg/cliui"
	"github.com/papercomputeco/artomo/pkg/config"
)

const reportLongDesc string = `Show the report for one exhibition via the artomo API.

The cached report is returned when there is one; --refresh writes a new
report. Facets tailor a newly written report to the visit.

Examples:
  artomo report 3f0c8f9e-0d4c-4a51-9a43-2f7b8f0e6a11
  artomo report 3f0c8f9e-0d4c-4a51-9a43-2f7b8f0e6a11 --level beginner --refresh`

const reportShortDesc string = "Show the report for one exhibition"

type reportCommander struct {
	facets  facetFlags
	refresh bool

	apiTarget string
}

func NewReportCmd() *cobra.Command {
	cmder := &reportCommander{}

	cmd := &cobra.Command{
		Use:   "report <exhibition-id>",
		Short: reportShortDesc,
		Long:  reportLongDesc,
		Args:  cobra.ExactArgs(1),
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := bootstrap.Load(cmd, clientFlags...)
			if err != nil {
				return err
			}
			cmder.apiTarget = cfg.Client.APITarget
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmder.run(cmd.Context(), args[0])
		},
	}

	cmder.facets.register(cmd)
	cmd.Flags().BoolVar(&cmder.refresh, "refresh", false, "Write a new report instead of using the cached one")
	config.AddFlags(cmd, config.Flags, clientFlags...)

	return cmd
}

func (c *reportCommander) run(ctx context.Context, uid string) error {
	if _, err := uuid.Parse(uid); err != nil {
		return fmt.Errorf("invalid exhibition id %q", uid)
	}

	var text string
	err := cliui.Step(os.Stderr, "Fetching report", func() error {
		var err error
		text, err = ExhibitionReportAPI(ctx, c.apiTarget, uid, c.facets.Facets(), c.refresh)
		return err
	})
	if err != nil {
		return err
	}

	rendered, err := cliui.RenderMarkdown(text, cliui.TerminalWidth())
	if err != nil {
		rendered = text
	}
	fmt.Print(rendered)
	return nil
}
