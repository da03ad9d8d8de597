package recommendcmder

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/artomo/api"
	"github.com/papercomputeco/artomo/cmd/artomo/bootstrap"
	"github.com/papercomputeco/artomo/pkg/cliui"
	"github.com/papercomputeco/artomo/pkg/config"
)

const activeLongDesc string = `List exhibitions that have not ended, grouped by area.

Examples:
  artomo active
  artomo active --api-target http://localhost:9000`

const activeShortDesc string = "List active exhibitions by area"

func NewActiveCmd() *cobra.Command {
	var apiTarget string

	cmd := &cobra.Command{
		Use:   "active",
		Short: activeShortDesc,
		Long:  activeLongDesc,
		Args:  cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := bootstrap.Load(cmd, clientFlags...)
			if err != nil {
				return err
			}
			apiTarget = cfg.Client.APITarget
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runActive(cmd.Context(), apiTarget)
		},
	}

	config.AddFlags(cmd, config.Flags, clientFlags...)

	return cmd
}

func runActive(ctx context.Context, apiTarget string) error {
	groups, err := ActiveAPI(ctx, apiTarget)
	if err != nil {
		return err
	}
	fmt.Print(RenderActive(groups))
	return nil
}

// RenderActive prints one section per area.
func RenderActive(groups []api.AreaGroup) string {
	var b strings.Builder
	b.WriteString("\n")
	if len(groups) == 0 {
		b.WriteString("  " + cliui.DimStyle.Render("No active exhibitions.") + "\n\n")
		return b.String()
	}

	for _, g := range groups {
		area := g.Area
		if area == "" {
			area = "(no area)"
		}
		fmt.Fprintf(&b, "%s %s\n", cliui.HeaderStyle.Render(area), cliui.DimStyle.Render(fmt.Sprintf("(%d)", g.Count)))
		for _, e := range g.Data {
			ends := ""
			if e.ExhibitionEndDate != nil {
				ends = "until " + (*e.ExhibitionEndDate)[:min(10, len(*e.ExhibitionEndDate))]
			}
			fmt.Fprintf(&b, "  %s %s\n", cliui.NameStyle.Render(e.Name), cliui.DimStyle.Render(ends))
		}
		b.WriteString("\n")
	}
	return b.String()
}
