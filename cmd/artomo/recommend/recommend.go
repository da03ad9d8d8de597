// Package recommendcmder provides the commands that query a running
// artomo API server: recommend, report and active.
package recommendcmder

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/artomo/api/recommend"
	"github.com/papercomputeco/artomo/cmd/artomo/bootstrap"
	"github.com/papercomputeco/artomo/pkg/cliui"
	"github.com/papercomputeco/artomo/pkg/config"
	"github.com/papercomputeco/artomo/pkg/content"
)

const recommendLongDesc string = `Recommend exhibitions via the artomo API.

Describe the visit with facets; --duration is required and must start with
a number of hours. Filters match exhibition fields exactly. Each result is
shown as a card followed by the written recommendation.

Examples:
  artomo recommend --duration "2 hours" --mood calm --level beginner
  artomo recommend --duration "3 hours" --area Roppongi --reason "date"
  artomo recommend --duration "1 hour" --filter artist="Yayoi Kusama" --json`

const recommendShortDesc string = "Recommend exhibitions"

var clientFlags = []string{config.FlagAPITarget}

// facetFlags holds the visit description shared by recommend and report.
type facetFlags struct {
	level    string
	duration string
	mood     string
	area     string
	reason   string
}

func (f *facetFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.level, content.FacetLevel, "", "Art knowledge level (e.g. beginner, expert)")
	cmd.Flags().StringVar(&f.duration, content.FacetDuration, "", `Time available (e.g. "2 hours")`)
	cmd.Flags().StringVar(&f.mood, content.FacetMood, "", "Current mood")
	cmd.Flags().StringVar(&f.area, content.FacetArea, "", "Preferred area (e.g. Ginza)")
	cmd.Flags().StringVar(&f.reason, content.FacetReason, "", "Reason for visiting")
}

// Facets returns the non-empty facets keyed by name.
func (f *facetFlags) Facets() map[string]string {
	out := map[string]string{}
	for k, v := range map[string]string{
		content.FacetLevel:    f.level,
		content.FacetDuration: f.duration,
		content.FacetMood:     f.mood,
		content.FacetArea:     f.area,
		content.FacetReason:   f.reason,
	} {
		if v = strings.TrimSpace(v); v != "" {
			out[k] = v
		}
	}
	return out
}

type recommendCommander struct {
	facets  facetFlags
	filters map[string]string
	asJSON  bool

	apiTarget string
}

func NewRecommendCmd() *cobra.Command {
	cmder := &recommendCommander{}

	cmd := &cobra.Command{
		Use:   "recommend",
		Short: recommendShortDesc,
		Long:  recommendLongDesc,
		Args:  cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := bootstrap.Load(cmd, clientFlags...)
			if err != nil {
				return err
			}
			cmder.apiTarget = cfg.Client.APITarget
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmder.run(cmd.Context())
		},
	}

	cmder.facets.register(cmd)
	cmd.Flags().StringToStringVar(&cmder.filters, "filter", nil, "Exact match filter on an exhibition field (key=value)")
	cmd.Flags().BoolVar(&cmder.asJSON, "json", false, "Print the raw JSON response")
	config.AddFlags(cmd, config.Flags, clientFlags...)

	return cmd
}

func (c *recommendCommander) run(ctx context.Context) error {
	facets := c.facets.Facets()
	if _, ok := facets[content.FacetDuration]; !ok {
		return fmt.Errorf("--%s is required", content.FacetDuration)
	}

	var output *recommend.Output
	err := cliui.Step(os.Stderr, "Finding exhibitions", func() error {
		var err error
		output, err = RecommendAPI(ctx, c.apiTarget, facets, c.filters)
		return err
	})
	if err != nil {
		return err
	}

	if c.asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(output)
	}

	fmt.Print(Render(output, cliui.TerminalWidth()))
	return nil
}

// Render lays out the recommendation as cards followed by the report.
func Render(output *recommend.Output, width int) string {
	var b strings.Builder
	b.WriteString("\n")

	if len(output.RecommendedExhibitions) == 0 {
		b.WriteString("  " + cliui.DimStyle.Render("No exhibitions matched. Try a longer duration or fewer filters.") + "\n\n")
		return b.String()
	}

	b.WriteString(cliui.HeaderStyle.Render(fmt.Sprintf("%d exhibitions", len(output.RecommendedExhibitions))) + "\n\n")
	for _, card := range output.RecommendedExhibitions {
		b.WriteString(cliui.Card(card.ExhibitionName, CardFields(card), width))
		b.WriteString("\n")
	}

	if output.Report != "" {
		rendered, err := cliui.RenderMarkdown(output.Report, width)
		if err != nil {
			rendered = output.Report
		}
		b.WriteString(rendered)
	}
	return b.String()
}

// CardFields lists the fields shown on a recommendation card.
func CardFields(c recommend.Card) []cliui.Field {
	dates := c.ExhibitionStartDate
	if c.ExhibitionEndDate != "" {
		dates += " - " + c.ExhibitionEndDate
	}
	gallery := c.GalleryNameEnglish
	if gallery == "" {
		gallery = c.GalleryNameJapanese
	}

	return []cliui.Field{
		{Key: "English", Value: c.ExhibitionNameEnglish},
		{Key: "Artist", Value: c.Artist},
		{Key: "Dates", Value: strings.TrimSpace(dates)},
		{Key: "Gallery", Value: gallery},
		{Key: "Area", Value: c.Area},
		{Key: "Address", Value: c.AddressEnglish},
		{Key: "Hours", Value: c.Hours},
		{Key: "Website", Value: c.Website},
		{Key: "ID", Value: c.UID},
	}
}
