// Package artomocmder is the root of the artomo command tree.
package artomocmder

import (
	"github.com/spf13/cobra"

	configcmder "github.com/papercomputeco/artomo/cmd/artomo/config"
	deletecmder "github.com/papercomputeco/artomo/cmd/artomo/delete"
	ingestcmder "github.com/papercomputeco/artomo/cmd/artomo/ingest"
	initcmder "github.com/papercomputeco/artomo/cmd/artomo/init"
	pipelinecmder "github.com/papercomputeco/artomo/cmd/artomo/pipeline"
	recommendcmder "github.com/papercomputeco/artomo/cmd/artomo/recommend"
	servecmder "github.com/papercomputeco/artomo/cmd/artomo/serve"
	workercmder "github.com/papercomputeco/artomo/cmd/artomo/worker"
	versioncmder "github.com/papercomputeco/artomo/cmd/version"
	"github.com/papercomputeco/artomo/pkg/utils"
)

const artomoLongDesc string = `artomo recommends art exhibitions.

Keep the exhibition index up to date:
  artomo ingest        Crawl the gallery sheet into the record store
  artomo pipeline      Clean, embed and load records into the vector store
  artomo delete        Drop record or vector collections

Serve recommendations:
  artomo serve         Run the API server (with the MCP endpoint)
  artomo worker        Generate queued exhibition reports
  artomo recommend     Ask a running API server for recommendations
  artomo report        Show the report for one exhibition
  artomo active        List active exhibitions by area`

const artomoShortDesc string = "artomo - Art Exhibition Recommender"

func NewArtomoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "artomo",
		Short:         artomoShortDesc,
		Long:          artomoLongDesc,
		Version:       utils.VersionString(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags
	cmd.PersistentFlags().BoolP("debug", "d", false, "Enable debug logging")
	cmd.PersistentFlags().Bool("log-json", false, "Write logs as JSON")
	cmd.PersistentFlags().String("log-file", "", "Also append JSON logs to this file")
	cmd.PersistentFlags().String("config-dir", "", "Override the .artomo/ config directory")

	cmd.AddCommand(configcmder.NewConfigCmd())
	cmd.AddCommand(initcmder.NewInitCmd())
	cmd.AddCommand(ingestcmder.NewIngestCmd())
	cmd.AddCommand(pipelinecmder.NewPipelineCmd())
	cmd.AddCommand(deletecmder.NewDeleteCmd())
	cmd.AddCommand(servecmder.NewServeCmd())
	cmd.AddCommand(workercmder.NewWorkerCmd())
	cmd.AddCommand(recommendcmder.NewRecommendCmd())
	cmd.AddCommand(recommendcmder.NewReportCmd())
	cmd.AddCommand(recommendcmder.NewActiveCmd())
	cmd.AddCommand(versioncmder.NewVersionCmd())

	return cmd
}
