// Package configcmder provides the config command for managing persistent
// artomo configuration stored in the .artomo/ directory.
package configcmder

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/artomo/pkg/cliui"
	"github.com/papercomputeco/artomo/pkg/config"
)

const configLongDesc string = `Manage persistent artomo configuration.

Configuration is stored as config.toml in the .artomo/ directory and provides
default values for command flags. CLI flags and ARTOMO_* environment
variables take precedence over config file values.

Keys use dotted notation matching the TOML section structure, for example:
  storage.provider, storage.sqlite_path, storage.postgres_dsn,
  vector_store.provider, vector_store.target,
  embedding.provider, embedding.model, embedding.dimensions,
  reranker.provider, llm.model, llm.api_key,
  report_cache.provider, report_cache.ttl,
  eventstream.provider, eventstream.brokers,
  ingest.source, ingest.workers

Use subcommands to get, set, or list configuration values:
  artomo config set <key> <value>    Set a configuration value
  artomo config get <key>            Get a configuration value
  artomo config list                 List all configuration values

Examples:
  artomo config set vector_store.provider qdrant
  artomo config set report_cache.ttl 12h
  artomo config get embedding.model
  artomo config list`

const configShortDesc string = "Manage persistent artomo configuration"

func NewConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: configShortDesc,
		Long:  configLongDesc,
	}

	cmd.AddCommand(newSetCmd())
	cmd.AddCommand(newGetCmd())
	cmd.AddCommand(newListCmd())

	return cmd
}

func completeKeys(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
	if len(args) == 0 {
		return config.ValidConfigKeys(), cobra.ShellCompDirectiveNoFileComp
	}
	return nil, cobra.ShellCompDirectiveNoFileComp
}

func printTarget(cfger *config.Configer) {
	if target := cfger.GetTarget(); target != "" {
		fmt.Printf("\n  %s %s\n\n",
			cliui.KeyStyle.Render("Config file:"),
			cliui.DimStyle.Render(target),
		)
		return
	}
	fmt.Printf("\n  %s\n\n", cliui.DimStyle.Render("No config file found. Using defaults."))
}
