package configcmder

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/artomo/pkg/cliui"
	"github.com/papercomputeco/artomo/pkg/config"
)

const getLongDesc string = `Get a configuration value.

Reads the value for the given key from the config.toml file
stored in the .artomo/ directory. --raw prints only the value, for
use in scripts.

Examples:
  artomo config get storage.provider
  artomo config get --raw embedding.model`

const getShortDesc string = "Get a configuration value"

func newGetCmd() *cobra.Command {
	var raw bool

	cmd := &cobra.Command{
		Use:   "get <key>",
		Short: getShortDesc,
		Long:  getLongDesc,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			configDir, _ := cmd.Flags().GetString("config-dir")
			return runGet(cmd.OutOrStdout(), args[0], configDir, raw)
		},
		ValidArgsFunction: completeKeys,
	}
	cmd.Flags().BoolVar(&raw, "raw", false, "Print only the value")

	return cmd
}

func runGet(out io.Writer, key, configDir string, raw bool) error {
	if !config.IsValidConfigKey(key) {
		return fmt.Errorf("unknown config key: %q\n\nValid keys: %s",
			key, strings.Join(config.ValidConfigKeys(), ", "))
	}

	cfger, err := config.NewConfiger(configDir)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	value, err := cfger.GetConfigValue(key)
	if err != nil {
		return err
	}

	if raw {
		fmt.Fprintln(out, value)
		return nil
	}

	printTarget(cfger)
	shown := cliui.ValueStyle.Render(value)
	if value == "" {
		shown = cliui.DimStyle.Render("<not set>")
	}
	fmt.Fprintf(out, "  %s  %s\n\n", cliui.KeyStyle.Render(key), shown)
	return nil
}
