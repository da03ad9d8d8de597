package configcmder

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/artomo/pkg/cliui"
	"github.com/papercomputeco/artomo/pkg/config"
)

const setLongDesc string = `Set a configuration value.

Sets the given key to the provided value in the config.toml file
stored in the .artomo/ directory. Numeric keys and report_cache.ttl
are validated before the file is written.

Examples:
  artomo config set storage.provider postgres
  artomo config set embedding.dimensions 1024
  artomo config set report_cache.ttl 12h`

const setShortDesc string = "Set a configuration value"

func newSetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set <key> <value>",
		Short: setShortDesc,
		Long:  setLongDesc,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			configDir, _ := cmd.Flags().GetString("config-dir")
			return runSet(args[0], args[1], configDir)
		},
		ValidArgsFunction: completeKeys,
	}

	return cmd
}

func runSet(key, value, configDir string) error {
	if !config.IsValidConfigKey(key) {
		return fmt.Errorf("unknown config key: %q\n\nValid keys: %s",
			key, strings.Join(config.ValidConfigKeys(), ", "))
	}

	cfger, err := config.NewConfiger(configDir)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	printTarget(cfger)

	previous, err := cfger.GetConfigValue(key)
	if err != nil {
		return err
	}
	if err := cfger.SetConfigValue(key, value); err != nil {
		return err
	}

	change := cliui.ValueStyle.Render(value)
	if previous != "" && previous != value {
		change = cliui.DimStyle.Render(previous+" -> ") + change
	}
	fmt.Printf("  %s Set %s = %s\n\n", cliui.SuccessMark, cliui.KeyStyle.Render(key), change)
	return nil
}
