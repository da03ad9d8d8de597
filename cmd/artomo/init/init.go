// Package initcmder provides the init command for initializing a local
// .artomo directory in the current working directory.
package initcmder

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/artomo/pkg/cliui"
	"github.com/papercomputeco/artomo/pkg/config"
)

const (
	dirName = ".artomo"

	remoteTimeout = 10 * time.Second
)

const initLongDesc string = `Initialize a new .artomo/ directory in the current working directory.

Creates a local .artomo/ directory holding config.toml. A local directory
takes precedence over ~/.artomo/ for configuration and the SQLite stores.

Use --preset to start from a deployment preset or a config.toml served
over HTTP(S). An existing config.toml is only replaced when --preset is
given.

Presets:
  local        SQLite records and vectors, ollama embeddings, in-memory cache
  production   Postgres, Qdrant, TEI embeddings and reranker, Redis, Kafka

Examples:
  artomo init
  artomo init --preset production
  artomo init --preset https://example.com/artomo/config.toml`

const initShortDesc string = "Initialize a local .artomo/ directory"

type initCommander struct {
	preset string
}

func NewInitCmd() *cobra.Command {
	cmder := &initCommander{}

	cmd := &cobra.Command{
		Use:   "init",
		Short: initShortDesc,
		Long:  initLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmder.run(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&cmder.preset, "preset", "", "Preset name ("+strings.Join(config.ValidPresetNames(), ", ")+") or config.toml URL")

	return cmd
}

func (c *initCommander) run(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("getting current directory: %w", err)
	}

	dir := filepath.Join(cwd, dirName)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating .artomo directory: %w", err)
	}

	path := filepath.Join(dir, "config.toml")
	_, statErr := os.Stat(path)
	exists := statErr == nil
	if exists && c.preset == "" {
		fmt.Printf("Already initialized: %s\n", dir)
		return nil
	}

	cfg, err := c.resolve(ctx)
	if err != nil {
		return err
	}

	cfger, err := config.NewConfiger(dir)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if err := cfger.SaveConfig(cfg); err != nil {
		return err
	}

	fmt.Printf("  %s Initialized %s\n", cliui.SuccessMark, cliui.DimStyle.Render(path))
	return nil
}

// resolve returns the config to write: defaults, a named preset, or a
// remote config.toml.
func (c *initCommander) resolve(ctx context.Context) (*config.Config, error) {
	switch {
	case c.preset == "":
		return config.NewDefaultConfig(), nil
	case strings.HasPrefix(c.preset, "http://") || strings.HasPrefix(c.preset, "https://"):
		return fetchRemote(ctx, c.preset)
	default:
		return config.PresetConfig(c.preset)
	}
}

func fetchRemote(ctx context.Context, url string) (*config.Config, error) {
	ctx, cancel := context.WithTimeout(ctx, remoteTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("fetching remote config: %w", err)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching remote config: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching remote config: HTTP %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("reading remote config: %w", err)
	}
	if len(data) == 0 {
		return nil, errors.New("remote config is empty")
	}

	return config.ParseConfigTOML(data)
}
