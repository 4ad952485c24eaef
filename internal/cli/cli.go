package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/Takheer/mstroy-test/pkg/buildinfo"
	"github.com/Takheer/mstroy-test/pkg/cache"
	recordio "github.com/Takheer/mstroy-test/pkg/io"
	"github.com/Takheer/mstroy-test/pkg/tree"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "treestore"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// Config is loaded before any subcommand runs.
	Config     Config
	configPath string
}

// New creates a new CLI instance with a default logger and configuration.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: DefaultConfig(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Treestore indexes flat parent/child records as a tree",
		Long: `Treestore loads a flat list of records linked by parent ids and answers
children, descendants and ancestors queries in constant time. Records can be
inspected, edited with mutation scripts, rendered as diagrams or served over
HTTP.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, path, err := LoadConfig(c.configPath)
			if err != nil {
				return err
			}
			c.Config = cfg
			if path != "" {
				c.Logger.Debug("loaded config", "path", path)
			}
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/treestore/config.toml)")

	root.AddCommand(c.showCommand())
	root.AddCommand(c.treeCommand())
	root.AddCommand(c.queryCommand())
	root.AddCommand(c.applyCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.browseCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Store & Cache Factories
// =============================================================================

// loadStore reads a record file and indexes it with the configured order.
func (c *CLI) loadStore(path string) (*tree.Store, error) {
	prog := newProgress(c.Logger)
	records, err := recordio.Import(path)
	if err != nil {
		return nil, err
	}
	order, err := tree.ParseOrder(c.Config.Store.Order)
	if err != nil {
		return nil, err
	}
	s, err := tree.New(records, tree.Options{Order: order, Logger: c.Logger})
	if err != nil {
		return nil, fmt.Errorf("index %s: %w", path, err)
	}
	prog.debug(fmt.Sprintf("Indexed %s", pluralize(s.Len(), "record")))
	return s, nil
}

// newCache opens the configured artifact cache, instrumented for metrics.
// A file cache that cannot be created degrades to no caching.
func (c *CLI) newCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	switch c.Config.Cache.Backend {
	case backendNone:
		return cache.NewNullCache(), nil
	case backendRedis:
		rc, err := cache.NewRedisCache(ctx, cache.RedisConfig{Addr: c.Config.Cache.RedisAddr})
		if err != nil {
			return nil, err
		}
		return cache.Instrument(rc), nil
	}
	dir, err := cacheDir()
	if err != nil {
		c.Logger.Warn("cache disabled", "err", err)
		return cache.NewNullCache(), nil
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		c.Logger.Warn("cache disabled", "err", err)
		return cache.NewNullCache(), nil
	}
	return cache.Instrument(fc), nil
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/treestore/).
func cacheDir() (string, error) {
	return cache.DefaultDir()
}
