package cli

import (
	"context"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/searchlab/pkg/buildinfo"
	"github.com/matzehuels/searchlab/pkg/cache"
	"github.com/matzehuels/searchlab/pkg/config"
	"github.com/matzehuels/searchlab/pkg/errors"
	"github.com/matzehuels/searchlab/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "searchlab"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// flagBindings maps config keys to the flags that override them. Keys whose
// flag is not defined on the running command are skipped.
var flagBindings = map[string]string{
	"search.strategy":       "strategy",
	"search.max-expansions": "max-expansions",
	"search.timeout":        "timeout",
	"cache.backend":         "cache-backend",
	"cache.dir":             "cache-dir",
	"server.listen":         "listen",
	"server.graph-dir":      "graph-dir",
	"log.level":             "log-level",
}

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configFile string
	noCache    bool
	verbose    bool
	cfg        *config.Config
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		cfg:    defaultConfig(),
	}
}

func defaultConfig() *config.Config {
	cfg := config.Defaults()
	return &cfg
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Searchlab runs classic state-space searches",
		Long: `Searchlab solves state-space search problems with breadth-first, depth-first,
greedy best-first and A* search.

Built-in domains are explicit weighted graphs (JSON, TOML or YAML files), the
two water jug puzzle, the 8-puzzle and N-queens. Results are cached locally and
the same engine is available over HTTP with 'searchlab serve'.`,
		Version:           buildinfo.Version,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: c.preRun,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configFile, "config", "", "config file (default: user config dir or ./"+config.FileName+")")
	root.PersistentFlags().BoolVar(&c.noCache, "no-cache", false, "disable the solution cache")
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")

	root.AddCommand(c.solveCommand())
	root.AddCommand(c.compareCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// preRun loads the configuration, binding the running command's flags, and
// applies the log level.
func (c *CLI) preRun(cmd *cobra.Command, _ []string) error {
	bindings := make(map[string]string)
	for key, name := range flagBindings {
		if cmd.Flags().Lookup(name) != nil {
			bindings[key] = name
		}
	}
	cfg, err := config.Load(config.LoadOptions{
		File:     c.configFile,
		Flags:    cmd.Flags(),
		Bindings: bindings,
	})
	if err != nil {
		return err
	}
	c.cfg = cfg

	level, err := log.ParseLevel(cfg.Log.Level)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "log.level")
	}
	if c.verbose {
		level = LogDebug
	}
	c.SetLogLevel(level)
	if cfg.File != "" {
		c.Logger.Debug("config loaded", "file", cfg.File)
	}
	cmd.SetContext(withLogger(cmd.Context(), c.Logger))
	return nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner backed by the configured cache.
func (c *CLI) newRunner(ctx context.Context) (*pipeline.Runner, error) {
	cc, err := c.newCache(ctx)
	if err != nil {
		return nil, err
	}
	r := pipeline.NewRunner(cc, nil, c.Logger)
	r.TTL = c.cfg.Cache.TTL
	return r, nil
}

func (c *CLI) newCache(ctx context.Context) (cache.Cache, error) {
	if c.noCache {
		return cache.NewNullCache(), nil
	}
	switch c.cfg.Cache.Backend {
	case config.BackendNone:
		return cache.NewNullCache(), nil
	case config.BackendRedis:
		return cache.NewRedisCache(ctx, cache.RedisOptions{
			Addr:     c.cfg.Redis.Addr,
			Password: c.cfg.Redis.Password,
			DB:       c.cfg.Redis.DB,
			Prefix:   c.cfg.Redis.Prefix,
		})
	}
	dir, err := c.cacheDir()
	if err != nil {
		c.Logger.Warn("cache disabled", "err", err)
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// cacheDir returns the configured cache directory or the per-user default.
func (c *CLI) cacheDir() (string, error) {
	if c.cfg.Cache.Dir != "" {
		return c.cfg.Cache.Dir, nil
	}
	return cache.DefaultDir()
}

// =============================================================================
// Options Helpers
// =============================================================================

// applyConfig fills search defaults from the loaded configuration.
func (c *CLI) applyConfig(opts *pipeline.Options) {
	if opts.Strategy == "" {
		opts.Strategy = c.cfg.Search.Strategy
	}
	if opts.MaxExpansions == 0 {
		opts.MaxExpansions = c.cfg.Search.MaxExpansions
	}
	if opts.Timeout == 0 {
		opts.Timeout = c.cfg.Search.Timeout
	}
	opts.Logger = c.Logger
}
