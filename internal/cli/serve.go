package cli

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/matzehuels/searchlab/internal/server"
	"github.com/matzehuels/searchlab/pkg/cache"
	"github.com/matzehuels/searchlab/pkg/observability/prom"
	"github.com/matzehuels/searchlab/pkg/pipeline"
)

// apiKeyPrefix separates API cache entries from CLI entries in a shared
// backend.
const apiKeyPrefix = "api:"

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		listen, graphDir, backend, dir string
		metrics                        bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the search engine over HTTP",
		Long: `Serve solve, compare and render as a JSON API.

  POST /v1/solve     {"domain": "puzzle", "board": "867254301", "strategy": "astar"}
  POST /v1/compare   {"domain": "graph", "graph": {...}, "strategies": ["bfs", "astar"]}
  POST /v1/render    {"graph_file": "romania.yaml", "format": "svg", "solve": true}
  GET  /healthz
  GET  /metrics

graph_file requests are resolved inside --graph-dir and rejected without it.
Search limits from the config cap every request.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			cc, err := c.newCache(ctx)
			if err != nil {
				return fmt.Errorf("initialize cache: %w", err)
			}
			runner := pipeline.NewRunner(cc, cache.NewScopedKeyer(nil, apiKeyPrefix), c.Logger)
			runner.TTL = c.cfg.Cache.TTL
			defer runner.Close()

			sc := server.Config{
				Runner:          runner,
				Logger:          c.Logger,
				MaxBodyBytes:    c.cfg.Server.MaxBodyBytes,
				GraphDir:        c.cfg.Server.GraphDir,
				DefaultStrategy: c.cfg.Search.Strategy,
				MaxExpansions:   c.cfg.Search.MaxExpansions,
				Timeout:         c.cfg.Search.Timeout,
				ReadTimeout:     c.cfg.Server.ReadTimeout,
				WriteTimeout:    c.cfg.Server.WriteTimeout,
			}
			if metrics {
				reg := prometheus.NewRegistry()
				reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
				hooks, err := prom.New(reg)
				if err != nil {
					return fmt.Errorf("register metrics: %w", err)
				}
				hooks.Install()
				sc.Gatherer = reg
			}
			if sc.GraphDir == "" {
				logger.Warn("graph_file requests are disabled; set --graph-dir to enable them")
			}

			return server.New(sc).ListenAndServe(ctx, c.cfg.Server.Listen)
		},
	}
	cmd.Flags().StringVar(&listen, "listen", "", "address to listen on (default from config: :8080)")
	cmd.Flags().StringVar(&graphDir, "graph-dir", "", "directory graph_file requests may read from")
	cmd.Flags().StringVar(&backend, "cache-backend", "", "cache backend: file, redis or none (default from config)")
	cmd.Flags().StringVar(&dir, "cache-dir", "", "file cache directory (default from config)")
	cmd.Flags().BoolVar(&metrics, "metrics", true, "expose Prometheus metrics on /metrics")

	return cmd
}

// configCommand creates the config command.
func (c *CLI) configCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		Long: `Print the configuration after merging the config file, SEARCHLAB_*
environment variables and flags. Secrets are masked.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if c.cfg.File != "" {
				fmt.Fprintf(out, "# %s\n", c.cfg.File)
			} else {
				fmt.Fprintln(out, "# no config file; built-in defaults")
			}
			fmt.Fprintln(out, c.cfg.String())
			return nil
		},
	}
}
