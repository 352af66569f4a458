package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/searchlab/pkg/cache"
	"github.com/matzehuels/searchlab/pkg/config"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	var backend, dir string

	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the solution cache",
	}
	cmd.PersistentFlags().StringVar(&backend, "cache-backend", "", "cache backend: file, redis or none (default from config)")
	cmd.PersistentFlags().StringVar(&dir, "cache-dir", "", "file cache directory (default from config)")

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove all cached solutions and renderings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cc, err := c.newCache(cmd.Context())
			if err != nil {
				return err
			}
			defer cc.Close()

			clearer, ok := cc.(cache.Clearer)
			if !ok {
				printInfo("Cache is disabled")
				return nil
			}
			n, err := clearer.Clear(cmd.Context())
			if err != nil {
				return fmt.Errorf("clear cache: %w", err)
			}
			if n == 0 {
				printInfo("Cache is empty")
				return nil
			}
			printSuccess("Cleared %d cached %s", n, pluralize(n, "entry", "entries"))
			return nil
		},
	}
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print where the cache lives",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch c.cfg.Cache.Backend {
			case config.BackendNone:
				fmt.Fprintln(out, "none")
			case config.BackendRedis:
				fmt.Fprintf(out, "redis://%s/%d %s*\n", c.cfg.Redis.Addr, c.cfg.Redis.DB, c.cfg.Redis.Prefix)
			default:
				dir, err := c.cacheDir()
				if err != nil {
					return fmt.Errorf("get cache dir: %w", err)
				}
				fmt.Fprintln(out, dir)
			}
			return nil
		},
	}
}
