package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/searchlab/pkg/pipeline"
	"github.com/matzehuels/searchlab/pkg/search"
)

// compareCommand creates the compare command.
func (c *CLI) compareCommand() *cobra.Command {
	var (
		sf         searchFlags
		df         domainFlags
		strategies []string
		jsonOut    bool
	)

	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Run every strategy on the same problem",
		Long: `Run the same problem once per strategy in parallel and print a table of
path cost, expansions and peak frontier size. The best row (cheapest path,
then fewest expansions) is marked.

Runs that hit --max-expansions or --timeout are listed with their error
instead of failing the comparison.

Examples:
  searchlab compare graph
  searchlab compare puzzle 867254301 --max-expansions 100000
  searchlab compare waterjug --strategies bfs,astar`,
	}
	sf.register(cmd, false)
	cmd.PersistentFlags().StringSliceVar(&strategies, "strategies", nil, "strategies to run (default: all)")
	cmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "print the comparison as JSON")

	for _, sub := range domainCommands(&df, false, func(cmd *cobra.Command, opts pipeline.Options) error {
		opts.Refresh = sf.refresh
		return c.runCompare(cmd.Context(), cmd.OutOrStdout(), opts, strategies, jsonOut)
	}) {
		cmd.AddCommand(sub)
	}
	return cmd
}

func (c *CLI) runCompare(ctx context.Context, out io.Writer, opts pipeline.Options, names []string, jsonOut bool) error {
	strategies, err := parseStrategies(names)
	if err != nil {
		return err
	}
	c.applyConfig(&opts)

	runner, err := c.newRunner(ctx)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	total := len(strategies)
	if total == 0 {
		total = len(search.Strategies())
	}
	tracker, restore := trackSearches(total)
	defer restore()

	prog := newProgress(c.Logger)
	spinner := newSpinner(ctx, os.Stderr, fmt.Sprintf("Comparing strategies on %s...", opts.Domain), tracker.status)
	spinner.Start()
	results, err := runner.Compare(ctx, opts, strategies)
	if err != nil {
		spinner.StopWithError("Comparison failed")
		return err
	}
	spinner.Stop()
	prog.done(fmt.Sprintf("Compared %d strategies", len(results)))

	if jsonOut {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}

	printComparison(results)
	if best := pipeline.Best(results); best != nil {
		printSuccess("Best: %s", StyleNumber.Render(best.Strategy))
	} else {
		printWarning("No strategy found a solution")
	}
	return nil
}

// parseStrategies converts strategy names; empty means all strategies.
func parseStrategies(names []string) ([]search.Strategy, error) {
	out := make([]search.Strategy, 0, len(names))
	for _, name := range names {
		s, err := search.ParseStrategy(name)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}
