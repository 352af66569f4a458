package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/searchlab/pkg/pipeline"
	"github.com/matzehuels/searchlab/pkg/problems/graph"
	"github.com/matzehuels/searchlab/pkg/problems/puzzle"
	"github.com/matzehuels/searchlab/pkg/problems/waterjug"
)

// searchFlags are shared by solve and compare. Their values reach the
// options through the config bindings (see flagBindings); the variables
// only exist so cobra has somewhere to parse into.
type searchFlags struct {
	strategy      string
	maxExpansions int
	timeout       time.Duration
	refresh       bool
}

func (f *searchFlags) register(cmd *cobra.Command, withStrategy bool) {
	if withStrategy {
		cmd.PersistentFlags().StringVarP(&f.strategy, "strategy", "s", "", "bfs, dfs, greedy or astar (default from config: astar)")
	}
	cmd.PersistentFlags().IntVar(&f.maxExpansions, "max-expansions", 0, "abort after this many expansions (default from config)")
	cmd.PersistentFlags().DurationVar(&f.timeout, "timeout", 0, "abort after this long (default from config)")
	cmd.PersistentFlags().BoolVar(&f.refresh, "refresh", false, "ignore cached solutions")
}

// domainFlags hold the per-domain problem parameters.
type domainFlags struct {
	start, goal        string
	capA, capB, target int
	n                  int
	all                bool
}

// domainCommands builds one subcommand per domain. run receives options with
// the domain parameters filled in.
func domainCommands(f *domainFlags, withAll bool, run func(cmd *cobra.Command, opts pipeline.Options) error) []*cobra.Command {
	graphCmd := &cobra.Command{
		Use:   "graph [file]",
		Short: "Search a weighted graph from a JSON, TOML or YAML file",
		Long: `Search a weighted graph loaded from a JSON, TOML or YAML file.

Without a file the built-in six-node A* example is used (start A, goal G).
--start and --goal override the query declared in the file.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := pipeline.Options{Domain: pipeline.DomainGraph, Start: f.start, Goal: f.goal}
			if len(args) == 1 {
				opts.GraphFile = args[0]
			} else {
				data, err := exampleGraphJSON()
				if err != nil {
					return err
				}
				opts.Graph = data
			}
			return run(cmd, opts)
		},
	}
	graphCmd.Flags().StringVar(&f.start, "start", "", "start node (overrides the file)")
	graphCmd.Flags().StringVar(&f.goal, "goal", "", "goal node (overrides the file)")

	jugCmd := &cobra.Command{
		Use:   "waterjug",
		Short: "Measure a target amount with two unmarked jugs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if p, err := waterjug.New(f.capA, f.capB, f.target); err == nil && !p.Solvable() {
				printWarning("%d litres cannot be measured with jugs of %d and %d", f.target, f.capA, f.capB)
			}
			return run(cmd, pipeline.Options{
				Domain: pipeline.DomainWaterJug,
				CapA:   f.capA,
				CapB:   f.capB,
				Target: f.target,
			})
		},
	}
	jugCmd.Flags().IntVar(&f.capA, "cap-a", 4, "capacity of jug A")
	jugCmd.Flags().IntVar(&f.capB, "cap-b", 3, "capacity of jug B")
	jugCmd.Flags().IntVar(&f.target, "target", 2, "amount to measure")

	puzzleCmd := &cobra.Command{
		Use:   "puzzle [board]",
		Short: "Solve the 8-puzzle",
		Long: `Solve the 8-puzzle. The board lists tiles row by row with 0 or _ as the
blank, e.g. "123405678" or "1 2 3/4 _ 5/6 7 8". The goal is 012345678.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			board := pipeline.DefaultBoard
			if len(args) == 1 {
				board = args[0]
			}
			if b, err := puzzle.Parse(board); err == nil {
				if p, err := puzzle.New(b); err == nil && !p.Solvable() {
					printWarning("board %s is unsolvable; the search will exhaust its half of the state space", b)
				}
			}
			return run(cmd, pipeline.Options{Domain: pipeline.DomainPuzzle, Board: board})
		},
	}

	queensCmd := &cobra.Command{
		Use:   "queens",
		Short: "Place N non-attacking queens",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, pipeline.Options{Domain: pipeline.DomainQueens, N: f.n, All: f.all})
		},
	}
	queensCmd.Flags().IntVarP(&f.n, "size", "n", pipeline.DefaultQueens, "board size")
	if withAll {
		queensCmd.Flags().BoolVar(&f.all, "all", false, "enumerate every solution (depth-first)")
	}

	return []*cobra.Command{graphCmd, jugCmd, puzzleCmd, queensCmd}
}

// exampleGraphJSON encodes graph.Example with its A to G query.
func exampleGraphJSON() (json.RawMessage, error) {
	var buf bytes.Buffer
	if err := graph.WriteJSON(&buf, &graph.Document{Graph: graph.Example(), Start: "A", Goal: "G"}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// solveCommand creates the solve command.
func (c *CLI) solveCommand() *cobra.Command {
	var (
		sf      searchFlags
		df      domainFlags
		jsonOut bool
		step    bool
	)

	cmd := &cobra.Command{
		Use:   "solve",
		Short: "Solve a problem with one strategy",
		Long: `Solve a problem with one search strategy and print the path.

Examples:
  searchlab solve graph                        # built-in A* example
  searchlab solve graph romania.yaml -s greedy
  searchlab solve waterjug --cap-a 5 --cap-b 3 --target 4 -s bfs
  searchlab solve puzzle 867254301 --step
  searchlab solve queens -n 8 --all`,
	}
	sf.register(cmd, true)
	cmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "print the solution as JSON")
	cmd.PersistentFlags().BoolVar(&step, "step", false, "step through the path interactively")

	for _, sub := range domainCommands(&df, true, func(cmd *cobra.Command, opts pipeline.Options) error {
		opts.Refresh = sf.refresh
		return c.runSolve(cmd.Context(), cmd.OutOrStdout(), opts, jsonOut, step)
	}) {
		cmd.AddCommand(sub)
	}
	return cmd
}

func (c *CLI) runSolve(ctx context.Context, out io.Writer, opts pipeline.Options, jsonOut, step bool) error {
	c.applyConfig(&opts)

	runner, err := c.newRunner(ctx)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	tracker, restore := trackSearches(0)
	defer restore()
	spinner := newSpinner(ctx, os.Stderr, fmt.Sprintf("Searching %s...", opts.Domain), tracker.status)
	spinner.Start()
	sol, err := runner.Execute(ctx, opts)
	if err != nil {
		spinner.StopWithError("Search failed")
		return err
	}
	spinner.Stop()

	switch {
	case jsonOut:
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(sol)
	case step && sol.Found() && len(sol.Solutions) == 0:
		return runStepper(ctx, sol, stateView(opts))
	default:
		printSolution(sol)
		return nil
	}
}
