package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/searchlab/pkg/pipeline"
)

// exampleName is the output base name when rendering the built-in graph.
const exampleName = "example"

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output    string // output file; "-" writes to stdout
	format    string // dot or svg
	solve     bool   // highlight the solution path
	heuristic bool   // label nodes with their heuristic
	start     string
	goal      string
}

// renderCommand creates the render command for drawing graphs.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		opts renderOpts
		sf   searchFlags
	)

	cmd := &cobra.Command{
		Use:   "render [file]",
		Short: "Draw a graph as DOT or SVG",
		Long: `Draw a weighted graph with Graphviz, optionally highlighting the path a
strategy finds. Without a file the built-in A* example is drawn.

The output file defaults to the input name with the format's extension.

Examples:
  searchlab render                                # example.svg
  searchlab render romania.yaml --solve -s astar
  searchlab render romania.yaml -f dot -o -       # DOT to stdout`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := ""
			if len(args) == 1 {
				input = args[0]
			}
			return c.runRender(cmd.Context(), input, &opts, sf.refresh)
		},
	}
	sf.register(cmd, true)
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (- for stdout)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", pipeline.FormatSVG, "output format: svg or dot")
	cmd.Flags().BoolVar(&opts.solve, "solve", false, "highlight the solution path")
	cmd.Flags().BoolVar(&opts.heuristic, "heuristic", false, "show node heuristics")
	cmd.Flags().StringVar(&opts.start, "start", "", "start node (overrides the file)")
	cmd.Flags().StringVar(&opts.goal, "goal", "", "goal node (overrides the file)")

	return cmd
}

// outputPath derives the output file from the input file and format. An
// explicit output wins.
func outputPath(output, input, format string) string {
	if output != "" {
		return output
	}
	base := exampleName
	if input != "" {
		base = strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
	}
	return base + "." + format
}

func (c *CLI) runRender(ctx context.Context, input string, opts *renderOpts, refresh bool) error {
	logger := loggerFromContext(ctx)

	ro := pipeline.RenderOptions{
		Options: pipeline.Options{
			Domain:  pipeline.DomainGraph,
			Start:   opts.start,
			Goal:    opts.goal,
			Refresh: refresh,
		},
		Format:        opts.format,
		Solve:         opts.solve,
		ShowHeuristic: opts.heuristic,
	}
	if input != "" {
		ro.GraphFile = input
		logger.Infof("Rendering %s", input)
	} else {
		data, err := exampleGraphJSON()
		if err != nil {
			return err
		}
		ro.Graph = data
		logger.Info("Rendering built-in example")
	}
	c.applyConfig(&ro.Options)

	runner, err := c.newRunner(ctx)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	prog := newProgress(logger)
	data, sol, err := runner.Render(ctx, ro)
	if err != nil {
		return err
	}

	path := outputPath(opts.output, input, ro.Format)
	if path == "-" {
		_, err := os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	prog.done("Rendered graph")

	if sol != nil && sol.Found() {
		printSuccess("Rendered %s path, cost %s", sol.Strategy, StyleNumber.Render(fmt.Sprint(sol.Cost)))
	} else {
		printSuccess("Rendered graph")
	}
	printFile(path)
	return nil
}
