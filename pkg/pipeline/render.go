package pipeline

import (
	"context"

	"github.com/matzehuels/searchlab/pkg/cache"
	"github.com/matzehuels/searchlab/pkg/errors"
	"github.com/matzehuels/searchlab/pkg/observability"
	"github.com/matzehuels/searchlab/pkg/problems/graph"
)

// Format constants for graph renderings.
const (
	FormatDOT = "dot"
	FormatSVG = "svg"
)

// ValidFormats is the set of supported render formats.
var ValidFormats = map[string]bool{
	FormatDOT: true,
	FormatSVG: true,
}

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: dot, svg)", format)
	}
	return nil
}

// RenderOptions configures a graph rendering. The graph is taken from the
// embedded solve options (Graph or GraphFile).
type RenderOptions struct {
	Options

	Format        string `json:"format,omitempty"`
	ShowHeuristic bool   `json:"show_heuristic,omitempty"`
	// Solve highlights the path found by Options.Strategy.
	Solve bool `json:"solve,omitempty"`
}

// Render draws a graph as DOT or SVG, optionally highlighting a solution
// path. SVG output is cached by graph digest and highlight.
func (r *Runner) Render(ctx context.Context, opts RenderOptions) ([]byte, *Solution, error) {
	if opts.Format == "" {
		opts.Format = FormatSVG
	}
	if err := ValidateFormat(opts.Format); err != nil {
		return nil, nil, err
	}
	opts.Domain = DomainGraph
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, nil, err
	}

	doc, err := LoadGraph(&opts.Options)
	if err != nil {
		return nil, nil, err
	}
	dotOpts := graph.DOTOptions{
		Start:         firstNonEmpty(opts.Start, doc.Start),
		Goal:          firstNonEmpty(opts.Goal, doc.Goal),
		ShowHeuristic: opts.ShowHeuristic,
	}

	var sol *Solution
	if opts.Solve {
		sol, err = r.Execute(ctx, opts.Options)
		if err != nil {
			return nil, nil, err
		}
		dotOpts.Path = sol.Steps
		dotOpts.PathCosts = sol.StepCosts
	}

	dot := graph.ToDOT(doc.Graph, dotOpts)
	if opts.Format == FormatDOT {
		return []byte(dot), sol, nil
	}

	key := r.Keyer.RenderKey(cache.Hash([]byte(dot)), cache.RenderKeyOpts{
		Format:        opts.Format,
		Path:          dotOpts.Path,
		ShowHeuristic: opts.ShowHeuristic,
	})
	hooks := observability.Cache()
	if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
		hooks.OnCacheHit(ctx, "render")
		return data, sol, nil
	}
	hooks.OnCacheMiss(ctx, "render")

	svg, err := graph.RenderSVG(ctx, dot)
	if err != nil {
		return nil, nil, errors.Wrap(errors.ErrCodeInternal, err, "render svg")
	}
	if err := r.Cache.Set(ctx, key, svg, cache.TTLRender); err == nil {
		hooks.OnCacheSet(ctx, "render", len(svg))
	}
	return svg, sol, nil
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
