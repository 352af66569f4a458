package pipeline

import (
	"context"
	"slices"

	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/searchlab/pkg/errors"
	"github.com/matzehuels/searchlab/pkg/search"
)

// Comparison is one strategy's outcome in a Compare run. Exactly one of
// Solution and Err is set.
type Comparison struct {
	Strategy string    `json:"strategy"`
	Solution *Solution `json:"solution,omitempty"`
	Err      string    `json:"error,omitempty"`
	Code     string    `json:"code,omitempty"`
}

// Compare runs opts once per strategy in parallel and returns the outcomes
// in the order of strategies. Invalid options fail the whole call; a run
// that hits its limit or times out is reported in its Comparison.
func (r *Runner) Compare(ctx context.Context, opts Options, strategies []search.Strategy) ([]Comparison, error) {
	if len(strategies) == 0 {
		strategies = search.Strategies()
	}
	if opts.All {
		return nil, errors.New(errors.ErrCodeUnsupported, "compare does not support enumerating all solutions")
	}
	check := opts
	if err := check.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	if _, err := build(&check); err != nil {
		return nil, err
	}

	out := make([]Comparison, len(strategies))
	g, gCtx := errgroup.WithContext(ctx)
	for i, s := range strategies {
		g.Go(func() error {
			out[i].Strategy = s.String()
			sol, err := r.Execute(gCtx, opts.WithStrategy(s))
			if err != nil {
				// Limits and per-run timeouts are outcomes; anything else
				// aborts the comparison.
				if !errors.Is(err, errors.ErrCodeLimitExceeded) && !errors.Is(err, errors.ErrCodeCanceled) {
					return err
				}
				if ctx.Err() != nil {
					return err
				}
				out[i].Err = errors.UserMessage(err)
				out[i].Code = string(errors.GetCode(err))
				return nil
			}
			out[i].Solution = sol
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// Best returns the cheapest found solution among cs, preferring fewer
// expansions on equal cost. It returns nil if no strategy found a goal.
func Best(cs []Comparison) *Comparison {
	found := slices.DeleteFunc(slices.Clone(cs), func(c Comparison) bool {
		return c.Solution == nil || !c.Solution.Found()
	})
	if len(found) == 0 {
		return nil
	}
	best := slices.MinFunc(found, func(a, b Comparison) int {
		if a.Solution.Cost != b.Solution.Cost {
			if a.Solution.Cost < b.Solution.Cost {
				return -1
			}
			return 1
		}
		return a.Solution.Stats.Expanded - b.Solution.Stats.Expanded
	})
	for i := range cs {
		if cs[i].Strategy == best.Strategy {
			return &cs[i]
		}
	}
	return nil
}
