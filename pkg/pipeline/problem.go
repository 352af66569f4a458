package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"strconv"

	"github.com/matzehuels/searchlab/pkg/cache"
	"github.com/matzehuels/searchlab/pkg/errors"
	"github.com/matzehuels/searchlab/pkg/problems/graph"
	"github.com/matzehuels/searchlab/pkg/problems/puzzle"
	"github.com/matzehuels/searchlab/pkg/problems/queens"
	"github.com/matzehuels/searchlab/pkg/problems/waterjug"
	"github.com/matzehuels/searchlab/pkg/search"
)

// job is a built problem ready to run. digest identifies the problem
// independently of strategy and limits.
type job struct {
	digest string
	run    func(ctx context.Context, s search.Strategy, opts ...search.Option) (*Solution, error)
}

// build turns validated options into a job.
func build(o *Options) (*job, error) {
	switch o.Domain {
	case DomainGraph:
		return buildGraph(o)
	case DomainWaterJug:
		return buildWaterJug(o)
	case DomainPuzzle:
		return buildPuzzle(o)
	case DomainQueens:
		return buildQueens(o)
	}
	return nil, ValidateDomain(o.Domain)
}

// LoadGraph resolves the graph document named by o, inline or from a file.
func LoadGraph(o *Options) (*graph.Document, error) {
	if o.GraphFile != "" {
		return graph.Load(o.GraphFile)
	}
	return graph.Read(bytes.NewReader(o.Graph), graph.FormatJSON)
}

func buildGraph(o *Options) (*job, error) {
	doc, err := LoadGraph(o)
	if err != nil {
		return nil, err
	}
	p, err := doc.Problem(o.Start, o.Goal)
	if err != nil {
		return nil, err
	}

	// Hash the canonical re-encoding so formatting and file type do not
	// affect the cache key.
	canon := &graph.Document{Graph: doc.Graph, Start: p.Initial()}
	if o.Goal != "" {
		canon.Goal = o.Goal
	} else {
		canon.Goal = doc.Goal
	}
	var buf bytes.Buffer
	if err := graph.WriteJSON(&buf, canon); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode graph")
	}

	return &job{
		digest: cache.Hash(buf.Bytes()),
		run: func(ctx context.Context, s search.Strategy, opts ...search.Option) (*Solution, error) {
			return solve[string](ctx, p, s, opts, func(id string) string { return id },
				func(from, to string, cost float64) string {
					return fmt.Sprintf("%s -> %s (%s)", from, to, strconv.FormatFloat(cost, 'g', -1, 64))
				})
		},
	}, nil
}

func buildWaterJug(o *Options) (*job, error) {
	p, err := waterjug.New(o.CapA, o.CapB, o.Target)
	if err != nil {
		return nil, err
	}
	digest, _ := cache.HashJSON([3]int{o.CapA, o.CapB, o.Target})
	return &job{
		digest: digest,
		run: func(ctx context.Context, s search.Strategy, opts ...search.Option) (*Solution, error) {
			return solve[waterjug.State](ctx, p, s, opts, waterjug.State.String,
				func(from, to waterjug.State, _ float64) string {
					m, _ := p.Explain(from, to)
					return m.String()
				})
		},
	}, nil
}

func buildPuzzle(o *Options) (*job, error) {
	b, err := puzzle.Parse(o.Board)
	if err != nil {
		return nil, err
	}
	p, err := puzzle.New(b)
	if err != nil {
		return nil, err
	}
	return &job{
		digest: cache.Hash([]byte(b.String())),
		run: func(ctx context.Context, s search.Strategy, opts ...search.Option) (*Solution, error) {
			return solve[puzzle.Board](ctx, p, s, opts, puzzle.Board.String, describeSlide)
		},
	}, nil
}

// describeSlide names the tile that moved and its direction.
func describeSlide(from, to puzzle.Board, _ float64) string {
	tile := puzzle.Moved(from, to)
	var dir string
	switch from.Blank() - to.Blank() {
	case -3:
		dir = "up"
	case 3:
		dir = "down"
	case -1:
		dir = "left"
	case 1:
		dir = "right"
	}
	return fmt.Sprintf("slide %d %s", tile, dir)
}

func buildQueens(o *Options) (*job, error) {
	p, err := queens.New(o.N)
	if err != nil {
		return nil, err
	}
	digest, _ := cache.HashJSON(struct {
		N   int
		All bool
	}{o.N, o.All})

	if o.All {
		return &job{
			digest: digest,
			run: func(ctx context.Context, _ search.Strategy, opts ...search.Option) (*Solution, error) {
				boards, stats, err := queens.All(ctx, o.N, opts...)
				if err != nil {
					return nil, err
				}
				sol := &Solution{Status: search.StatusExhausted.String(), Stats: fromStats(stats)}
				if len(boards) > 0 {
					sol.Status = search.StatusFound.String()
				}
				for _, b := range boards {
					sol.Solutions = append(sol.Solutions, b.String())
				}
				return sol, nil
			},
		}, nil
	}

	return &job{
		digest: digest,
		run: func(ctx context.Context, s search.Strategy, opts ...search.Option) (*Solution, error) {
			return solve[queens.Board](ctx, p, s, opts, queens.Board.String,
				func(_, to queens.Board, _ float64) string {
					cols := to.Columns()
					return fmt.Sprintf("queen at row %d, column %d", len(cols)-1, cols[len(cols)-1])
				})
		},
	}, nil
}

// solve runs the engine and renders the path with format and explain. explain
// receives the cost of the edge the search took, which matters on multigraphs.
func solve[S comparable](ctx context.Context, p search.Problem[S], s search.Strategy, opts []search.Option,
	format func(S) string, explain func(from, to S, cost float64) string) (*Solution, error) {
	res, err := search.SearchContext(ctx, p, s, opts...)
	if err != nil {
		return nil, err
	}
	sol := &Solution{
		Status: res.Status.String(),
		Cost:   res.Cost,
		Stats:  fromStats(res.Stats),
	}
	for i, st := range res.Path {
		sol.Steps = append(sol.Steps, format(st))
		if i > 0 {
			sol.Actions = append(sol.Actions, explain(res.Path[i-1], st, res.EdgeCosts[i-1]))
			sol.StepCosts = append(sol.StepCosts, res.EdgeCosts[i-1])
		}
	}
	return sol, nil
}

func fromStats(s search.Stats) Stats {
	return Stats{Expanded: s.Expanded, Generated: s.Generated, MaxFrontier: s.MaxFrontier}
}
