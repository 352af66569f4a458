package search

import (
	"context"
	stderrors "errors"
	"math"
	"slices"
	"time"

	"github.com/matzehuels/searchlab/pkg/errors"
	"github.com/matzehuels/searchlab/pkg/observability"
)

// ctxCheckInterval is how many expansions run between context polls.
const ctxCheckInterval = 256

// Option configures a single search run.
type Option func(*options)

type options struct {
	maxExpansions int
}

// WithMaxExpansions aborts the run with LIMIT_EXCEEDED once n states have
// been expanded without reaching a goal. n <= 0 means no limit.
func WithMaxExpansions(n int) Option {
	return func(o *options) { o.maxExpansions = n }
}

// node is one entry of the engine's node table. parent indexes the same
// table; the root has parent -1.
type node[S comparable] struct {
	state    S
	cost     float64
	edge     float64 // cost of the edge from parent
	estimate float64
	parent   int
}

// Search runs p to completion with the given strategy.
// It is equivalent to SearchContext with context.Background().
func Search[S comparable](p Problem[S], strategy Strategy, opts ...Option) (Result[S], error) {
	return SearchContext(context.Background(), p, strategy, opts...)
}

// SearchContext runs p with the given strategy until a goal is found or the
// frontier is exhausted. ctx is polled periodically; when it is done the run
// aborts with CANCELED.
//
// Greedy and AStar require p to implement [Informed]; otherwise the call
// fails with MALFORMED_PROBLEM before any state is expanded.
func SearchContext[S comparable](ctx context.Context, p Problem[S], strategy Strategy, opts ...Option) (Result[S], error) {
	if !strategy.Valid() {
		return Result[S]{}, errors.New(errors.ErrCodeInvalidStrategy, "unknown strategy %d", int(strategy))
	}
	if p == nil {
		return Result[S]{}, errors.New(errors.ErrCodeMalformedProblem, "problem is nil")
	}

	e := &engine[S]{
		problem:  p,
		strategy: strategy,
		best:     make(map[S]float64),
		closed:   make(map[S]bool),
	}
	for _, opt := range opts {
		opt(&e.opts)
	}
	if strategy.Informed() {
		inf, ok := p.(Informed[S])
		if !ok {
			return Result[S]{}, errors.New(errors.ErrCodeMalformedProblem, "%s search requires a heuristic", strategy)
		}
		e.heuristic = inf.Heuristic
	}
	if strategy == AStar {
		e.pending = make(map[S]int)
	}
	e.frontier = newFrontier(strategy, &e.nodes)

	hooks := observability.Search()
	e.hooks = hooks
	hooks.OnSearchStart(ctx, strategy.String())
	start := time.Now()

	res, err := e.run(ctx)

	hooks.OnSearchComplete(ctx, strategy.String(), observability.SearchStats{
		Found:     err == nil && res.Found(),
		Expanded:  e.stats.Expanded,
		Generated: e.stats.Generated,
	}, time.Since(start), err)

	if err != nil {
		return Result[S]{}, err
	}
	return res, nil
}

type engine[S comparable] struct {
	problem   Problem[S]
	strategy  Strategy
	heuristic func(S) float64
	opts      options
	hooks     observability.SearchHooks

	nodes    []node[S]
	frontier frontier
	best     map[S]float64 // best-known accumulated cost per discovered state
	closed   map[S]bool    // expanded states
	pending  map[S]int     // A* only: state -> node id still in the frontier
	stats    Stats
}

func (e *engine[S]) run(ctx context.Context) (Result[S], error) {
	initial := e.problem.Initial()
	if err := e.discover(initial, 0, 0, -1); err != nil {
		return Result[S]{}, err
	}

	for e.frontier.len() > 0 {
		id := e.frontier.pop()
		n := e.nodes[id]
		if e.pending != nil {
			delete(e.pending, n.state)
		}
		if e.closed[n.state] {
			continue
		}
		// A* closes after expansion, everything else on extraction.
		if e.strategy != AStar {
			e.closed[n.state] = true
		}

		if e.problem.IsGoal(n.state) {
			path, edges := e.path(id)
			return Result[S]{
				Status:    StatusFound,
				Path:      path,
				EdgeCosts: edges,
				Cost:      n.cost,
				Stats:     e.stats,
			}, nil
		}

		if limit := e.opts.maxExpansions; limit > 0 && e.stats.Expanded >= limit {
			return Result[S]{}, errors.New(errors.ErrCodeLimitExceeded, "no goal within %d expansions", limit)
		}
		if e.stats.Expanded%ctxCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return Result[S]{}, canceled(err)
			}
			if e.stats.Expanded > 0 {
				e.hooks.OnSearchProgress(ctx, e.strategy.String(), observability.SearchStats{
					Expanded:  e.stats.Expanded,
					Generated: e.stats.Generated,
				})
			}
		}

		steps, err := e.problem.Successors(n.state)
		if err != nil {
			return Result[S]{}, errors.Wrap(errors.ErrCodeMalformedProblem, err, "successors of %v", n.state)
		}
		e.stats.Expanded++

		for _, st := range steps {
			e.stats.Generated++
			if st.Cost < 0 || math.IsNaN(st.Cost) || math.IsInf(st.Cost, 0) {
				return Result[S]{}, errors.New(errors.ErrCodeMalformedProblem,
					"edge %v -> %v has invalid cost %v", n.state, st.State, st.Cost)
			}
			if err := e.relax(id, st.State, n.cost+st.Cost, st.Cost); err != nil {
				return Result[S]{}, err
			}
		}

		if e.strategy == AStar {
			e.closed[n.state] = true
		}
	}

	return Result[S]{Status: StatusExhausted, Stats: e.stats}, nil
}

// relax offers next at cost via parent over an edge costing edge. BFS, DFS
// and Greedy admit a state only on first discovery. A* admits it whenever the
// cost improves on the best known one and the state has not been expanded yet.
func (e *engine[S]) relax(parent int, next S, cost, edge float64) error {
	known, seen := e.best[next]
	if e.strategy != AStar {
		if seen {
			return nil
		}
		return e.discover(next, cost, edge, parent)
	}

	if e.closed[next] || (seen && known <= cost) {
		return nil
	}
	if id, ok := e.pending[next]; ok {
		e.best[next] = cost
		e.nodes[id].cost = cost
		e.nodes[id].edge = edge
		e.nodes[id].parent = parent
		e.frontier.fix(id)
		return nil
	}
	return e.discover(next, cost, edge, parent)
}

// discover appends a node for s and pushes it onto the frontier.
func (e *engine[S]) discover(s S, cost, edge float64, parent int) error {
	var h float64
	if e.heuristic != nil {
		h = e.heuristic(s)
		if h < 0 || math.IsNaN(h) {
			return errors.New(errors.ErrCodeInvalidHeuristic, "heuristic(%v) = %v, must be non-negative", s, h)
		}
	}

	id := len(e.nodes)
	e.nodes = append(e.nodes, node[S]{state: s, cost: cost, edge: edge, estimate: h, parent: parent})
	e.best[s] = cost
	if e.pending != nil {
		e.pending[s] = id
	}
	e.frontier.push(id)
	if l := e.frontier.len(); l > e.stats.MaxFrontier {
		e.stats.MaxFrontier = l
	}
	return nil
}

// path walks parent links from id back to the root and returns the states in
// root-to-id order together with the cost of each edge taken.
func (e *engine[S]) path(id int) ([]S, []float64) {
	var states []S
	edges := []float64{}
	for i := id; i >= 0; i = e.nodes[i].parent {
		states = append(states, e.nodes[i].state)
		if e.nodes[i].parent >= 0 {
			edges = append(edges, e.nodes[i].edge)
		}
	}
	slices.Reverse(states)
	slices.Reverse(edges)
	return states, edges
}

func canceled(err error) error {
	if stderrors.Is(err, context.DeadlineExceeded) {
		return errors.Wrap(errors.ErrCodeCanceled, err, "search deadline exceeded")
	}
	return errors.Wrap(errors.ErrCodeCanceled, err, "search canceled")
}
