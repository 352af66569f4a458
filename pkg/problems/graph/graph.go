// Package graph adapts explicit weighted graphs to the search engine.
//
// A [Graph] keeps adjacency lists in insertion order so that searches over it
// are deterministic, plus an optional per-node heuristic table. [Graph.Problem]
// binds a start and goal node and returns a value implementing
// search.Informed[string].
//
// Graphs can be built in code, loaded from JSON, TOML or YAML files (see
// [Read] and [Load]), and exported to Graphviz DOT with an optional highlighted
// path (see [ToDOT] and [RenderSVG]).
package graph

import (
	stderrors "errors"
	"math"
	"slices"

	"github.com/matzehuels/searchlab/pkg/errors"
	"github.com/matzehuels/searchlab/pkg/search"
)

// ErrUnknownNode is the cause of UNKNOWN_STATE errors raised by this package.
var ErrUnknownNode = stderrors.New("unknown node")

// Edge is a directed, weighted edge leaving a node.
type Edge struct {
	To   string
	Cost float64
}

// Graph is a directed weighted graph with string node ids.
//
// The zero value is not usable; create graphs with New.
// Graph is not safe for concurrent mutation, but any number of searches may
// read a graph that is no longer being modified.
type Graph struct {
	order     []string
	adj       map[string][]Edge
	heuristic map[string]float64
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{
		adj:       make(map[string][]Edge),
		heuristic: make(map[string]float64),
	}
}

// AddNode adds id if it is not present yet. Adding an existing node is a no-op.
func (g *Graph) AddNode(id string) error {
	if err := errors.ValidateStateName(id); err != nil {
		return err
	}
	if _, ok := g.adj[id]; !ok {
		g.adj[id] = nil
		g.order = append(g.order, id)
	}
	return nil
}

// AddEdge adds the directed edge from->to, creating missing endpoints.
// Costs must be finite and non-negative.
func (g *Graph) AddEdge(from, to string, cost float64) error {
	if cost < 0 || math.IsNaN(cost) || math.IsInf(cost, 0) {
		return errors.New(errors.ErrCodeInvalidInput, "edge %s->%s: invalid cost %v", from, to, cost)
	}
	if err := g.AddNode(from); err != nil {
		return err
	}
	if err := g.AddNode(to); err != nil {
		return err
	}
	g.adj[from] = append(g.adj[from], Edge{To: to, Cost: cost})
	return nil
}

// AddUndirected adds both a->b and b->a with the same cost.
func (g *Graph) AddUndirected(a, b string, cost float64) error {
	if err := g.AddEdge(a, b, cost); err != nil {
		return err
	}
	return g.AddEdge(b, a, cost)
}

// SetHeuristic records the estimate for node id. Nodes without an entry
// estimate 0.
func (g *Graph) SetHeuristic(id string, h float64) error {
	if _, ok := g.adj[id]; !ok {
		return errors.Wrap(errors.ErrCodeUnknownState, ErrUnknownNode, "heuristic for %q", id)
	}
	if h < 0 || math.IsNaN(h) {
		return errors.New(errors.ErrCodeInvalidHeuristic, "heuristic for %q is %v, must be non-negative", id, h)
	}
	g.heuristic[id] = h
	return nil
}

// Has reports whether id is a node of g.
func (g *Graph) Has(id string) bool {
	_, ok := g.adj[id]
	return ok
}

// Nodes returns node ids in insertion order.
func (g *Graph) Nodes() []string { return slices.Clone(g.order) }

// Edges returns the edges leaving id in insertion order.
func (g *Graph) Edges(id string) []Edge { return slices.Clone(g.adj[id]) }

// EdgeCount returns the number of directed edges.
func (g *Graph) EdgeCount() int {
	n := 0
	for _, es := range g.adj {
		n += len(es)
	}
	return n
}

// Heuristic returns the estimate recorded for id, or 0.
func (g *Graph) Heuristic(id string) float64 { return g.heuristic[id] }

// Cost returns the cost of the first edge from->to.
func (g *Graph) Cost(from, to string) (float64, bool) {
	for _, e := range g.adj[from] {
		if e.To == to {
			return e.Cost, true
		}
	}
	return 0, false
}

// Problem binds start and goal. Unknown node names are reported here, before
// any search runs, with UNKNOWN_STATE.
func (g *Graph) Problem(start, goal string) (*Problem, error) {
	if !g.Has(start) {
		return nil, errors.Wrap(errors.ErrCodeUnknownState, ErrUnknownNode, "start %q", start)
	}
	if !g.Has(goal) {
		return nil, errors.Wrap(errors.ErrCodeUnknownState, ErrUnknownNode, "goal %q", goal)
	}
	return &Problem{graph: g, start: start, goal: goal}, nil
}

// Problem is a start/goal query over a Graph.
type Problem struct {
	graph       *Graph
	start, goal string
}

func (p *Problem) Initial() string { return p.start }

func (p *Problem) IsGoal(s string) bool { return s == p.goal }

func (p *Problem) Successors(s string) ([]search.Step[string], error) {
	edges := p.graph.adj[s]
	out := make([]search.Step[string], len(edges))
	for i, e := range edges {
		out[i] = search.Step[string]{State: e.To, Cost: e.Cost}
	}
	return out, nil
}

func (p *Problem) Heuristic(s string) float64 { return p.graph.heuristic[s] }

var _ search.Informed[string] = (*Problem)(nil)

// Example returns the six-node weighted graph of the classic A* exercise,
// including its heuristic table. A* from A to G finds A→E→D→G at cost 10.
func Example() *Graph {
	g := New()
	edges := []struct {
		from, to string
		cost     float64
	}{
		{"A", "B", 2}, {"A", "E", 3},
		{"B", "A", 2}, {"B", "C", 1}, {"B", "G", 9},
		{"C", "B", 1},
		{"D", "E", 6}, {"D", "G", 1},
		{"E", "A", 3}, {"E", "D", 6},
		{"G", "B", 9}, {"G", "D", 1},
	}
	for _, e := range edges {
		_ = g.AddEdge(e.from, e.to, e.cost)
	}
	for id, h := range map[string]float64{"A": 11, "B": 6, "C": 99, "D": 1, "E": 7, "G": 0} {
		_ = g.SetHeuristic(id, h)
	}
	return g
}
