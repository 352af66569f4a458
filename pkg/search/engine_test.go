package search

import (
	"context"
	stderrors "errors"
	"math"
	"slices"
	"testing"

	"github.com/matzehuels/searchlab/pkg/errors"
	"github.com/matzehuels/searchlab/pkg/observability"
)

// testGraph is an ordered adjacency list with an optional heuristic table.
type testGraph struct {
	start, goal string
	adj         map[string][]Step[string]
	h           map[string]float64
}

func (g testGraph) Initial() string                              { return g.start }
func (g testGraph) IsGoal(s string) bool                         { return s == g.goal }
func (g testGraph) Successors(s string) ([]Step[string], error) { return g.adj[s], nil }
func (g testGraph) Heuristic(s string) float64                   { return g.h[s] }

// edgeCost returns the cost of from->to, or false if the edge is absent.
func (g testGraph) edgeCost(from, to string) (float64, bool) {
	for _, st := range g.adj[from] {
		if st.State == to {
			return st.Cost, true
		}
	}
	return 0, false
}

func steps(pairs ...any) []Step[string] {
	var out []Step[string]
	for i := 0; i < len(pairs); i += 2 {
		out = append(out, Step[string]{State: pairs[i].(string), Cost: float64(pairs[i+1].(int))})
	}
	return out
}

// weightedGraph is the six-node graph from the A* lab exercise.
func weightedGraph() testGraph {
	return testGraph{
		start: "A",
		goal:  "G",
		adj: map[string][]Step[string]{
			"A": steps("B", 2, "E", 3),
			"B": steps("A", 2, "C", 1, "G", 9),
			"C": steps("B", 1),
			"D": steps("E", 6, "G", 1),
			"E": steps("A", 3, "D", 6),
			"G": steps("B", 9, "D", 1),
		},
		h: map[string]float64{"A": 11, "B": 6, "C": 99, "D": 1, "E": 7, "G": 0},
	}
}

func lineGraph() testGraph {
	return testGraph{
		start: "A",
		goal:  "G",
		adj: map[string][]Step[string]{
			"A": steps("B", 1),
			"B": steps("A", 1, "C", 1),
			"C": steps("B", 1, "G", 1),
			"G": steps("C", 1),
		},
	}
}

func cyclicGraph() testGraph {
	return testGraph{
		start: "A",
		goal:  "Z",
		adj: map[string][]Step[string]{
			"A": steps("B", 1, "C", 1),
			"B": steps("C", 1, "A", 1),
			"C": steps("A", 1, "B", 1),
		},
		h: map[string]float64{"A": 1, "B": 1, "C": 1},
	}
}

func TestTerminatesOnCycles(t *testing.T) {
	for _, s := range Strategies() {
		t.Run(s.String(), func(t *testing.T) {
			res, err := Search[string](cyclicGraph(), s)
			if err != nil {
				t.Fatalf("Search: %v", err)
			}
			if res.Status != StatusExhausted {
				t.Errorf("Status = %v, want %v", res.Status, StatusExhausted)
			}
			if res.Stats.Expanded != 3 {
				t.Errorf("Expanded = %d, want 3", res.Stats.Expanded)
			}
		})
	}
}

func TestUniformCostShortestPath(t *testing.T) {
	for _, s := range []Strategy{BFS, AStar} {
		t.Run(s.String(), func(t *testing.T) {
			res, err := Search[string](lineGraph(), s)
			if err != nil {
				t.Fatalf("Search: %v", err)
			}
			if res.Len() != 3 {
				t.Errorf("Len() = %d, want 3", res.Len())
			}
			want := []string{"A", "B", "C", "G"}
			if !slices.Equal(res.Path, want) {
				t.Errorf("Path = %v, want %v", res.Path, want)
			}
		})
	}
}

func TestAStarWeightedGraph(t *testing.T) {
	res, err := Search[string](weightedGraph(), AStar)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	want := []string{"A", "E", "D", "G"}
	if !slices.Equal(res.Path, want) {
		t.Errorf("Path = %v, want %v", res.Path, want)
	}
	if res.Cost != 10 {
		t.Errorf("Cost = %v, want 10", res.Cost)
	}
}

func TestAStarNotWorseThanOthers(t *testing.T) {
	g := weightedGraph()
	best, err := Search[string](g, AStar)
	if err != nil {
		t.Fatalf("A*: %v", err)
	}
	for _, s := range []Strategy{Greedy, DFS, BFS} {
		res, err := Search[string](g, s)
		if err != nil {
			t.Fatalf("%s: %v", s, err)
		}
		if best.Cost > res.Cost {
			t.Errorf("A* cost %v > %s cost %v", best.Cost, s, res.Cost)
		}
	}
}

func TestStrategyPaths(t *testing.T) {
	tests := []struct {
		strategy Strategy
		path     []string
		cost     float64
	}{
		{BFS, []string{"A", "B", "G"}, 11},
		{DFS, []string{"A", "E", "D", "G"}, 10},
		{Greedy, []string{"A", "B", "G"}, 11},
		{AStar, []string{"A", "E", "D", "G"}, 10},
	}

	for _, tt := range tests {
		t.Run(tt.strategy.String(), func(t *testing.T) {
			res, err := Search[string](weightedGraph(), tt.strategy)
			if err != nil {
				t.Fatalf("Search: %v", err)
			}
			if !slices.Equal(res.Path, tt.path) {
				t.Errorf("Path = %v, want %v", res.Path, tt.path)
			}
			if res.Cost != tt.cost {
				t.Errorf("Cost = %v, want %v", res.Cost, tt.cost)
			}
		})
	}
}

func TestPathsUseRealEdges(t *testing.T) {
	g := weightedGraph()
	for _, s := range Strategies() {
		t.Run(s.String(), func(t *testing.T) {
			res, err := Search[string](g, s)
			if err != nil {
				t.Fatalf("Search: %v", err)
			}
			if !res.Found() {
				t.Fatal("expected a path")
			}
			if res.Path[0] != g.start {
				t.Errorf("path starts at %s, want %s", res.Path[0], g.start)
			}
			if goal, _ := res.Goal(); !g.IsGoal(goal) {
				t.Errorf("path ends at %s, which is not a goal", goal)
			}
			var total float64
			for i := 1; i < len(res.Path); i++ {
				c, ok := g.edgeCost(res.Path[i-1], res.Path[i])
				if !ok {
					t.Fatalf("edge %s->%s not in successor relation", res.Path[i-1], res.Path[i])
				}
				total += c
			}
			if total != res.Cost {
				t.Errorf("sum of edge costs = %v, Cost = %v", total, res.Cost)
			}
		})
	}
}

func TestDeterministic(t *testing.T) {
	g := weightedGraph()
	for _, s := range Strategies() {
		first, err := Search[string](g, s)
		if err != nil {
			t.Fatalf("%s: %v", s, err)
		}
		second, err := Search[string](g, s)
		if err != nil {
			t.Fatalf("%s: %v", s, err)
		}
		if !slices.Equal(first.Path, second.Path) || first.Cost != second.Cost || first.Stats != second.Stats {
			t.Errorf("%s: results differ: %+v vs %+v", s, first, second)
		}
	}
}

func TestUnreachableGoalExhausts(t *testing.T) {
	g := testGraph{
		start: "A",
		goal:  "X",
		adj: map[string][]Step[string]{
			"A": steps("B", 1),
			"B": steps("A", 1),
			"X": nil,
		},
	}
	for _, s := range Strategies() {
		res, err := Search[string](g, s)
		if err != nil {
			t.Fatalf("%s: %v", s, err)
		}
		if res.Found() {
			t.Errorf("%s: found %v, want exhausted", s, res.Path)
		}
		if res.Path != nil || res.Cost != 0 {
			t.Errorf("%s: exhausted result carries data: %+v", s, res)
		}
	}
}

func TestInitialIsGoal(t *testing.T) {
	g := lineGraph()
	g.goal = "A"
	for _, s := range Strategies() {
		res, err := Search[string](g, s)
		if err != nil {
			t.Fatalf("%s: %v", s, err)
		}
		if !res.Found() || res.Len() != 0 || res.Cost != 0 {
			t.Errorf("%s: got %+v, want found with no transitions", s, res)
		}
		if res.Stats.Expanded != 0 {
			t.Errorf("%s: Expanded = %d, want 0", s, res.Stats.Expanded)
		}
	}
}

func TestSelfLoops(t *testing.T) {
	g := testGraph{
		start: "A",
		goal:  "B",
		adj: map[string][]Step[string]{
			"A": steps("A", 0, "A", 1, "B", 1),
		},
	}
	for _, s := range Strategies() {
		res, err := Search[string](g, s)
		if err != nil {
			t.Fatalf("%s: %v", s, err)
		}
		if !slices.Equal(res.Path, []string{"A", "B"}) {
			t.Errorf("%s: Path = %v, want [A B]", s, res.Path)
		}
		if res.Stats.Expanded != 1 {
			t.Errorf("%s: Expanded = %d, want 1", s, res.Stats.Expanded)
		}
	}
}

func TestAStarDecreaseKey(t *testing.T) {
	// S reaches G directly at cost 10 and through M at cost 2. G is
	// discovered first with the expensive edge and must be improved in place.
	g := testGraph{
		start: "S",
		goal:  "G",
		adj: map[string][]Step[string]{
			"S": steps("G", 10, "M", 1),
			"M": steps("G", 1),
		},
	}
	res, err := Search[string](g, AStar)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if !slices.Equal(res.Path, []string{"S", "M", "G"}) || res.Cost != 2 {
		t.Errorf("got %v cost %v, want [S M G] cost 2", res.Path, res.Cost)
	}
	// Two discovered states besides the root, no duplicate frontier entries.
	if res.Stats.MaxFrontier != 2 {
		t.Errorf("MaxFrontier = %d, want 2", res.Stats.MaxFrontier)
	}
}

func TestNegativeHeuristic(t *testing.T) {
	g := weightedGraph()
	g.h = map[string]float64{"A": 1, "B": -1}
	for _, s := range []Strategy{Greedy, AStar} {
		_, err := Search[string](g, s)
		if !errors.Is(err, errors.ErrCodeInvalidHeuristic) {
			t.Errorf("%s: err = %v, want %s", s, err, errors.ErrCodeInvalidHeuristic)
		}
	}

	// Uninformed strategies never consult the heuristic.
	if _, err := Search[string](g, BFS); err != nil {
		t.Errorf("BFS: unexpected error %v", err)
	}
}

func TestNaNHeuristic(t *testing.T) {
	g := weightedGraph()
	g.h = map[string]float64{"A": math.NaN()}
	_, err := Search[string](g, AStar)
	if !errors.Is(err, errors.ErrCodeInvalidHeuristic) {
		t.Errorf("err = %v, want %s", err, errors.ErrCodeInvalidHeuristic)
	}
}

func TestSuccessorErrorPropagates(t *testing.T) {
	boom := stderrors.New("boom")
	p := Funcs[int]{
		Start: 0,
		Goal:  func(s int) bool { return s == 5 },
		Next: func(s int) ([]Step[int], error) {
			if s == 2 {
				return nil, boom
			}
			return []Step[int]{{State: s + 1, Cost: 1}}, nil
		},
	}
	for _, s := range Strategies() {
		res, err := Search[int](p, s)
		if !errors.Is(err, errors.ErrCodeMalformedProblem) {
			t.Errorf("%s: err = %v, want %s", s, err, errors.ErrCodeMalformedProblem)
		}
		if !stderrors.Is(err, boom) {
			t.Errorf("%s: cause not preserved: %v", s, err)
		}
		if res.Path != nil {
			t.Errorf("%s: partial result returned: %+v", s, res)
		}
	}
}

func TestInvalidEdgeCost(t *testing.T) {
	for _, cost := range []float64{-1, math.NaN(), math.Inf(1)} {
		g := testGraph{
			start: "A",
			goal:  "B",
			adj:   map[string][]Step[string]{"A": {{State: "B", Cost: cost}}},
		}
		_, err := Search[string](g, BFS)
		if !errors.Is(err, errors.ErrCodeMalformedProblem) {
			t.Errorf("cost %v: err = %v, want %s", cost, err, errors.ErrCodeMalformedProblem)
		}
	}
}

func TestInformedStrategyNeedsHeuristic(t *testing.T) {
	var p Problem[string] = &struct{ Problem[string] }{lineGraph()}
	for _, s := range []Strategy{Greedy, AStar} {
		_, err := Search(p, s)
		if !errors.Is(err, errors.ErrCodeMalformedProblem) {
			t.Errorf("%s: err = %v, want %s", s, err, errors.ErrCodeMalformedProblem)
		}
	}
	if _, err := Search(p, DFS); err != nil {
		t.Errorf("DFS: unexpected error %v", err)
	}
}

func TestInvalidStrategy(t *testing.T) {
	_, err := Search[string](lineGraph(), Strategy(42))
	if !errors.Is(err, errors.ErrCodeInvalidStrategy) {
		t.Errorf("err = %v, want %s", err, errors.ErrCodeInvalidStrategy)
	}
}

// counter is an infinite line 0 -> 1 -> 2 -> ...
func counter(goal int) Funcs[int] {
	return Funcs[int]{
		Start: 0,
		Goal:  func(s int) bool { return s == goal },
		Next:  func(s int) ([]Step[int], error) { return []Step[int]{{State: s + 1, Cost: 1}}, nil },
	}
}

func TestMaxExpansions(t *testing.T) {
	_, err := Search[int](counter(-1), DFS, WithMaxExpansions(100))
	if !errors.Is(err, errors.ErrCodeLimitExceeded) {
		t.Fatalf("err = %v, want %s", err, errors.ErrCodeLimitExceeded)
	}

	res, err := Search[int](counter(50), DFS, WithMaxExpansions(100))
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if res.Len() != 50 {
		t.Errorf("Len() = %d, want 50", res.Len())
	}
}

func TestSearchContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := SearchContext[int](ctx, counter(-1), BFS)
	if !errors.Is(err, errors.ErrCodeCanceled) {
		t.Fatalf("err = %v, want %s", err, errors.ErrCodeCanceled)
	}
	if !stderrors.Is(err, context.Canceled) {
		t.Errorf("cause not preserved: %v", err)
	}
}

func TestZeroHeuristicFuncs(t *testing.T) {
	// Funcs without Estimate makes A* a uniform-cost search.
	g := weightedGraph()
	p := Funcs[string]{
		Start: g.start,
		Goal:  g.IsGoal,
		Next:  g.Successors,
	}
	res, err := Search[string](p, AStar)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if res.Cost != 10 {
		t.Errorf("Cost = %v, want 10", res.Cost)
	}
}

func TestConcurrentSearches(t *testing.T) {
	g := weightedGraph()
	done := make(chan Result[string], 8)
	for i := 0; i < cap(done); i++ {
		go func() {
			res, err := Search[string](g, AStar)
			if err != nil {
				t.Errorf("Search: %v", err)
			}
			done <- res
		}()
	}
	for i := 0; i < cap(done); i++ {
		if res := <-done; res.Cost != 10 {
			t.Errorf("Cost = %v, want 10", res.Cost)
		}
	}
}

func TestEdgeCostsFollowParallelEdges(t *testing.T) {
	g := testGraph{
		start: "A",
		goal:  "G",
		adj: map[string][]Step[string]{
			"A": {{State: "B", Cost: 5}, {State: "B", Cost: 1}},
			"B": {{State: "G", Cost: 2}},
		},
	}
	tests := []struct {
		strategy Strategy
		edges    []float64
		cost     float64
	}{
		{BFS, []float64{5, 2}, 7},
		{DFS, []float64{5, 2}, 7},
		{Greedy, []float64{5, 2}, 7},
		{AStar, []float64{1, 2}, 3},
	}

	for _, tt := range tests {
		res, err := Search[string](g, tt.strategy)
		if err != nil {
			t.Fatalf("%s: %v", tt.strategy, err)
		}
		if !slices.Equal(res.EdgeCosts, tt.edges) {
			t.Errorf("%s: EdgeCosts = %v, want %v", tt.strategy, res.EdgeCosts, tt.edges)
		}
		if res.Cost != tt.cost {
			t.Errorf("%s: Cost = %v, want %v", tt.strategy, res.Cost, tt.cost)
		}
		var sum float64
		for _, c := range res.EdgeCosts {
			sum += c
		}
		if sum != res.Cost {
			t.Errorf("%s: sum(EdgeCosts) = %v, want Cost %v", tt.strategy, sum, res.Cost)
		}
	}
}

func TestEdgeCostsEmptyAtInitialGoal(t *testing.T) {
	res, err := Search[int](counter(0), BFS)
	if err != nil {
		t.Fatal(err)
	}
	if len(res.EdgeCosts) != 0 || res.Len() != 0 {
		t.Errorf("EdgeCosts = %v, Len() = %d, want none", res.EdgeCosts, res.Len())
	}
}

type progressRecorder struct {
	observability.NoopSearchHooks
	expanded []int
}

func (r *progressRecorder) OnSearchProgress(_ context.Context, _ string, stats observability.SearchStats) {
	r.expanded = append(r.expanded, stats.Expanded)
}

func TestSearchReportsProgress(t *testing.T) {
	rec := &progressRecorder{}
	observability.SetSearchHooks(rec)
	t.Cleanup(observability.Reset)

	if _, err := Search[int](counter(600), BFS); err != nil {
		t.Fatal(err)
	}
	if want := []int{256, 512}; !slices.Equal(rec.expanded, want) {
		t.Errorf("progress at %v, want %v", rec.expanded, want)
	}
}
