package search

// Step is one edge produced by a successor generator: the state it leads to
// and the non-negative cost of taking it. Unweighted problems use cost 1.
type Step[S comparable] struct {
	State S
	Cost  float64
}

// Problem describes a search instance.
//
// Successors must return a finite slice for every state; an empty slice marks
// a dead end. Returning an error aborts the search with MALFORMED_PROBLEM.
// Successors may include states that were already visited, including the
// state itself.
type Problem[S comparable] interface {
	Initial() S
	IsGoal(S) bool
	Successors(S) ([]Step[S], error)
}

// Informed is a Problem that can estimate the remaining cost to a goal.
// It is required by the Greedy and AStar strategies.
//
// Heuristic must be non-negative. For A* to return minimum-cost paths it must
// also never overestimate the true remaining cost; the engine does not check
// admissibility.
type Informed[S comparable] interface {
	Problem[S]
	Heuristic(S) float64
}

// Funcs adapts plain functions to [Informed].
//
// A nil Estimate is treated as the zero heuristic, which turns Greedy into
// insertion-order search and AStar into uniform-cost search.
type Funcs[S comparable] struct {
	Start    S
	Goal     func(S) bool
	Next     func(S) ([]Step[S], error)
	Estimate func(S) float64
}

func (f Funcs[S]) Initial() S { return f.Start }

func (f Funcs[S]) IsGoal(s S) bool { return f.Goal(s) }

func (f Funcs[S]) Successors(s S) ([]Step[S], error) { return f.Next(s) }

func (f Funcs[S]) Heuristic(s S) float64 {
	if f.Estimate == nil {
		return 0
	}
	return f.Estimate(s)
}

var _ Informed[int] = Funcs[int]{}
