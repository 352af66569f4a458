// Package search provides a generic state-space search engine.
//
// # Overview
//
// A search instance is described by a [Problem]: an initial state, a goal
// test and a successor generator. Problems that can estimate the remaining
// cost to a goal also implement [Informed]. The engine is parameterized over
// the state type, which only has to be comparable: equal configurations must
// compare equal no matter how they were reached, because the visited set and
// the best-known-cost table are Go maps keyed by state.
//
// # Strategies
//
// Four frontier disciplines share a single engine loop:
//
//   - [BFS]: first in, first out. Shortest path by edge count.
//   - [DFS]: last in, first out. Finds some path; no optimality guarantee.
//   - [Greedy]: smallest heuristic first, ties broken by insertion order.
//   - [AStar]: smallest cost+heuristic first, ties broken by smaller cost and
//     then insertion order. Optimal when the heuristic is admissible and
//     consistent.
//
// BFS, DFS and Greedy close a state as soon as it is discovered, so every
// state enters the frontier at most once. A* closes a state only after it has
// been expanded; until then a cheaper path replaces the pending frontier
// entry in place.
//
// # Basic Usage
//
//	p := search.Funcs[string]{
//	    Start: "A",
//	    Goal:  func(s string) bool { return s == "G" },
//	    Next:  func(s string) ([]search.Step[string], error) { return adj[s], nil },
//	}
//	res, err := search.Search[string](p, search.BFS)
//	if err != nil {
//	    return err
//	}
//	if res.Found() {
//	    fmt.Println(res.Path, res.Cost)
//	}
//
// # Results and Errors
//
// A run ends either with [StatusFound] or [StatusExhausted]; exhaustion is a
// normal outcome and is never reported as an error. Errors are reserved for
// broken problem definitions (see package errors): a negative heuristic
// aborts with INVALID_HEURISTIC, a failing successor function or an invalid
// edge cost aborts with MALFORMED_PROBLEM. No partial result is returned
// alongside an error.
//
// # Concurrency
//
// A call to [Search] owns all of its bookkeeping and shares nothing with
// other calls, so independent searches may run in parallel provided their
// problem definitions do not share mutable state. [SearchContext] and
// [WithMaxExpansions] let callers bound a run on unbounded state spaces.
package search
