// Package pkg provides the core libraries for Searchlab state-space search.
//
// # Overview
//
// Searchlab solves problems described as an initial state, a goal test and a
// successor function with four classic strategies: breadth-first, depth-first,
// greedy best-first and A*. The pkg directory is organized into four areas:
//
//  1. [search] - The generic engine (frontier, visited set, path reconstruction)
//  2. [problems] - Domain adapters (weighted graphs, water jugs, 8-puzzle, N-queens)
//  3. [pipeline] - Orchestration (validate → build → search → cache) shared by CLI and API
//  4. Infrastructure: [cache], [config], [errors], [observability], [buildinfo]
//
// # Architecture
//
// The typical data flow through Searchlab:
//
//	Options (CLI flags, JSON request)
//	         ↓
//	    [pipeline] package (validate, build the domain problem, cache lookup)
//	         ↓
//	    [search] package (BFS, DFS, Greedy or A* over the problem)
//	         ↓
//	    Solution (path, actions, cost, stats) or DOT/SVG rendering
//
// # Quick Start
//
// Solve the water jug puzzle with A*:
//
//	r := pipeline.NewRunner(nil, nil, nil)
//	sol, err := r.Execute(ctx, pipeline.Options{
//	    Domain:   pipeline.DomainWaterJug,
//	    Strategy: "astar",
//	    CapA:     4,
//	    CapB:     3,
//	    Target:   2,
//	})
//	fmt.Println(sol)
//
// Or drive the engine directly with any comparable state type:
//
//	p, _ := puzzle.New(start)
//	res, err := search.Search[puzzle.Board](p, search.AStar)
//
// # Testing
//
//	go test ./...                     # All tests
//	go test ./pkg/search/...          # Specific package
//	go test -run Example ./pkg/...    # Examples only
//
// [search]: https://pkg.go.dev/github.com/matzehuels/searchlab/pkg/search
// [problems]: https://pkg.go.dev/github.com/matzehuels/searchlab/pkg/problems
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/searchlab/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/searchlab/pkg/cache
// [config]: https://pkg.go.dev/github.com/matzehuels/searchlab/pkg/config
// [errors]: https://pkg.go.dev/github.com/matzehuels/searchlab/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/searchlab/pkg/observability
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/searchlab/pkg/buildinfo
package pkg
