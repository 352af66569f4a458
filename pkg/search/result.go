package search

// Status tags the outcome of a search run.
type Status int

const (
	// StatusExhausted means the frontier emptied without reaching a goal.
	StatusExhausted Status = iota
	// StatusFound means a goal state was reached.
	StatusFound
)

// String returns "found" or "exhausted".
func (s Status) String() string {
	if s == StatusFound {
		return "found"
	}
	return "exhausted"
}

// Stats counts the work done by one run. The counts are deterministic for a
// given problem and strategy.
type Stats struct {
	Expanded    int // States whose successors were generated
	Generated   int // Successor edges examined
	MaxFrontier int // Largest frontier size observed
}

// Result is the outcome of a search run.
//
// For StatusFound, Path lists the states from the initial state to the goal
// inclusive and Cost is the sum of the edge costs along it. When the initial
// state is already a goal, Path holds only that state and Cost is 0. For
// StatusExhausted, Path is nil and Cost is 0.
//
// EdgeCosts[i] is the cost of the edge actually taken from Path[i] to
// Path[i+1]. With parallel edges between two states it identifies which one
// the search used.
type Result[S comparable] struct {
	Status    Status
	Path      []S
	EdgeCosts []float64
	Cost      float64
	Stats     Stats
}

// Found reports whether the run reached a goal.
func (r Result[S]) Found() bool { return r.Status == StatusFound }

// Len returns the number of transitions in the path, or 0 when exhausted.
func (r Result[S]) Len() int {
	if len(r.Path) == 0 {
		return 0
	}
	return len(r.Path) - 1
}

// Goal returns the final state of the path. The boolean is false when the
// search was exhausted.
func (r Result[S]) Goal() (S, bool) {
	if len(r.Path) == 0 {
		var zero S
		return zero, false
	}
	return r.Path[len(r.Path)-1], true
}
