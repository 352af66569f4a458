// Package waterjug models the two-jug measuring puzzle.
//
// Jug A holds up to CapA units and jug B up to CapB. Each move fills a jug
// from the tap, empties it, or pours one jug into the other until the source
// is empty or the destination is full. The goal is reached when either jug
// holds exactly Target units. Every move costs 1, so BFS and A* return a
// shortest move sequence.
package waterjug

import (
	"fmt"

	"github.com/matzehuels/searchlab/pkg/errors"
	"github.com/matzehuels/searchlab/pkg/search"
)

// State is the amount of water in jug A and jug B.
type State struct {
	A, B int
}

func (s State) String() string { return fmt.Sprintf("(%d, %d)", s.A, s.B) }

// Move names a single action.
type Move int

const (
	FillA Move = iota
	FillB
	EmptyA
	EmptyB
	PourAB
	PourBA
)

var moveNames = [...]string{
	FillA:  "fill A",
	FillB:  "fill B",
	EmptyA: "empty A",
	EmptyB: "empty B",
	PourAB: "pour A into B",
	PourBA: "pour B into A",
}

func (m Move) String() string {
	if m < 0 || int(m) >= len(moveNames) {
		return "unknown"
	}
	return moveNames[m]
}

// Problem is a jug puzzle instance. Create it with New.
type Problem struct {
	CapA, CapB int
	Target     int
}

// New validates the capacities and target. Both capacities must be positive
// and the target non-negative. A target that no jug can hold is accepted; the
// search simply exhausts.
func New(capA, capB, target int) (*Problem, error) {
	if capA <= 0 || capB <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "jug capacities must be positive, got %d and %d", capA, capB)
	}
	if target < 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "target must be non-negative, got %d", target)
	}
	return &Problem{CapA: capA, CapB: capB, Target: target}, nil
}

// Initial returns two empty jugs.
func (p *Problem) Initial() State { return State{} }

func (p *Problem) IsGoal(s State) bool { return s.A == p.Target || s.B == p.Target }

// Apply returns the state after m. Moves that change nothing return s.
func (p *Problem) Apply(s State, m Move) State {
	switch m {
	case FillA:
		return State{p.CapA, s.B}
	case FillB:
		return State{s.A, p.CapB}
	case EmptyA:
		return State{0, s.B}
	case EmptyB:
		return State{s.A, 0}
	case PourAB:
		n := min(s.A, p.CapB-s.B)
		return State{s.A - n, s.B + n}
	case PourBA:
		n := min(s.B, p.CapA-s.A)
		return State{s.A + n, s.B - n}
	}
	return s
}

// Successors applies the six moves in Move order, skipping moves that leave
// the jugs unchanged.
func (p *Problem) Successors(s State) ([]search.Step[State], error) {
	out := make([]search.Step[State], 0, len(moveNames))
	for m := FillA; m <= PourBA; m++ {
		if next := p.Apply(s, m); next != s {
			out = append(out, search.Step[State]{State: next, Cost: 1})
		}
	}
	return out, nil
}

// Heuristic is 0 at a goal and 1 elsewhere. It never overestimates since any
// non-goal state needs at least one more move.
func (p *Problem) Heuristic(s State) float64 {
	if p.IsGoal(s) {
		return 0
	}
	return 1
}

// Explain returns the move that turns from into to. When several moves do,
// the first in Move order wins.
func (p *Problem) Explain(from, to State) (Move, bool) {
	for m := FillA; m <= PourBA; m++ {
		if p.Apply(from, m) == to {
			return m, true
		}
	}
	return 0, false
}

// Solvable reports whether Target is reachable: it must fit in the larger
// jug and be a multiple of gcd(CapA, CapB).
func (p *Problem) Solvable() bool {
	if p.Target == 0 {
		return true
	}
	if p.Target > max(p.CapA, p.CapB) {
		return false
	}
	return p.Target%gcd(p.CapA, p.CapB) == 0
}

func gcd(a, b int) int {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

var _ search.Informed[State] = (*Problem)(nil)
