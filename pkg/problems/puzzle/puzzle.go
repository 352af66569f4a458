// Package puzzle models the 3x3 sliding-tile puzzle.
//
// A Board lists tiles row by row with 0 for the blank. A move slides a tile
// adjacent to the blank into it. The default goal is 0 1 2 3 4 5 6 7 8 with
// the blank in the top-left corner.
package puzzle

import (
	"strings"

	"github.com/matzehuels/searchlab/pkg/errors"
	"github.com/matzehuels/searchlab/pkg/search"
)

// Size is the number of cells on the board.
const Size = 9

// Board is a 3x3 tile arrangement in row-major order; 0 is the blank.
type Board [Size]uint8

// Goal is the solved board.
var Goal = Board{0, 1, 2, 3, 4, 5, 6, 7, 8}

// neighbors lists, for each blank position, the cells it can swap with.
var neighbors = [Size][]int{
	0: {1, 3},
	1: {0, 2, 4},
	2: {1, 5},
	3: {0, 4, 6},
	4: {1, 3, 5, 7},
	5: {2, 4, 8},
	6: {3, 7},
	7: {4, 6, 8},
	8: {5, 7},
}

// Parse reads nine tiles. Digits may be separated by spaces, commas, slashes
// or pipes; "_" is accepted for the blank.
//
//	Parse("123405678")
//	Parse("1 2 3 / 4 _ 5 / 6 7 8")
func Parse(s string) (Board, error) {
	var b Board
	n := 0
	for _, r := range s {
		var v uint8
		switch {
		case r >= '0' && r <= '8':
			v = uint8(r - '0')
		case r == '_':
			v = 0
		case r == ' ' || r == ',' || r == '/' || r == '|' || r == '\t' || r == '\n':
			continue
		default:
			return Board{}, errors.New(errors.ErrCodeInvalidInput, "invalid tile %q in board %q", r, s)
		}
		if n == Size {
			return Board{}, errors.New(errors.ErrCodeInvalidInput, "board %q has more than %d tiles", s, Size)
		}
		b[n] = v
		n++
	}
	if n != Size {
		return Board{}, errors.New(errors.ErrCodeInvalidInput, "board %q has %d tiles, want %d", s, n, Size)
	}
	if err := b.Validate(); err != nil {
		return Board{}, err
	}
	return b, nil
}

// FromRows flattens a 3x3 grid.
func FromRows(rows [3][3]uint8) (Board, error) {
	var b Board
	for i, row := range rows {
		copy(b[i*3:], row[:])
	}
	return b, b.Validate()
}

// Validate checks that b is a permutation of 0..8.
func (b Board) Validate() error {
	var seen [Size]bool
	for _, v := range b {
		if int(v) >= Size {
			return errors.New(errors.ErrCodeInvalidInput, "tile %d out of range", v)
		}
		if seen[v] {
			return errors.New(errors.ErrCodeInvalidInput, "tile %d appears twice", v)
		}
		seen[v] = true
	}
	return nil
}

// Blank returns the index of the blank cell.
func (b Board) Blank() int {
	for i, v := range b {
		if v == 0 {
			return i
		}
	}
	return -1
}

// String returns the tiles as three space-separated rows, e.g. "123 405 678".
func (b Board) String() string {
	var sb strings.Builder
	for i, v := range b {
		if i > 0 && i%3 == 0 {
			sb.WriteByte(' ')
		}
		sb.WriteByte('0' + v)
	}
	return sb.String()
}

// Grid renders b as three lines with "_" for the blank.
func (b Board) Grid() string {
	var sb strings.Builder
	for i, v := range b {
		switch {
		case i%3 != 0:
			sb.WriteByte(' ')
		case i > 0:
			sb.WriteByte('\n')
		}
		if v == 0 {
			sb.WriteByte('_')
		} else {
			sb.WriteByte('0' + v)
		}
	}
	return sb.String()
}

// inversions counts tile pairs out of order, ignoring the blank.
func (b Board) inversions() int {
	n := 0
	for i := range Size {
		for j := i + 1; j < Size; j++ {
			if b[i] != 0 && b[j] != 0 && b[i] > b[j] {
				n++
			}
		}
	}
	return n
}

// Problem is a puzzle instance from Start to Goal.
type Problem struct {
	Start Board
	Goal  Board

	// goalPos[t] is the cell tile t occupies in Goal.
	goalPos [Size]int
}

// New creates a problem that solves start towards the default Goal.
func New(start Board) (*Problem, error) {
	return NewWithGoal(start, Goal)
}

// NewWithGoal creates a problem with a custom goal board.
func NewWithGoal(start, goal Board) (*Problem, error) {
	if err := start.Validate(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "start board")
	}
	if err := goal.Validate(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "goal board")
	}
	p := &Problem{Start: start, Goal: goal}
	for i, v := range goal {
		p.goalPos[v] = i
	}
	return p, nil
}

// Solvable reports whether Goal is reachable from Start. On a 3-wide board a
// move never changes the parity of the inversion count, and every
// arrangement with matching parity is reachable.
func (p *Problem) Solvable() bool {
	return p.Start.inversions()%2 == p.Goal.inversions()%2
}

func (p *Problem) Initial() Board { return p.Start }

func (p *Problem) IsGoal(b Board) bool { return b == p.Goal }

// Successors swaps the blank with each neighboring cell.
func (p *Problem) Successors(b Board) ([]search.Step[Board], error) {
	z := b.Blank()
	if z < 0 {
		return nil, errors.New(errors.ErrCodeMalformedProblem, "board %s has no blank", b)
	}
	out := make([]search.Step[Board], 0, len(neighbors[z]))
	for _, m := range neighbors[z] {
		next := b
		next[z], next[m] = next[m], next[z]
		out = append(out, search.Step[Board]{State: next, Cost: 1})
	}
	return out, nil
}

// Heuristic is the sum of Manhattan distances of every tile from its goal
// cell. The blank is not counted, so the estimate is admissible.
func (p *Problem) Heuristic(b Board) float64 {
	d := 0
	for i, v := range b {
		if v == 0 {
			continue
		}
		g := p.goalPos[v]
		d += abs(i/3-g/3) + abs(i%3-g%3)
	}
	return float64(d)
}

// Moved returns the tile that slid between two consecutive boards.
func Moved(from, to Board) uint8 {
	return from[to.Blank()]
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

var _ search.Informed[Board] = (*Problem)(nil)
