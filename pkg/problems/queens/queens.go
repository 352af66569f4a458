// Package queens models the N-queens placement puzzle as a search problem.
//
// Queens are placed one row at a time from the top. A successor places a
// queen in the next row on every column not attacked by an earlier queen, so
// every reachable board is conflict-free and the goal is simply a board with
// N queens.
package queens

import (
	"context"
	"strconv"
	"strings"

	"github.com/matzehuels/searchlab/pkg/errors"
	"github.com/matzehuels/searchlab/pkg/search"
)

// MaxN is the largest supported board size.
const MaxN = 16

// Board is a partial placement. Rows [0, Placed()) each hold one queen.
// Boards are comparable and safe to use as map keys.
type Board struct {
	n      uint8
	placed uint8
	cols   [MaxN]int8
}

// N returns the board size.
func (b Board) N() int { return int(b.n) }

// Placed returns the number of queens on the board.
func (b Board) Placed() int { return int(b.placed) }

// Columns returns the column of the queen in each filled row.
func (b Board) Columns() []int {
	out := make([]int, b.placed)
	for i := range out {
		out[i] = int(b.cols[i])
	}
	return out
}

// Place returns b with a queen added on the next row at col.
func (b Board) Place(col int) Board {
	b.cols[b.placed] = int8(col)
	b.placed++
	return b
}

// Safe reports whether a queen on the next row at col is unattacked.
func (b Board) Safe(col int) bool {
	row := int(b.placed)
	for r := range row {
		c := int(b.cols[r])
		if c == col || row-r == abs(col-c) {
			return false
		}
	}
	return true
}

// String lists the queen columns, e.g. "0 4 7 5 2 6 1 3".
func (b Board) String() string {
	parts := make([]string, b.placed)
	for i := range parts {
		parts[i] = strconv.Itoa(int(b.cols[i]))
	}
	return strings.Join(parts, " ")
}

// Grid draws the board one row per line, 1 for a queen and 0 for an empty
// cell. Rows without a queen are all zeros.
func (b Board) Grid() string {
	var sb strings.Builder
	for r := range int(b.n) {
		if r > 0 {
			sb.WriteByte('\n')
		}
		for c := range int(b.n) {
			if c > 0 {
				sb.WriteByte(' ')
			}
			if r < int(b.placed) && int(b.cols[r]) == c {
				sb.WriteByte('1')
			} else {
				sb.WriteByte('0')
			}
		}
	}
	return sb.String()
}

// Problem places N non-attacking queens.
type Problem struct {
	N int
}

// New validates n, which must lie in [1, MaxN].
func New(n int) (*Problem, error) {
	if n < 1 || n > MaxN {
		return nil, errors.New(errors.ErrCodeInvalidInput, "board size must be between 1 and %d, got %d", MaxN, n)
	}
	return &Problem{N: n}, nil
}

// Initial returns the empty board.
func (p *Problem) Initial() Board { return Board{n: uint8(p.N)} }

func (p *Problem) IsGoal(b Board) bool { return b.Placed() == p.N }

// Successors yields safe placements on the next row in descending column
// order. A LIFO frontier therefore tries the leftmost column first and DFS
// visits solutions in lexicographic order.
func (p *Problem) Successors(b Board) ([]search.Step[Board], error) {
	if b.Placed() >= p.N {
		return nil, nil
	}
	var out []search.Step[Board]
	for col := p.N - 1; col >= 0; col-- {
		if b.Safe(col) {
			out = append(out, search.Step[Board]{State: b.Place(col), Cost: 1})
		}
	}
	return out, nil
}

// Heuristic counts the queens still to place.
func (p *Problem) Heuristic(b Board) float64 { return float64(p.N - b.Placed()) }

var _ search.Informed[Board] = (*Problem)(nil)

// collector reports no goal and records every complete board instead, so a
// search runs to exhaustion.
type collector struct {
	*Problem
	found []Board
}

func (c *collector) IsGoal(b Board) bool {
	if c.Problem.IsGoal(b) {
		c.found = append(c.found, b)
	}
	return false
}

// All enumerates every solution for an n×n board in lexicographic column
// order by running DFS to exhaustion.
func All(ctx context.Context, n int, opts ...search.Option) ([]Board, search.Stats, error) {
	p, err := New(n)
	if err != nil {
		return nil, search.Stats{}, err
	}
	c := &collector{Problem: p}
	res, err := search.SearchContext[Board](ctx, c, search.DFS, opts...)
	if err != nil {
		return nil, search.Stats{}, err
	}
	return c.found, res.Stats, nil
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
