package queens

import (
	"slices"
	"testing"

	"github.com/matzehuels/searchlab/pkg/errors"
	"github.com/matzehuels/searchlab/pkg/search"
)

func TestAllCounts(t *testing.T) {
	tests := []struct {
		n, want int
	}{
		{1, 1},
		{2, 0},
		{3, 0},
		{4, 2},
		{5, 10},
		{6, 4},
		{8, 92},
	}
	for _, tt := range tests {
		got, _, err := All(t.Context(), tt.n)
		if err != nil {
			t.Fatalf("All(%d): %v", tt.n, err)
		}
		if len(got) != tt.want {
			t.Errorf("All(%d) = %d solutions, want %d", tt.n, len(got), tt.want)
		}
		for _, b := range got {
			if !valid(b) {
				t.Errorf("All(%d) returned invalid board %v", tt.n, b)
			}
		}
	}
}

func TestAllOrder(t *testing.T) {
	got, _, err := All(t.Context(), 4)
	if err != nil {
		t.Fatal(err)
	}
	want := [][]int{{1, 3, 0, 2}, {2, 0, 3, 1}}
	for i, b := range got {
		if !slices.Equal(b.Columns(), want[i]) {
			t.Errorf("solution %d = %v, want %v", i, b.Columns(), want[i])
		}
	}
}

func TestSolveFirst(t *testing.T) {
	p, _ := New(8)
	res, err := search.Search[Board](p, search.DFS)
	if err != nil {
		t.Fatal(err)
	}
	goal, ok := res.Goal()
	if !ok {
		t.Fatal("no solution")
	}
	if got, want := goal.Columns(), []int{0, 4, 7, 5, 2, 6, 1, 3}; !slices.Equal(got, want) {
		t.Errorf("first DFS solution = %v, want %v", got, want)
	}
	if res.Len() != 8 || res.Cost != 8 {
		t.Errorf("Len = %d, Cost = %v, want 8 placements", res.Len(), res.Cost)
	}
}

func TestEveryStrategySolves(t *testing.T) {
	p, _ := New(6)
	for _, s := range search.Strategies() {
		res, err := search.Search[Board](p, s)
		if err != nil {
			t.Fatalf("%s: %v", s, err)
		}
		goal, ok := res.Goal()
		if !ok {
			t.Fatalf("%s: exhausted", s)
		}
		if goal.Placed() != 6 || !valid(goal) {
			t.Errorf("%s: invalid goal %v", s, goal)
		}
	}
}

func TestNoSolution(t *testing.T) {
	p, _ := New(3)
	res, err := search.Search[Board](p, search.BFS)
	if err != nil {
		t.Fatal(err)
	}
	if res.Found() {
		t.Errorf("found %v for n=3", res.Path)
	}
}

func TestNewValidation(t *testing.T) {
	for _, n := range []int{0, -1, MaxN + 1} {
		if _, err := New(n); !errors.Is(err, errors.ErrCodeInvalidInput) {
			t.Errorf("New(%d) err = %v, want INVALID_INPUT", n, err)
		}
	}
	if _, _, err := All(t.Context(), 0); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("All(0) err = %v, want INVALID_INPUT", err)
	}
}

func TestGrid(t *testing.T) {
	p, _ := New(4)
	b := p.Initial().Place(1).Place(3)
	want := "0 1 0 0\n0 0 0 1\n0 0 0 0\n0 0 0 0"
	if got := b.Grid(); got != want {
		t.Errorf("Grid() =\n%s\nwant\n%s", got, want)
	}
	if got := b.String(); got != "1 3" {
		t.Errorf("String() = %q, want %q", got, "1 3")
	}
}

func TestSafe(t *testing.T) {
	p, _ := New(4)
	b := p.Initial().Place(1)
	tests := []struct {
		col  int
		want bool
	}{
		{0, false},
		{1, false},
		{2, false},
		{3, true},
	}
	for _, tt := range tests {
		if got := b.Safe(tt.col); got != tt.want {
			t.Errorf("Safe(%d) = %v, want %v", tt.col, got, tt.want)
		}
	}
}

// valid checks a full board for attacks independently of Safe.
func valid(b Board) bool {
	cols := b.Columns()
	for i := range cols {
		for j := i + 1; j < len(cols); j++ {
			if cols[i] == cols[j] || j-i == abs(cols[i]-cols[j]) {
				return false
			}
		}
	}
	return len(cols) == b.N()
}
