package search

import "testing"

func drain(f frontier) []int {
	var out []int
	for f.len() > 0 {
		out = append(out, f.pop())
	}
	return out
}

func equalInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestFIFOOrder(t *testing.T) {
	q := &fifo{}
	for i := 0; i < 200; i++ {
		q.push(i)
	}
	// Interleave pops and pushes across the compaction threshold.
	for i := 0; i < 150; i++ {
		if got := q.pop(); got != i {
			t.Fatalf("pop() = %d, want %d", got, i)
		}
	}
	q.push(200)
	rest := drain(q)
	if len(rest) != 51 || rest[0] != 150 || rest[50] != 200 {
		t.Errorf("remaining = %v", rest)
	}
}

func TestLIFOOrder(t *testing.T) {
	s := &lifo{}
	for _, id := range []int{0, 1, 2} {
		s.push(id)
	}
	if got := drain(s); !equalInts(got, []int{2, 1, 0}) {
		t.Errorf("drain = %v, want [2 1 0]", got)
	}
}

func TestGreedyTieBreak(t *testing.T) {
	nodes := []node[string]{
		{state: "a", estimate: 3},
		{state: "b", estimate: 1},
		{state: "c", estimate: 1},
		{state: "d", estimate: 0},
	}
	f := newFrontier(Greedy, &nodes)
	for i := range nodes {
		f.push(i)
	}
	if got := drain(f); !equalInts(got, []int{3, 1, 2, 0}) {
		t.Errorf("drain = %v, want [3 1 2 0]", got)
	}
}

func TestAStarTieBreak(t *testing.T) {
	// f = cost+estimate; ties go to the smaller cost, then to the earlier id.
	nodes := []node[string]{
		{state: "a", cost: 2, estimate: 2},
		{state: "b", cost: 1, estimate: 3},
		{state: "c", cost: 1, estimate: 3},
		{state: "d", cost: 0, estimate: 5},
	}
	f := newFrontier(AStar, &nodes)
	for i := range nodes {
		f.push(i)
	}
	if got := drain(f); !equalInts(got, []int{1, 2, 0, 3}) {
		t.Errorf("drain = %v, want [1 2 0 3]", got)
	}
}

func TestPriorityFix(t *testing.T) {
	nodes := []node[string]{
		{state: "a", cost: 5},
		{state: "b", cost: 3},
		{state: "c", cost: 4},
	}
	f := newFrontier(AStar, &nodes)
	for i := range nodes {
		f.push(i)
	}
	nodes[0].cost = 1
	f.fix(0)
	if got := drain(f); !equalInts(got, []int{0, 1, 2}) {
		t.Errorf("drain = %v, want [0 1 2]", got)
	}

	// Fixing an id that is no longer queued is a no-op.
	f.fix(0)
}
