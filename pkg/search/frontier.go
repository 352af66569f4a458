package search

import "container/heap"

// frontier orders node ids pending expansion. Ids index the engine's node
// table; priority frontiers read costs and estimates through less.
type frontier interface {
	push(id int)
	pop() int
	len() int
	// fix restores ordering after the node's cost changed. Only priority
	// frontiers reorder; the others ignore it.
	fix(id int)
}

func newFrontier[S comparable](s Strategy, nodes *[]node[S]) frontier {
	switch s {
	case DFS:
		return &lifo{}
	case Greedy:
		return newPriority(func(a, b int) bool {
			na, nb := &(*nodes)[a], &(*nodes)[b]
			if na.estimate != nb.estimate {
				return na.estimate < nb.estimate
			}
			return a < b
		})
	case AStar:
		return newPriority(func(a, b int) bool {
			na, nb := &(*nodes)[a], &(*nodes)[b]
			fa, fb := na.cost+na.estimate, nb.cost+nb.estimate
			if fa != fb {
				return fa < fb
			}
			if na.cost != nb.cost {
				return na.cost < nb.cost
			}
			return a < b
		})
	default:
		return &fifo{}
	}
}

// fifo is a slice-backed queue. The head index advances on pop and the
// backing array is compacted once the consumed prefix dominates.
type fifo struct {
	items []int
	head  int
}

func (q *fifo) push(id int) { q.items = append(q.items, id) }

func (q *fifo) pop() int {
	id := q.items[q.head]
	q.head++
	if q.head > 64 && q.head*2 > len(q.items) {
		q.items = append(q.items[:0], q.items[q.head:]...)
		q.head = 0
	}
	return id
}

func (q *fifo) len() int { return len(q.items) - q.head }

func (q *fifo) fix(int) {}

type lifo struct {
	items []int
}

func (s *lifo) push(id int) { s.items = append(s.items, id) }

func (s *lifo) pop() int {
	id := s.items[len(s.items)-1]
	s.items = s.items[:len(s.items)-1]
	return id
}

func (s *lifo) len() int { return len(s.items) }

func (s *lifo) fix(int) {}

// priority is a binary heap of node ids. Node ids grow with insertion, so
// comparing ids breaks ties by insertion order.
type priority struct {
	h *idHeap
}

func newPriority(less func(a, b int) bool) *priority {
	return &priority{h: &idHeap{less: less, index: make(map[int]int)}}
}

func (p *priority) push(id int) { heap.Push(p.h, id) }

func (p *priority) pop() int { return heap.Pop(p.h).(int) }

func (p *priority) len() int { return p.h.Len() }

func (p *priority) fix(id int) {
	if i, ok := p.h.index[id]; ok {
		heap.Fix(p.h, i)
	}
}

// idHeap implements heap.Interface and tracks each id's position so fix can
// locate it.
type idHeap struct {
	ids   []int
	index map[int]int
	less  func(a, b int) bool
}

func (h *idHeap) Len() int { return len(h.ids) }

func (h *idHeap) Less(i, j int) bool { return h.less(h.ids[i], h.ids[j]) }

func (h *idHeap) Swap(i, j int) {
	h.ids[i], h.ids[j] = h.ids[j], h.ids[i]
	h.index[h.ids[i]] = i
	h.index[h.ids[j]] = j
}

func (h *idHeap) Push(x any) {
	id := x.(int)
	h.index[id] = len(h.ids)
	h.ids = append(h.ids, id)
}

func (h *idHeap) Pop() any {
	last := len(h.ids) - 1
	id := h.ids[last]
	h.ids = h.ids[:last]
	delete(h.index, id)
	return id
}
