package nav

import (
	"container/heap"
	"math"
)

// reverseEdge points from a cell back to a predecessor that can step into it.
type reverseEdge struct {
	from int
	cost float64
}

type pqItem struct {
	idx  int
	dist float64
	seq  int // insertion order; breaks distance ties deterministically
}

type distanceQueue []pqItem

func (q distanceQueue) Len() int { return len(q) }
func (q distanceQueue) Less(i, j int) bool {
	if q[i].dist != q[j].dist {
		return q[i].dist < q[j].dist
	}
	return q[i].seq < q[j].seq
}
func (q distanceQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }
func (q *distanceQueue) Push(x any)   { *q = append(*q, x.(pqItem)) }
func (q *distanceQueue) Pop() any {
	old := *q
	n := len(old)
	it := old[n-1]
	*q = old[:n-1]
	return it
}

// reverseGraph lists, for every cell, the cells that can step into it.
// Built once per searcher since it depends only on the grid.
func (s *searcher) reverseGraph() [][]reverseEdge {
	rev := make([][]reverseEdge, s.w*s.h)
	for y := 0; y < s.h; y++ {
		for x := 0; x < s.w; x++ {
			from := y*s.w + x
			s.buf = edges(s.caps, s.costs, x, y, s.buf)
			for _, e := range s.buf {
				to := e.y*s.w + e.x
				rev[to] = append(rev[to], reverseEdge{from: from, cost: e.cost})
			}
		}
	}
	return rev
}

// resolveOptimal runs Dijkstra outward from the target over reversed edges
// (lazy decrease-key) and records, for each reached cell, the step onto the
// successor of one shortest path.
func (s *searcher) resolveOptimal(f *Field) {
	if s.rev == nil {
		s.rev = s.reverseGraph()
	}

	tx, ty := f.Target()
	size := s.w * s.h
	dist := make([]float64, size)
	next := make([]int, size)
	for i := range dist {
		dist[i] = math.Inf(1)
		next[i] = -1
	}
	target := ty*s.w + tx
	dist[target] = 0

	seq := 0
	pq := &distanceQueue{{idx: target, dist: 0, seq: seq}}
	for pq.Len() > 0 {
		it := heap.Pop(pq).(pqItem)
		if it.dist > dist[it.idx] {
			continue // stale
		}
		for _, re := range s.rev[it.idx] {
			nd := it.dist + re.cost
			if nd < dist[re.from] {
				dist[re.from] = nd
				next[re.from] = it.idx
				seq++
				heap.Push(pq, pqItem{idx: re.from, dist: nd, seq: seq})
			}
		}
	}

	for i, n := range next {
		if n < 0 || i == target {
			continue
		}
		fx, fy := i%s.w, i/s.w
		f.set(fx, fy, Cell{
			Move:     stepMove(s.caps, fx, fy, n%s.w, n/s.w),
			Distance: dist[i],
		})
	}
}
