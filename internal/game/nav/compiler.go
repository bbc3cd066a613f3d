package nav

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/cory-johannsen/giftrun/internal/game/level"
)

// Strategy selects how hint fields are resolved.
type Strategy string

const (
	// StrategyReference resolves cells in row-major order with a best-first
	// search per cell that stops at the first already-resolved cell. The first
	// chain through a cell fixes its hint, so hints depend on scan order and
	// are not globally cost-optimal.
	StrategyReference Strategy = "reference"
	// StrategyOptimal runs one reverse Dijkstra from the target. Every cell
	// gets its exact minimal cost; hints may differ from StrategyReference.
	StrategyOptimal Strategy = "optimal"
)

// Compiler builds hint fields from a grid and its target set.
type Compiler struct {
	costs    Costs
	strategy Strategy
}

// NewCompiler returns a Compiler using the given costs and strategy.
//
// Postcondition: Returns a non-nil Compiler or an error for invalid costs or
// an unknown strategy.
func NewCompiler(costs Costs, strategy Strategy) (*Compiler, error) {
	if err := costs.Validate(); err != nil {
		return nil, err
	}
	switch strategy {
	case StrategyReference, StrategyOptimal:
	default:
		return nil, fmt.Errorf("unknown hint strategy %q", strategy)
	}
	return &Compiler{costs: costs, strategy: strategy}, nil
}

// DefaultCompiler returns a reference-strategy compiler with default costs.
func DefaultCompiler() *Compiler {
	return &Compiler{costs: DefaultCosts(), strategy: StrategyReference}
}

// Costs returns the compiler's edge weights.
func (c *Compiler) Costs() Costs { return c.costs }

// Strategy returns the compiler's resolution strategy.
func (c *Compiler) Strategy() Strategy { return c.strategy }

// Compile allocates and resolves one field per target, in target order.
//
// Postcondition: len(result) == len(targets); result[i] belongs to targets[i].
func (c *Compiler) Compile(g *level.Grid, targets []Target) FieldSet {
	fs := make(FieldSet, len(targets))
	for i, t := range targets {
		fs[i] = NewField(g.Width(), g.Height(), t.X, t.Y)
	}
	c.Rebuild(g, fs)
	return fs
}

// Rebuild resets every field of fs and resolves it again against g, in
// field order. There is no incremental repair.
//
// Precondition: every field of fs matches g's dimensions.
func (c *Compiler) Rebuild(g *level.Grid, fs FieldSet) {
	caps := NewCapabilities(g)
	s := newSearcher(caps, c.costs)
	for _, f := range fs {
		f.Reset()
		switch c.strategy {
		case StrategyOptimal:
			s.resolveOptimal(f)
		default:
			s.resolveReference(f)
		}
	}
}

// searchNode is an open or closed entry of the per-cell best-first search.
type searchNode struct {
	x, y int
	cost float64
	// dist is the Manhattan distance to the target. It can overestimate the
	// remaining cost because falling is cheaper than a step.
	dist int
	prev *searchNode
}

func (n *searchNode) priority() float64 {
	return n.cost + float64(n.dist)
}

// searcher holds scratch buffers reused across cells and fields.
type searcher struct {
	caps   Capabilities
	costs  Costs
	w, h   int
	closed []bool
	open   []*searchNode
	inOpen map[int]*searchNode
	buf    []edge
	rev    [][]reverseEdge
}

func newSearcher(caps Capabilities, costs Costs) *searcher {
	w, h := caps.Width(), caps.Height()
	return &searcher{
		caps:   caps,
		costs:  costs,
		w:      w,
		h:      h,
		closed: make([]bool, w*h),
		inOpen: make(map[int]*searchNode),
	}
}

func (s *searcher) resolveReference(f *Field) {
	for y := 0; y < s.h; y++ {
		for x := 0; x < s.w; x++ {
			s.searchFrom(f, x, y)
		}
	}
}

// searchFrom runs a best-first search from (x, y) that stops at the first
// popped cell already resolved in f (the target included), then writes the
// discovered chain back into f. An exhausted search writes nothing.
func (s *searcher) searchFrom(f *Field, x, y int) {
	tx, ty := f.Target()

	clear(s.closed)
	clear(s.inOpen)
	start := &searchNode{x: x, y: y}
	s.open = append(s.open[:0], start)
	s.inOpen[y*s.w+x] = start

	var reached *searchNode
	for len(s.open) > 0 {
		cur := s.open[0]
		s.open = s.open[1:]
		idx := cur.y*s.w + cur.x
		delete(s.inOpen, idx)

		if f.Resolved(cur.x, cur.y) || (cur.x == tx && cur.y == ty) {
			reached = cur
			break
		}
		s.closed[idx] = true

		s.buf = edges(s.caps, s.costs, cur.x, cur.y, s.buf)
		for _, e := range s.buf {
			eidx := e.y*s.w + e.x
			if s.closed[eidx] {
				continue
			}
			cost := cur.cost + e.cost
			if other, ok := s.inOpen[eidx]; ok {
				if other.cost > cost {
					other.cost = cost
					other.prev = cur
				}
				continue
			}
			n := &searchNode{x: e.x, y: e.y, cost: cost, dist: abs(tx-e.x) + abs(ty-e.y), prev: cur}
			s.open = append(s.open, n)
			s.inOpen[eidx] = n
		}

		slices.SortStableFunc(s.open, func(a, b *searchNode) int {
			return cmp.Compare(a.priority(), b.priority())
		})
	}

	if reached == nil {
		return
	}
	for n := reached; n.prev != nil; n = n.prev {
		p := n.prev
		f.set(p.x, p.y, Cell{
			Move:     stepMove(s.caps, p.x, p.y, n.x, n.y),
			Distance: f.Distance(n.x, n.y) + (n.cost - p.cost),
		})
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
