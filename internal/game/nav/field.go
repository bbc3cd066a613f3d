package nav

import (
	"math"
	"strings"
)

// Cell is one entry of a hint field.
type Cell struct {
	// Move is the first step toward the field's target.
	Move Move
	// Distance is the accumulated cost to the target along the recorded path;
	// +Inf while unresolved.
	Distance float64
}

// Field is the hint field of one target: a W×H array of cells, row-major.
//
// Invariant: the target's own cell is {AtTarget, 0}.
type Field struct {
	width   int
	height  int
	targetX int
	targetY int
	cells   []Cell
}

// NewField allocates a reset field for the target at (tx, ty).
//
// Precondition: 0 <= tx < width and 0 <= ty < height.
func NewField(width, height, tx, ty int) *Field {
	f := &Field{
		width:   width,
		height:  height,
		targetX: tx,
		targetY: ty,
		cells:   make([]Cell, width*height),
	}
	f.Reset()
	return f
}

// Reset marks every cell unresolved except the target's own cell.
func (f *Field) Reset() {
	for i := range f.cells {
		f.cells[i] = Cell{Move: Unreached, Distance: math.Inf(1)}
	}
	f.cells[f.index(f.targetX, f.targetY)] = Cell{Move: AtTarget, Distance: 0}
}

// Width returns the field width.
func (f *Field) Width() int { return f.width }

// Height returns the field height.
func (f *Field) Height() int { return f.height }

// Target returns the coordinates of the field's target.
func (f *Field) Target() (x, y int) { return f.targetX, f.targetY }

func (f *Field) index(x, y int) int {
	return y*f.width + x
}

// At returns the cell at (x, y).
//
// Precondition: (x, y) is inside the field.
func (f *Field) At(x, y int) Cell {
	return f.cells[f.index(x, y)]
}

// Move returns the recorded move at (x, y).
func (f *Field) Move(x, y int) Move {
	return f.cells[f.index(x, y)].Move
}

// Distance returns the recorded cost to the target from (x, y).
func (f *Field) Distance(x, y int) float64 {
	return f.cells[f.index(x, y)].Distance
}

// Resolved reports whether (x, y) has a route to the target.
func (f *Field) Resolved(x, y int) bool {
	return f.cells[f.index(x, y)].Move != Unreached
}

func (f *Field) set(x, y int, c Cell) {
	f.cells[f.index(x, y)] = c
}

// ReachableCount returns the number of cells with a route to the target,
// the target's own cell included.
func (f *Field) ReachableCount() int {
	n := 0
	for _, c := range f.cells {
		if c.Move != Unreached {
			n++
		}
	}
	return n
}

// String renders the field as rows of move symbols.
func (f *Field) String() string {
	var sb strings.Builder
	for y := 0; y < f.height; y++ {
		if y > 0 {
			sb.WriteByte('\n')
		}
		for x := 0; x < f.width; x++ {
			sb.WriteString(f.Move(x, y).String())
		}
	}
	return sb.String()
}

// Equal reports whether f and o hold identical cells.
func (f *Field) Equal(o *Field) bool {
	if f.width != o.width || f.height != o.height || f.targetX != o.targetX || f.targetY != o.targetY {
		return false
	}
	for i := range f.cells {
		if f.cells[i] != o.cells[i] {
			return false
		}
	}
	return true
}

// FieldSet holds one field per target, indexed by target index.
type FieldSet []*Field
