// Package level provides the tile grid model, the compact level code used to
// share boards, and the YAML level file loader.
package level

import (
	"fmt"
	"strings"
)

// Kind is the terrain symbol held by a single tile.
type Kind uint8

// Terrain kinds. Human and Robot mark agent spawn tiles and behave as Empty
// for traversal.
const (
	Empty Kind = iota
	Brick
	Ladder
	Rope
	Gift
	Human
	Robot
)

// Symbols maps each Kind to its level-file character.
var Symbols = [...]byte{
	Empty:  ' ',
	Brick:  '%',
	Ladder: 'H',
	Rope:   '-',
	Gift:   '@',
	Human:  'X',
	Robot:  '#',
}

// kindNames is indexed by Kind.
var kindNames = [...]string{"empty", "brick", "ladder", "rope", "gift", "human", "robot"}

// String returns the lowercase name of the kind.
func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// Symbol returns the level-file character for k.
//
// Precondition: k is one of the declared kinds.
func (k Kind) Symbol() byte {
	return Symbols[k]
}

// KindForSymbol resolves a level-file character to its Kind.
//
// Postcondition: Returns (kind, true) for a known symbol, or (Empty, false) otherwise.
func KindForSymbol(c byte) (Kind, bool) {
	for k, s := range Symbols {
		if s == c {
			return Kind(k), true
		}
	}
	return Empty, false
}

// Point is a tile coordinate. Y grows downward; row 0 is the top of the board.
type Point struct {
	X int
	Y int
}

// String returns "(x,y)".
func (p Point) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

// Grid is a fixed-shape, mutable-content 2D array of terrain kinds.
//
// Invariant: len(tiles) == width*height; width >= 1; height >= 1.
type Grid struct {
	width  int
	height int
	tiles  []Kind
}

// NewGrid returns an all-Empty grid of the given size.
//
// Precondition: width >= 1 and height >= 1.
func NewGrid(width, height int) *Grid {
	if width < 1 || height < 1 {
		panic(fmt.Sprintf("level.NewGrid: dimensions must be >= 1, got %dx%d", width, height))
	}
	return &Grid{
		width:  width,
		height: height,
		tiles:  make([]Kind, width*height),
	}
}

// ParseRows builds a grid from level-file rows. Rows shorter than the widest
// row are padded with Empty.
//
// Postcondition: Returns a grid with width = longest row and height = len(rows),
// or an error for an empty board or an unknown symbol.
func ParseRows(rows []string) (*Grid, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: no rows", ErrDimensions)
	}
	width := 0
	for _, r := range rows {
		if len(r) > width {
			width = len(r)
		}
	}
	if width == 0 {
		return nil, fmt.Errorf("%w: all rows are empty", ErrDimensions)
	}

	g := NewGrid(width, len(rows))
	for y, r := range rows {
		for x := 0; x < len(r); x++ {
			k, ok := KindForSymbol(r[x])
			if !ok {
				return nil, fmt.Errorf("row %d column %d: unknown symbol %q", y, x, r[x])
			}
			g.tiles[y*width+x] = k
		}
	}
	return g, nil
}

// Width returns the number of columns.
func (g *Grid) Width() int { return g.width }

// Height returns the number of rows.
func (g *Grid) Height() int { return g.height }

// InBounds reports whether (x, y) addresses a tile of g.
func (g *Grid) InBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < g.width && y < g.height
}

// At returns the kind at (x, y).
//
// Precondition: InBounds(x, y). Out-of-range access panics.
func (g *Grid) At(x, y int) Kind {
	g.mustBeInBounds(x, y)
	return g.tiles[y*g.width+x]
}

// Set stores k at (x, y).
//
// Precondition: InBounds(x, y). Out-of-range access panics.
func (g *Grid) Set(x, y int, k Kind) {
	g.mustBeInBounds(x, y)
	g.tiles[y*g.width+x] = k
}

func (g *Grid) mustBeInBounds(x, y int) {
	if !g.InBounds(x, y) {
		panic(fmt.Sprintf("level.Grid: (%d,%d) outside %dx%d grid", x, y, g.width, g.height))
	}
}

// Clone returns a deep copy of g.
func (g *Grid) Clone() *Grid {
	c := &Grid{width: g.width, height: g.height, tiles: make([]Kind, len(g.tiles))}
	copy(c.tiles, g.tiles)
	return c
}

// Equal reports whether g and o have the same shape and content.
func (g *Grid) Equal(o *Grid) bool {
	if g.width != o.width || g.height != o.height {
		return false
	}
	for i := range g.tiles {
		if g.tiles[i] != o.tiles[i] {
			return false
		}
	}
	return true
}

// Find returns the positions holding kind k in row-major scan order.
func (g *Grid) Find(k Kind) []Point {
	var out []Point
	for i, t := range g.tiles {
		if t == k {
			out = append(out, Point{X: i % g.width, Y: i / g.width})
		}
	}
	return out
}

// Rows renders g as level-file rows.
//
// Postcondition: ParseRows(g.Rows()) reproduces g.
func (g *Grid) Rows() []string {
	rows := make([]string, g.height)
	var sb strings.Builder
	for y := 0; y < g.height; y++ {
		sb.Reset()
		for x := 0; x < g.width; x++ {
			sb.WriteByte(g.tiles[y*g.width+x].Symbol())
		}
		rows[y] = sb.String()
	}
	return rows
}

// String renders g as newline-separated rows.
func (g *Grid) String() string {
	return strings.Join(g.Rows(), "\n")
}
