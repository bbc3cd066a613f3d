// Package nav computes per-target hint fields: for every tile of the board,
// the single best next move toward a chosen target under the game's
// running, climbing, hanging, falling and brick-dropping rules.
package nav

// Move is the first step recorded in a hint field cell.
type Move uint8

// Moves. Unreached is the zero value so a freshly allocated field reads as
// "no route".
const (
	Unreached Move = iota
	Left
	Right
	Up
	Down
	Fall
	AtTarget
)

var moveSymbols = [...]string{
	Unreached: "?",
	Left:      "L",
	Right:     "R",
	Up:        "U",
	Down:      "D",
	Fall:      "F",
	AtTarget:  "@",
}

// String returns the one-character hint symbol.
func (m Move) String() string {
	if int(m) < len(moveSymbols) {
		return moveSymbols[m]
	}
	return "?"
}

// Delta returns the tile offset the move applies. AtTarget and Unreached do
// not move.
func (m Move) Delta() (dx, dy int) {
	switch m {
	case Left:
		return -1, 0
	case Right:
		return 1, 0
	case Up:
		return 0, -1
	case Down, Fall:
		return 0, 1
	default:
		return 0, 0
	}
}

// Resolved reports whether m carries routing information.
func (m Move) Resolved() bool {
	return m != Unreached
}
