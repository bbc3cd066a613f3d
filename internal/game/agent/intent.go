// Package agent holds the actors that move over a board: the avatar driven
// by external commands and the pursuers driven by hint fields.
package agent

import (
	"strings"

	"github.com/cory-johannsen/giftrun/internal/game/nav"
)

// Intent is the set of movement requests an agent makes for one tick. The
// locomotion layer decides what actually happens.
type Intent struct {
	Left       bool
	Right      bool
	Up         bool
	Down       bool
	BreakLeft  bool
	BreakRight bool
}

// IntentFor maps a hint to an intent. Fall, AtTarget and Unreached carry no
// horizontal or vertical request.
func IntentFor(m nav.Move) Intent {
	switch m {
	case nav.Left:
		return Intent{Left: true}
	case nav.Right:
		return Intent{Right: true}
	case nav.Up:
		return Intent{Up: true}
	case nav.Down:
		return Intent{Down: true}
	default:
		return Intent{}
	}
}

// IsZero reports whether no request is set.
func (i Intent) IsZero() bool {
	return i == Intent{}
}

// String lists the set requests, e.g. "left+break-right", or "idle".
func (i Intent) String() string {
	var parts []string
	for _, f := range []struct {
		on   bool
		name string
	}{
		{i.Left, "left"},
		{i.Right, "right"},
		{i.Up, "up"},
		{i.Down, "down"},
		{i.BreakLeft, "break-left"},
		{i.BreakRight, "break-right"},
	} {
		if f.on {
			parts = append(parts, f.name)
		}
	}
	if len(parts) == 0 {
		return "idle"
	}
	return strings.Join(parts, "+")
}
