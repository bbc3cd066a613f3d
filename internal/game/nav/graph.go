package nav

import "fmt"

// Default movement costs. BrickCost is two tile spans of 24px: dropping
// through a brick is possible but strongly discouraged.
const (
	DefaultStepCost  = 1.0
	DefaultFallCost  = 0.9
	DefaultBrickCost = 24 + 24
)

// Costs holds the edge weights of the movement graph.
type Costs struct {
	// Step is the cost of running, hanging sideways or climbing one tile.
	Step float64
	// Fall is the cost of dropping one tile while unsupported.
	Fall float64
	// Brick is the cost of breaking through the brick below a standing agent.
	Brick float64
}

// DefaultCosts returns the standard edge weights.
func DefaultCosts() Costs {
	return Costs{Step: DefaultStepCost, Fall: DefaultFallCost, Brick: DefaultBrickCost}
}

// Validate checks 0 < Fall < Step < Brick.
func (c Costs) Validate() error {
	if c.Step <= 0 {
		return fmt.Errorf("step cost must be > 0, got %v", c.Step)
	}
	if c.Fall <= 0 || c.Fall >= c.Step {
		return fmt.Errorf("fall cost must be in (0, %v), got %v", c.Step, c.Fall)
	}
	if c.Brick <= c.Step {
		return fmt.Errorf("brick cost must be > %v, got %v", c.Step, c.Brick)
	}
	return nil
}

// edge is one movement from a cell to an adjacent cell.
type edge struct {
	x, y int
	cost float64
}

// edges lists the moves available from (x, y), in the order the reference
// search expands them: right, left, one of down/brick-drop/fall, up.
func edges(caps Capabilities, costs Costs, x, y int, buf []edge) []edge {
	buf = buf[:0]
	stand := caps.CanStand(x, y)

	if stand || caps.CanHang(x, y) {
		if caps.CanMoveRight(x, y) {
			buf = append(buf, edge{x + 1, y, costs.Step})
		}
		if caps.CanMoveLeft(x, y) {
			buf = append(buf, edge{x - 1, y, costs.Step})
		}
	}

	switch {
	case caps.CanClimbDown(x, y):
		buf = append(buf, edge{x, y + 1, costs.Step})
	case y+1 < caps.Height() && stand:
		buf = append(buf, edge{x, y + 1, costs.Brick})
	case !stand:
		buf = append(buf, edge{x, y + 1, costs.Fall})
	}

	// A ladder on the top row leads nowhere.
	if y > 0 && caps.CanClimbUp(x, y) {
		buf = append(buf, edge{x, y - 1, costs.Step})
	}
	return buf
}

// stepMove names the step from (fx, fy) to the adjacent (tx, ty). A downward
// step is Down only when the mover can grip on the way (rope or ladder);
// otherwise it is a Fall.
func stepMove(caps Capabilities, fx, fy, tx, ty int) Move {
	switch {
	case tx < fx:
		return Left
	case tx > fx:
		return Right
	case ty < fy:
		return Up
	case ty > fy && (caps.CanHang(fx, fy) || caps.CanClimbDown(fx, fy)):
		return Down
	default:
		return Fall
	}
}
