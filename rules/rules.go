// Package rules implements legal-move generation and the state transition
// operator for the warehouse game.
//
// Legality is always parameterized by robot index: the state carries no
// turn marker, so callers (and search agents exploring either side) decide
// whose operator to probe or apply.
package rules

import (
	"fmt"

	"warebots/game"
)

// The eight operator strings. These are the wire vocabulary: logs, agent
// results, and replay files all use them verbatim.
const (
	OpMoveNorth = "move north"
	OpMoveSouth = "move south"
	OpMoveEast  = "move east"
	OpMoveWest  = "move west"
	OpPickUp    = "pick up"
	OpDropOff   = "drop off"
	OpCharge    = "charge"
	OpPark      = "park"
)

// moveOffsets holds the probe order for movement operators. The order is
// load-bearing: LegalOperators appends candidates in this order, and the
// search fallback ("first legal operator") depends on it.
var moveOffsets = []struct {
	op string
	dx int
	dy int
}{
	{OpMoveNorth, 0, -1},
	{OpMoveSouth, 0, 1},
	{OpMoveWest, -1, 0},
	{OpMoveEast, 1, 0},
}

// Offset returns the unit displacement for a movement operator.
func Offset(op string) (dx, dy int, ok bool) {
	for _, m := range moveOffsets {
		if m.op == op {
			return m.dx, m.dy, true
		}
	}
	return 0, 0, false
}

// Priority orders operators for alpha-beta expansion: deliveries and
// pickups first so the window tightens early. Unknown operators sort last.
func Priority(op string) int {
	switch op {
	case OpDropOff:
		return 0
	case OpPickUp:
		return 1
	case OpCharge:
		return 2
	case OpMoveSouth:
		return 3
	case OpMoveEast:
		return 4
	case OpMoveWest:
		return 5
	case OpMoveNorth:
		return 6
	case OpPark:
		return 7
	default:
		return 8
	}
}

// LegalOperators returns the operators robotID may apply in the current
// state.
//
// A robot with battery can move to any in-bounds cell not occupied by the
// other robot. A stranded robot (battery 0) can only park. Charging
// requires standing on a station with positive credit; drop off requires
// carrying a package and standing on its destination; pick up requires an
// empty claw and an on-board package under the robot.
func LegalOperators(s *game.State, robotID int) []string {
	robot := s.Robot(robotID)
	ops := make([]string, 0, 8)

	if robot.Battery > 0 {
		for _, m := range moveOffsets {
			next := game.Point{X: robot.Position.X + m.dx, Y: robot.Position.Y + m.dy}
			if s.InBounds(next) && s.RobotAt(next) == nil {
				ops = append(ops, m.op)
			}
		}
	} else {
		ops = append(ops, OpPark)
	}

	if s.StationAt(robot.Position) != nil && robot.Credit > 0 {
		ops = append(ops, OpCharge)
	}
	if robot.Carrying != nil && robot.Carrying.Destination == robot.Position {
		ops = append(ops, OpDropOff)
	}
	if pkg := s.PackageAt(robot.Position); robot.Carrying == nil && pkg != nil && pkg.OnBoard {
		ops = append(ops, OpPickUp)
	}

	return ops
}

// Legal reports whether op is currently legal for robotID.
func Legal(s *game.State, robotID int, op string) bool {
	for _, legal := range LegalOperators(s, robotID) {
		if legal == op {
			return true
		}
	}
	return false
}

// ApplyOperator mutates the state per op's semantics and decrements the
// step budget.
//
// Applying an operator that is not currently legal, or applying past the
// step budget, is a caller bug, not a runtime condition: it panics rather
// than silently no-opping. Agents only ever apply operators drawn from
// LegalOperators on clones, and the simulator validates agent results
// before touching the live state.
func ApplyOperator(s *game.State, robotID int, op string) {
	if !Legal(s, robotID, op) {
		panic(fmt.Sprintf("rules: operator %q is not legal for robot %d\n%s", op, robotID, s))
	}
	s.StepsLeft--
	if s.StepsLeft < 0 {
		panic("rules: step budget exhausted")
	}

	robot := s.Robot(robotID)
	other := s.Robot(game.Opponent(robotID))

	switch op {
	case OpPark:
		// Step decrement only.

	case OpMoveNorth, OpMoveSouth, OpMoveEast, OpMoveWest:
		dx, dy, _ := Offset(op)
		robot.Position.X += dx
		robot.Position.Y += dy
		robot.Battery--

	case OpPickUp:
		pkg := s.PackageAt(robot.Position)
		robot.Carrying = pkg
		removePackage(s, pkg)

	case OpCharge:
		robot.Battery += robot.Credit
		robot.Credit = 0

	case OpDropOff:
		reward := robot.Carrying.Reward()
		robot.Credit += reward
		other.Credit -= reward
		s.SpawnPackage()
		// Backfill the freed visible slot: the first slot whose flag is
		// down gets the promotion. Preserved exactly for log-replay
		// determinism.
		if !s.Packages[0].OnBoard {
			s.Packages[0].OnBoard = true
		} else {
			s.Packages[1].OnBoard = true
		}
		robot.Carrying = nil

	default:
		panic(fmt.Sprintf("rules: unknown operator %q", op))
	}
}

func removePackage(s *game.State, pkg *game.Package) {
	for i, p := range s.Packages {
		if p == pkg {
			s.Packages = append(s.Packages[:i], s.Packages[i+1:]...)
			return
		}
	}
	panic("rules: package not in pool")
}
