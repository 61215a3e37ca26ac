// Package game defines the core state types for the warehouse delivery game.
//
// The state is the complete world: two robots, the package pool, two charge
// stations, and the remaining step budget. It is designed to be cheap to
// deep-clone, because search agents explore hypothetical moves on clones and
// never touch the live state.
package game

// DefaultBoardSize is the side length of the standard square board.
const DefaultBoardSize = 5

// Point is a board coordinate. (0,0) is the top-left cell; Y grows south.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Manhattan returns |x1-x2| + |y1-y2|, the move cost between two cells.
func Manhattan(a, b Point) int {
	dx := a.X - b.X
	if dx < 0 {
		dx = -dx
	}
	dy := a.Y - b.Y
	if dy < 0 {
		dy = -dy
	}
	return dx + dy
}

// Robot is one of the two competing couriers.
// Carrying is nil unless the robot holds a package; a carried package is
// removed from the state's package pool for as long as it is held.
type Robot struct {
	Position Point
	Battery  int
	Credit   int
	Carrying *Package
}

// Package is a delivery job. Only the first two entries of the pool are
// visible on the board, and only while OnBoard is set.
type Package struct {
	Position    Point
	Destination Point
	OnBoard     bool
}

// Reward is the credit transferred when this package is delivered.
func (p *Package) Reward() int {
	return 2 * Manhattan(p.Position, p.Destination)
}

// ChargeStation is a fixed cell where a robot may convert credit to battery.
type ChargeStation struct {
	Position Point
}

// State is the aggregate game state. Whose turn it is lives with the
// caller, not here: any robot's operator may be probed or applied at any
// time, which is what lets search agents explore plies for either side.
type State struct {
	BoardSize int
	Robots    [2]Robot
	Packages  []*Package
	Stations  [2]ChargeStation
	StepsLeft int

	// seed drives the reseed-then-advance random chain used for board
	// generation and package spawning. It is owned by this state (and
	// copied to clones) so replays and clones stay deterministic.
	seed int64
}

// Clone performs a deep copy. Mutating the clone, including the package a
// robot carries, never affects the original.
func (s *State) Clone() *State {
	if s == nil {
		return nil
	}

	out := &State{
		BoardSize: s.BoardSize,
		Robots:    s.Robots,
		Stations:  s.Stations,
		StepsLeft: s.StepsLeft,
		seed:      s.seed,
	}

	for i := range out.Robots {
		if c := out.Robots[i].Carrying; c != nil {
			cp := *c
			out.Robots[i].Carrying = &cp
		}
	}

	if len(s.Packages) > 0 {
		out.Packages = make([]*Package, len(s.Packages))
		for i, p := range s.Packages {
			cp := *p
			out.Packages[i] = &cp
		}
	}

	return out
}

// Done reports whether the game is over: the step budget is exhausted or
// every robot is out of battery.
func (s *State) Done() bool {
	if s.StepsLeft <= 0 {
		return true
	}
	for i := range s.Robots {
		if s.Robots[i].Battery > 0 {
			return false
		}
	}
	return true
}

// Balances returns the current credit pair.
func (s *State) Balances() [2]int {
	return [2]int{s.Robots[0].Credit, s.Robots[1].Credit}
}

// Robot returns the robot with the given index (0 or 1).
func (s *State) Robot(robotID int) *Robot {
	return &s.Robots[robotID]
}

// Opponent returns the other robot's index.
func Opponent(robotID int) int {
	return (robotID + 1) % 2
}

// RobotAt returns the robot occupying the cell, or nil.
func (s *State) RobotAt(p Point) *Robot {
	for i := range s.Robots {
		if s.Robots[i].Position == p {
			return &s.Robots[i]
		}
	}
	return nil
}

// StationAt returns the charge station at the cell, or nil.
func (s *State) StationAt(p Point) *ChargeStation {
	for i := range s.Stations {
		if s.Stations[i].Position == p {
			return &s.Stations[i]
		}
	}
	return nil
}

// PackageAt returns the pickable package sitting on the cell, or nil.
// Only the two tracked slots at the head of the pool are ever visible.
func (s *State) PackageAt(p Point) *Package {
	for i, pkg := range s.Packages {
		if i >= 2 {
			break
		}
		if pkg.Position == p {
			return pkg
		}
	}
	return nil
}

// InBounds reports whether the cell lies on the board.
func (s *State) InBounds(p Point) bool {
	return p.X >= 0 && p.X < s.BoardSize && p.Y >= 0 && p.Y < s.BoardSize
}
