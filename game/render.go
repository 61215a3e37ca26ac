package game

import (
	"fmt"
	"strings"
)

// CellLabel returns the 2-character label for a cell, or "" when empty.
// Precedence mirrors the board printout: robots, then visible packages,
// then charge stations, then package destinations (D for a pool package,
// X for a carried one).
func (s *State) CellLabel(p Point) string {
	if r := s.RobotAt(p); r != nil {
		for i := range s.Robots {
			if &s.Robots[i] == r {
				return fmt.Sprintf("R%d", i)
			}
		}
	}
	if pkg := s.PackageAt(p); pkg != nil && pkg.OnBoard {
		for i, candidate := range s.Packages[:min(2, len(s.Packages))] {
			if candidate == pkg {
				return fmt.Sprintf("P%d", i)
			}
		}
	}
	if s.StationAt(p) != nil {
		for i := range s.Stations {
			if s.Stations[i].Position == p {
				return fmt.Sprintf("C%d", i)
			}
		}
	}
	for i, pkg := range s.Packages[:min(2, len(s.Packages))] {
		if pkg.OnBoard && pkg.Destination == p {
			return fmt.Sprintf("D%d", i)
		}
	}
	for i := range s.Robots {
		if c := s.Robots[i].Carrying; c != nil && c.Destination == p {
			return fmt.Sprintf("X%d", i)
		}
	}
	return ""
}

// String renders the board plus a one-line-per-robot status block.
func (s *State) String() string {
	var b strings.Builder
	for y := 0; y < s.BoardSize; y++ {
		for x := 0; x < s.BoardSize; x++ {
			label := s.CellLabel(Point{X: x, Y: y})
			if label == "" {
				b.WriteString("[  ]")
			} else {
				fmt.Fprintf(&b, "[%s]", label)
			}
		}
		b.WriteByte('\n')
	}
	for i := range s.Robots {
		r := &s.Robots[i]
		fmt.Fprintf(&b, "robot %d: pos=(%d,%d) battery=%d credit=%d",
			i, r.Position.X, r.Position.Y, r.Battery, r.Credit)
		if r.Carrying != nil {
			fmt.Fprintf(&b, " carrying=(%d,%d)->(%d,%d)",
				r.Carrying.Position.X, r.Carrying.Position.Y,
				r.Carrying.Destination.X, r.Carrying.Destination.Y)
		}
		b.WriteByte('\n')
	}
	fmt.Fprintf(&b, "steps left: %d\n", s.StepsLeft)
	return b.String()
}
