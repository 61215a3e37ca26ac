package game

import (
	"fmt"
	"math/rand"
)

const (
	startingBattery = 20
	seedRange       = 256
	poolSize        = 4
)

// randomCells draws count distinct cells from the whole board.
//
// Each call reseeds a fresh generator from the state's current seed and
// then advances the seed, making the spawn chain deterministic: given the
// initial seed, every subsequent draw is fixed.
// Occupied cells are not excluded; packages may land under a robot or on
// a charge station.
func (s *State) randomCells(count int) []Point {
	rng := rand.New(rand.NewSource(s.seed))
	cells := make([]Point, 0, count)
	for _, idx := range rng.Perm(s.BoardSize * s.BoardSize)[:count] {
		cells = append(cells, Point{X: idx / s.BoardSize, Y: idx % s.BoardSize})
	}
	s.seed = rng.Int63n(seedRange)
	return cells
}

// SpawnPackage appends a fresh package (not yet on board) at two random
// cells drawn from the state's random chain. Called by the rules layer
// when a delivery frees a slot.
func (s *State) SpawnPackage() {
	cells := s.randomCells(2)
	s.Packages = append(s.Packages, &Package{Position: cells[0], Destination: cells[1]})
}

// Generate builds a fresh random game on the default board.
//
// Layout order matters for seed-chain determinism: robots first, then the
// package pool (position and destination drawn separately per package),
// then the charge stations.
func Generate(seed int64, numSteps int) *State {
	s := &State{
		BoardSize: DefaultBoardSize,
		StepsLeft: numSteps,
		seed:      seed,
	}

	for i, p := range s.randomCells(2) {
		s.Robots[i] = Robot{Position: p, Battery: startingBattery}
	}

	for i := 0; i < poolSize; i++ {
		pos := s.randomCells(1)[0]
		dest := s.randomCells(1)[0]
		s.Packages = append(s.Packages, &Package{Position: pos, Destination: dest, OnBoard: i < 2})
	}

	for i, p := range s.randomCells(2) {
		s.Stations[i] = ChargeStation{Position: p}
	}

	return s
}

// MapRobot describes one robot in an explicit map file.
// Battery defaults to the standard starting charge when omitted.
type MapRobot struct {
	Position [2]int `json:"position"`
	Battery  *int   `json:"battery,omitempty"`
	Credit   int    `json:"credit,omitempty"`
}

// MapPackage describes one visible package in an explicit map file.
type MapPackage struct {
	Position    [2]int `json:"position"`
	Destination [2]int `json:"destination"`
}

// MapStation describes one charge station in an explicit map file.
type MapStation struct {
	Position [2]int `json:"position"`
}

// MapData is the explicit board description accepted instead of a seed.
type MapData struct {
	BoardSize int          `json:"board_size,omitempty"`
	Robots    []MapRobot   `json:"robots"`
	Packages  []MapPackage `json:"packages"`
	Stations  []MapStation `json:"charge_stations"`
}

// FromMap builds a game from an explicit map description. All listed
// packages start on board. The spawn seed for later deliveries is drawn
// fresh, so custom-map games are not replay-deterministic past the first
// spawn unless the log records every move.
func FromMap(data MapData, numSteps int) (*State, error) {
	size := data.BoardSize
	if size == 0 {
		size = DefaultBoardSize
	}
	if size < 2 {
		return nil, fmt.Errorf("board size %d too small", size)
	}
	if len(data.Robots) != 2 {
		return nil, fmt.Errorf("map must define exactly 2 robots, got %d", len(data.Robots))
	}
	if len(data.Stations) != 2 {
		return nil, fmt.Errorf("map must define exactly 2 charge stations, got %d", len(data.Stations))
	}

	s := &State{
		BoardSize: size,
		StepsLeft: numSteps,
		seed:      rand.Int63n(seedRange),
	}

	for i, r := range data.Robots {
		battery := startingBattery
		if r.Battery != nil {
			battery = *r.Battery
		}
		pos := Point{X: r.Position[0], Y: r.Position[1]}
		if !s.InBounds(pos) {
			return nil, fmt.Errorf("robot %d position %v out of bounds", i, pos)
		}
		s.Robots[i] = Robot{Position: pos, Battery: battery, Credit: r.Credit}
	}

	for i, p := range data.Packages {
		pos := Point{X: p.Position[0], Y: p.Position[1]}
		dest := Point{X: p.Destination[0], Y: p.Destination[1]}
		if !s.InBounds(pos) || !s.InBounds(dest) {
			return nil, fmt.Errorf("package %d out of bounds", i)
		}
		s.Packages = append(s.Packages, &Package{Position: pos, Destination: dest, OnBoard: true})
	}

	for i, cs := range data.Stations {
		pos := Point{X: cs.Position[0], Y: cs.Position[1]}
		if !s.InBounds(pos) {
			return nil, fmt.Errorf("charge station %d position %v out of bounds", i, pos)
		}
		s.Stations[i] = ChargeStation{Position: pos}
	}

	return s, nil
}
