package game

import (
	"reflect"
	"testing"
)

func TestManhattan(t *testing.T) {
	cases := []struct {
		a, b Point
		want int
	}{
		{Point{0, 0}, Point{0, 0}, 0},
		{Point{0, 0}, Point{4, 4}, 8},
		{Point{3, 1}, Point{1, 2}, 3},
		{Point{4, 0}, Point{0, 3}, 7},
	}
	for _, c := range cases {
		if got := Manhattan(c.a, c.b); got != c.want {
			t.Fatalf("Manhattan(%v,%v)=%d want=%d", c.a, c.b, got, c.want)
		}
		if got := Manhattan(c.b, c.a); got != c.want {
			t.Fatalf("Manhattan(%v,%v)=%d want=%d", c.b, c.a, got, c.want)
		}
	}
}

func TestGenerate_Layout(t *testing.T) {
	s := Generate(42, 100)
	t.Logf("generated board:\n%s", s)

	if s.BoardSize != DefaultBoardSize {
		t.Fatalf("board size=%d want=%d", s.BoardSize, DefaultBoardSize)
	}
	if s.StepsLeft != 100 {
		t.Fatalf("steps left=%d want=100", s.StepsLeft)
	}
	for i := range s.Robots {
		r := &s.Robots[i]
		if !s.InBounds(r.Position) {
			t.Fatalf("robot %d at %v out of bounds", i, r.Position)
		}
		if r.Battery != startingBattery {
			t.Fatalf("robot %d battery=%d want=%d", i, r.Battery, startingBattery)
		}
		if r.Credit != 0 || r.Carrying != nil {
			t.Fatalf("robot %d not pristine: credit=%d carrying=%v", i, r.Credit, r.Carrying)
		}
	}
	if s.Robots[0].Position == s.Robots[1].Position {
		t.Fatalf("robots share cell %v", s.Robots[0].Position)
	}

	if len(s.Packages) != poolSize {
		t.Fatalf("pool size=%d want=%d", len(s.Packages), poolSize)
	}
	for i, pkg := range s.Packages {
		if !s.InBounds(pkg.Position) || !s.InBounds(pkg.Destination) {
			t.Fatalf("package %d out of bounds: %+v", i, pkg)
		}
		if want := i < 2; pkg.OnBoard != want {
			t.Fatalf("package %d on_board=%v want=%v", i, pkg.OnBoard, want)
		}
	}

	for i := range s.Stations {
		if !s.InBounds(s.Stations[i].Position) {
			t.Fatalf("station %d at %v out of bounds", i, s.Stations[i].Position)
		}
	}
}

func TestGenerate_DeterministicPerSeed(t *testing.T) {
	a := Generate(7, 50)
	b := Generate(7, 50)
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("same seed produced different boards:\n%s\nvs\n%s", a, b)
	}

	c := Generate(8, 50)
	if reflect.DeepEqual(a, c) {
		t.Fatalf("different seeds produced identical boards:\n%s", a)
	}
}

func TestSpawnPackage_FollowsSeedChain(t *testing.T) {
	a := Generate(3, 50)
	b := Generate(3, 50)

	a.SpawnPackage()
	b.SpawnPackage()

	pa, pb := a.Packages[len(a.Packages)-1], b.Packages[len(b.Packages)-1]
	if *pa != *pb {
		t.Fatalf("spawn diverged: %+v vs %+v", pa, pb)
	}
	if pa.OnBoard {
		t.Fatalf("fresh spawn should not be on board: %+v", pa)
	}
}

func TestClone_Independence(t *testing.T) {
	orig := Generate(11, 60)
	orig.Robots[0].Carrying = &Package{
		Position:    Point{1, 1},
		Destination: Point{3, 3},
	}
	snapshot := orig.String()

	clone := orig.Clone()
	clone.Robots[0].Position = Point{4, 4}
	clone.Robots[0].Carrying.Destination = Point{0, 0}
	clone.Robots[1].Credit = 99
	clone.Packages[0].OnBoard = false
	clone.Packages[1].Position = Point{2, 2}
	clone.StepsLeft = 1

	if got := orig.String(); got != snapshot {
		t.Fatalf("mutating clone changed original:\nbefore:\n%s\nafter:\n%s", snapshot, got)
	}
	if orig.Robots[0].Carrying.Destination != (Point{3, 3}) {
		t.Fatalf("carried package shared between clone and original")
	}
}

func TestClone_SeedChainIndependent(t *testing.T) {
	orig := Generate(5, 60)
	clone := orig.Clone()

	// Advancing one chain must not disturb the other.
	orig.SpawnPackage()
	clone.SpawnPackage()
	clone.SpawnPackage()

	po := orig.Packages[len(orig.Packages)-1]
	pc := clone.Packages[len(orig.Packages)-1]
	if *po != *pc {
		t.Fatalf("first spawn after clone diverged: %+v vs %+v", po, pc)
	}
}

func TestFromMap(t *testing.T) {
	battery := 5
	data := MapData{
		Robots: []MapRobot{
			{Position: [2]int{0, 0}, Battery: &battery, Credit: 3},
			{Position: [2]int{4, 4}},
		},
		Packages: []MapPackage{
			{Position: [2]int{1, 1}, Destination: [2]int{3, 3}},
		},
		Stations: []MapStation{
			{Position: [2]int{0, 4}},
			{Position: [2]int{4, 0}},
		},
	}

	s, err := FromMap(data, 40)
	if err != nil {
		t.Fatalf("FromMap: %v", err)
	}
	if s.Robots[0].Battery != 5 || s.Robots[0].Credit != 3 {
		t.Fatalf("robot 0 = %+v, want battery=5 credit=3", s.Robots[0])
	}
	if s.Robots[1].Battery != startingBattery {
		t.Fatalf("robot 1 battery=%d want default %d", s.Robots[1].Battery, startingBattery)
	}
	if len(s.Packages) != 1 || !s.Packages[0].OnBoard {
		t.Fatalf("map packages should all start on board: %+v", s.Packages)
	}
}

func TestFromMap_Validation(t *testing.T) {
	base := MapData{
		Robots: []MapRobot{
			{Position: [2]int{0, 0}},
			{Position: [2]int{4, 4}},
		},
		Stations: []MapStation{
			{Position: [2]int{0, 4}},
			{Position: [2]int{4, 0}},
		},
	}

	oneRobot := base
	oneRobot.Robots = base.Robots[:1]
	if _, err := FromMap(oneRobot, 10); err == nil {
		t.Fatalf("expected error for single robot")
	}

	outOfBounds := base
	outOfBounds.Robots = []MapRobot{
		{Position: [2]int{0, 0}},
		{Position: [2]int{5, 5}},
	}
	if _, err := FromMap(outOfBounds, 10); err == nil {
		t.Fatalf("expected error for out-of-bounds robot")
	}
}

func TestCellLabel_Precedence(t *testing.T) {
	s := &State{
		BoardSize: 5,
		Robots: [2]Robot{
			{Position: Point{2, 2}, Battery: 10},
			{Position: Point{0, 0}, Battery: 10},
		},
		Packages: []*Package{
			{Position: Point{2, 2}, Destination: Point{4, 4}, OnBoard: true},
			{Position: Point{1, 0}, Destination: Point{1, 4}, OnBoard: true},
		},
		Stations: [2]ChargeStation{
			{Position: Point{2, 2}},
			{Position: Point{3, 3}},
		},
	}

	// Robot wins over the package and station sharing its cell.
	if got := s.CellLabel(Point{2, 2}); got != "R0" {
		t.Fatalf("label=%q want=R0", got)
	}
	if got := s.CellLabel(Point{1, 0}); got != "P1" {
		t.Fatalf("label=%q want=P1", got)
	}
	if got := s.CellLabel(Point{3, 3}); got != "C1" {
		t.Fatalf("label=%q want=C1", got)
	}
	if got := s.CellLabel(Point{1, 4}); got != "D1" {
		t.Fatalf("label=%q want=D1", got)
	}
	if got := s.CellLabel(Point{4, 0}); got != "" {
		t.Fatalf("label=%q want empty", got)
	}
}
