package agents

import (
	"math"
	"testing"

	"warebots/game"
)

func evalState() *game.State {
	return &game.State{
		BoardSize: 5,
		Robots: [2]game.Robot{
			{Position: game.Point{X: 0, Y: 0}, Battery: 12},
			{Position: game.Point{X: 4, Y: 4}, Battery: 12},
		},
		Packages: []*game.Package{
			{Position: game.Point{X: 2, Y: 0}, Destination: game.Point{X: 2, Y: 3}, OnBoard: true},
		},
		Stations: [2]game.ChargeStation{
			{Position: game.Point{X: 0, Y: 1}},
			{Position: game.Point{X: 4, Y: 3}},
		},
		StepsLeft: 40,
	}
}

func TestDeliveryCost(t *testing.T) {
	robot := &game.Robot{Position: game.Point{X: 0, Y: 0}}
	pkg := &game.Package{
		Position:    game.Point{X: 2, Y: 0},
		Destination: game.Point{X: 2, Y: 3},
	}

	// Not carried: travel to the package, travel to the destination, plus
	// the pick up and drop off actions.
	if got := deliveryCost(robot, pkg, false); got != 7 {
		t.Fatalf("uncarried cost=%d want=7", got)
	}
	// Carried: travel to the destination plus the drop off.
	robot.Position = game.Point{X: 2, Y: 1}
	if got := deliveryCost(robot, pkg, true); got != 3 {
		t.Fatalf("carried cost=%d want=3", got)
	}
}

func TestEvaluate_FixedState(t *testing.T) {
	s := evalState()

	// Robot 0: package reachable in 7 steps for reward 6; nearest station
	// one cell away. Robot 1: same package in 11 steps, station one away.
	want := 10*(6.0/7-6.0/11) + (12 - 1) - (12 - 1) + 3*(-7.0) - (-11.0)

	got := Evaluate(s, 0)
	if math.Abs(got-want) > 1e-9 {
		t.Fatalf("Evaluate=%v want=%v\n%s", got, want, s)
	}
}

func TestEvaluate_Asymmetric(t *testing.T) {
	s := evalState()

	// The evaluation is not a zero-sum potential: own proximity and
	// carrying terms weigh 3x against the opponent's 1x.
	if v0, v1 := Evaluate(s, 0), Evaluate(s, 1); math.Abs(v0+v1) < 1e-9 {
		t.Fatalf("expected asymmetric evaluation, got %v and %v", v0, v1)
	}
}

func TestEvaluate_CreditDominates(t *testing.T) {
	s := evalState()
	richer := s.Clone()
	richer.Robots[0].Credit += 10

	if Evaluate(richer, 0) <= Evaluate(s, 0) {
		t.Fatalf("credit gain did not improve the score")
	}
}

func TestBestOpportunity_TieBreaksToLowerCost(t *testing.T) {
	s := &game.State{
		BoardSize: 5,
		Robots: [2]game.Robot{
			{Position: game.Point{X: 0, Y: 0}, Battery: 12},
			{Position: game.Point{X: 4, Y: 4}, Battery: 12},
		},
		Packages: []*game.Package{
			// Both worth 0.5 reward per step: 2 credits in 4 steps vs 4
			// credits in 8 steps.
			{Position: game.Point{X: 0, Y: 1}, Destination: game.Point{X: 0, Y: 2}, OnBoard: true},
			{Position: game.Point{X: 0, Y: 4}, Destination: game.Point{X: 0, Y: 2}, OnBoard: true},
		},
		Stations: [2]game.ChargeStation{
			{Position: game.Point{X: 4, Y: 0}},
			{Position: game.Point{X: 4, Y: 3}},
		},
		StepsLeft: 16,
	}

	value, cost := bestOpportunity(s, &s.Robots[0], &s.Robots[1])
	if value != 0.5 {
		t.Fatalf("value=%v want=0.5", value)
	}
	if cost != 4 {
		t.Fatalf("cost=%v want=4 (lower-cost tie break)", cost)
	}
}

func TestBestOpportunity_RespectsBatteryAndBudget(t *testing.T) {
	s := evalState()

	// 7 steps needed; 6 battery is not enough.
	s.Robots[0].Battery = 6
	if value, cost := bestOpportunity(s, &s.Robots[0], &s.Robots[1]); value != 0 || !math.IsInf(cost, 1) {
		t.Fatalf("battery-starved: value=%v cost=%v want 0,+Inf", value, cost)
	}

	// Enough battery but the game ends too soon: 13 steps left leaves a
	// 7-move share, 12 leaves only 6.
	s.Robots[0].Battery = 12
	s.StepsLeft = 13
	if value, _ := bestOpportunity(s, &s.Robots[0], &s.Robots[1]); value == 0 {
		t.Fatalf("7-move share should still complete the delivery")
	}
	s.StepsLeft = 12
	if value, cost := bestOpportunity(s, &s.Robots[0], &s.Robots[1]); value != 0 || !math.IsInf(cost, 1) {
		t.Fatalf("budget-starved: value=%v cost=%v want 0,+Inf", value, cost)
	}
}

func TestBestOpportunity_IncludesCarriedPackage(t *testing.T) {
	s := evalState()
	s.Packages = nil
	s.Robots[0].Carrying = &game.Package{
		Position:    game.Point{X: 0, Y: 0},
		Destination: game.Point{X: 0, Y: 3},
	}

	value, cost := bestOpportunity(s, &s.Robots[0], &s.Robots[1])
	if cost != 4 {
		t.Fatalf("cost=%v want=4 (3 moves plus drop off)", cost)
	}
	if want := 6.0 / 4.0; value != want {
		t.Fatalf("value=%v want=%v", value, want)
	}
}
