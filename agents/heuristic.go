package agents

import (
	"math"

	"warebots/game"
)

// Evaluate scores a state from robotID's perspective.
//
// The score combines the best delivery opportunity each robot can still
// complete (reward per step, within battery and the remaining move
// budget), the credit differential, battery margin relative to the
// nearest charge station, proximity to the most attractive package, and a
// closing-in bonus while carrying.
//
// The weighting is deliberately asymmetric: the robot's own proximity and
// carrying terms weigh 3x, the opponent's mirror terms only 1x. The
// function is a competitive evaluation, not a zero-sum potential.
func Evaluate(s *game.State, robotID int) float64 {
	robot := s.Robot(robotID)
	opp := s.Robot(game.Opponent(robotID))

	valueMe, costMe := bestOpportunity(s, robot, opp)
	valueOpp, costOpp := bestOpportunity(s, opp, robot)

	creditDiff := float64(robot.Credit - opp.Credit)

	batteryMe := float64(robot.Battery - minStationDistance(s, robot.Position))
	batteryOpp := float64(opp.Battery - minStationDistance(s, opp.Position))

	proximityMe := 0.0
	if !math.IsInf(costMe, 1) {
		proximityMe = -costMe
	}
	proximityOpp := 0.0
	if !math.IsInf(costOpp, 1) {
		proximityOpp = -costOpp
	}

	carryingMe := 0.0
	if robot.Carrying != nil {
		carryingMe = -float64(game.Manhattan(robot.Position, robot.Carrying.Destination))
	}
	carryingOpp := 0.0
	if opp.Carrying != nil {
		carryingOpp = -float64(game.Manhattan(opp.Position, opp.Carrying.Destination))
	}

	return 10*valueMe - 10*valueOpp +
		10*creditDiff +
		batteryMe - batteryOpp +
		3*proximityMe - 1*proximityOpp +
		3*carryingMe - 1*carryingOpp
}

// deliveryCost is the number of steps for robot to finish delivering pkg:
// travel plus the pick up and drop off actions themselves (drop off only
// when already carried).
func deliveryCost(robot *game.Robot, pkg *game.Package, carried bool) int {
	if carried {
		return game.Manhattan(robot.Position, pkg.Destination) + 1
	}
	return game.Manhattan(robot.Position, pkg.Position) +
		game.Manhattan(pkg.Position, pkg.Destination) + 2
}

// bestOpportunity finds the most valuable package robot can still deliver,
// scored as reward divided by cost. It returns the best value and the cost
// of reaching it; cost is +Inf when no package is completable. Ties on
// value break toward the lower cost.
//
// Candidates are the on-board pool packages plus the robot's own carried
// package. A package the opponent carries is out of the pool already and
// never considered. The move budget is the robot's share of the remaining
// steps, rounded up.
func bestOpportunity(s *game.State, robot, opp *game.Robot) (value float64, cost float64) {
	remaining := (s.StepsLeft + 1) / 2

	value = 0
	cost = math.Inf(1)

	consider := func(pkg *game.Package, steps int) {
		v := float64(pkg.Reward()) / float64(steps)
		switch {
		case v > value:
			value = v
			cost = float64(steps)
		case v == value:
			cost = math.Min(cost, float64(steps))
		}
	}

	for _, pkg := range s.Packages {
		if !pkg.OnBoard || opp.Carrying == pkg {
			continue
		}
		steps := deliveryCost(robot, pkg, false)
		if remaining >= steps && robot.Battery >= steps {
			consider(pkg, steps)
		}
	}

	if pkg := robot.Carrying; pkg != nil {
		steps := deliveryCost(robot, pkg, true)
		if remaining >= steps && robot.Battery >= steps && steps > 0 {
			consider(pkg, steps)
		}
	}

	return value, cost
}

func minStationDistance(s *game.State, p game.Point) int {
	best := math.MaxInt
	for i := range s.Stations {
		if d := game.Manhattan(p, s.Stations[i].Position); d < best {
			best = d
		}
	}
	return best
}
