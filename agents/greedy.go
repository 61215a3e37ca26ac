package agents

import (
	"math"
	"time"

	"warebots/game"
	"warebots/rules"
)

// Greedy is the one-ply baseline: apply each legal operator to a clone,
// score the result with a plain credit differential, take the max.
type Greedy struct{}

func (Greedy) RunStep(s *game.State, robotID int, _ time.Duration) string {
	return bestOneStep(s, robotID, func(child *game.State) float64 {
		return float64(child.Robot(robotID).Credit - child.Robot(game.Opponent(robotID)).Credit)
	})
}

// GreedyImproved is the same one-ply lookahead driven by the composite
// evaluator instead of the raw credit difference.
type GreedyImproved struct{}

func (GreedyImproved) RunStep(s *game.State, robotID int, _ time.Duration) string {
	return bestOneStep(s, robotID, func(child *game.State) float64 {
		return Evaluate(child, robotID)
	})
}

func bestOneStep(s *game.State, robotID int, score func(child *game.State) float64) string {
	children := successors(s, robotID)
	if len(children) == 0 {
		return rules.OpPark
	}

	best := math.Inf(-1)
	op := children[0].op
	for _, child := range children {
		if v := score(child.state); v > best {
			best = v
			op = child.op
		}
	}
	return op
}
