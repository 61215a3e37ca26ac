package agents

import (
	"math"
	"time"

	"warebots/game"
	"warebots/rules"
)

// Opponent-model weights for expectimax chance nodes. Moves west and
// pickups are modeled as three times more likely than anything else.
const (
	chanceWeightDefault = 1.0
	chanceWeightBiased  = 3.0
)

// Expectimax searches like minimax on its own plies but treats the
// opponent's plies as chance nodes: a weighted average over the
// opponent's moves instead of their worst case.
type Expectimax struct{}

func (Expectimax) RunStep(s *game.State, robotID int, limit time.Duration) string {
	return deepen(s, robotID, limit, func(sr *search, depth int) (string, bool) {
		_, op, complete := sr.expectimax(s, robotID, depth, true)
		return op, complete
	})
}

func chanceWeight(op string) float64 {
	if op == rules.OpMoveWest || op == rules.OpPickUp {
		return chanceWeightBiased
	}
	return chanceWeightDefault
}

func (sr *search) expectimax(s *game.State, playerID, depth int, maximizing bool) (value float64, op string, complete bool) {
	if sr.expired() {
		return 0, "", false
	}
	if depth == 0 || s.Done() {
		return Evaluate(s, sr.rootID), "", true
	}

	children := successors(s, playerID)

	if maximizing {
		best := math.Inf(-1)
		var bestOp string
		for _, child := range children {
			v, _, ok := sr.expectimax(child.state, game.Opponent(playerID), depth-1, false)
			if !ok {
				return 0, "", false
			}
			if v > best {
				best = v
				bestOp = child.op
			}
		}
		return best, bestOp, true
	}

	// Chance node: probability-weighted average of the opponent's options.
	totalScore := 0.0
	totalWeight := 0.0
	for _, child := range children {
		v, _, ok := sr.expectimax(child.state, game.Opponent(playerID), depth-1, true)
		if !ok {
			return 0, "", false
		}
		w := chanceWeight(child.op)
		totalScore += v * w
		totalWeight += w
	}
	if totalWeight == 0 {
		return 0, "", true
	}
	return totalScore / totalWeight, "", true
}
