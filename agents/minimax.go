package agents

import (
	"math"
	"time"

	"warebots/game"
)

// Minimax is classic depth-bounded minimax under iterative deepening.
// The searching robot maximizes, the opponent minimizes, one ply each,
// with the depth counter decremented every ply.
type Minimax struct{}

func (Minimax) RunStep(s *game.State, robotID int, limit time.Duration) string {
	return deepen(s, robotID, limit, func(sr *search, depth int) (string, bool) {
		_, op, complete := sr.minimax(s, robotID, depth, true)
		return op, complete
	})
}

// minimax returns the value and best operator for playerID's ply.
// complete=false means the deadline hit somewhere below; the partial value
// is meaningless and the caller must discard it.
func (sr *search) minimax(s *game.State, playerID, depth int, maximizing bool) (value float64, op string, complete bool) {
	if sr.expired() {
		return 0, "", false
	}
	if depth == 0 || s.Done() {
		return Evaluate(s, sr.rootID), "", true
	}

	best := math.Inf(-1)
	if !maximizing {
		best = math.Inf(1)
	}
	var bestOp string

	for _, child := range successors(s, playerID) {
		v, _, ok := sr.minimax(child.state, game.Opponent(playerID), depth-1, !maximizing)
		if !ok {
			return 0, "", false
		}
		if (maximizing && v > best) || (!maximizing && v < best) {
			best = v
			bestOp = child.op
		}
	}

	return best, bestOp, true
}
