package agents

import (
	"math"
	"sort"
	"time"

	"warebots/game"
	"warebots/rules"
)

// AlphaBeta is minimax with alpha-beta pruning. Children expand in the
// rules.Priority order (deliveries and pickups first) so the window
// tightens early, and each child is cloned lazily right before descent so
// pruned siblings cost nothing.
type AlphaBeta struct{}

func (AlphaBeta) RunStep(s *game.State, robotID int, limit time.Duration) string {
	return deepen(s, robotID, limit, func(sr *search, depth int) (string, bool) {
		_, op, complete := sr.alphaBeta(s, robotID, depth, true, math.Inf(-1), math.Inf(1))
		return op, complete
	})
}

// alphaBeta mirrors minimax but cuts remaining siblings once the window
// closes. Timeouts propagate as complete=false from every node, unwinding
// the recursion without an error path.
func (sr *search) alphaBeta(s *game.State, playerID, depth int, maximizing bool, alpha, beta float64) (value float64, op string, complete bool) {
	if sr.expired() {
		return 0, "", false
	}
	if depth == 0 || s.Done() {
		return Evaluate(s, sr.rootID), "", true
	}

	ops := rules.LegalOperators(s, playerID)
	sort.SliceStable(ops, func(i, j int) bool {
		return rules.Priority(ops[i]) < rules.Priority(ops[j])
	})

	best := math.Inf(-1)
	if !maximizing {
		best = math.Inf(1)
	}
	var bestOp string

	for _, childOp := range ops {
		child := s.Clone()
		rules.ApplyOperator(child, playerID, childOp)

		v, _, ok := sr.alphaBeta(child, game.Opponent(playerID), depth-1, !maximizing, alpha, beta)
		if !ok {
			return 0, "", false
		}

		if maximizing {
			if v > best {
				best = v
				bestOp = childOp
			}
			alpha = math.Max(alpha, best)
			if alpha >= beta {
				break
			}
		} else {
			if v < best {
				best = v
				bestOp = childOp
			}
			beta = math.Min(beta, best)
			if beta <= alpha {
				break
			}
		}
	}

	return best, bestOp, true
}
