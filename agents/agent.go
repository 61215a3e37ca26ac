// Package agents implements the move-selection policies for the warehouse
// game: one-ply greedy baselines, depth-bounded minimax with and without
// alpha-beta pruning, expectimax against a biased opponent model, and the
// scripted/random reference agents.
//
// All tree-search agents share one control structure: iterative deepening
// under a wall-clock deadline. Each depth is searched completely or not at
// all; an interrupted depth's partial result is discarded and the move from
// the last completed depth is returned. A fallback move is recorded before
// any search begins, so RunStep always returns an operator that was legal
// for the input state.
package agents

import (
	"time"

	"warebots/game"
	"warebots/rules"
)

// Agent selects one operator per turn. The returned operator is always
// legal for robotID in the state passed in; the agent never mutates that
// state, only clones of it.
type Agent interface {
	RunStep(s *game.State, robotID int, limit time.Duration) string
}

// SafetyMargin is subtracted from the per-move time limit before the
// cooperative deadline, leaving room to unwind and return.
const SafetyMargin = 100 * time.Millisecond

type successor struct {
	op    string
	state *game.State
}

// successors expands every legal operator for robotID into an
// (operator, child state) pair. Children are clones; the input state is
// untouched.
func successors(s *game.State, robotID int) []successor {
	ops := rules.LegalOperators(s, robotID)
	out := make([]successor, 0, len(ops))
	for _, op := range ops {
		child := s.Clone()
		rules.ApplyOperator(child, robotID, op)
		out = append(out, successor{op: op, state: child})
	}
	return out
}

// search carries the per-RunStep context threaded through recursion: the
// searching robot (the maximizer at every heuristic evaluation) and the
// cooperative deadline checked at each node.
type search struct {
	rootID   int
	deadline time.Time
}

func (sr *search) expired() bool {
	return !time.Now().Before(sr.deadline)
}

// deepen is the iterative-deepening driver. searchRoot runs one complete
// search at the given depth and reports whether it finished before the
// deadline; timeouts surface as complete=false, never as errors.
//
// The best move only advances on a fully completed depth. If the deadline
// hits during depth 1 the pre-recorded first legal operator is returned.
func deepen(s *game.State, robotID int, limit time.Duration, searchRoot func(sr *search, depth int) (string, bool)) string {
	sr := &search{
		rootID:   robotID,
		deadline: time.Now().Add(limit - SafetyMargin),
	}

	ops := rules.LegalOperators(s, robotID)
	if len(ops) == 0 {
		// Unreachable with a healthy state model (park is always legal
		// when stranded), kept as the crash-proof fallback.
		return rules.OpPark
	}
	best := ops[0]

	for depth := 1; ; depth++ {
		if sr.expired() {
			break
		}
		op, complete := searchRoot(sr, depth)
		if !complete || sr.expired() {
			break
		}
		if op != "" {
			best = op
		}
	}

	return best
}
