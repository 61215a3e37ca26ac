// Package sim runs complete games between two agents.
//
// Every agent move goes through one execution contract: the agent receives
// a clone of the environment (never the live state), runs in its own
// goroutine, and is raced against the time limit plus a grace period. A
// move that misses the hard deadline, or an agent that panics, forfeits
// the turn; the live state is only mutated with validated results.
package sim

import (
	"context"
	"fmt"
	"time"

	"warebots/agents"
	"warebots/game"
)

// GracePeriod is added to the per-move limit before the caller gives up on
// an agent. Agents are expected to stop themselves inside the limit; the
// grace covers scheduling overhead so a move finishing right at the
// deadline is not spuriously forfeited.
const GracePeriod = 500 * time.Millisecond

// StepResult is the outcome of executing a single agent move.
type StepResult struct {
	Operator string        // chosen operator, "" on timeout or error
	Elapsed  time.Duration // wall-clock time for the step
	TimedOut bool          // hard deadline (limit + grace) exceeded
	Err      error         // agent panic or cancellation
}

type stepOutcome struct {
	op  string
	err error
}

// ExecuteStep runs one agent move against a clone of s.
//
// On timeout the agent goroutine is abandoned, not killed: it keeps
// computing against its clone until it returns, with no effect on the
// caller's state. That is the cooperative analogue of the hard external
// kill the game demands; the buffered channel lets the stray goroutine
// finish and be collected.
func ExecuteStep(ctx context.Context, agent agents.Agent, s *game.State, robotID int, limit time.Duration) StepResult {
	start := time.Now()
	clone := s.Clone()

	done := make(chan stepOutcome, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- stepOutcome{err: fmt.Errorf("agent panicked: %v", r)}
			}
		}()
		done <- stepOutcome{op: agent.RunStep(clone, robotID, limit)}
	}()

	deadline := time.NewTimer(limit + GracePeriod)
	defer deadline.Stop()

	select {
	case out := <-done:
		return StepResult{Operator: out.op, Elapsed: time.Since(start), Err: out.err}
	case <-deadline.C:
		return StepResult{Elapsed: time.Since(start), TimedOut: true}
	case <-ctx.Done():
		return StepResult{Elapsed: time.Since(start), Err: ctx.Err()}
	}
}
