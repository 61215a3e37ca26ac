package sim

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"warebots/agents"
	"warebots/game"
	"warebots/rules"
)

// Defaults shared by the CLI and the batch runner.
const (
	DefaultCountSteps = 4761
	DefaultTimeLimit  = time.Second
)

// Winner values in Result.
const (
	Draw = -1
)

// Result is the outcome of a single completed game. A non-empty Error
// means the game failed; errored games never produce a winner, so they
// can be excluded from aggregate statistics without guesswork.
type Result struct {
	Seed         int64   `json:"seed"`
	Winner       int     `json:"winner"` // 0, 1, or Draw
	FinalCredits [2]int  `json:"final_credits"`
	StepsTaken   int     `json:"steps_taken"`
	TimeoutFlags [2]bool `json:"timeout_flags"`
	Error        string  `json:"error,omitempty"`
	ErrorPhase   string  `json:"error_phase,omitempty"` // "agent_step" or "apply_operator"
	WallTime     float64 `json:"wall_time_seconds"`
}

// DetermineWinner maps final balances to a winner index, or Draw on equal
// credit.
func DetermineWinner(balances [2]int) int {
	switch {
	case balances[0] > balances[1]:
		return 0
	case balances[1] > balances[0]:
		return 1
	default:
		return Draw
	}
}

// TurnFunc observes each successful move. round counts robot-0/robot-1
// pairs; the state is the live environment after the move was applied and
// must not be retained or mutated.
type TurnFunc func(round, robotID int, agentName, op string, s *game.State)

// Simulator runs one game between two agents to completion, alternating
// robot 0 and robot 1 each round. Timed-out moves are forfeited (the turn
// passes with the state unchanged); agent panics and illegal results end
// the game with an error.
type Simulator struct {
	AgentNames [2]string
	Agents     [2]agents.Agent
	Seed       int64
	CountSteps int
	TimeLimit  time.Duration
	Env        *game.State
}

// New builds a simulator with a generated board. The environment gets two
// steps per round, one per robot.
func New(agent0, agent1 string, seed int64, countSteps int, timeLimit time.Duration) (*Simulator, error) {
	s := &Simulator{
		AgentNames: [2]string{agent0, agent1},
		Seed:       seed,
		CountSteps: countSteps,
		TimeLimit:  timeLimit,
		Env:        game.Generate(seed, 2*countSteps),
	}
	return s, s.init()
}

// NewFromMap builds a simulator on an explicit map instead of a seeded
// layout.
func NewFromMap(agent0, agent1 string, data game.MapData, countSteps int, timeLimit time.Duration) (*Simulator, error) {
	env, err := game.FromMap(data, 2*countSteps)
	if err != nil {
		return nil, err
	}
	s := &Simulator{
		AgentNames: [2]string{agent0, agent1},
		CountSteps: countSteps,
		TimeLimit:  timeLimit,
		Env:        env,
	}
	return s, s.init()
}

func (sim *Simulator) init() error {
	if sim.CountSteps <= 0 {
		return fmt.Errorf("count steps must be positive, got %d", sim.CountSteps)
	}
	if sim.TimeLimit <= 0 {
		return fmt.Errorf("time limit must be positive, got %s", sim.TimeLimit)
	}
	for i, name := range sim.AgentNames {
		agent, err := agents.New(name)
		if err != nil {
			return err
		}
		sim.Agents[i] = agent
	}
	return nil
}

// Run plays the game to completion and returns the Result. onTurn may be
// nil.
func (sim *Simulator) Run(ctx context.Context, onTurn TurnFunc) Result {
	res := Result{Seed: sim.Seed, Winner: Draw}
	start := time.Now()

	defer func() {
		res.FinalCredits = sim.Env.Balances()
		if res.Error == "" {
			res.Winner = DetermineWinner(res.FinalCredits)
		}
		res.WallTime = time.Since(start).Seconds()
	}()

rounds:
	for round := 0; round < sim.CountSteps; round++ {
		for robotID := 0; robotID < 2; robotID++ {
			step := ExecuteStep(ctx, sim.Agents[robotID], sim.Env, robotID, sim.TimeLimit)

			if step.Err != nil {
				res.Error = fmt.Sprintf("agent %d (%s) failed in round %d: %v",
					robotID, sim.AgentNames[robotID], round, step.Err)
				res.ErrorPhase = "agent_step"
				slog.Warn("agent step failed",
					"robot", robotID, "agent", sim.AgentNames[robotID],
					"round", round, "err", step.Err)
				break rounds
			}

			if step.TimedOut {
				// Forfeited turn: nothing applied, game continues.
				res.TimeoutFlags[robotID] = true
				res.StepsTaken++
				continue
			}

			if !rules.Legal(sim.Env, robotID, step.Operator) {
				res.Error = fmt.Sprintf("agent %d (%s) returned illegal operator %q in round %d",
					robotID, sim.AgentNames[robotID], step.Operator, round)
				res.ErrorPhase = "apply_operator"
				slog.Warn("illegal operator from agent",
					"robot", robotID, "agent", sim.AgentNames[robotID],
					"round", round, "operator", step.Operator)
				break rounds
			}

			rules.ApplyOperator(sim.Env, robotID, step.Operator)
			res.StepsTaken++

			if onTurn != nil {
				onTurn(round, robotID, sim.AgentNames[robotID], step.Operator, sim.Env)
			}
		}

		if sim.Env.Done() {
			break
		}
	}

	return res
}
