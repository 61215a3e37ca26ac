package batch

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"warebots/game"
	"warebots/gamelog"
	"warebots/sim"
)

// runGame plays one batch game, recording a full log when this game index
// is sampled. Simulator construction failures are reported as errored
// results rather than aborting the whole batch.
func runGame(ctx context.Context, c Config, gameIndex int, seed int64) sim.Result {
	simulator, err := sim.New(c.Agent0, c.Agent1, seed, c.CountSteps, c.TimeLimit)
	if err != nil {
		return sim.Result{
			Seed:       seed,
			Winner:     sim.Draw,
			Error:      err.Error(),
			ErrorPhase: "setup",
		}
	}

	var logger *gamelog.Logger
	if c.LogSampling > 0 && gameIndex%c.LogSampling == 0 {
		logger = gamelog.NewBatchLogger(gameIndex, gamelog.Header{
			Seed:       seed,
			CountSteps: c.CountSteps,
			AgentNames: [2]string{c.Agent0, c.Agent1},
			TimeLimit:  c.TimeLimit.Seconds(),
		})
		logger.LogInitialState(simulator.Env)
	}

	var onTurn sim.TurnFunc
	if logger != nil {
		onTurn = func(round, robotID int, _, op string, s *game.State) {
			logger.LogMove(round, robotID, op, s)
		}
	}

	result := simulator.Run(ctx, onTurn)

	if logger != nil {
		logger.LogResult(outcomeText(result), result.FinalCredits, result.Winner)
		path := filepath.Join(c.OutputDir, "game_logs",
			fmt.Sprintf("game_%04d_seed_%d.txt", gameIndex, seed))
		if _, err := logger.SaveAs(path); err != nil {
			slog.Warn("failed to save sampled game log", "game", gameIndex, "err", err)
		}
	}

	return result
}

func outcomeText(r sim.Result) string {
	switch {
	case r.Error != "":
		return "ERROR: " + r.Error
	case r.Winner == sim.Draw:
		return "Draw"
	default:
		return fmt.Sprintf("Robot %d wins", r.Winner)
	}
}
