package main

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/urfave/cli/v3"

	"warebots/game"
	"warebots/gamelog"
	"warebots/sim"
	"warebots/tui"
)

const tournamentGames = 100

func runCommand() *cli.Command {
	return &cli.Command{
		Name:      "run",
		Usage:     "play a single game or a tournament between two agents",
		ArgsUsage: "agent0 agent1",
		Flags: []cli.Flag{
			&cli.DurationFlag{
				Name:    "time-limit",
				Aliases: []string{"t"},
				Value:   sim.DefaultTimeLimit,
				Usage:   "per-move time limit",
			},
			&cli.Int64Flag{
				Name:    "seed",
				Aliases: []string{"s"},
				Usage:   "board generation seed (random when omitted)",
			},
			&cli.IntFlag{
				Name:    "count-steps",
				Aliases: []string{"c"},
				Value:   sim.DefaultCountSteps,
				Usage:   "number of steps each robot gets before the game is over",
			},
			&cli.BoolFlag{
				Name:  "print",
				Usage: "print the board after every move",
			},
			&cli.BoolFlag{
				Name:  "watch",
				Usage: "watch the game live in a terminal UI",
			},
			&cli.BoolFlag{
				Name:  "log",
				Usage: "save a game log with a JSONL sidecar",
			},
			&cli.StringFlag{
				Name:  "log-dir",
				Value: "game_logs",
				Usage: "directory for saved game logs",
			},
			&cli.StringFlag{
				Name:  "map",
				Usage: "JSON file with a custom starting map",
			},
			&cli.BoolFlag{
				Name:  "tournament",
				Usage: fmt.Sprintf("play %d games on consecutive seeds and tally wins", tournamentGames),
			},
		},
		Action: runAction,
	}
}

func runAction(ctx context.Context, cmd *cli.Command) error {
	if cmd.Args().Len() != 2 {
		return fmt.Errorf("expected two agent names, got %d arguments", cmd.Args().Len())
	}
	agent0, agent1 := cmd.Args().Get(0), cmd.Args().Get(1)

	seed := cmd.Int64("seed")
	if !cmd.IsSet("seed") {
		seed = rand.Int63n(256)
	}

	if cmd.Bool("tournament") {
		return runTournament(ctx, cmd, agent0, agent1, seed)
	}
	return runSingle(ctx, cmd, agent0, agent1, seed)
}

func newSimulator(cmd *cli.Command, agent0, agent1 string, seed int64) (*sim.Simulator, error) {
	countSteps := cmd.Int("count-steps")
	timeLimit := cmd.Duration("time-limit")

	if mapPath := cmd.String("map"); mapPath != "" {
		data, err := loadMap(mapPath)
		if err != nil {
			return nil, err
		}
		return sim.NewFromMap(agent0, agent1, data, countSteps, timeLimit)
	}
	return sim.New(agent0, agent1, seed, countSteps, timeLimit)
}

func loadMap(path string) (game.MapData, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return game.MapData{}, err
	}
	var data game.MapData
	if err := json.Unmarshal(raw, &data); err != nil {
		return game.MapData{}, fmt.Errorf("parse map %s: %w", path, err)
	}
	return data, nil
}

func runSingle(ctx context.Context, cmd *cli.Command, agent0, agent1 string, seed int64) error {
	simulator, err := newSimulator(cmd, agent0, agent1, seed)
	if err != nil {
		return err
	}

	var logger *gamelog.Logger
	if cmd.Bool("log") {
		logger = gamelog.NewLogger(gamelog.Header{
			Seed:       seed,
			CountSteps: cmd.Int("count-steps"),
			AgentNames: [2]string{agent0, agent1},
			TimeLimit:  cmd.Duration("time-limit").Seconds(),
		})
		logger.LogInitialState(simulator.Env)
	}

	var result sim.Result
	if cmd.Bool("watch") {
		result, err = watchGame(ctx, simulator, [2]string{agent0, agent1}, logger)
		if err != nil {
			return err
		}
	} else {
		consolePrint := cmd.Bool("print")
		if consolePrint {
			fmt.Println("initial board:")
			fmt.Print(simulator.Env.String())
		}
		result = simulator.Run(ctx, func(round, robotID int, agentName, op string, s *game.State) {
			if consolePrint {
				fmt.Printf("robot %d chose %s\n", robotID, op)
				fmt.Print(s.String())
			}
			if logger != nil {
				logger.LogMove(round, robotID, op, s)
			}
		})
	}

	fmt.Printf("final credits: %d - %d\n", result.FinalCredits[0], result.FinalCredits[1])
	switch {
	case result.Error != "":
		fmt.Printf("game ended with error: %s (during %s)\n", result.Error, result.ErrorPhase)
	case result.Winner == sim.Draw:
		fmt.Println("draw")
	default:
		fmt.Printf("robot %d wins!\n", result.Winner)
	}

	if logger != nil {
		logger.LogResult(resultText(result), result.FinalCredits, result.Winner)
		path, err := logger.Save(cmd.String("log-dir"))
		if err != nil {
			return err
		}
		fmt.Printf("game log saved to %s\n", path)
	}
	return nil
}

func resultText(r sim.Result) string {
	switch {
	case r.Error != "":
		return "ERROR: " + r.Error
	case r.Winner == sim.Draw:
		return "Draw"
	default:
		return fmt.Sprintf("Robot %d wins", r.Winner)
	}
}

// watchGame runs the simulator in a goroutine and mirrors every applied
// move into the terminal UI.
func watchGame(ctx context.Context, simulator *sim.Simulator, names [2]string, logger *gamelog.Logger) (sim.Result, error) {
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	updates := make(chan tea.Msg, 64)
	done := make(chan sim.Result, 1)
	go func() {
		result := simulator.Run(runCtx, func(round, robotID int, agentName, op string, s *game.State) {
			if logger != nil {
				logger.LogMove(round, robotID, op, s)
			}
			select {
			case updates <- tui.TurnMsg{
				Round:   round,
				RobotID: robotID,
				Agent:   agentName,
				Op:      op,
				State:   s.Clone(),
			}:
			case <-runCtx.Done():
			}
		})
		done <- result
		select {
		case updates <- tui.GameDoneMsg{Result: result}:
		default:
		}
	}()

	model := tui.NewWatchModel(simulator.Env.Clone(), names, updates)
	if _, err := tea.NewProgram(model).Run(); err != nil {
		return sim.Result{}, err
	}
	cancel()
	return <-done, nil
}

func runTournament(ctx context.Context, cmd *cli.Command, agent0, agent1 string, seed int64) error {
	var wins [2]int
	var draws int

	start := time.Now()
	for i := 0; i < tournamentGames; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		simulator, err := newSimulator(cmd, agent0, agent1, seed+int64(i))
		if err != nil {
			return err
		}
		result := simulator.Run(ctx, nil)
		switch {
		case result.Error != "":
			return fmt.Errorf("game %d (seed %d): %s", i, result.Seed, result.Error)
		case result.Winner == sim.Draw:
			draws++
		default:
			wins[result.Winner]++
		}
	}

	fmt.Println(strings.Repeat("=", 40))
	fmt.Printf("Tournament: %s vs %s (%d games)\n", agent0, agent1, tournamentGames)
	fmt.Printf("Robot 0 wins: %d\n", wins[0])
	fmt.Printf("Robot 1 wins: %d\n", wins[1])
	fmt.Printf("Draws:        %d\n", draws)
	fmt.Printf("Elapsed:      %s\n", time.Since(start).Round(time.Second))
	fmt.Println(strings.Repeat("=", 40))
	return nil
}
