package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/urfave/cli/v3"

	"warebots/batch"
	"warebots/sim"
	"warebots/tui"
)

func batchCommand() *cli.Command {
	return &cli.Command{
		Name:      "batch",
		Usage:     "run a batch of games with statistics output",
		ArgsUsage: "agent0 agent1",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "num-games",
				Aliases: []string{"n"},
				Value:   batch.DefaultNumGames,
				Usage:   "number of games to run",
			},
			&cli.Int64Flag{
				Name:    "seed-start",
				Aliases: []string{"s"},
				Usage:   "starting seed; games use seed-start, seed-start+1, ... (random when omitted)",
			},
			&cli.StringFlag{
				Name:  "seed-file",
				Usage: "text file with one seed per line (overrides --seed-start)",
			},
			&cli.DurationFlag{
				Name:    "time-limit",
				Aliases: []string{"t"},
				Value:   batch.DefaultTimeLimit,
				Usage:   "per-move time limit",
			},
			&cli.IntFlag{
				Name:    "count-steps",
				Aliases: []string{"c"},
				Value:   batch.DefaultCountSteps,
				Usage:   "number of steps each robot gets before the game is over",
			},
			&cli.StringFlag{
				Name:    "output-dir",
				Aliases: []string{"o"},
				Value:   "batch_results",
				Usage:   "directory for output files",
			},
			&cli.IntFlag{
				Name:  "log-sampling",
				Usage: "save a full game log for 1 out of every N games (0 disables)",
			},
			&cli.BoolFlag{
				Name:  "fail-fast",
				Usage: "abort the batch on the first game error",
			},
			&cli.BoolFlag{
				Name:  "csv",
				Usage: "also produce per-game CSV output",
			},
			&cli.IntFlag{
				Name:  "workers",
				Value: 1,
				Usage: "games to run in parallel (concurrent games share CPU within the same per-move limit)",
			},
			&cli.BoolFlag{
				Name:  "plain",
				Usage: "line-per-game progress instead of the dashboard",
			},
		},
		Action: batchAction,
	}
}

func batchAction(ctx context.Context, cmd *cli.Command) error {
	if cmd.Args().Len() != 2 {
		return fmt.Errorf("expected two agent names, got %d arguments", cmd.Args().Len())
	}

	cfg := batch.Config{
		Agent0:      cmd.Args().Get(0),
		Agent1:      cmd.Args().Get(1),
		NumGames:    cmd.Int("num-games"),
		TimeLimit:   cmd.Duration("time-limit"),
		CountSteps:  cmd.Int("count-steps"),
		SeedStart:   cmd.Int64("seed-start"),
		SeedFile:    cmd.String("seed-file"),
		OutputDir:   cmd.String("output-dir"),
		LogSampling: cmd.Int("log-sampling"),
		FailFast:    cmd.Bool("fail-fast"),
		CSV:         cmd.Bool("csv"),
		Workers:     cmd.Int("workers"),
		Command:     strings.Join(os.Args, " "),
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	var summary batch.Summary
	var err error
	if cmd.Bool("plain") {
		summary, err = runBatchPlain(ctx, cfg)
	} else {
		summary, err = runBatchDashboard(ctx, cfg)
	}
	if err != nil {
		return err
	}

	batch.PrintSummary(os.Stdout, summary)
	fmt.Fprintf(os.Stderr, "\nbatch complete, output in %s/\n", cfg.OutputDir)
	return nil
}

func runBatchPlain(ctx context.Context, cfg batch.Config) (batch.Summary, error) {
	summary, _, err := batch.Run(ctx, cfg, func(p batch.Progress) {
		r := p.Result
		if r.Error != "" {
			fmt.Printf("[%d/%d] game %d (seed %d): error: %s\n",
				p.Completed, p.Total, p.GameIndex, r.Seed, r.Error)
			return
		}
		outcome := "draw"
		if r.Winner != sim.Draw {
			outcome = fmt.Sprintf("robot %d wins", r.Winner)
		}
		fmt.Printf("[%d/%d] game %d (seed %d): %s  %d-%d\n",
			p.Completed, p.Total, p.GameIndex, r.Seed, outcome,
			r.FinalCredits[0], r.FinalCredits[1])
	})
	return summary, err
}

// runBatchDashboard runs the batch behind the terminal dashboard. Quitting
// the dashboard cancels the remaining games; whatever already finished is
// still aggregated and written out.
func runBatchDashboard(ctx context.Context, cfg batch.Config) (batch.Summary, error) {
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	updates := make(chan tea.Msg, 64)
	done := make(chan tui.BatchDoneMsg, 1)
	go func() {
		summary, _, err := batch.Run(runCtx, cfg, func(p batch.Progress) {
			select {
			case updates <- p:
			case <-runCtx.Done():
			}
		})
		msg := tui.BatchDoneMsg{Summary: summary, Err: err}
		done <- msg
		select {
		case updates <- msg:
		default:
		}
	}()

	model := tui.NewBatchModel(cfg.Agent0, cfg.Agent1, cfg.NumGames, updates)
	if _, err := tea.NewProgram(model).Run(); err != nil {
		return batch.Summary{}, err
	}
	cancel()

	msg := <-done
	if msg.Err != nil && !errors.Is(msg.Err, context.Canceled) {
		return msg.Summary, msg.Err
	}
	return msg.Summary, nil
}
