package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/urfave/cli/v3"

	"warebots/gamelog"
	"warebots/tui"
)

func replayCommand() *cli.Command {
	return &cli.Command{
		Name:      "replay",
		Usage:     "step through a recorded game log",
		ArgsUsage: "logfile",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "print",
				Usage: "dump every position to stdout instead of the interactive browser",
			},
		},
		Action: replayAction,
	}
}

func replayAction(ctx context.Context, cmd *cli.Command) error {
	if cmd.Args().Len() != 1 {
		return fmt.Errorf("expected one log file, got %d arguments", cmd.Args().Len())
	}

	data, err := gamelog.Parse(cmd.Args().Get(0))
	if err != nil {
		return err
	}
	replay := gamelog.NewReplay(data)
	if replay.TotalMoves() < len(data.Moves) {
		fmt.Printf("warning: move %d is illegal against the reconstructed state, replay truncated\n",
			replay.TotalMoves())
	}

	if cmd.Bool("print") {
		return printReplay(replay)
	}

	_, err = tea.NewProgram(tui.NewReplayModel(replay)).Run()
	return err
}

func printReplay(r *gamelog.Replay) error {
	data := r.Data
	fmt.Printf("replay of %s: %s vs %s, seed %d, %d moves\n\n",
		data.SourceFile, data.AgentNames[0], data.AgentNames[1], data.Seed, r.TotalMoves())

	r.Seek(0)
	fmt.Println("initial position:")
	fmt.Print(r.State().String())
	for r.Forward() {
		mv, _ := r.MoveInfo()
		fmt.Printf("\n[Round %d] Agent %d (%s): %s\n",
			mv.Round, mv.Agent, data.AgentNames[mv.Agent], mv.Operator)
		fmt.Print(r.State().String())
	}
	return nil
}
