// Command warebots plays two-robot warehouse delivery games between
// search agents: single games (optionally in a terminal UI), batches with
// aggregate statistics, and replays of recorded game logs.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"

	"warebots/logging"
)

func main() {
	root := &cli.Command{
		Name:  "warebots",
		Usage: "competitive warehouse delivery games between search agents",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "enable debug logging",
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			logging.Setup(cmd.Bool("verbose"))
			return ctx, nil
		},
		Commands: []*cli.Command{
			runCommand(),
			batchCommand(),
			replayCommand(),
		},
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := root.Run(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
