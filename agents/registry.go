package agents

import (
	"fmt"
	"strings"
	"time"
)

// Names lists every registered agent, in registry order.
var Names = []string{
	"random",
	"greedy",
	"greedyImproved",
	"minimax",
	"alphabeta",
	"expectimax",
	"hardcoded",
}

// New builds a fresh agent instance for the given registry name. Each call
// returns a new instance so stateful agents (hardcoded's script cursor,
// the random agents' generators) never leak state between games.
func New(name string) (Agent, error) {
	switch name {
	case "random":
		return NewRandom(time.Now().UnixNano()), nil
	case "greedy":
		return Greedy{}, nil
	case "greedyImproved":
		return GreedyImproved{}, nil
	case "minimax":
		return Minimax{}, nil
	case "alphabeta":
		return AlphaBeta{}, nil
	case "expectimax":
		return Expectimax{}, nil
	case "hardcoded":
		return NewHardCoded(nil, time.Now().UnixNano()), nil
	default:
		return nil, fmt.Errorf("unknown agent %q (valid: %s)", name, strings.Join(Names, ", "))
	}
}

// Known reports whether name is a registered agent.
func Known(name string) bool {
	for _, n := range Names {
		if n == name {
			return true
		}
	}
	return false
}
