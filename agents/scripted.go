package agents

import (
	"math/rand"
	"time"

	"warebots/game"
	"warebots/rules"
)

// Random picks a uniformly random legal operator each turn. It is the
// weakest reference opponent and doubles as a fuzzer for the legality
// properties in the test suite.
type Random struct {
	rng *rand.Rand
}

func NewRandom(seed int64) *Random {
	return &Random{rng: rand.New(rand.NewSource(seed))}
}

func (a *Random) RunStep(s *game.State, robotID int, _ time.Duration) string {
	return randomLegal(a.rng, s, robotID)
}

func randomLegal(rng *rand.Rand, s *game.State, robotID int) string {
	ops := rules.LegalOperators(s, robotID)
	if len(ops) == 0 {
		return rules.OpPark
	}
	return ops[rng.Intn(len(ops))]
}

// HardCoded plays a fixed trajectory of operators step by step, useful for
// probing specific lines of play. When the next scripted operator is
// illegal in the current state it substitutes a random legal move for that
// step only and resumes the script on the next call. Past the end of the
// script it plays randomly.
type HardCoded struct {
	Trajectory []string

	step int
	rng  *rand.Rand
}

// defaultTrajectory walks toward a pickup and delivery on the standard
// board; individual steps fall back to random moves when the layout does
// not cooperate.
var defaultTrajectory = []string{
	rules.OpMoveNorth, rules.OpMoveEast, rules.OpMoveNorth, rules.OpMoveNorth,
	rules.OpPickUp,
	rules.OpMoveEast, rules.OpMoveEast,
	rules.OpMoveSouth, rules.OpMoveSouth, rules.OpMoveSouth, rules.OpMoveSouth,
	rules.OpDropOff,
}

func NewHardCoded(trajectory []string, seed int64) *HardCoded {
	if trajectory == nil {
		trajectory = defaultTrajectory
	}
	return &HardCoded{
		Trajectory: trajectory,
		rng:        rand.New(rand.NewSource(seed)),
	}
}

func (a *HardCoded) RunStep(s *game.State, robotID int, _ time.Duration) string {
	if a.step >= len(a.Trajectory) {
		return randomLegal(a.rng, s, robotID)
	}
	op := a.Trajectory[a.step]
	a.step++
	if !rules.Legal(s, robotID, op) {
		return randomLegal(a.rng, s, robotID)
	}
	return op
}
