package gamelog

import (
	"fmt"
	"os"
	"regexp"
	"strconv"

	"warebots/game"
	"warebots/rules"
)

// ReplayData is everything needed to reconstruct a recorded game: the
// generation seed, the step budget, and the applied move sequence.
type ReplayData struct {
	Seed       int64
	CountSteps int
	AgentNames [2]string
	Moves      []Move
	SourceFile string
}

// Anchored patterns for the two v1.0 text formats. Move patterns must
// match from the start of the line so state-dump lines cannot false
// positive.
var (
	reSeed       = regexp.MustCompile(`(?m)^Seed:\s+(\d+)`)
	reMaxRounds  = regexp.MustCompile(`(?m)^Max Rounds:\s+(\d+)`)
	reAgent0     = regexp.MustCompile(`(?m)^Agent 0 \(Blue\):\s+(.+)`)
	reAgent1     = regexp.MustCompile(`(?m)^Agent 1 \(Red\):\s+(.+)`)
	reGameMove   = regexp.MustCompile(`(?m)^\[Round (\d+)\] Agent (\d+) \(.+?\): (.+)`)
	reBatchSteps = regexp.MustCompile(`(?m)^Config:.*count_steps=(\d+)`)
	reBatchPair  = regexp.MustCompile(`(?m)^Agents:\s+(.+?)\s+vs\s+(.+)`)
	reBatchMove  = regexp.MustCompile(`(?m)^\s*Round (\d+), Agent (\d+) \(.+?\): (.+)`)
)

// Parse loads a recorded game. It prefers the JSONL sidecar when one sits
// next to the text log; otherwise it falls back to parsing the text
// itself, recognizing both the single-game and batch formats.
func Parse(path string) (ReplayData, error) {
	if header, moves, _, err := ReadSidecarFile(SidecarPath(path)); err == nil {
		return ReplayData{
			Seed:       header.Seed,
			CountSteps: header.CountSteps,
			AgentNames: header.AgentNames,
			Moves:      moves,
			SourceFile: path,
		}, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return ReplayData{}, err
	}
	text := string(raw)

	switch {
	case regexp.MustCompile(`WAREBOTS GAME LOG`).MatchString(text):
		return parseGameLog(text, path)
	case regexp.MustCompile(`(?m)^=== Game `).MatchString(text):
		return parseBatchLog(text, path)
	default:
		return ReplayData{}, fmt.Errorf("%s: unrecognized log format", path)
	}
}

func parseGameLog(text, path string) (ReplayData, error) {
	data := ReplayData{SourceFile: path}

	seed := reSeed.FindStringSubmatch(text)
	steps := reMaxRounds.FindStringSubmatch(text)
	a0 := reAgent0.FindStringSubmatch(text)
	a1 := reAgent1.FindStringSubmatch(text)
	if seed == nil || steps == nil || a0 == nil || a1 == nil {
		return data, fmt.Errorf("%s: missing header fields", path)
	}

	data.Seed, _ = strconv.ParseInt(seed[1], 10, 64)
	data.CountSteps, _ = strconv.Atoi(steps[1])
	data.AgentNames = [2]string{a0[1], a1[1]}

	for _, m := range reGameMove.FindAllStringSubmatch(text, -1) {
		data.Moves = append(data.Moves, textMove(m))
	}
	return data, nil
}

func parseBatchLog(text, path string) (ReplayData, error) {
	data := ReplayData{SourceFile: path}

	seed := reSeed.FindStringSubmatch(text)
	steps := reBatchSteps.FindStringSubmatch(text)
	pair := reBatchPair.FindStringSubmatch(text)
	if seed == nil || steps == nil || pair == nil {
		return data, fmt.Errorf("%s: missing header fields", path)
	}

	data.Seed, _ = strconv.ParseInt(seed[1], 10, 64)
	data.CountSteps, _ = strconv.Atoi(steps[1])
	data.AgentNames = [2]string{pair[1], pair[2]}

	for _, m := range reBatchMove.FindAllStringSubmatch(text, -1) {
		data.Moves = append(data.Moves, textMove(m))
	}
	return data, nil
}

func textMove(m []string) Move {
	round, _ := strconv.Atoi(m[1])
	agent, _ := strconv.Atoi(m[2])
	return Move{Round: round, Agent: agent, Operator: m[3]}
}

// Replay regenerates a recorded game from its seed and pre-computes every
// state for random-access navigation. Replay stops cleanly at the first
// recorded move that is illegal against the reconstructed state (a
// truncated or corrupted log); states up to that point stay navigable.
type Replay struct {
	Data    ReplayData
	states  []*game.State
	current int
}

// NewReplay builds the replay by re-applying every recorded move.
func NewReplay(data ReplayData) *Replay {
	r := &Replay{Data: data}

	env := game.Generate(data.Seed, 2*data.CountSteps)
	r.states = append(r.states, env.Clone())

	for _, m := range data.Moves {
		if !rules.Legal(env, m.Agent, m.Operator) {
			break
		}
		rules.ApplyOperator(env, m.Agent, m.Operator)
		r.states = append(r.states, env.Clone())
	}
	return r
}

// TotalMoves is the number of successfully re-applied moves.
func (r *Replay) TotalMoves() int { return len(r.states) - 1 }

// State returns the state at the current cursor.
func (r *Replay) State() *game.State { return r.states[r.current] }

// MoveInfo returns the move that produced the current state, or ok=false
// at the initial position.
func (r *Replay) MoveInfo() (Move, bool) {
	if r.current == 0 {
		return Move{}, false
	}
	return r.Data.Moves[r.current-1], true
}

// Index returns the current cursor position.
func (r *Replay) Index() int { return r.current }

// Seek clamps and moves the cursor.
func (r *Replay) Seek(i int) {
	if i < 0 {
		i = 0
	}
	if i > r.TotalMoves() {
		i = r.TotalMoves()
	}
	r.current = i
}

// Forward advances one move and reports whether it moved.
func (r *Replay) Forward() bool {
	if r.current < r.TotalMoves() {
		r.current++
		return true
	}
	return false
}

// Back rewinds one move and reports whether it moved.
func (r *Replay) Back() bool {
	if r.current > 0 {
		r.current--
		return true
	}
	return false
}
