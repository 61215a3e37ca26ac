package gamelog

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"warebots/game"
)

// Logger accumulates one game's events and saves them as a text log with a
// JSONL sidecar. It never touches the game loop's control flow; callers
// feed it from the simulator's turn callback.
type Logger struct {
	header  Header
	batch   bool
	lines   []string
	moves   []Move
	outcome *Outcome
}

// NewLogger starts a log for one game.
func NewLogger(header Header) *Logger {
	l := &Logger{header: header}
	l.lines = append(l.lines, formatGameHeader(header, time.Now())...)
	return l
}

// NewBatchLogger starts a log for one game inside a batch, using the
// compact batch header format.
func NewBatchLogger(gameIndex int, header Header) *Logger {
	l := &Logger{header: header, batch: true}
	l.lines = append(l.lines, formatBatchHeader(gameIndex, header)...)
	return l
}

// LogInitialState records the starting layout.
func (l *Logger) LogInitialState(s *game.State) {
	l.lines = append(l.lines, "--- INITIAL STATE ---")
	for i := range s.Robots {
		r := &s.Robots[i]
		l.lines = append(l.lines, fmt.Sprintf(
			"  Robot %d: pos=(%d,%d) battery=%d credit=%d",
			i, r.Position.X, r.Position.Y, r.Battery, r.Credit))
	}
	for i, pkg := range s.Packages[:min(2, len(s.Packages))] {
		l.lines = append(l.lines, fmt.Sprintf(
			"  Package %d: pos=(%d,%d) dest=(%d,%d) on_board=%v",
			i, pkg.Position.X, pkg.Position.Y,
			pkg.Destination.X, pkg.Destination.Y, pkg.OnBoard))
	}
	for i := range s.Stations {
		p := s.Stations[i].Position
		l.lines = append(l.lines, fmt.Sprintf("  ChargeStation %d: pos=(%d,%d)", i, p.X, p.Y))
	}
	l.lines = append(l.lines, "")
}

// LogMove records one applied operator plus the robots' state after it.
func (l *Logger) LogMove(round, robotID int, op string, s *game.State) {
	m := Move{Round: round, Agent: robotID, Operator: op}
	if l.batch {
		l.lines = append(l.lines, formatBatchMoveLine(m, l.header.AgentNames[robotID]))
	} else {
		l.lines = append(l.lines, formatMoveLine(m, l.header.AgentNames[robotID]))
	}
	for i := range s.Robots {
		r := &s.Robots[i]
		carrying := ""
		if r.Carrying != nil {
			carrying = fmt.Sprintf(" carrying=(%d,%d)->(%d,%d)",
				r.Carrying.Position.X, r.Carrying.Position.Y,
				r.Carrying.Destination.X, r.Carrying.Destination.Y)
		}
		l.lines = append(l.lines, fmt.Sprintf("  Robot %d: pos=(%d,%d) bat=%d cred=%d%s",
			i, r.Position.X, r.Position.Y, r.Battery, r.Credit, carrying))
	}
	l.moves = append(l.moves, m)
}

// LogResult records the final outcome.
func (l *Logger) LogResult(resultText string, balances [2]int, winner int) {
	l.lines = append(l.lines,
		"",
		banner,
		"GAME RESULT",
		banner,
		fmt.Sprintf("Final Balances: Agent 0 = %d, Agent 1 = %d", balances[0], balances[1]),
		fmt.Sprintf("Result: %s", resultText),
		banner,
	)
	out := Outcome{FinalCredits: balances, Winner: winner}
	if strings.HasPrefix(resultText, "ERROR") {
		out.Error = resultText
	}
	l.outcome = &out
}

// Save writes the text log and its sidecar under dir, returning the text
// log path.
func (l *Logger) Save(dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create log dir: %w", err)
	}

	stamp := time.Now().Format("20060102_150405")
	name := fmt.Sprintf("game_%s_vs_%s_seed%d_%s.txt",
		l.header.AgentNames[0], l.header.AgentNames[1], l.header.Seed, stamp)
	return l.SaveAs(filepath.Join(dir, name))
}

// SaveAs writes the text log and its sidecar to an explicit path.
func (l *Logger) SaveAs(path string) (string, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("create log dir: %w", err)
	}
	if err := os.WriteFile(path, []byte(strings.Join(l.lines, "\n")+"\n"), 0o644); err != nil {
		return "", fmt.Errorf("write log: %w", err)
	}

	sidecar, err := os.Create(SidecarPath(path))
	if err != nil {
		return "", fmt.Errorf("create sidecar: %w", err)
	}
	defer sidecar.Close()
	if err := WriteSidecar(sidecar, l.header, l.moves, l.outcome); err != nil {
		return "", err
	}

	return path, nil
}

// Lines returns the accumulated text lines.
func (l *Logger) Lines() []string { return l.lines }

// Moves returns the recorded move list.
func (l *Logger) Moves() []Move { return l.moves }
