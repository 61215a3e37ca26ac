// Package gamelog reads and writes game logs.
//
// Every game can be recorded twice: a human-readable .txt log and a .jsonl
// sidecar with one record per line (header, moves, result). The sidecar is
// the canonical machine format; the text log exists for eyeballs and is
// still parseable so logs without sidecars remain replayable.
//
// LogVersion is bumped whenever either format changes; the parser branches
// on the recorded version so old logs keep working.
package gamelog

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"
)

const LogVersion = "1.0"

const banner = "============================================================"

// Header carries the game parameters needed to regenerate the environment
// for replay.
type Header struct {
	Type       string    `json:"type"`
	LogVersion string    `json:"log_version"`
	Seed       int64     `json:"seed"`
	CountSteps int       `json:"count_steps"`
	AgentNames [2]string `json:"agent_names"`
	TimeLimit  float64   `json:"time_limit"`
}

// Move records one applied operator.
type Move struct {
	Type     string `json:"type"`
	Round    int    `json:"round"`
	Agent    int    `json:"agent"`
	Operator string `json:"operator"`
}

// Outcome records the final balances and winner (-1 for a draw).
type Outcome struct {
	Type         string `json:"type"`
	FinalCredits [2]int `json:"final_credits"`
	Winner       int    `json:"winner"`
	Error        string `json:"error,omitempty"`
}

// SidecarPath derives the .jsonl sidecar path from a .txt log path.
func SidecarPath(txtPath string) string {
	if i := strings.LastIndex(txtPath, "."); i > strings.LastIndex(txtPath, "/") {
		txtPath = txtPath[:i]
	}
	return txtPath + ".jsonl"
}

// WriteSidecar writes a complete JSONL sidecar: header line, one line per
// move, then the outcome when present.
func WriteSidecar(w io.Writer, header Header, moves []Move, outcome *Outcome) error {
	enc := json.NewEncoder(w)
	header.Type = "header"
	header.LogVersion = LogVersion
	if err := enc.Encode(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, m := range moves {
		m.Type = "move"
		if err := enc.Encode(m); err != nil {
			return fmt.Errorf("write move: %w", err)
		}
	}
	if outcome != nil {
		out := *outcome
		out.Type = "result"
		if err := enc.Encode(out); err != nil {
			return fmt.Errorf("write result: %w", err)
		}
	}
	return nil
}

// ReadSidecar parses a JSONL sidecar stream. The outcome is nil when the
// log ends without a result record (crashed or truncated game).
func ReadSidecar(r io.Reader) (Header, []Move, *Outcome, error) {
	var (
		header    Header
		hasHeader bool
		moves     []Move
		outcome   *Outcome
	)

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var probe struct {
			Type string `json:"type"`
		}
		if err := json.Unmarshal([]byte(line), &probe); err != nil {
			return header, nil, nil, fmt.Errorf("bad sidecar line: %w", err)
		}
		switch probe.Type {
		case "header":
			if err := json.Unmarshal([]byte(line), &header); err != nil {
				return header, nil, nil, fmt.Errorf("bad header: %w", err)
			}
			hasHeader = true
		case "move":
			var m Move
			if err := json.Unmarshal([]byte(line), &m); err != nil {
				return header, nil, nil, fmt.Errorf("bad move: %w", err)
			}
			moves = append(moves, m)
		case "result":
			var out Outcome
			if err := json.Unmarshal([]byte(line), &out); err != nil {
				return header, nil, nil, fmt.Errorf("bad result: %w", err)
			}
			outcome = &out
		}
	}
	if err := scanner.Err(); err != nil {
		return header, nil, nil, err
	}
	if !hasHeader {
		return header, nil, nil, fmt.Errorf("sidecar has no header record")
	}
	return header, moves, outcome, nil
}

// ReadSidecarFile is ReadSidecar over a file path.
func ReadSidecarFile(path string) (Header, []Move, *Outcome, error) {
	f, err := os.Open(path)
	if err != nil {
		return Header{}, nil, nil, err
	}
	defer f.Close()
	return ReadSidecar(f)
}

// ── Text format templates ──

func formatGameHeader(h Header, now time.Time) []string {
	return []string{
		banner,
		"WAREBOTS GAME LOG",
		banner,
		fmt.Sprintf("LOG_VERSION: %s", LogVersion),
		fmt.Sprintf("Date: %s", now.Format("2006-01-02 15:04:05")),
		fmt.Sprintf("Agent 0 (Blue): %s", h.AgentNames[0]),
		fmt.Sprintf("Agent 1 (Red):  %s", h.AgentNames[1]),
		fmt.Sprintf("Time Limit:     %gs", h.TimeLimit),
		fmt.Sprintf("Seed:           %d", h.Seed),
		fmt.Sprintf("Max Rounds:     %d", h.CountSteps),
		banner,
		"",
	}
}

func formatBatchHeader(gameIndex int, h Header) []string {
	return []string{
		fmt.Sprintf("=== Game %d ===", gameIndex),
		fmt.Sprintf("LOG_VERSION: %s", LogVersion),
		fmt.Sprintf("Agents: %s vs %s", h.AgentNames[0], h.AgentNames[1]),
		fmt.Sprintf("Config: time_limit=%g, count_steps=%d", h.TimeLimit, h.CountSteps),
		fmt.Sprintf("Seed: %d", h.Seed),
		"",
	}
}

func formatMoveLine(m Move, agentName string) string {
	return fmt.Sprintf("[Round %d] Agent %d (%s): %s", m.Round, m.Agent, agentName, m.Operator)
}

func formatBatchMoveLine(m Move, agentName string) string {
	return fmt.Sprintf("  Round %d, Agent %d (%s): %s", m.Round, m.Agent, agentName, m.Operator)
}
