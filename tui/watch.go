package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"warebots/game"
	"warebots/sim"
)

// TurnMsg carries one applied move from the running game into the
// watcher. State must be a clone; it is retained across frames.
type TurnMsg struct {
	Round   int
	RobotID int
	Agent   string
	Op      string
	State   *game.State
}

// GameDoneMsg ends the watch with the final result.
type GameDoneMsg struct {
	Result sim.Result
}

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("252"))
	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("243"))
	winStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42"))
)

const recentMoves = 6

// WatchModel shows a live game: the board after each applied move plus a
// short tail of recent moves. The game runs in its own goroutine and
// feeds the updates channel; the model drains it one message per frame.
type WatchModel struct {
	agentNames [2]string
	updates    chan tea.Msg

	state  *game.State
	moves  []string
	result *sim.Result
}

func NewWatchModel(initial *game.State, agentNames [2]string, updates chan tea.Msg) WatchModel {
	return WatchModel{
		agentNames: agentNames,
		updates:    updates,
		state:      initial,
	}
}

func waitForMsg(updates chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		return <-updates
	}
}

func (m WatchModel) Init() tea.Cmd {
	return waitForMsg(m.updates)
}

func (m WatchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "q" || msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	case TurnMsg:
		m.state = msg.State
		line := fmt.Sprintf("[Round %d] Agent %d (%s): %s",
			msg.Round, msg.RobotID, msg.Agent, msg.Op)
		m.moves = append(m.moves, line)
		if len(m.moves) > recentMoves {
			m.moves = m.moves[len(m.moves)-recentMoves:]
		}
		return m, waitForMsg(m.updates)
	case GameDoneMsg:
		r := msg.Result
		m.result = &r
		return m, nil
	}
	return m, nil
}

func (m WatchModel) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("warebots: %s vs %s", m.agentNames[0], m.agentNames[1])))
	b.WriteString("\n")
	b.WriteString(RenderGame(m.state, m.agentNames))
	b.WriteString("\n")
	for _, mv := range m.moves {
		b.WriteString(dimStyle.Render(mv))
		b.WriteString("\n")
	}
	if m.result != nil {
		b.WriteString("\n")
		b.WriteString(winStyle.Render(outcomeLine(*m.result)))
		b.WriteString("\n")
		b.WriteString(dimStyle.Render("press q to exit"))
	} else {
		b.WriteString(dimStyle.Render("q: quit"))
	}
	b.WriteString("\n")
	return b.String()
}

func outcomeLine(r sim.Result) string {
	switch {
	case r.Error != "":
		return "game ended with error: " + r.Error
	case r.Winner == sim.Draw:
		return fmt.Sprintf("draw  (%d - %d)", r.FinalCredits[0], r.FinalCredits[1])
	default:
		return fmt.Sprintf("robot %d wins  (%d - %d)", r.Winner, r.FinalCredits[0], r.FinalCredits[1])
	}
}
