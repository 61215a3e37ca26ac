package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"warebots/gamelog"
)

type autoplayTickMsg time.Time

func autoplayTick() tea.Cmd {
	return tea.Tick(500*time.Millisecond, func(t time.Time) tea.Msg {
		return autoplayTickMsg(t)
	})
}

// ReplayModel steps through a recorded game. Left/right move one ply,
// space toggles autoplay, home/end jump to the boundaries.
type ReplayModel struct {
	replay  *gamelog.Replay
	playing bool
}

func NewReplayModel(r *gamelog.Replay) ReplayModel {
	return ReplayModel{replay: r}
}

func (m ReplayModel) Init() tea.Cmd {
	return nil
}

func (m ReplayModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "left", "h":
			m.playing = false
			m.replay.Back()
		case "right", "l":
			m.playing = false
			m.replay.Forward()
		case "home", "g":
			m.playing = false
			m.replay.Seek(0)
		case "end", "G":
			m.playing = false
			m.replay.Seek(m.replay.TotalMoves())
		case " ":
			m.playing = !m.playing
			if m.playing {
				return m, autoplayTick()
			}
		}
	case autoplayTickMsg:
		if !m.playing {
			return m, nil
		}
		if !m.replay.Forward() {
			m.playing = false
			return m, nil
		}
		return m, autoplayTick()
	}
	return m, nil
}

func (m ReplayModel) View() string {
	data := m.replay.Data

	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("replay: %s  (%s vs %s, seed %d)",
		data.SourceFile, data.AgentNames[0], data.AgentNames[1], data.Seed)))
	b.WriteString("\n")
	b.WriteString(RenderGame(m.replay.State(), data.AgentNames))
	b.WriteString("\n")

	if mv, ok := m.replay.MoveInfo(); ok {
		b.WriteString(fmt.Sprintf("move %d/%d  [Round %d] Agent %d (%s): %s",
			m.replay.Index(), m.replay.TotalMoves(),
			mv.Round, mv.Agent, data.AgentNames[mv.Agent], mv.Operator))
	} else {
		b.WriteString(fmt.Sprintf("move 0/%d  initial position", m.replay.TotalMoves()))
	}
	b.WriteString("\n")

	status := "space: play"
	if m.playing {
		status = "space: pause"
	}
	b.WriteString(dimStyle.Render("←/→: step  " + status + "  g/G: start/end  q: quit"))
	b.WriteString("\n")
	return b.String()
}
