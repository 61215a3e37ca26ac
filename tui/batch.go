package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"warebots/batch"
	"warebots/sim"
)

// BatchDoneMsg ends the dashboard once the whole batch has been
// aggregated and written to disk.
type BatchDoneMsg struct {
	Summary batch.Summary
	Err     error
}

type TickMsg time.Time

func tickCmd() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

const recentGames = 10

// BatchModel is the live dashboard for a running batch: completion bar,
// running win tally, throughput, and a tail of recent results.
type BatchModel struct {
	agent0, agent1 string
	total          int
	updates        chan tea.Msg

	bar  progress.Model
	spin spinner.Model

	completed int
	wins      [2]int
	draws     int
	errors    int
	timeouts  int
	recent    []string
	startTime time.Time

	done    bool
	summary batch.Summary
	err     error
}

func NewBatchModel(agent0, agent1 string, total int, updates chan tea.Msg) BatchModel {
	sp := spinner.New()
	sp.Spinner = spinner.MiniDot
	return BatchModel{
		agent0:    agent0,
		agent1:    agent1,
		total:     total,
		updates:   updates,
		bar:       progress.New(progress.WithDefaultGradient()),
		spin:      sp,
		startTime: time.Now(),
	}
}

func (m BatchModel) Init() tea.Cmd {
	return tea.Batch(waitForMsg(m.updates), m.spin.Tick, tickCmd())
}

func (m BatchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "q" || msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	case TickMsg:
		if m.done {
			return m, nil
		}
		return m, tickCmd()
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	case batch.Progress:
		m.completed = msg.Completed
		m.record(msg.GameIndex, msg.Result)
		return m, waitForMsg(m.updates)
	case BatchDoneMsg:
		m.done = true
		m.summary = msg.Summary
		m.err = msg.Err
		return m, tea.Quit
	}
	return m, nil
}

func (m *BatchModel) record(gameIndex int, r sim.Result) {
	switch {
	case r.Error != "":
		m.errors++
	case r.Winner == sim.Draw:
		m.draws++
	default:
		m.wins[r.Winner]++
	}
	if r.TimeoutFlags[0] || r.TimeoutFlags[1] {
		m.timeouts++
	}

	var line string
	if r.Error != "" {
		line = fmt.Sprintf("game %d (seed %d): error in %s", gameIndex, r.Seed, r.ErrorPhase)
	} else {
		line = fmt.Sprintf("game %d (seed %d): %s  %d-%d in %d steps",
			gameIndex, r.Seed, winnerWord(r.Winner),
			r.FinalCredits[0], r.FinalCredits[1], r.StepsTaken)
	}
	m.recent = append([]string{line}, m.recent...)
	if len(m.recent) > recentGames {
		m.recent = m.recent[:recentGames]
	}
}

func winnerWord(winner int) string {
	if winner == sim.Draw {
		return "draw"
	}
	return fmt.Sprintf("robot %d wins", winner)
}

func (m BatchModel) View() string {
	duration := time.Since(m.startTime)
	gamesPerSec := 0.0
	if duration.Seconds() >= 1 {
		gamesPerSec = float64(m.completed) / duration.Seconds()
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("warebots batch: %s vs %s", m.agent0, m.agent1)))
	b.WriteString("\n\n")

	frac := 0.0
	if m.total > 0 {
		frac = float64(m.completed) / float64(m.total)
	}
	b.WriteString(fmt.Sprintf("%s %s %d/%d\n\n", m.spin.View(), m.bar.ViewAs(frac), m.completed, m.total))

	b.WriteString(fmt.Sprintf("Robot 0 wins: %d\n", m.wins[0]))
	b.WriteString(fmt.Sprintf("Robot 1 wins: %d\n", m.wins[1]))
	b.WriteString(fmt.Sprintf("Draws:        %d\n", m.draws))
	b.WriteString(fmt.Sprintf("Errors:       %d\n", m.errors))
	b.WriteString(fmt.Sprintf("Timeouts:     %d\n", m.timeouts))
	b.WriteString(fmt.Sprintf("Duration:     %s\n", duration.Round(time.Second)))
	b.WriteString(fmt.Sprintf("Games/Sec:    %.2f\n\n", gamesPerSec))

	b.WriteString("Recent games:\n")
	for _, g := range m.recent {
		b.WriteString(dimStyle.Render(g))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(dimStyle.Render("press q to stop"))
	b.WriteString("\n")
	return b.String()
}

// Summary returns the final summary once the batch finished.
func (m BatchModel) Summary() (batch.Summary, error) {
	return m.summary, m.err
}
