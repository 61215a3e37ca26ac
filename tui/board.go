// Package tui holds the terminal UI: a styled board renderer, a live game
// watcher, a replay browser, and the batch progress dashboard.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"warebots/game"
)

var (
	gridStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)

	statusStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("8")).
			Padding(0, 2)

	emptyCell = lipgloss.NewStyle().Foreground(lipgloss.Color("237"))

	// One style per entity class; the second character of a label picks
	// the blue/red variant for robots and their destinations.
	robotStyles = [2]lipgloss.Style{
		lipgloss.NewStyle().Foreground(lipgloss.Color("33")).Bold(true),
		lipgloss.NewStyle().Foreground(lipgloss.Color("160")).Bold(true),
	}
	packageStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("178"))
	stationStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("35"))
	destStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("208"))
)

func cellView(label string) string {
	if label == "" {
		return emptyCell.Render(" · ")
	}
	var style lipgloss.Style
	switch label[0] {
	case 'R', 'X':
		idx := 0
		if label[1] == '1' {
			idx = 1
		}
		style = robotStyles[idx]
	case 'P':
		style = packageStyle
	case 'C':
		style = stationStyle
	default:
		style = destStyle
	}
	return style.Render(label) + " "
}

// RenderBoard draws the grid with colored entity labels inside a border.
func RenderBoard(s *game.State) string {
	var rows []string
	for y := 0; y < s.BoardSize; y++ {
		var row strings.Builder
		for x := 0; x < s.BoardSize; x++ {
			row.WriteString(cellView(s.CellLabel(game.Point{X: x, Y: y})))
		}
		rows = append(rows, row.String())
	}
	return gridStyle.Render(strings.Join(rows, "\n"))
}

// RenderStatus draws one panel per robot: position, battery, credit, and
// the carried package if any.
func RenderStatus(s *game.State, agentNames [2]string) string {
	panels := make([]string, 0, len(s.Robots))
	for i := range s.Robots {
		r := &s.Robots[i]
		var b strings.Builder
		fmt.Fprintf(&b, "%s\n", robotStyles[i].Render(fmt.Sprintf("Robot %d (%s)", i, agentNames[i])))
		fmt.Fprintf(&b, "position: (%d,%d)\n", r.Position.X, r.Position.Y)
		fmt.Fprintf(&b, "battery:  %d\n", r.Battery)
		fmt.Fprintf(&b, "credit:   %d", r.Credit)
		if r.Carrying != nil {
			fmt.Fprintf(&b, "\npackage:  (%d,%d) -> (%d,%d)",
				r.Carrying.Position.X, r.Carrying.Position.Y,
				r.Carrying.Destination.X, r.Carrying.Destination.Y)
		}
		panels = append(panels, statusStyle.Render(b.String()))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, panels...)
}

// RenderGame composes the status panels above the board.
func RenderGame(s *game.State, agentNames [2]string) string {
	return lipgloss.JoinVertical(lipgloss.Left,
		RenderStatus(s, agentNames),
		RenderBoard(s),
		fmt.Sprintf("steps left: %d", s.StepsLeft),
	)
}
