package widgets

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	tableHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#cba6f7"))
	tableCursorStyle = lipgloss.NewStyle().Reverse(true)
	tableMutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#6c7086"))
)

// Table renders fixed-width columns. Widths, when set for every header, pin
// column widths; otherwise the width is shared evenly. Cursor < 0 hides it.
type Table struct {
	Headers []string
	Rows    [][]string
	Widths  []int
	Cursor  int
	Empty   string
}

func (t Table) Render(width, height int) string {
	if width <= 0 || height <= 0 {
		return ""
	}
	if len(t.Headers) == 0 {
		return "No data"
	}
	widths := t.Widths
	if len(widths) != len(t.Headers) {
		widths = spread(max(len(t.Headers), width-len(t.Headers)+1), len(t.Headers))
	}

	lines := []string{tableHeaderStyle.Render(t.line(t.Headers, widths))}
	if len(t.Rows) == 0 {
		empty := t.Empty
		if empty == "" {
			empty = "No rows"
		}
		lines = append(lines, tableMutedStyle.Render(empty))
	}
	for i, row := range t.Rows {
		if len(lines) >= height {
			break
		}
		line := t.line(row, widths)
		if i == t.Cursor {
			line = tableCursorStyle.Render(line)
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func (t Table) line(cells []string, widths []int) string {
	parts := make([]string, len(widths))
	for i, w := range widths {
		cell := ""
		if i < len(cells) {
			cell = cells[i]
		}
		parts[i] = padRight(cell, w)
	}
	return strings.Join(parts, " ")
}
