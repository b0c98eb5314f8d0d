package widgets

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

var popupStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(lipgloss.Color("#cba6f7")).
	Padding(1, 2)

// RenderPopup draws popup in a card centred over base. Base cells around the
// card stay visible and the result is exactly width x height.
func RenderPopup(base, popup string, width, height int) string {
	if width <= 0 || height <= 0 {
		return ""
	}
	lines := fitLines(base, width, height)
	card := popupStyle.Render(popup)
	cardW := min(lipgloss.Width(card), width)
	rows := strings.Split(card, "\n")
	x := (width - cardW) / 2
	y := max((height-len(rows))/2, 0)
	for i, row := range rows {
		if y+i >= height {
			break
		}
		lines[y+i] = splice(lines[y+i], padRight(row, cardW), x, width)
	}
	return strings.Join(lines, "\n")
}

// splice writes seg over line starting at cell x.
func splice(line, seg string, x, width int) string {
	end := x + ansi.StringWidth(seg)
	return padRight(ansi.Truncate(line, x, "")+seg+ansi.TruncateLeft(line, end, ""), width)
}
