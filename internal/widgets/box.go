package widgets

import "github.com/charmbracelet/lipgloss"

// Box draws Body inside a rounded border with Title on the first line.
// Empty colours fall back to the terminal defaults.
type Box struct {
	Title      string
	Body       Widget
	Background string
	Foreground string
	Focused    bool
}

func (b Box) Render(width, height int) string {
	if width <= 0 || height <= 0 {
		return ""
	}
	innerW := max(1, width-4)
	innerH := max(1, height-3)

	style := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		Padding(0, 1).
		Width(width - 2).
		Height(max(1, height-2))
	if b.Background != "" {
		style = style.Background(lipgloss.Color(b.Background)).BorderBackground(lipgloss.Color(b.Background))
	}
	if b.Foreground != "" {
		style = style.Foreground(lipgloss.Color(b.Foreground))
	}
	if b.Focused {
		style = style.BorderForeground(lipgloss.Color("#f5c2e7")).BorderStyle(lipgloss.ThickBorder())
	}

	title := lipgloss.NewStyle().Bold(true).Render(padRight(b.Title, innerW))
	body := ""
	if b.Body != nil {
		body = b.Body.Render(innerW, innerH)
	}
	return style.Render(title + "\n" + body)
}
