package tui

import "github.com/charmbracelet/lipgloss"

const (
	colorPink     lipgloss.Color = "#f5c2e7"
	colorMauve    lipgloss.Color = "#cba6f7"
	colorRed      lipgloss.Color = "#f38ba8"
	colorGreen    lipgloss.Color = "#a6e3a1"
	colorText     lipgloss.Color = "#cdd6f4"
	colorOverlay0 lipgloss.Color = "#6c7086"
	colorSurface1 lipgloss.Color = "#45475a"
	colorMantle   lipgloss.Color = "#181825"
)

var (
	titleStyle       = lipgloss.NewStyle().Bold(true).Underline(true)
	headerAppStyle   = lipgloss.NewStyle().Bold(true).Foreground(colorPink)
	activeTabStyle   = lipgloss.NewStyle().Bold(true).Foreground(colorMantle).Background(colorMauve).Padding(0, 1)
	inactiveTabStyle = lipgloss.NewStyle().Foreground(colorOverlay0).Padding(0, 1)
	statusStyle      = lipgloss.NewStyle().Foreground(colorText)
	errorStyle       = lipgloss.NewStyle().Foreground(colorRed)
	okStyle          = lipgloss.NewStyle().Foreground(colorGreen)
	mutedStyle       = lipgloss.NewStyle().Foreground(colorOverlay0)
	footerStyle      = lipgloss.NewStyle().Foreground(colorOverlay0).Background(colorMantle)
	focusedLabel     = lipgloss.NewStyle().Bold(true).Foreground(colorPink)
	blurredLabel     = lipgloss.NewStyle().Foreground(colorSurface1)
)

// widgetPalette is cycled by the colour key on the dashboard; pairs are
// background, foreground.
var widgetPalette = [][2]string{
	{"#1f3b57", "#e6edf3"},
	{"#3b2f5c", "#e6edf3"},
	{"#1e4d3a", "#e6edf3"},
	{"#5c3b1f", "#e6edf3"},
	{"#f5c2e7", "#11111b"},
	{"#a6e3a1", "#11111b"},
}
