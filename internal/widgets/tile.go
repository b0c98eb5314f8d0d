package widgets

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// NewPrinter returns a number printer for locale (BCP 47), falling back to English.
func NewPrinter(locale string) *message.Printer {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.English
	}
	return message.NewPrinter(tag)
}

// Metric is a headline number with a short history.
type Metric struct {
	Value    float64
	Decimals int
	Prefix   string
	Suffix   string
	Delta    float64 // change since the previous period, in percent
	History  []float64
}

// Tile renders a Metric: the formatted value, its delta and a sparkline.
type Tile struct {
	Metric  Metric
	Printer *message.Printer
}

func (t Tile) Render(width, height int) string {
	if width <= 0 || height <= 0 {
		return ""
	}
	p := t.Printer
	if p == nil {
		p = NewPrinter("en")
	}
	lines := []string{
		lipgloss.NewStyle().Bold(true).Render(t.Metric.Format(p)),
	}
	if height > 1 {
		lines = append(lines, deltaLine(p, t.Metric.Delta))
	}
	if height > 2 && len(t.Metric.History) > 0 {
		lines = append(lines, Sparkline(t.Metric.History, width))
	}
	for i := range lines {
		lines[i] = padRight(lines[i], width)
	}
	return strings.Join(lines, "\n")
}

// Format prints the value with locale grouping.
func (m Metric) Format(p *message.Printer) string {
	var num string
	if m.Decimals <= 0 {
		num = p.Sprintf("%d", int64(m.Value))
	} else {
		num = p.Sprintf(fmt.Sprintf("%%.%df", m.Decimals), m.Value)
	}
	return m.Prefix + num + m.Suffix
}

func deltaLine(p *message.Printer, delta float64) string {
	switch {
	case delta > 0:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("#a6e3a1")).Render(p.Sprintf("▲ %.1f%%", delta))
	case delta < 0:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("#f38ba8")).Render(p.Sprintf("▼ %.1f%%", -delta))
	default:
		return "■ 0.0%"
	}
}

var sparkLevels = []rune("▁▂▃▄▅▆▇█")

// Sparkline draws the last width points of data scaled to eight levels.
func Sparkline(data []float64, width int) string {
	if width <= 0 || len(data) == 0 {
		return ""
	}
	if len(data) > width {
		data = data[len(data)-width:]
	}
	lo, hi := data[0], data[0]
	for _, v := range data {
		lo = min(lo, v)
		hi = max(hi, v)
	}
	var b strings.Builder
	for _, v := range data {
		level := 0
		if hi > lo {
			level = int((v - lo) / (hi - lo) * float64(len(sparkLevels)-1))
		}
		b.WriteRune(sparkLevels[level])
	}
	return b.String()
}
