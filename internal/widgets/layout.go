package widgets

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// Cell places a widget on a Grid. Span is its width in grid units and Rows its
// height in multiples of the grid's RowHeight. Zero means 1.
type Cell struct {
	Widget Widget
	Span   int
	Rows   int
}

// Grid packs cells left to right into bands Units wide. A cell that does not
// fit what is left of a band starts the next one. All units share one width,
// so cell edges line up from band to band.
type Grid struct {
	Cells     []Cell
	Units     int
	RowHeight int
	Gap       int
}

func (g Grid) Render(width, height int) string {
	if len(g.Cells) == 0 || width <= 0 || height <= 0 {
		return ""
	}
	units := max(g.Units, 1)
	unitW := spread(max(width-g.Gap*(units-1), units), units)
	var out []string
	for _, band := range g.bands(units) {
		if len(out) >= height {
			break
		}
		out = append(out, g.renderBand(band, unitW, width)...)
	}
	if len(out) > height {
		out = out[:height]
	}
	return strings.Join(out, "\n")
}

func (g Grid) bands(units int) [][]Cell {
	var out [][]Cell
	var cur []Cell
	used := 0
	for _, c := range g.Cells {
		c.Span = min(max(c.Span, 1), units)
		c.Rows = max(c.Rows, 1)
		if used+c.Span > units {
			out = append(out, cur)
			cur, used = nil, 0
		}
		cur = append(cur, c)
		used += c.Span
	}
	if len(cur) > 0 {
		out = append(out, cur)
	}
	return out
}

// renderBand draws one band as tall as its tallest cell, padded to width.
func (g Grid) renderBand(band []Cell, unitW []int, width int) []string {
	h := 0
	for _, c := range band {
		h = max(h, c.Rows*max(g.RowHeight, 1))
	}
	cols := make([][]string, len(band))
	u := 0
	for i, c := range band {
		w := g.Gap * (c.Span - 1)
		for _, uw := range unitW[u : u+c.Span] {
			w += uw
		}
		u += c.Span
		cols[i] = fitLines(c.Widget.Render(w, h), w, h)
	}
	gap := strings.Repeat(" ", g.Gap)
	lines := make([]string, h)
	parts := make([]string, len(band))
	for y := range lines {
		for i := range cols {
			parts[i] = cols[i][y]
		}
		lines[y] = padRight(strings.Join(parts, gap), width)
	}
	return lines
}

// spread divides total into n parts that differ by at most one, larger parts
// first.
func spread(total, n int) []int {
	if n <= 0 {
		return nil
	}
	out := make([]int, n)
	for i := range out {
		out[i] = total / n
		if i < total%n {
			out[i]++
		}
	}
	return out
}

// fitLines splits s into exactly height lines of exactly width cells.
func fitLines(s string, width, height int) []string {
	lines := strings.Split(s, "\n")
	if len(lines) > height {
		lines = lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, "")
	}
	for i := range lines {
		lines[i] = padRight(lines[i], width)
	}
	return lines
}

func padRight(s string, width int) string {
	if width <= 0 {
		return ""
	}
	s = ansi.Truncate(s, width, "")
	if w := ansi.StringWidth(s); w < width {
		s += strings.Repeat(" ", width-w)
	}
	return s
}
