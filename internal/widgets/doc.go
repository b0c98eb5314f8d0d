// Package widgets contains dumb render primitives.
//
// Allowed here:
// - stateless drawing/composition helpers (boxes, grid, tables, tiles, popup overlay)
//
// Not allowed here:
// - key handling, app state, persistence, or anything that talks to the API
package widgets

import "strings"

// Widget is anything that can draw itself into a width x height cell.
type Widget interface {
	Render(width, height int) string
}

// Text renders a fixed string, clipped to the cell.
type Text string

func (t Text) Render(width, height int) string {
	if width <= 0 || height <= 0 {
		return ""
	}
	return strings.Join(fitLines(string(t), width, height), "\n")
}
