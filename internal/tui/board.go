package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jask/adminconsole/internal/dashboard"
	"github.com/jask/adminconsole/internal/widgets"
	"github.com/jask/adminconsole/pkg/helpers"
)

const (
	boardColumns  = 3 // grid units per line
	maxWidgetRows = 2
	rowHeight     = 7
)

type boardState struct {
	cursor int
}

// widgetPicker is the add-widget popup: a query over the available kinds.
type widgetPicker struct {
	input  textinput.Model
	cursor int
}

func newWidgetPicker() *widgetPicker {
	inp := textinput.New()
	inp.Prompt = "> "
	inp.Placeholder = "widget name"
	inp.Focus()
	return &widgetPicker{input: inp}
}

func (p *widgetPicker) options(available []dashboard.Widget) []dashboard.Widget {
	return dashboard.Rank(available, p.input.Value())
}

func (a *App) handleBoardKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	placed := a.dash.Placed().Get()
	a.board.cursor = min(max(a.board.cursor, 0), max(len(placed)-1, 0))

	switch {
	case key.Matches(m, a.keys.Add):
		if len(a.dash.Available().Get()) == 0 {
			a.setStatus("every widget is already on the dashboard", true)
			return a, nil
		}
		a.picker = newWidgetPicker()
		return a, textinput.Blink
	case key.Matches(m, a.keys.Up):
		if a.board.cursor > 0 {
			a.board.cursor--
		}
		return a, nil
	case key.Matches(m, a.keys.Down):
		if a.board.cursor < len(placed)-1 {
			a.board.cursor++
		}
		return a, nil
	}

	if len(placed) == 0 {
		return a, nil
	}
	w := placed[a.board.cursor]
	changed := false
	switch {
	case key.Matches(m, a.keys.Remove):
		changed = a.dash.Remove(w.ID)
		a.board.cursor = min(a.board.cursor, max(len(a.dash.Placed().Get())-1, 0))
		a.setStatus(fmt.Sprintf("removed %s", w.Label), true)
	case key.Matches(m, a.keys.Left):
		changed = a.dash.MoveLeft(w.ID)
		a.board.cursor = a.indexOfPlaced(w.ID)
	case key.Matches(m, a.keys.Right):
		changed = a.dash.MoveRight(w.ID)
		a.board.cursor = a.indexOfPlaced(w.ID)
	case key.Matches(m, a.keys.Grow), key.Matches(m, a.keys.Shrink):
		cur := helpers.ValueOr(w.Columns, 1)
		cols := min(cur+1, boardColumns)
		if key.Matches(m, a.keys.Shrink) {
			cols = max(cur-1, 1)
		}
		if cols != cur || w.Columns == nil {
			changed = a.dash.Update(w.ID, dashboard.WidgetPatch{Columns: helpers.Ptr(cols)})
		}
	case key.Matches(m, a.keys.Taller):
		rows := helpers.ValueOr(w.Rows, 1)%maxWidgetRows + 1
		changed = a.dash.Update(w.ID, dashboard.WidgetPatch{Rows: helpers.Ptr(rows)})
	case key.Matches(m, a.keys.Colour):
		next := widgetPalette[(paletteIndex(w.BackgroundColor)+1)%len(widgetPalette)]
		changed = a.dash.Update(w.ID, dashboard.WidgetPatch{BackgroundColor: helpers.Ptr(next[0]), Color: helpers.Ptr(next[1])})
	}
	if changed {
		a.reportPersist()
	}
	return a, nil
}

// reportPersist surfaces the result of the write a layout change just made.
func (a *App) reportPersist() {
	if err := a.dash.LastPersistError(); err != nil {
		a.setStatus("error: layout not saved: "+err.Error(), false)
	}
}

func (a *App) handlePickerKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	p := a.picker
	opts := p.options(a.dash.Available().Get())
	switch m.String() {
	case "esc":
		a.picker = nil
		return a, nil
	case "up", "ctrl+p":
		if p.cursor > 0 {
			p.cursor--
		}
		return a, nil
	case "down", "ctrl+n":
		if p.cursor < len(opts)-1 {
			p.cursor++
		}
		return a, nil
	case "enter":
		if p.cursor < len(opts) {
			w := opts[p.cursor]
			a.setStatus(fmt.Sprintf("added %s", w.Label), true)
			if a.dash.Add(w) {
				a.reportPersist()
			}
			a.board.cursor = len(a.dash.Placed().Get()) - 1
		}
		a.picker = nil
		return a, nil
	}
	var cmd tea.Cmd
	p.input, cmd = p.input.Update(m)
	p.cursor = 0
	return a, cmd
}

func (a *App) indexOfPlaced(id int) int {
	for i, w := range a.dash.Placed().Get() {
		if w.ID == id {
			return i
		}
	}
	return 0
}

func paletteIndex(bg *string) int {
	for i, pair := range widgetPalette {
		if bg != nil && pair[0] == *bg {
			return i
		}
	}
	return -1
}

func (p *widgetPicker) view(available []dashboard.Widget) string {
	lines := []string{titleStyle.Render("Add widget"), p.input.View(), ""}
	opts := p.options(available)
	if len(opts) == 0 {
		lines = append(lines, mutedStyle.Render("nothing left to add"))
	}
	for i, w := range opts {
		marker := "  "
		if i == p.cursor {
			marker = "▶ "
		}
		lines = append(lines, marker+w.Label)
	}
	lines = append(lines, "", mutedStyle.Render("[enter] add  [esc] cancel"))
	return strings.Join(lines, "\n")
}

func (a *App) overlayPicker(base string, width, height int) string {
	return widgets.RenderPopup(base, a.picker.view(a.dash.Available().Get()), width, height)
}

// renderBoard packs placed widgets into lines of boardColumns grid units.
func (a *App) renderBoard() string {
	placed := a.dash.Placed().Get()
	width := a.width
	if width <= 0 {
		width = 96
	}
	title := titleStyle.Render("Dashboard")
	if len(placed) == 0 {
		return title + "\n\n" + mutedStyle.Render("No widgets yet. Press [a] to add one.")
	}

	cells := make([]widgets.Cell, len(placed))
	for i, w := range placed {
		cells[i] = widgets.Cell{
			Widget: a.widgetBox(w, i == a.board.cursor),
			Span:   helpers.ValueOr(w.Columns, 1),
			Rows:   min(helpers.ValueOr(w.Rows, 1), maxWidgetRows),
		}
	}
	grid := widgets.Grid{Cells: cells, Units: boardColumns, RowHeight: rowHeight, Gap: 1}
	return title + "\n\n" + grid.Render(width, len(placed)*maxWidgetRows*rowHeight)
}

func (a *App) widgetBox(w dashboard.Widget, focused bool) widgets.Widget {
	var body widgets.Widget = widgets.Text(mutedStyle.Render("(content unavailable)"))
	if w.HasContent() {
		body = w.Content
	}
	return widgets.Box{
		Title:      w.Label,
		Body:       body,
		Background: helpers.Value(w.BackgroundColor),
		Foreground: helpers.Value(w.Color),
		Focused:    focused,
	}
}

// DashboardContents builds the stock widget bodies, formatted for locale.
func DashboardContents(locale string) map[int]dashboard.Content {
	p := widgets.NewPrinter(locale)
	tile := func(m widgets.Metric) dashboard.Content { return widgets.Tile{Metric: m, Printer: p} }
	return map[int]dashboard.Content{
		dashboard.SubscribersID: tile(widgets.Metric{Value: 1024331, Delta: 3.4, History: []float64{812, 845, 870, 902, 951, 987, 1024}}),
		dashboard.ViewsID:       tile(widgets.Metric{Value: 48200113, Delta: -1.2, History: []float64{51, 50, 49, 49.5, 48.7, 48.4, 48.2}}),
		dashboard.WatchTimeID:   tile(widgets.Metric{Value: 211340.5, Decimals: 1, Suffix: " h", Delta: 6.8, History: []float64{160, 171, 178, 190, 197, 205, 211}}),
		dashboard.RevenueID:     tile(widgets.Metric{Value: 182440.25, Decimals: 2, Prefix: "$", Delta: 0, History: []float64{180, 181, 183, 182, 182, 182, 182}}),
	}
}
