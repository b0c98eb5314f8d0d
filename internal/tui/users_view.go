package tui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jask/adminconsole/internal/table"
	"github.com/jask/adminconsole/internal/users"
	"github.com/jask/adminconsole/internal/widgets"
)

// userList is the Users tab: one filter input per column over the table.
type userList struct {
	inputs    []textinput.Model // indexed like table.Columns
	focus     int
	filtering bool
	cursor    int
	debounce  time.Duration

	confirmDelete *users.Record
}

func newUserList(debounce time.Duration) userList {
	inputs := make([]textinput.Model, len(table.Columns))
	for i, c := range table.Columns {
		inp := textinput.New()
		inp.Prompt = c.Title() + ": "
		inp.Placeholder = "any"
		inp.CharLimit = 64
		inp.Width = 14
		inputs[i] = inp
	}
	return userList{inputs: inputs, debounce: debounce}
}

func (l *userList) updateInputs(msg tea.Msg) tea.Cmd {
	if !l.filtering {
		return nil
	}
	var cmd tea.Cmd
	l.inputs[l.focus], cmd = l.inputs[l.focus].Update(msg)
	return cmd
}

func (l *userList) focusInput(i int) tea.Cmd {
	l.inputs[l.focus].Blur()
	l.focus = (i + len(l.inputs)) % len(l.inputs)
	return l.inputs[l.focus].Focus()
}

func (l *userList) clampCursor(n int) {
	l.cursor = min(max(l.cursor, 0), max(n-1, 0))
}

func (l *userList) resetInputs() {
	for i := range l.inputs {
		l.inputs[i].SetValue("")
	}
}

func (a *App) selectedUser() (users.Record, bool) {
	rows := a.table.View().Get().Page.Rows
	if a.list.cursor < 0 || a.list.cursor >= len(rows) {
		return users.Record{}, false
	}
	return rows[a.list.cursor], true
}

func (a *App) handleListKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	rows := a.table.View().Get().Page.Rows
	switch {
	case key.Matches(m, a.keys.Up):
		if a.list.cursor > 0 {
			a.list.cursor--
		}
	case key.Matches(m, a.keys.Down):
		if a.list.cursor < len(rows)-1 {
			a.list.cursor++
		}
	case key.Matches(m, a.keys.PrevPage):
		a.table.PrevPage()
		a.list.cursor = 0
	case key.Matches(m, a.keys.NextPage):
		a.table.NextPage()
		a.list.cursor = 0
	case key.Matches(m, a.keys.Sort):
		a.table.SortBy(nextSortColumn(a.table.View().Get().Sort.Column))
	case key.Matches(m, a.keys.SortDir):
		if col := a.table.View().Get().Sort.Column; col != "" {
			a.table.SortBy(col)
		}
	case key.Matches(m, a.keys.Filter):
		a.list.filtering = true
		return a, a.list.focusInput(a.list.focus)
	case key.Matches(m, a.keys.ClearFilters):
		a.clearFilters()
	case key.Matches(m, a.keys.Refresh):
		return a, a.refresh()
	case key.Matches(m, a.keys.PageSize):
		size := nextPageSize(a.table.View().Get().PageSize)
		a.table.SetPageSize(size)
		a.list.cursor = 0
		a.setStatus(fmt.Sprintf("%d rows per page", size), true)
	case key.Matches(m, a.keys.Add):
		a.form = newUserForm(formAdd, users.Record{})
	case key.Matches(m, a.keys.Edit):
		if rec, ok := a.selectedUser(); ok {
			a.busy = true
			a.setStatus(fmt.Sprintf("loading user %d...", rec.ID), true)
			return a, a.loadUserCmd(rec.ID)
		}
	case key.Matches(m, a.keys.Delete):
		if rec, ok := a.selectedUser(); ok {
			a.list.confirmDelete = &rec
		}
	}
	return a, nil
}

func (a *App) handleFilterKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.String() {
	case "esc", "enter":
		a.list.filtering = false
		a.list.inputs[a.list.focus].Blur()
		return a, nil
	case "tab":
		return a, a.list.focusInput(a.list.focus + 1)
	case "shift+tab":
		return a, a.list.focusInput(a.list.focus - 1)
	case "ctrl+r":
		a.clearFilters()
		return a, nil
	}

	col := table.Columns[a.list.focus]
	before := a.list.inputs[a.list.focus].Value()
	cmd := a.list.updateInputs(m)
	after := a.list.inputs[a.list.focus].Value()
	if after == before {
		return a, cmd
	}
	return a, tea.Batch(cmd, a.scheduleCommit(col, after))
}

// scheduleCommit records the raw input and folds it into the filter once the
// debounce interval passes without newer input for the same column.
func (a *App) scheduleCommit(col table.Column, text string) tea.Cmd {
	ticket := a.table.SetInput(col, text)
	if a.list.debounce <= 0 {
		a.table.Commit(col, ticket)
		a.list.cursor = 0
		return nil
	}
	return tea.Tick(a.list.debounce, func(time.Time) tea.Msg {
		return debounceMsg{col: col, ticket: ticket}
	})
}

func (a *App) clearFilters() {
	a.list.resetInputs()
	a.table.ClearFilters()
	a.list.cursor = 0
}

func (a *App) handleConfirmKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	rec := *a.list.confirmDelete
	switch m.String() {
	case "y", "Y":
		a.busy = true
		return a, a.deleteUserCmd(rec.ID)
	case "n", "N", "esc":
		a.list.confirmDelete = nil
	}
	return a, nil
}

func (a *App) loadUserCmd(id int) tea.Cmd {
	return func() tea.Msg {
		rec, err := a.users.FetchOne(a.ctx, id)
		if err != nil {
			return errMsg{fmt.Errorf("load user %d: %w", id, err)}
		}
		return userLoadedMsg{rec: rec}
	}
}

func (a *App) deleteUserCmd(id int) tea.Cmd {
	return func() tea.Msg {
		if err := a.users.Delete(a.ctx, id); err != nil {
			return errMsg{fmt.Errorf("delete user %d: %w", id, err)}
		}
		return userDeletedMsg{id: id}
	}
}

var pageSizes = []int{5, 10, 20, 50}

// nextPageSize steps through pageSizes, starting over after the largest.
func nextPageSize(cur int) int {
	for _, n := range pageSizes {
		if n > cur {
			return n
		}
	}
	return pageSizes[0]
}

func nextSortColumn(cur table.Column) table.Column {
	for i, c := range table.Columns {
		if c == cur {
			return table.Columns[(i+1)%len(table.Columns)]
		}
	}
	return table.Columns[0]
}

func (a *App) renderUsers() string {
	v := a.table.View().Get()
	width := a.width
	if width <= 0 {
		width = 100
	}

	var filters []string
	for i := range a.list.inputs {
		filters = append(filters, a.list.inputs[i].View())
	}
	lines := []string{titleStyle.Render("Users"), strings.Join(filters, "  ")}
	if !v.Filter.IsEmpty() {
		lines = append(lines, mutedStyle.Render("filter "+v.Filter.Encode()))
	}

	headers := make([]string, len(table.Columns))
	for i, c := range table.Columns {
		h := c.Title()
		if v.Sort.Column == c {
			if v.Sort.Direction == table.Descending {
				h += " ▼"
			} else {
				h += " ▲"
			}
		}
		headers[i] = h
	}
	rows := make([][]string, len(v.Page.Rows))
	for i, r := range v.Page.Rows {
		rows[i] = []string{strconv.Itoa(r.ID), r.FirstName, r.LastName, r.Email}
	}
	emailW := max(10, width-6-16-16-3)
	tbl := widgets.Table{
		Headers: headers,
		Rows:    rows,
		Widths:  []int{6, 16, 16, emailW},
		Cursor:  a.list.cursor,
		Empty:   "No users match",
	}
	if a.list.filtering {
		tbl.Cursor = -1
	}
	lines = append(lines, "", tbl.Render(width, len(rows)+2), "")
	lines = append(lines, mutedStyle.Render(fmt.Sprintf("page %d/%d · %d users", v.Page.Index+1, v.Page.Count, v.Page.Total)))

	if rec := a.list.confirmDelete; rec != nil {
		lines = append(lines, "", errorStyle.Render(fmt.Sprintf("Delete %s (id %d)? [y] yes  [n] no", rec.FullName(), rec.ID)))
	}
	return strings.Join(lines, "\n")
}
