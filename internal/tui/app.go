package tui

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jask/adminconsole/internal/dashboard"
	"github.com/jask/adminconsole/internal/errs"
	"github.com/jask/adminconsole/internal/table"
	"github.com/jask/adminconsole/internal/users"
)

// UserService is the write side of the users API the console drives.
// *users.Client satisfies it.
type UserService interface {
	FetchOne(ctx context.Context, id int) (users.Record, error)
	Create(ctx context.Context, rec users.Record) (users.Record, error)
	Update(ctx context.Context, id int, p users.Patch) (users.Patch, error)
	Delete(ctx context.Context, id int) error
}

// Options wires the console to its services.
type Options struct {
	Users          UserService
	Table          *table.ViewModel
	Dashboard      *dashboard.Store
	FilterDebounce time.Duration
	Log            *slog.Logger
}

type tab int

const (
	tabUsers tab = iota
	tabDashboard
)

var tabNames = []string{"Users", "Dashboard"}

// App ties together views.
type App struct {
	ctx    context.Context
	users  UserService
	table  *table.ViewModel
	dash   *dashboard.Store
	log    *slog.Logger
	keys   keyMap
	width  int
	height int

	tab      tab
	status   string
	statusOK bool
	busy     bool

	list   userList
	form   *userForm
	picker *widgetPicker
	board  boardState
}

func New(ctx context.Context, opts Options) *App {
	log := opts.Log
	if log == nil {
		log = slog.Default()
	}
	return &App{
		ctx:   ctx,
		users: opts.Users,
		table: opts.Table,
		dash:  opts.Dashboard,
		log:   log.With("component", "tui"),
		keys:  defaultKeys(),
		list:  newUserList(opts.FilterDebounce),
	}
}

func (a *App) Init() tea.Cmd {
	return a.refresh()
}

func (a *App) refresh() tea.Cmd {
	a.busy = true
	return func() tea.Msg {
		if err := a.table.Refresh(a.ctx); err != nil {
			return errMsg{fmt.Errorf("load users: %w", err)}
		}
		return refreshedMsg{}
	}
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m := msg.(type) {
	case tea.WindowSizeMsg:
		a.width, a.height = m.Width, m.Height
		return a, nil
	case RowsMsg:
		a.table.SetRows([]users.Record(m))
		a.list.clampCursor(len(a.table.View().Get().Page.Rows))
		return a, nil
	case debounceMsg:
		if a.table.Commit(m.col, m.ticket) {
			a.list.cursor = 0
		}
		return a, nil
	case refreshedMsg:
		a.busy = false
		return a, nil
	case userLoadedMsg:
		a.busy = false
		a.form = newUserForm(formEdit, m.rec)
		return a, nil
	case userSavedMsg:
		a.busy = false
		a.form = nil
		if m.created {
			a.setStatus(fmt.Sprintf("added %s", m.rec.FullName()), true)
		} else {
			a.setStatus(fmt.Sprintf("updated user %d", m.rec.ID), true)
		}
		return a, a.refresh()
	case userDeletedMsg:
		a.busy = false
		a.list.confirmDelete = nil
		a.setStatus(fmt.Sprintf("deleted user %d", m.id), true)
		a.list.clampCursor(len(a.table.View().Get().Page.Rows))
		return a, nil
	case errMsg:
		a.busy = false
		if a.form != nil {
			a.form.submitting = false
		}
		a.log.Warn("operation failed", "error", m.error)
		a.setStatus("error: "+describeError(m.error), false)
		return a, nil
	case tea.KeyMsg:
		return a.handleKey(m)
	}

	// non-key messages (cursor blink) go to whichever input has focus
	if a.form != nil {
		return a, a.form.updateInputs(msg)
	}
	if a.picker != nil {
		var cmd tea.Cmd
		a.picker.input, cmd = a.picker.input.Update(msg)
		return a, cmd
	}
	return a, a.list.updateInputs(msg)
}

func (a *App) handleKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.String() == "ctrl+c" {
		return a, tea.Quit
	}
	switch {
	case a.form != nil:
		return a.handleFormKey(m)
	case a.picker != nil:
		return a.handlePickerKey(m)
	case a.tab == tabUsers && a.list.confirmDelete != nil:
		return a.handleConfirmKey(m)
	case a.tab == tabUsers && a.list.filtering:
		return a.handleFilterKey(m)
	}

	switch {
	case key.Matches(m, a.keys.Quit):
		return a, tea.Quit
	case key.Matches(m, a.keys.NextTab):
		return a, a.switchTab((a.tab + 1) % tab(len(tabNames)))
	case key.Matches(m, a.keys.UsersTab):
		return a, a.switchTab(tabUsers)
	case key.Matches(m, a.keys.DashboardTab):
		return a, a.switchTab(tabDashboard)
	}

	if a.tab == tabDashboard {
		return a.handleBoardKey(m)
	}
	return a.handleListKey(m)
}

// switchTab changes tab; arriving on Users reloads the collection.
func (a *App) switchTab(t tab) tea.Cmd {
	if a.tab == t {
		return nil
	}
	a.tab = t
	a.status = ""
	if t == tabUsers {
		return a.refresh()
	}
	return nil
}

// describeError shortens API failures to the operation and what the server
// said; the full request line goes to the log.
func describeError(err error) string {
	te, ok := errs.AsTransport(err)
	switch {
	case !ok:
		return err.Error()
	case te.StatusCode == 0:
		return te.Op + ": server unreachable"
	default:
		return fmt.Sprintf("%s: HTTP %d %s", te.Op, te.StatusCode, http.StatusText(te.StatusCode))
	}
}

func (a *App) setStatus(s string, ok bool) {
	a.status = s
	a.statusOK = ok
}

func (a *App) View() string {
	var body string
	switch {
	case a.form != nil:
		body = a.form.view()
	case a.tab == tabDashboard:
		body = a.renderBoard()
	default:
		body = a.renderUsers()
	}

	header := a.renderHeader()
	status := a.renderStatus()
	footer := a.renderFooter()
	screen := lipgloss.JoinVertical(lipgloss.Left, header, "", body)

	if a.height > 0 {
		contentHeight := max(1, a.height-2)
		screen = lipgloss.Place(max(1, a.width), contentHeight, lipgloss.Left, lipgloss.Top, screen)
		if a.picker != nil {
			screen = a.overlayPicker(screen, max(1, a.width), contentHeight)
		}
	} else if a.picker != nil {
		screen += "\n\n" + a.picker.view(a.dash.Available().Get())
	}
	return screen + "\n" + status + "\n" + footer
}

func (a *App) renderHeader() string {
	var tabs []string
	for i, name := range tabNames {
		label := fmt.Sprintf("%d %s", i+1, name)
		if tab(i) == a.tab {
			tabs = append(tabs, activeTabStyle.Render(label))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(label))
		}
	}
	return headerAppStyle.Render("Admin Console") + "  " + strings.Join(tabs, " ")
}

func (a *App) renderStatus() string {
	text := a.status
	if a.busy && text == "" {
		text = "loading..."
	}
	text = strings.ReplaceAll(text, "\n", " ")
	switch {
	case strings.HasPrefix(text, "error: "):
		return errorStyle.Render(text)
	case a.statusOK && text != "":
		return okStyle.Render(text)
	default:
		return statusStyle.Render(text)
	}
}

func (a *App) renderFooter() string {
	var bindings []key.Binding
	switch {
	case a.form != nil:
		bindings = []key.Binding{a.keys.Submit, a.keys.NextField, a.keys.Cancel}
	case a.picker != nil:
		bindings = []key.Binding{a.keys.Submit, a.keys.Up, a.keys.Down, a.keys.Cancel}
	case a.tab == tabDashboard:
		bindings = []key.Binding{a.keys.Add, a.keys.Remove, a.keys.Left, a.keys.Grow, a.keys.Taller, a.keys.Colour, a.keys.NextTab, a.keys.Quit}
	case a.list.filtering:
		bindings = []key.Binding{a.keys.NextField, a.keys.ClearFilters, a.keys.Cancel}
	default:
		bindings = []key.Binding{a.keys.Filter, a.keys.Add, a.keys.Edit, a.keys.Delete, a.keys.Sort, a.keys.SortDir, a.keys.PrevPage, a.keys.NextPage, a.keys.PageSize, a.keys.ClearFilters, a.keys.NextTab, a.keys.Quit}
	}
	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		if h.Key == "" {
			continue
		}
		parts = append(parts, h.Key+" "+h.Desc)
	}
	return footerStyle.Render(strings.Join(parts, "  "))
}
