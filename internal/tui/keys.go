package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Quit         key.Binding
	NextTab      key.Binding
	UsersTab     key.Binding
	DashboardTab key.Binding

	Up           key.Binding
	Down         key.Binding
	PrevPage     key.Binding
	NextPage     key.Binding
	Sort         key.Binding
	SortDir      key.Binding
	Filter       key.Binding
	ClearFilters key.Binding
	Add          key.Binding
	Edit         key.Binding
	Delete       key.Binding
	Refresh      key.Binding
	PageSize     key.Binding

	Cancel    key.Binding
	Submit    key.Binding
	NextField key.Binding

	Left   key.Binding
	Right  key.Binding
	Remove key.Binding
	Grow   key.Binding
	Shrink key.Binding
	Taller key.Binding
	Colour key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Quit:         key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		NextTab:      key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "switch tab")),
		UsersTab:     key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "users")),
		DashboardTab: key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "dashboard")),

		Up:           key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:         key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		PrevPage:     key.NewBinding(key.WithKeys("["), key.WithHelp("[", "prev page")),
		NextPage:     key.NewBinding(key.WithKeys("]"), key.WithHelp("]", "next page")),
		Sort:         key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "sort column")),
		SortDir:      key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "sort order")),
		Filter:       key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "filter")),
		ClearFilters: key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "clear filters")),
		Add:          key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add")),
		Edit:         key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit")),
		Delete:       key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
		Refresh:      key.NewBinding(key.WithKeys("R"), key.WithHelp("R", "reload")),
		PageSize:     key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "page size")),

		Cancel:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
		Submit:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "save")),
		NextField: key.NewBinding(key.WithKeys("tab", "down"), key.WithHelp("tab", "next field")),

		Left:   key.NewBinding(key.WithKeys("h", "left"), key.WithHelp("h/l", "move")),
		Right:  key.NewBinding(key.WithKeys("l", "right")),
		Remove: key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "remove")),
		Grow:   key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+/-", "width")),
		Shrink: key.NewBinding(key.WithKeys("-")),
		Taller: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "height")),
		Colour: key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "colour")),
	}
}
