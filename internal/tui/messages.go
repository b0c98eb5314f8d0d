package tui

import (
	"github.com/jask/adminconsole/internal/table"
	"github.com/jask/adminconsole/internal/users"
)

// RowsMsg carries a newly published user collection into the update loop.
type RowsMsg []users.Record

type debounceMsg struct {
	col    table.Column
	ticket uint64
}

type refreshedMsg struct{}

type userLoadedMsg struct{ rec users.Record }

type userSavedMsg struct {
	created bool
	rec     users.Record
}

type userDeletedMsg struct{ id int }

type errMsg struct{ error }
