// Package table holds the user list view model: per-column filters, sort order
// and the visible page window over the client's published collection.
package table

import (
	"encoding/json"
	"fmt"
	"strings"

	"golang.org/x/text/cases"

	"github.com/jask/adminconsole/internal/users"
)

type Column string

const (
	ColumnID        Column = "id"
	ColumnFirstName Column = "firstName"
	ColumnLastName  Column = "lastName"
	ColumnEmail     Column = "email"
)

// Columns lists the filterable columns in display order.
var Columns = []Column{ColumnID, ColumnFirstName, ColumnLastName, ColumnEmail}

func ParseColumn(s string) (Column, error) {
	for _, c := range Columns {
		if strings.EqualFold(string(c), s) {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown column %q", s)
}

// Title is the column header shown in the table.
func (c Column) Title() string {
	switch c {
	case ColumnID:
		return "ID"
	case ColumnFirstName:
		return "First name"
	case ColumnLastName:
		return "Last name"
	case ColumnEmail:
		return "Email"
	default:
		return string(c)
	}
}

// FilterState is one needle per column. The zero value matches every row.
type FilterState struct {
	ID        string `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
}

func (f FilterState) Get(c Column) string {
	switch c {
	case ColumnID:
		return f.ID
	case ColumnFirstName:
		return f.FirstName
	case ColumnLastName:
		return f.LastName
	case ColumnEmail:
		return f.Email
	default:
		return ""
	}
}

// With returns a copy of f with the needle for c replaced.
func (f FilterState) With(c Column, needle string) FilterState {
	switch c {
	case ColumnID:
		f.ID = needle
	case ColumnFirstName:
		f.FirstName = needle
	case ColumnLastName:
		f.LastName = needle
	case ColumnEmail:
		f.Email = needle
	}
	return f
}

func (f FilterState) IsEmpty() bool {
	return f == FilterState{}
}

// Encode serialises f as a JSON object with exactly the four column keys.
func (f FilterState) Encode() string {
	data, err := json.Marshal(f)
	if err != nil {
		return "{}"
	}
	return string(data)
}

// DecodeFilter parses an encoded filter. Empty or malformed input decodes to
// the empty state; missing keys default to "".
func DecodeFilter(s string) FilterState {
	var f FilterState
	if strings.TrimSpace(s) == "" {
		return f
	}
	if err := json.Unmarshal([]byte(s), &f); err != nil {
		return FilterState{}
	}
	return f
}

// Match reports whether every non-empty needle is a case-insensitive substring
// of the row's value in that column.
func (f FilterState) Match(row users.Record) bool {
	if f.IsEmpty() {
		return true
	}
	fold := cases.Fold()
	for _, c := range Columns {
		needle := f.Get(c)
		if needle == "" {
			continue
		}
		if !strings.Contains(fold.String(row.Field(string(c))), fold.String(needle)) {
			return false
		}
	}
	return true
}

// Evaluate is Match over an encoded filter.
func Evaluate(row users.Record, filterJSON string) bool {
	return DecodeFilter(filterJSON).Match(row)
}

// Apply keeps the rows that match f, in order.
func (f FilterState) Apply(rows []users.Record) []users.Record {
	out := make([]users.Record, 0, len(rows))
	for _, r := range rows {
		if f.Match(r) {
			out = append(out, r)
		}
	}
	return out
}
