package table

import (
	"cmp"
	"slices"
	"strings"

	"github.com/jask/adminconsole/internal/users"
)

type Direction int

const (
	Ascending Direction = iota
	Descending
)

func (d Direction) String() string {
	if d == Descending {
		return "desc"
	}
	return "asc"
}

// Sort orders rows by one column. An empty column keeps server order.
type Sort struct {
	Column    Column
	Direction Direction
}

// ParseSort reads a sort setting such as "lastName" or "-lastName" (a leading
// '-' sorts descending). An empty setting keeps server order.
func ParseSort(s string) (Sort, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Sort{}, nil
	}
	dir := Ascending
	if rest, ok := strings.CutPrefix(s, "-"); ok {
		s, dir = rest, Descending
	}
	c, err := ParseColumn(s)
	if err != nil {
		return Sort{}, err
	}
	return Sort{Column: c, Direction: dir}, nil
}

// Page is the visible slice of the filtered rows.
type Page struct {
	Rows  []users.Record
	Index int // zero-based, clamped to [0, Count-1]
	Count int // at least 1
	Total int // filtered row count
}

// Window sorts and paginates rows. It never mutates its input.
// size <= 0 puts every row on a single page.
func Window(rows []users.Record, s Sort, index, size int) Page {
	sorted := slices.Clone(rows)
	if s.Column != "" {
		slices.SortStableFunc(sorted, func(a, b users.Record) int {
			c := compareBy(s.Column, a, b)
			if s.Direction == Descending {
				return -c
			}
			return c
		})
	}

	total := len(sorted)
	if size <= 0 {
		return Page{Rows: sorted, Index: 0, Count: 1, Total: total}
	}
	count := max(1, (total+size-1)/size)
	index = min(max(index, 0), count-1)
	start := index * size
	end := min(start+size, total)
	return Page{Rows: sorted[start:end], Index: index, Count: count, Total: total}
}

func compareBy(c Column, a, b users.Record) int {
	if c == ColumnID {
		return cmp.Compare(a.ID, b.ID)
	}
	return strings.Compare(strings.ToLower(a.Field(string(c))), strings.ToLower(b.Field(string(c))))
}
