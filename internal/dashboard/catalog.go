package dashboard

import (
	"slices"
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/jask/adminconsole/pkg/helpers"
)

// Widget kinds shipped with the console.
const (
	SubscribersID = 1
	ViewsID       = 2
	WatchTimeID   = 3
	RevenueID     = 4
)

// Catalog is the fixed set of widget kinds, keyed by id.
type Catalog struct {
	widgets []Widget
	byID    map[int]int
}

// NewCatalog keeps the first widget for each id, in the given order.
func NewCatalog(ws ...Widget) *Catalog {
	c := &Catalog{byID: make(map[int]int, len(ws))}
	for _, w := range ws {
		if _, dup := c.byID[w.ID]; dup {
			continue
		}
		c.byID[w.ID] = len(c.widgets)
		c.widgets = append(c.widgets, w)
	}
	return c
}

// DefaultCatalog builds the stock widget kinds. contents maps widget id to its
// renderable body; a missing entry leaves the kind without content.
func DefaultCatalog(contents map[int]Content) *Catalog {
	kind := func(id int, label string, cols, rows int, bg, fg string) Widget {
		return Widget{
			ID:              id,
			Label:           label,
			Content:         contents[id],
			Columns:         helpers.Ptr(cols),
			Rows:            helpers.Ptr(rows),
			BackgroundColor: helpers.Ptr(bg),
			Color:           helpers.Ptr(fg),
		}
	}
	return NewCatalog(
		kind(SubscribersID, "Subscribers", 1, 1, "#1f3b57", "#e6edf3"),
		kind(ViewsID, "Views", 1, 1, "#3b2f5c", "#e6edf3"),
		kind(WatchTimeID, "Watch Time", 2, 1, "#1e4d3a", "#e6edf3"),
		kind(RevenueID, "Revenue", 1, 1, "#5c3b1f", "#e6edf3"),
	)
}

func (c *Catalog) Lookup(id int) (Widget, bool) {
	i, ok := c.byID[id]
	if !ok {
		return Widget{}, false
	}
	return c.widgets[i], true
}

// Widgets returns a copy in catalog order.
func (c *Catalog) Widgets() []Widget {
	return slices.Clone(c.widgets)
}

// Rank orders ws for a picker query: labels containing the query first (earlier
// match first), then the rest by edit distance. Ties keep input order. An empty
// query returns ws unchanged.
func Rank(ws []Widget, query string) []Widget {
	out := slices.Clone(ws)
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return out
	}
	type scored struct {
		hit  bool
		pos  int
		dist int
	}
	scores := make(map[int]scored, len(out))
	for i, w := range out {
		label := strings.ToLower(w.Label)
		pos := strings.Index(label, q)
		scores[i] = scored{hit: pos >= 0, pos: pos, dist: levenshtein.ComputeDistance(q, label)}
	}
	idx := make([]int, len(out))
	for i := range idx {
		idx[i] = i
	}
	slices.SortStableFunc(idx, func(a, b int) int {
		sa, sb := scores[a], scores[b]
		switch {
		case sa.hit && !sb.hit:
			return -1
		case !sa.hit && sb.hit:
			return 1
		case sa.hit && sb.hit && sa.pos != sb.pos:
			return sa.pos - sb.pos
		}
		return sa.dist - sb.dist
	})
	ranked := make([]Widget, len(out))
	for i, j := range idx {
		ranked[i] = out[j]
	}
	return ranked
}
