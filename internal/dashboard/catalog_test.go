package dashboard

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func labels(ws []Widget) []string {
	out := make([]string, 0, len(ws))
	for _, w := range ws {
		out = append(out, w.Label)
	}
	return out
}

func TestDefaultCatalog(t *testing.T) {
	c := DefaultCatalog(map[int]Content{SubscribersID: textContent("1,024")})
	require.Equal(t, []string{"Subscribers", "Views", "Watch Time", "Revenue"}, labels(c.Widgets()))

	subs, ok := c.Lookup(SubscribersID)
	require.True(t, ok)
	require.True(t, subs.HasContent())

	views, ok := c.Lookup(ViewsID)
	require.True(t, ok)
	require.False(t, views.HasContent())

	_, ok = c.Lookup(99)
	require.False(t, ok)
}

func TestCatalogKeepsFirstOfDuplicateIDs(t *testing.T) {
	c := NewCatalog(Widget{ID: 1, Label: "A"}, Widget{ID: 1, Label: "B"})
	require.Equal(t, []string{"A"}, labels(c.Widgets()))
}

func TestWidgetsReturnsCopy(t *testing.T) {
	c := twoKinds()
	ws := c.Widgets()
	ws[0].Label = "changed"
	w, _ := c.Lookup(1)
	require.Equal(t, "Subscribers", w.Label)
}

func TestRank(t *testing.T) {
	c := DefaultCatalog(nil)
	require.Equal(t, labels(c.Widgets()), labels(Rank(c.Widgets(), "")))

	require.Equal(t, "Views", Rank(c.Widgets(), "view")[0].Label)
	require.Equal(t, "Watch Time", Rank(c.Widgets(), "time")[0].Label)
	require.Equal(t, "Revenue", Rank(c.Widgets(), "revenu")[0].Label)
	require.Equal(t, "Subscribers", Rank(c.Widgets(), "subscribrs")[0].Label, "closest by edit distance")
	require.Len(t, Rank(c.Widgets(), "zzz"), 4)
}
