package dashboard

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jask/adminconsole/internal/logger"
	"github.com/jask/adminconsole/internal/storage"
	"github.com/jask/adminconsole/pkg/helpers"
)

type textContent string

func (c textContent) Render(int, int) string { return string(c) }

func twoKinds() *Catalog {
	return NewCatalog(
		Widget{ID: 1, Label: "Subscribers", Content: textContent("subs")},
		Widget{ID: 2, Label: "Views", Content: textContent("views")},
	)
}

func newTestStore(t *testing.T, kv storage.KV) *Store {
	t.Helper()
	s := NewStore(twoKinds(), kv, slog.New(logger.NewTestHandler(slog.LevelDebug)))
	t.Cleanup(s.Close)
	return s
}

func placedIDs(s *Store) []int {
	var out []int
	for _, w := range s.Placed().Get() {
		out = append(out, w.ID)
	}
	return out
}

func TestAddPersistsWithoutContent(t *testing.T) {
	kv := storage.NewMemory()
	s := newTestStore(t, kv)
	require.Zero(t, kv.Writes(), "construction does not write")

	w, _ := s.Catalog().Lookup(1)
	s.Add(w)

	require.Equal(t, []int{1}, placedIDs(s))
	require.Len(t, s.Available().Get(), 1)
	require.Equal(t, 2, s.Available().Get()[0].ID)

	raw, ok, err := kv.Get(context.Background(), PlacedKey)
	require.NoError(t, err)
	require.True(t, ok)
	require.JSONEq(t, `[{"id":1,"label":"Subscribers"}]`, raw)
	require.NotContains(t, raw, "content")
}

func TestEveryMutationPersists(t *testing.T) {
	kv := storage.NewMemory()
	s := newTestStore(t, kv)
	one, _ := s.Catalog().Lookup(1)
	two, _ := s.Catalog().Lookup(2)

	s.Add(one)
	s.Add(two)
	s.MoveLeft(2)
	s.Update(1, WidgetPatch{Columns: helpers.Ptr(2)})
	s.Remove(2)
	require.Equal(t, 5, kv.Writes())

	raw, _, _ := kv.Get(context.Background(), PlacedKey)
	require.JSONEq(t, `[{"id":1,"label":"Subscribers","columns":2}]`, raw)
}

func TestNoopMutationsDoNotPersist(t *testing.T) {
	kv := storage.NewMemory()
	s := newTestStore(t, kv)
	one, _ := s.Catalog().Lookup(1)
	require.True(t, s.Add(one))
	before := kv.Writes()

	require.False(t, s.Update(9, WidgetPatch{Label: helpers.Ptr("x")}))
	require.False(t, s.MoveLeft(1))
	require.False(t, s.MoveRight(1))
	require.False(t, s.MoveRight(9))
	require.False(t, s.Remove(9))
	require.Equal(t, before, kv.Writes())
	require.Equal(t, []int{1}, placedIDs(s))
}

func TestMoveBoundaries(t *testing.T) {
	s := newTestStore(t, storage.NewMemory())
	s.MoveRight(1)
	s.MoveLeft(1)
	require.Empty(t, s.Placed().Get(), "empty layout stays empty")

	for _, w := range s.Catalog().Widgets() {
		s.Add(w)
	}
	s.Add(Widget{ID: 3, Label: "Extra"})

	s.MoveRight(3)
	require.Equal(t, []int{1, 2, 3}, placedIDs(s))
	s.MoveLeft(1)
	require.Equal(t, []int{1, 2, 3}, placedIDs(s))

	s.MoveRight(1)
	require.Equal(t, []int{2, 1, 3}, placedIDs(s))
	s.MoveLeft(3)
	require.Equal(t, []int{2, 3, 1}, placedIDs(s))
	require.ElementsMatch(t, []int{1, 2, 3}, placedIDs(s))
}

func TestAddThenRemoveRestoresLayout(t *testing.T) {
	s := newTestStore(t, storage.NewMemory())
	one, _ := s.Catalog().Lookup(1)
	two, _ := s.Catalog().Lookup(2)
	s.Add(one)
	before := s.Placed().Get()

	s.Add(two)
	s.Remove(2)
	require.Equal(t, before, s.Placed().Get())
}

func TestAvailableIsCatalogMinusPlaced(t *testing.T) {
	s := newTestStore(t, storage.NewMemory())
	check := func() {
		placed := map[int]bool{}
		for _, w := range s.Placed().Get() {
			placed[w.ID] = true
		}
		var want []int
		for _, w := range s.Catalog().Widgets() {
			if !placed[w.ID] {
				want = append(want, w.ID)
			}
		}
		var got []int
		for _, w := range s.Available().Get() {
			got = append(got, w.ID)
		}
		require.Equal(t, want, got)
	}

	check()
	one, _ := s.Catalog().Lookup(1)
	two, _ := s.Catalog().Lookup(2)
	s.Add(two)
	check()
	s.Add(one)
	check()
	s.Remove(2)
	check()
	s.Remove(1)
	check()
}

func TestDuplicateAddIsNotRefused(t *testing.T) {
	s := newTestStore(t, storage.NewMemory())
	one, _ := s.Catalog().Lookup(1)
	s.Add(one)
	s.Add(one)
	require.Equal(t, []int{1, 1}, placedIDs(s))

	s.Update(1, WidgetPatch{Label: helpers.Ptr("First")})
	require.Equal(t, "First", s.Placed().Get()[0].Label)
	require.Equal(t, "Subscribers", s.Placed().Get()[1].Label)
}

func TestAddCopiesWidget(t *testing.T) {
	s := newTestStore(t, storage.NewMemory())
	one, _ := s.Catalog().Lookup(1)
	s.Add(one)
	s.Update(1, WidgetPatch{Label: helpers.Ptr("Renamed")})

	kind, _ := s.Catalog().Lookup(1)
	require.Equal(t, "Subscribers", kind.Label)
}

func TestLoadRehydratesContent(t *testing.T) {
	kv := storage.NewMemory()
	require.NoError(t, kv.Set(context.Background(), PlacedKey,
		`[{"id":2,"label":"Views","backgroundColor":"#222"},{"id":7,"label":"Gone"}]`))

	s := newTestStore(t, kv)
	require.NoError(t, s.Load(context.Background()))

	placed := s.Placed().Get()
	require.Len(t, placed, 2)
	require.True(t, placed[0].HasContent())
	require.Equal(t, "views", placed[0].Content.Render(10, 1))
	require.Equal(t, "#222", helpers.Value(placed[0].BackgroundColor))
	require.False(t, placed[1].HasContent())
	require.Equal(t, "Gone", placed[1].Label)

	require.Equal(t, []int{1}, func() []int {
		var out []int
		for _, w := range s.Available().Get() {
			out = append(out, w.ID)
		}
		return out
	}())
}

func TestLoadMissingKeyIsEmpty(t *testing.T) {
	s := newTestStore(t, storage.NewMemory())
	require.NoError(t, s.Load(context.Background()))
	require.Empty(t, s.Placed().Get())
	require.Len(t, s.Available().Get(), 2)
}

func TestLoadRejectsCorruptLayout(t *testing.T) {
	kv := storage.NewMemory()
	require.NoError(t, kv.Set(context.Background(), PlacedKey, `{not json`))
	s := newTestStore(t, kv)
	require.Error(t, s.Load(context.Background()))
	require.Empty(t, s.Placed().Get())
}

func TestLayoutSurvivesRestart(t *testing.T) {
	kv := storage.NewMemory()
	first := newTestStore(t, kv)
	for _, w := range first.Catalog().Widgets() {
		first.Add(w)
	}
	first.MoveRight(1)
	first.Update(1, WidgetPatch{Color: helpers.Ptr("#fff"), Rows: helpers.Ptr(2)})
	first.Close()

	second := newTestStore(t, kv)
	require.NoError(t, second.Load(context.Background()))
	require.Equal(t, []int{2, 1}, placedIDs(second))
	got := second.Placed().Get()[1]
	require.True(t, got.HasContent())
	require.Equal(t, "#fff", helpers.Value(got.Color))
	require.Equal(t, 2, helpers.Value(got.Rows))
}

type failingKV struct{ storage.KV }

func (failingKV) Set(context.Context, string, string) error { return errors.New("disk full") }

func TestPersistErrorIsRecorded(t *testing.T) {
	s := newTestStore(t, failingKV{storage.NewMemory()})
	one, _ := s.Catalog().Lookup(1)
	s.Add(one)

	require.EqualError(t, s.LastPersistError(), "disk full")
	require.Equal(t, []int{1}, placedIDs(s), "in-memory layout still changes")
}

func TestRehydrate(t *testing.T) {
	s := newTestStore(t, storage.NewMemory())
	w, ok := s.Rehydrate(PersistedWidget{ID: 1, Label: "Subscribers"})
	require.True(t, ok)
	require.True(t, w.HasContent())

	w, ok = s.Rehydrate(PersistedWidget{ID: 42, Label: "Unknown"})
	require.False(t, ok)
	require.False(t, w.HasContent())
	require.Equal(t, 42, w.ID)
}
