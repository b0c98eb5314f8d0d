package dashboard

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/jask/adminconsole/internal/observable"
	"github.com/jask/adminconsole/internal/storage"
)

// PlacedKey is the storage key holding the persisted layout.
const PlacedKey = "dashboard.placed"

// Store owns the placed widgets and derives the available ones. Every change to
// Placed is written to kv by a subscription installed in NewStore.
type Store struct {
	catalog *Catalog
	kv      storage.KV
	log     *slog.Logger

	mu        sync.Mutex // serialises mutators
	placed    *observable.Value[[]Widget]
	available *observable.Value[[]Widget]

	errMu      sync.Mutex
	persistErr error

	unsubscribe []func()
}

func NewStore(catalog *Catalog, kv storage.KV, log *slog.Logger) *Store {
	if log == nil {
		log = slog.Default()
	}
	s := &Store{
		catalog:   catalog,
		kv:        kv,
		log:       log.With("component", "dashboard"),
		placed:    observable.New([]Widget{}),
		available: observable.New(catalog.Widgets()),
	}

	s.unsubscribe = append(s.unsubscribe, s.placed.Subscribe(func(placed []Widget) {
		s.available.Set(s.availableFor(placed))
	}))

	replayed := false
	s.unsubscribe = append(s.unsubscribe, s.placed.Subscribe(func(placed []Widget) {
		if !replayed {
			replayed = true
			return
		}
		s.persist(placed)
	}))
	return s
}

// Close detaches the derived state and persistence subscriptions.
func (s *Store) Close() {
	for _, fn := range s.unsubscribe {
		fn()
	}
	s.unsubscribe = nil
}

func (s *Store) Placed() *observable.Value[[]Widget]    { return s.placed }
func (s *Store) Available() *observable.Value[[]Widget] { return s.available }
func (s *Store) Catalog() *Catalog                      { return s.catalog }

// LastPersistError is the error from the most recent write, or nil.
func (s *Store) LastPersistError() error {
	s.errMu.Lock()
	defer s.errMu.Unlock()
	return s.persistErr
}

// Load replaces Placed with the persisted layout. A missing key loads an empty
// layout; entries whose id is no longer in the catalog load without content.
func (s *Store) Load(ctx context.Context) error {
	raw, ok, err := s.kv.Get(ctx, PlacedKey)
	if err != nil {
		return fmt.Errorf("load dashboard: %w", err)
	}
	var stored []PersistedWidget
	if ok && raw != "" {
		if err := json.Unmarshal([]byte(raw), &stored); err != nil {
			return fmt.Errorf("decode dashboard: %w", err)
		}
	}

	placed := make([]Widget, 0, len(stored))
	for _, p := range stored {
		w, found := s.Rehydrate(p)
		if !found {
			s.log.Warn("widget has no content", "id", p.ID, "label", p.Label)
		}
		placed = append(placed, w)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.placed.Set(placed)
	s.log.Info("dashboard loaded", "widgets", len(placed))
	return nil
}

// Rehydrate re-attaches content by catalog id. ok is false when the catalog has
// no content for p.ID; the widget is returned without content.
func (s *Store) Rehydrate(p PersistedWidget) (Widget, bool) {
	kind, found := s.catalog.Lookup(p.ID)
	if !found || kind.Content == nil {
		return p.WithContent(nil), false
	}
	return p.WithContent(kind.Content), true
}

// Add appends a copy of w. Adding a kind that is already placed is not refused.
func (s *Store) Add(w Widget) bool {
	return s.mutate(func(cur []Widget) ([]Widget, bool) {
		next := make([]Widget, 0, len(cur)+1)
		next = append(next, cur...)
		return append(next, w), true
	})
}

// Update merges p into the first placed widget with id.
func (s *Store) Update(id int, p WidgetPatch) bool {
	return s.mutate(func(cur []Widget) ([]Widget, bool) {
		i := indexOf(cur, id)
		if i < 0 {
			return cur, false
		}
		next := slices.Clone(cur)
		next[i] = p.Apply(next[i])
		return next, true
	})
}

// MoveRight swaps the widget with its right neighbour. No-op when last or absent.
// Like every mutator it reports whether the layout changed.
func (s *Store) MoveRight(id int) bool {
	return s.mutate(func(cur []Widget) ([]Widget, bool) {
		i := indexOf(cur, id)
		if i < 0 || i == len(cur)-1 {
			return cur, false
		}
		next := slices.Clone(cur)
		next[i], next[i+1] = next[i+1], next[i]
		return next, true
	})
}

// MoveLeft swaps the widget with its left neighbour. No-op when first or absent.
func (s *Store) MoveLeft(id int) bool {
	return s.mutate(func(cur []Widget) ([]Widget, bool) {
		i := indexOf(cur, id)
		if i <= 0 {
			return cur, false
		}
		next := slices.Clone(cur)
		next[i], next[i-1] = next[i-1], next[i]
		return next, true
	})
}

// Remove drops every placed widget with id.
func (s *Store) Remove(id int) bool {
	return s.mutate(func(cur []Widget) ([]Widget, bool) {
		next := slices.DeleteFunc(slices.Clone(cur), func(w Widget) bool { return w.ID == id })
		return next, len(next) != len(cur)
	})
}

// mutate applies fn and publishes its result when fn reports a change. The
// return value says whether Placed (and so storage) was written.
func (s *Store) mutate(fn func([]Widget) ([]Widget, bool)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, changed := fn(s.placed.Get())
	if changed {
		s.placed.Set(next)
	}
	return changed
}

func (s *Store) persist(placed []Widget) {
	stored := make([]PersistedWidget, len(placed))
	for i, w := range placed {
		stored[i] = w.Persisted()
	}
	data, err := json.Marshal(stored)
	if err == nil {
		err = s.kv.Set(context.Background(), PlacedKey, string(data))
	}

	s.errMu.Lock()
	s.persistErr = err
	s.errMu.Unlock()
	if err != nil {
		s.log.Error("persist dashboard", "error", err)
		return
	}
	s.log.Debug("dashboard persisted", "widgets", len(placed))
}

func (s *Store) availableFor(placed []Widget) []Widget {
	taken := make(map[int]bool, len(placed))
	for _, w := range placed {
		taken[w.ID] = true
	}
	out := make([]Widget, 0, len(s.catalog.widgets))
	for _, w := range s.catalog.widgets {
		if !taken[w.ID] {
			out = append(out, w)
		}
	}
	return out
}

func indexOf(ws []Widget, id int) int {
	return slices.IndexFunc(ws, func(w Widget) bool { return w.ID == id })
}
