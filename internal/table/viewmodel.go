package table

import (
	"context"
	"sync"

	"github.com/jask/adminconsole/internal/observable"
	"github.com/jask/adminconsole/internal/users"
)

// Source re-reads the full collection. *users.Client satisfies it; the rows
// arrive back through SetRows once the client publishes them.
type Source interface {
	FetchAll(ctx context.Context) (users.ListResponse, error)
}

// View is everything the table renders.
type View struct {
	Filter FilterState // committed needles
	Inputs FilterState // raw text, possibly not yet committed
	Sort     Sort
	Page     Page
	PageSize int
}

// ViewModel keeps the visible page attached to the live rows, the filter and
// the requested sort/page. Every change publishes one View.
//
// Subscribers of View must not call back into the ViewModel.
type ViewModel struct {
	source Source

	mu      sync.Mutex
	rows    []users.Record
	inputs  FilterState
	tickets map[Column]uint64
	filter  FilterState
	sort    Sort
	page    int
	size    int
	view    *observable.Value[View]
}

func NewViewModel(source Source, pageSize int) *ViewModel {
	vm := &ViewModel{
		source:  source,
		tickets: map[Column]uint64{},
		size:    pageSize,
	}
	vm.view = observable.New(vm.computeLocked())
	return vm
}

func (vm *ViewModel) View() *observable.Value[View] { return vm.view }

// SetRows replaces the row set, keeping filter, sort and page.
func (vm *ViewModel) SetRows(rows []users.Record) {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	vm.rows = rows
	vm.publishLocked()
}

// SetInput records raw filter text for c and returns a ticket. Passing the
// ticket to Commit after the debounce interval folds the text into the filter
// unless newer input arrived for c in the meantime.
func (vm *ViewModel) SetInput(c Column, text string) uint64 {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	vm.inputs = vm.inputs.With(c, text)
	vm.tickets[c]++
	vm.publishLocked()
	return vm.tickets[c]
}

// Commit reports whether ticket was still current for c.
func (vm *ViewModel) Commit(c Column, ticket uint64) bool {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	if vm.tickets[c] != ticket {
		return false
	}
	needle := vm.inputs.Get(c)
	if vm.filter.Get(c) == needle {
		return true
	}
	vm.filter = vm.filter.With(c, needle)
	vm.page = 0
	vm.publishLocked()
	return true
}

// SetFilter sets the needle for c immediately, cancelling any pending commit.
func (vm *ViewModel) SetFilter(c Column, needle string) {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	vm.inputs = vm.inputs.With(c, needle)
	vm.filter = vm.filter.With(c, needle)
	vm.tickets[c]++
	vm.page = 0
	vm.publishLocked()
}

// ClearFilters empties every input and the filter, publishing a single View.
func (vm *ViewModel) ClearFilters() {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	vm.inputs = FilterState{}
	vm.filter = FilterState{}
	for _, c := range Columns {
		vm.tickets[c]++
	}
	vm.page = 0
	vm.publishLocked()
}

// SortBy sorts ascending by c, or flips the direction if c is already the sort column.
func (vm *ViewModel) SortBy(c Column) {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	if vm.sort.Column == c {
		if vm.sort.Direction == Ascending {
			vm.sort.Direction = Descending
		} else {
			vm.sort.Direction = Ascending
		}
	} else {
		vm.sort = Sort{Column: c, Direction: Ascending}
	}
	vm.publishLocked()
}

func (vm *ViewModel) SetPage(i int) {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	vm.page = i
	vm.publishLocked()
}

func (vm *ViewModel) NextPage() {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	vm.page++
	vm.publishLocked()
}

func (vm *ViewModel) PrevPage() {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	vm.page--
	vm.publishLocked()
}

// SetSort replaces the sort outright and returns to the first page.
func (vm *ViewModel) SetSort(s Sort) {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	vm.sort = s
	vm.page = 0
	vm.publishLocked()
}

// SetPageSize changes rows per page and returns to the first page.
func (vm *ViewModel) SetPageSize(n int) {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	vm.size = n
	vm.page = 0
	vm.publishLocked()
}

// Refresh asks the source for a fresh copy of the collection.
func (vm *ViewModel) Refresh(ctx context.Context) error {
	_, err := vm.source.FetchAll(ctx)
	return err
}

func (vm *ViewModel) publishLocked() {
	vm.view.Set(vm.computeLocked())
}

func (vm *ViewModel) computeLocked() View {
	page := Window(vm.filter.Apply(vm.rows), vm.sort, vm.page, vm.size)
	vm.page = page.Index
	return View{Filter: vm.filter, Inputs: vm.inputs, Sort: vm.sort, Page: page, PageSize: vm.size}
}
