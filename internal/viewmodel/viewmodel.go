package viewmodel

import (
	"slices"

	"github.com/jonathan/job-tracker/internal/types"
)

// Mode selects how the list is sourced and paged.
type Mode int

const (
	// Local holds the full collection and pages it client-side.
	Local Mode = iota
	// Remote holds one server page; paging follows the server's totalCount.
	Remote
)

func (m Mode) String() string {
	if m == Remote {
		return "remote"
	}
	return "local"
}

// ViewModel is the single mutable list state owned by the presentation
// loop. Records are values; every accessor returns copies.
type ViewModel struct {
	mode       Mode
	source     []types.Application
	query      Query
	page       int
	limit      int
	totalCount int
}

// Snapshot captures the source state so it can be restored after a failed
// optimistic change.
type Snapshot struct {
	source     []types.Application
	page       int
	totalCount int
}

// New returns an empty ViewModel showing page 1.
func New(mode Mode, limit int) *ViewModel {
	if limit <= 0 {
		limit = DefaultPageSize
	}
	return &ViewModel{mode: mode, query: DefaultQuery(), page: 1, limit: limit, source: []types.Application{}}
}

func (vm *ViewModel) Mode() Mode       { return vm.mode }
func (vm *ViewModel) Query() Query     { return vm.query }
func (vm *ViewModel) Limit() int       { return vm.limit }
func (vm *ViewModel) CurrentPage() int { return vm.page }

// SetQuery replaces the whole filter and sort state.
func (vm *ViewModel) SetQuery(q Query) {
	vm.query = q
	vm.resetLocalPage()
}

// SetSearch changes the search text.
func (vm *ViewModel) SetSearch(s string) {
	vm.query.Search = s
	vm.resetLocalPage()
}

// SetStatusFilter restricts the list to one status; empty shows all.
func (vm *ViewModel) SetStatusFilter(s types.Status) {
	vm.query.Status = s
	vm.resetLocalPage()
}

// SortBy orders by field. Choosing the current field again flips the order;
// a new field starts ascending.
func (vm *ViewModel) SortBy(field SortField) {
	if vm.query.SortField == field {
		vm.query.SortOrder = vm.query.SortOrder.Toggle()
		return
	}
	vm.query.SortField = field
	vm.query.SortOrder = Ascending
}

// SetSort sets field and order explicitly.
func (vm *ViewModel) SetSort(field SortField, order SortOrder) {
	vm.query.SortField = field
	vm.query.SortOrder = order
}

// SetSource replaces the full collection (local mode).
func (vm *ViewModel) SetSource(apps []types.Application) {
	vm.source = slices.Clone(apps)
	if vm.source == nil {
		vm.source = []types.Application{}
	}
	vm.totalCount = len(vm.source)
}

// ApplyPage replaces the current page with a fresh server result (remote
// mode).
func (vm *ViewModel) ApplyPage(result types.PagedResult, page int) {
	vm.SetSource(result.Items)
	vm.totalCount = result.TotalCount
	if page < 1 {
		page = 1
	}
	vm.page = page
}

// SetPage moves to page. In local mode the page is clamped to the derived
// page range.
func (vm *ViewModel) SetPage(page int) {
	if page < 1 {
		page = 1
	}
	vm.page = page
	if vm.mode == Local {
		vm.page = min(vm.page, vm.Pagination().LastPage())
	}
}

// Source returns the unfiltered records held.
func (vm *ViewModel) Source() []types.Application {
	return slices.Clone(vm.source)
}

// Filtered returns all records passing the query, sorted, before paging.
func (vm *ViewModel) Filtered() []types.Application {
	return Derive(vm.source, vm.query)
}

// Visible returns the records to render: in local mode one page of the
// derived list, in remote mode the derived server page.
func (vm *ViewModel) Visible() []types.Application {
	derived := vm.Filtered()
	if vm.mode == Remote {
		return derived
	}
	return slices.Clone(Slice(derived, vm.Pagination()))
}

// Pagination returns paging metadata. Local mode counts the derived list;
// remote mode uses the server's totalCount.
func (vm *ViewModel) Pagination() Pagination {
	if vm.mode == Remote {
		return NewPagination(vm.totalCount, vm.limit, vm.page)
	}
	p := NewPagination(len(vm.Filtered()), vm.limit, vm.page)
	p.CurrentPage = min(p.CurrentPage, p.LastPage())
	return p
}

// Counts tallies the unfiltered source per status.
func (vm *ViewModel) Counts() Counts {
	return CountByStatus(vm.source)
}

// Find returns the held record with id.
func (vm *ViewModel) Find(id types.ID) (types.Application, bool) {
	for _, a := range vm.source {
		if a.ID == id {
			return a, true
		}
	}
	return types.Application{}, false
}

// Append adds a record to the local collection.
func (vm *ViewModel) Append(app types.Application) {
	vm.source = append(slices.Clone(vm.source), app)
	vm.totalCount++
}

// Replace swaps in app for the held record with the same id.
func (vm *ViewModel) Replace(app types.Application) bool {
	i := slices.IndexFunc(vm.source, func(a types.Application) bool { return a.ID == app.ID })
	if i < 0 {
		return false
	}
	next := slices.Clone(vm.source)
	next[i] = app
	vm.source = next
	return true
}

// Remove drops the held record with id.
func (vm *ViewModel) Remove(id types.ID) bool {
	i := slices.IndexFunc(vm.source, func(a types.Application) bool { return a.ID == id })
	if i < 0 {
		return false
	}
	vm.source = slices.Delete(slices.Clone(vm.source), i, i+1)
	if vm.totalCount > 0 {
		vm.totalCount--
	}
	if vm.mode == Local {
		vm.SetPage(vm.page)
	}
	return true
}

// Snapshot captures the current source.
func (vm *ViewModel) Snapshot() Snapshot {
	return Snapshot{source: slices.Clone(vm.source), page: vm.page, totalCount: vm.totalCount}
}

// Restore reinstates a Snapshot.
func (vm *ViewModel) Restore(s Snapshot) {
	vm.source = slices.Clone(s.source)
	if vm.source == nil {
		vm.source = []types.Application{}
	}
	vm.page = s.page
	vm.totalCount = s.totalCount
}

func (vm *ViewModel) resetLocalPage() {
	if vm.mode == Local {
		vm.page = 1
	}
}
