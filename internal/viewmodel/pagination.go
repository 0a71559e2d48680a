package viewmodel

// DefaultPageSize is the number of records per page.
const DefaultPageSize = 5

// Pagination is the paging state of a list driven by a total count.
type Pagination struct {
	Limit       int
	CurrentPage int
	TotalCount  int
	TotalPages  int
}

// NewPagination derives paging metadata. totalPages is ceil(totalCount /
// limit), so an empty collection has zero pages. page is clamped to at least 1;
// it is not clamped to TotalPages so that a stale page can be detected.
func NewPagination(totalCount, limit, page int) Pagination {
	if limit <= 0 {
		limit = DefaultPageSize
	}
	if totalCount < 0 {
		totalCount = 0
	}
	if page < 1 {
		page = 1
	}
	return Pagination{
		Limit:       limit,
		CurrentPage: page,
		TotalCount:  totalCount,
		TotalPages:  (totalCount + limit - 1) / limit,
	}
}

// OffsetFor returns the offset of the first record on page.
func OffsetFor(page, limit int) int {
	if page < 1 {
		page = 1
	}
	return (page - 1) * limit
}

// Offset of the current page.
func (p Pagination) Offset() int {
	return OffsetFor(p.CurrentPage, p.Limit)
}

// PageNumbers is 1..TotalPages, or empty when there are no pages.
func (p Pagination) PageNumbers() []int {
	nums := make([]int, p.TotalPages)
	for i := range nums {
		nums[i] = i + 1
	}
	return nums
}

// HasPages reports whether a paginator should be rendered at all.
func (p Pagination) HasPages() bool {
	return p.TotalPages > 0
}

// PastEnd reports whether the current page is beyond the last page of a
// non-empty collection.
func (p Pagination) PastEnd() bool {
	return p.TotalPages > 0 && p.CurrentPage > p.TotalPages
}

// LastPage is TotalPages, or 1 for an empty collection.
func (p Pagination) LastPage() int {
	if p.TotalPages == 0 {
		return 1
	}
	return p.TotalPages
}

// Slice returns the window of items belonging to the current page.
func Slice[T any](items []T, p Pagination) []T {
	start := p.Offset()
	if start >= len(items) {
		return []T{}
	}
	end := start + p.Limit
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}
