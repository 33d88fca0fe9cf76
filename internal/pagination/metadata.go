package pagination

// Meta contains metadata about a page of results.
type Meta struct {
	CurrentPage int  `json:"current_page"`
	PageSize    int  `json:"page_size,omitempty"`
	TotalPages  int  `json:"total_pages"`
	TotalItems  int  `json:"total_items,omitempty"`
	HasPrevious bool `json:"has_previous"`
	HasNext     bool `json:"has_next"`
}

// NewMeta creates page metadata from the server-reported page, total pages, page size and
// total item count. A current page below 1 is treated as 1.
func NewMeta(currentPage, totalPages, pageSize, totalItems int) Meta {
	currentPage = ClampPage(currentPage)
	if totalPages < 0 {
		totalPages = 0
	}
	return Meta{
		CurrentPage: currentPage,
		PageSize:    pageSize,
		TotalPages:  totalPages,
		TotalItems:  totalItems,
		HasPrevious: currentPage > 1,
		HasNext:     currentPage < totalPages,
	}
}

// FirstItem returns the 1-based index of the first item on the current page, or 0 when
// the page size or item count is unknown or the page is past the end.
func (m Meta) FirstItem() int {
	if m.PageSize <= 0 || m.TotalItems <= 0 {
		return 0
	}
	first := (m.CurrentPage-1)*m.PageSize + 1
	if first > m.TotalItems {
		return 0
	}
	return first
}

// LastItem returns the 1-based index of the last item on the current page, or 0.
func (m Meta) LastItem() int {
	first := m.FirstItem()
	if first == 0 {
		return 0
	}
	last := first + m.PageSize - 1
	if last > m.TotalItems {
		last = m.TotalItems
	}
	return last
}
