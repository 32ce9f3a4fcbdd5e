package repository

// PaginationOptions represents a caller's request for a page window.
// I keep it intentionally small; filtering and sorting belong to the
// backend, not to this shape. A zero PageSize means "unset" and leaves
// the windowing choice to the backend.
type PaginationOptions struct {
	PageNumber int
	PageSize   int
}

// Normalize clamps the options into usable values: page numbers start at 1
// and a negative size degrades to unset. No other validation happens here;
// enforcement is the backend's responsibility.
func (o PaginationOptions) Normalize() PaginationOptions {
	if o.PageNumber < 1 {
		o.PageNumber = 1
	}
	if o.PageSize < 0 {
		o.PageSize = 0
	}
	return o
}

// Offset returns the zero-based index of the first item of the requested
// window, i.e. (pageNumber-1)*pageSize over the backend's total order.
func (o PaginationOptions) Offset() int {
	n := o.Normalize()
	return (n.PageNumber - 1) * n.PageSize
}

// PaginatedContent carries one page's slice of an entity collection plus
// metadata about the whole collection. I return the totals so clients can
// render pagination without an extra round trip.
type PaginatedContent[T any] struct {
	TotalItems  int64
	TotalPages  int
	Content     []T
	CurrentPage int
}

// NewPaginatedContent builds the envelope for a page slice, computing
// TotalPages as ceil(totalItems/pageSize) when a size is known and 1
// otherwise. With nil options or an unset page size there is only one
// page, so CurrentPage is 1 regardless of the requested page number.
func NewPaginatedContent[T any](content []T, totalItems int64, opts *PaginationOptions) PaginatedContent[T] {
	page := 1
	size := 0
	if opts != nil {
		n := opts.Normalize()
		page = n.PageNumber
		size = n.PageSize
	}
	if size == 0 {
		page = 1
	}
	return PaginatedContent[T]{
		TotalItems:  totalItems,
		TotalPages:  TotalPages(totalItems, size),
		Content:     content,
		CurrentPage: page,
	}
}

// TotalPages computes ceil(totalItems/pageSize) for a known page size.
// An unset size means the whole set fits one page.
func TotalPages(totalItems int64, pageSize int) int {
	if pageSize <= 0 {
		return 1
	}
	return int((totalItems + int64(pageSize) - 1) / int64(pageSize))
}
