package pagination

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

type Pagination struct {
	Page     int `form:"page,default=1"`
	PageSize int `form:"page_size,default=20"`
}

type PageInfo struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalCount int64 `json:"total_count"`
	HasMore    bool  `json:"has_more"`
}

// Clamp normalizes out-of-range values: page is floored at 1, page_size is
// forced into [1, MaxPageSize] with DefaultPageSize for zero/negative input.
func (p Pagination) Clamp() Pagination {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize <= 0 {
		p.PageSize = DefaultPageSize
	}
	if p.PageSize > MaxPageSize {
		p.PageSize = MaxPageSize
	}
	return p
}

func (p Pagination) Offset() int {
	p = p.Clamp()
	return (p.Page - 1) * p.PageSize
}

func (p Pagination) Limit() int {
	return p.Clamp().PageSize
}

// BuildPageInfo derives paging metadata from a total row count.
func BuildPageInfo(p Pagination, total int64) PageInfo {
	p = p.Clamp()
	return PageInfo{
		Page:       p.Page,
		PageSize:   p.PageSize,
		TotalCount: total,
		HasMore:    int64(p.Page*p.PageSize) < total,
	}
}

// Paginate slices an in-memory collection with the same clamping rules the
// repositories apply to queries.
func Paginate[T any](items []T, p Pagination) []T {
	p = p.Clamp()
	start := p.Offset()
	if start >= len(items) {
		return nil
	}
	end := start + p.PageSize
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}
