package listview

const DefaultPageSize = 50

// Paginate returns the page-th window of size pageSize (pages start at 1). Out-of-range
// input yields an empty window.
func Paginate[T any](items []T, page, pageSize int) []T {
	if page < 1 || pageSize <= 0 || len(items) == 0 {
		return []T{}
	}
	// Compare page indexes before multiplying so huge pages cannot wrap around.
	if page-1 > (len(items)-1)/pageSize {
		return []T{}
	}
	start := (page - 1) * pageSize
	end := len(items)
	if pageSize < end-start {
		end = start + pageSize
	}
	return items[start:end:end]
}

func TotalPages(total, pageSize int) int {
	if total <= 0 || pageSize <= 0 {
		return 0
	}
	return (total + pageSize - 1) / pageSize
}

type Pager struct {
	Page     int `json:"page"`
	PageSize int `json:"page_size"`
}

func NewPager(pageSize int) Pager {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return Pager{Page: 1, PageSize: pageSize}
}

// ChangePage sets the page without validation.
func (p *Pager) ChangePage(page int) {
	p.Page = page
}

// ChangePageSize sets the page size and always returns to the first page.
func (p *Pager) ChangePageSize(pageSize int) {
	p.PageSize = pageSize
	p.Page = 1
}

// Clamp pulls Page back inside [1, TotalPages(total)] after the collection shrinks.
func (p *Pager) Clamp(total int) {
	last := TotalPages(total, p.PageSize)
	if last < 1 {
		last = 1
	}
	if p.Page > last {
		p.Page = last
	}
	if p.Page < 1 {
		p.Page = 1
	}
}
