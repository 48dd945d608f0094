package listview

// View is the per-screen collection view state. The full collection lives in the entity
// store and is passed in; everything derived from it is recomputed on demand.
type View[T any] struct {
	Filter     Filter[T]
	Predicates Predicates
	Pager
}

func NewView[T any](filter Filter[T], pageSize int) *View[T] {
	return &View[T]{
		Filter:     filter,
		Predicates: filter.NewPredicates(),
		Pager:      NewPager(pageSize),
	}
}

// Window is one rendered page of a filtered collection.
type Window[T any] struct {
	Items     []T `json:"items" yaml:"items"`
	Page      int `json:"page" yaml:"page"`
	PageSize  int `json:"page_size" yaml:"page_size"`
	PageCount int `json:"page_count" yaml:"page_count"`
	Filtered  int `json:"filtered" yaml:"filtered"`
	Total     int `json:"total" yaml:"total"`
}

func (v *View[T]) Filtered(items []T) []T {
	return v.Filter.Apply(items, v.Predicates)
}

func (v *View[T]) PageCount(items []T) int {
	return TotalPages(len(v.Filtered(items)), v.PageSize)
}

func (v *View[T]) Window(items []T) Window[T] {
	filtered := v.Filtered(items)
	return Window[T]{
		Items:     Paginate(filtered, v.Page, v.PageSize),
		Page:      v.Page,
		PageSize:  v.PageSize,
		PageCount: TotalPages(len(filtered), v.PageSize),
		Filtered:  len(filtered),
		Total:     len(items),
	}
}

// SetPredicate updates one filter field. The page is left alone, matching ChangePage.
func (v *View[T]) SetPredicate(key, value string) {
	v.Predicates.Set(key, value)
}

func (v *View[T]) ResetFilters() {
	v.Predicates.Reset()
}

// Clamp keeps the current page valid for the filtered size of items.
func (v *View[T]) Clamp(items []T) {
	v.Pager.Clamp(len(v.Filtered(items)))
}
