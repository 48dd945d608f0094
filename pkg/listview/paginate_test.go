package listview

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ints(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}

func TestPaginate_WindowBounds(t *testing.T) {
	items := ints(7)

	assert.Equal(t, []int{0, 1, 2}, Paginate(items, 1, 3))
	assert.Equal(t, []int{3, 4, 5}, Paginate(items, 2, 3))
	assert.Equal(t, []int{6}, Paginate(items, 3, 3))
	assert.Empty(t, Paginate(items, 4, 3))
	assert.Empty(t, Paginate(items, 0, 3))
	assert.Empty(t, Paginate(items, -2, 3))
	assert.Empty(t, Paginate(items, 1, 0))
	assert.Empty(t, Paginate([]int{}, 1, 50))
}

func TestPaginate_HugePageIsEmpty(t *testing.T) {
	items := ints(10)

	assert.Empty(t, Paginate(items, (1<<62)+1, 4))
	assert.Empty(t, Paginate(items, math.MaxInt, 2))
	assert.Equal(t, items, Paginate(items, 1, math.MaxInt))
	assert.Empty(t, Paginate(items, 2, math.MaxInt))
}

func TestPaginate_WindowsPartitionItems(t *testing.T) {
	for n := 0; n <= 60; n++ {
		items := ints(n)
		for pageSize := 1; pageSize <= 12; pageSize++ {
			sum := 0
			var seen []int
			for page := 1; page <= TotalPages(n, pageSize)+1; page++ {
				w := Paginate(items, page, pageSize)
				require.LessOrEqual(t, len(w), pageSize)
				sum += len(w)
				seen = append(seen, w...)
			}
			require.Equal(t, n, sum, "n=%d pageSize=%d", n, pageSize)
			if n > 0 {
				require.Equal(t, items, seen)
			}
		}
	}
}

func TestPaginate_WindowDoesNotAliasTail(t *testing.T) {
	items := ints(6)
	w := Paginate(items, 1, 3)
	w = append(w, 99)
	assert.Equal(t, 3, items[3], "appending to a window must not overwrite the next page")
	assert.Len(t, w, 4)
}

func TestTotalPages(t *testing.T) {
	assert.Equal(t, 0, TotalPages(0, 50))
	assert.Equal(t, 1, TotalPages(1, 50))
	assert.Equal(t, 1, TotalPages(50, 50))
	assert.Equal(t, 2, TotalPages(51, 50))
	assert.Equal(t, 3, TotalPages(101, 50))
	assert.Equal(t, 0, TotalPages(10, 0))
}

func TestPager_ChangePageSizeResetsPage(t *testing.T) {
	p := Pager{Page: 5, PageSize: 10}

	p.ChangePageSize(20)

	assert.Equal(t, Pager{Page: 1, PageSize: 20}, p)

	p.ChangePage(2)
	p.ChangePageSize(20)
	assert.Equal(t, 1, p.Page, "resets even when the size is unchanged")
}

func TestPager_ChangePageDoesNotValidate(t *testing.T) {
	p := NewPager(0)
	require.Equal(t, DefaultPageSize, p.PageSize)

	p.ChangePage(40)
	assert.Equal(t, 40, p.Page)
	p.ChangePage(-1)
	assert.Equal(t, -1, p.Page)
}

func TestPager_Clamp(t *testing.T) {
	p := Pager{Page: 3, PageSize: 10}
	p.Clamp(21)
	assert.Equal(t, 3, p.Page)

	p.Clamp(20)
	assert.Equal(t, 2, p.Page)

	p.Clamp(0)
	assert.Equal(t, 1, p.Page)

	p.Page = 0
	p.Clamp(5)
	assert.Equal(t, 1, p.Page)
}
