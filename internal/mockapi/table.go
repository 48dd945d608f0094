package mockapi

import (
	"strconv"
	"sync"

	"github.com/iota-uz/hradmin/pkg/entity"
)

// Table is an in-memory collection keyed by a sequential id.
type Table[T entity.Entity] struct {
	mu   sync.RWMutex
	rows []T
	seq  int
}

func NewTable[T entity.Entity]() *Table[T] {
	return &Table[T]{}
}

func (t *Table[T]) List() []T {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]T, len(t.rows))
	copy(out, t.rows)
	return out
}

func (t *Table[T]) Get(id entity.ID) (T, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if i := t.index(id); i >= 0 {
		return t.rows[i], true
	}
	var zero T
	return zero, false
}

// Insert assigns the next id and stores the row built for it. A non-nil error from build
// aborts the insert without consuming an id.
func (t *Table[T]) Insert(build func(id entity.ID) (T, error)) (T, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	row, err := build(entity.ID(strconv.Itoa(t.seq + 1)))
	if err != nil {
		return row, err
	}
	t.seq++
	t.rows = append(t.rows, row)
	return row, nil
}

// Replace swaps the row with the given id. The bool is false when no such row exists.
func (t *Table[T]) Replace(id entity.ID, build func(current T) (T, error)) (T, bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	i := t.index(id)
	if i < 0 {
		var zero T
		return zero, false, nil
	}
	row, err := build(t.rows[i])
	if err != nil {
		return row, true, err
	}
	t.rows[i] = row
	return row, true, nil
}

func (t *Table[T]) Delete(id entity.ID) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	i := t.index(id)
	if i < 0 {
		return false
	}
	t.rows = append(t.rows[:i], t.rows[i+1:]...)
	return true
}

// any reports whether some row other than except satisfies pred. Callers must hold the lock.
func (t *Table[T]) any(except entity.ID, pred func(T) bool) bool {
	for _, row := range t.rows {
		if row.EntityID() != except && pred(row) {
			return true
		}
	}
	return false
}

func (t *Table[T]) index(id entity.ID) int {
	for i, row := range t.rows {
		if row.EntityID() == id {
			return i
		}
	}
	return -1
}
