package store

import (
	"github.com/iota-uz/hradmin/pkg/entity"
)

type Status int

const (
	StatusIdle Status = iota
	StatusLoading
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusLoading:
		return "loading"
	case StatusError:
		return "error"
	default:
		return "unknown"
	}
}

// State is the authoritative in-memory collection of one entity type.
type State[T entity.Entity] struct {
	Items     []T
	Status    Status
	LastError error

	// Generation advances on every fetch start and every successful mutation. A fetch
	// result is applied only if its generation is still current.
	Generation uint64
}

type ActionType string

const (
	ActionFetchStarted      ActionType = "fetch/started"
	ActionFetchSucceeded    ActionType = "fetch/succeeded"
	ActionFetchFailed       ActionType = "fetch/failed"
	ActionMutationStarted   ActionType = "mutation/started"
	ActionMutationSucceeded ActionType = "mutation/succeeded"
	ActionMutationFailed    ActionType = "mutation/failed"
	ActionItemRemoved       ActionType = "item/removed"
	ActionItemUpserted      ActionType = "item/upserted"
)

// Action is a tagged state transition request.
type Action interface {
	Type() ActionType
}

type FetchStarted struct{}

type FetchSucceeded[T entity.Entity] struct {
	Generation uint64
	Items      []T
}

type FetchFailed struct {
	Generation uint64
	Err        error
}

type MutationStarted struct{ Op string }

type MutationSucceeded struct{ Op string }

type MutationFailed struct {
	Op  string
	Err error
}

type ItemRemoved struct{ ID entity.ID }

type ItemUpserted[T entity.Entity] struct{ Item T }

func (FetchStarted) Type() ActionType      { return ActionFetchStarted }
func (FetchSucceeded[T]) Type() ActionType { return ActionFetchSucceeded }
func (FetchFailed) Type() ActionType       { return ActionFetchFailed }
func (MutationStarted) Type() ActionType   { return ActionMutationStarted }
func (MutationSucceeded) Type() ActionType { return ActionMutationSucceeded }
func (MutationFailed) Type() ActionType    { return ActionMutationFailed }
func (ItemRemoved) Type() ActionType       { return ActionItemRemoved }
func (ItemUpserted[T]) Type() ActionType   { return ActionItemUpserted }

// Reduce is the pure transition function of the store. Items slices are never modified in
// place, so previously returned states stay valid.
func Reduce[T entity.Entity](s State[T], action Action) State[T] {
	switch a := action.(type) {
	case FetchStarted:
		s.Generation++
		s.Status = StatusLoading
		s.LastError = nil
	case FetchSucceeded[T]:
		if a.Generation != s.Generation {
			return s
		}
		items := make([]T, len(a.Items))
		copy(items, a.Items)
		s.Items = items
		s.Status = StatusIdle
		s.LastError = nil
	case FetchFailed:
		if a.Generation != s.Generation {
			return s
		}
		s.Status = StatusError
		s.LastError = a.Err
	case MutationStarted:
		s.Status = StatusLoading
		s.LastError = nil
	case MutationSucceeded:
		s.Generation++
		s.Status = StatusIdle
		s.LastError = nil
	case MutationFailed:
		s.Status = StatusError
		s.LastError = a.Err
	case ItemRemoved:
		items := make([]T, 0, len(s.Items))
		for _, it := range s.Items {
			if it.EntityID() != a.ID {
				items = append(items, it)
			}
		}
		s.Items = items
	case ItemUpserted[T]:
		items := make([]T, 0, len(s.Items)+1)
		replaced := false
		for _, it := range s.Items {
			if it.EntityID() == a.Item.EntityID() {
				items = append(items, a.Item)
				replaced = true
				continue
			}
			items = append(items, it)
		}
		if !replaced {
			items = append(items, a.Item)
		}
		s.Items = items
	}
	return s
}
