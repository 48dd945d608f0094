package store

import (
	"context"
	"net/url"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/iota-uz/hradmin/pkg/entity"
	"github.com/iota-uz/hradmin/pkg/logging"
)

// Lister is the part of the remote gateway the store needs to refresh itself.
type Lister[T entity.Entity] interface {
	List(ctx context.Context, query url.Values) ([]T, error)
}

type Options struct {
	Logger *logrus.Entry
}

func (o *Options) setDefaults() {
	if o.Logger == nil {
		o.Logger = logging.Nop()
	}
}

// Store holds the collection for one entity type. It is safe for concurrent use; every
// transition goes through Reduce under the store's lock. Subscribers see transitions in the
// order they were applied and must not call Dispatch themselves.
type Store[T entity.Entity] struct {
	lister Lister[T]
	log    *logrus.Entry

	// delivery orders subscriber callbacks; it is always taken before mu.
	delivery sync.Mutex

	mu        sync.Mutex
	state     State[T]
	lastQuery url.Values
	nextID    uint64
	subs      map[uint64]func(State[T])
}

func New[T entity.Entity](lister Lister[T], opts Options) *Store[T] {
	opts.setDefaults()
	return &Store[T]{
		lister: lister,
		log:    opts.Logger,
		subs:   map[uint64]func(State[T]){},
	}
}

// State returns a snapshot. Callers must treat Items as read-only.
func (s *Store[T]) State() State[T] {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Store[T]) Items() []T {
	return s.State().Items
}

// Dispatch applies action and notifies subscribers with the resulting state.
func (s *Store[T]) Dispatch(action Action) State[T] {
	s.delivery.Lock()
	defer s.delivery.Unlock()

	s.mu.Lock()
	s.state = Reduce(s.state, action)
	next := s.state
	subs := make([]func(State[T]), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	s.mu.Unlock()

	s.log.WithFields(logrus.Fields{
		"action": action.Type(),
		"status": next.Status.String(),
		"items":  len(next.Items),
	}).Debug("store transition")

	for _, fn := range subs {
		fn(next)
	}
	return next
}

// Subscribe registers fn to observe every state change.
func (s *Store[T]) Subscribe(fn func(State[T])) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	id := s.nextID
	s.subs[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs, id)
	}
}

// FetchAll replaces Items with the server's current collection. A response that arrives
// after a newer fetch or a successful mutation is discarded.
func (s *Store[T]) FetchAll(ctx context.Context, query url.Values) error {
	s.mu.Lock()
	s.lastQuery = query
	s.mu.Unlock()

	started := s.Dispatch(FetchStarted{})
	gen := started.Generation

	items, err := s.lister.List(ctx, query)
	if err != nil {
		after := s.Dispatch(FetchFailed{Generation: gen, Err: err})
		if after.Generation != gen {
			s.log.WithField("generation", gen).Debug("discarding stale fetch failure")
		}
		return err
	}
	after := s.Dispatch(FetchSucceeded[T]{Generation: gen, Items: items})
	if after.Generation != gen {
		s.log.WithField("generation", gen).Debug("discarding stale fetch result")
	}
	return nil
}

// Refresh repeats FetchAll with the query of the most recent fetch.
func (s *Store[T]) Refresh(ctx context.Context) error {
	s.mu.Lock()
	query := s.lastQuery
	s.mu.Unlock()
	return s.FetchAll(ctx, query)
}
