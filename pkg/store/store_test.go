package store

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iota-uz/hradmin/pkg/entity"
)

type item struct {
	ID   entity.ID
	Name string
}

func (i item) EntityID() entity.ID { return i.ID }

type stubLister struct {
	items []item
	err   error
	calls int
	query url.Values
}

func (s *stubLister) List(ctx context.Context, query url.Values) ([]item, error) {
	s.calls++
	s.query = query
	if s.err != nil {
		return nil, s.err
	}
	return s.items, nil
}

// gatedLister blocks each List call until the test answers that specific call.
type gatedLister struct {
	calls chan chan []item
}

func newGatedLister() *gatedLister {
	return &gatedLister{calls: make(chan chan []item)}
}

func (g *gatedLister) List(ctx context.Context, query url.Values) ([]item, error) {
	answer := make(chan []item)
	g.calls <- answer
	return <-answer, nil
}

func TestStore_FetchAllReplacesItems(t *testing.T) {
	lister := &stubLister{items: []item{{ID: "1", Name: "Alpha"}}}
	s := New[item](lister, Options{})
	s.Dispatch(ItemUpserted[item]{Item: item{ID: "9", Name: "stale"}})

	q := url.Values{"q": {"x"}}
	require.NoError(t, s.FetchAll(context.Background(), q))

	st := s.State()
	assert.Equal(t, StatusIdle, st.Status)
	assert.NoError(t, st.LastError)
	assert.Equal(t, []item{{ID: "1", Name: "Alpha"}}, st.Items, "items are replaced, not merged")
	assert.Equal(t, q, lister.query)
}

func TestStore_FetchAllFailureKeepsItems(t *testing.T) {
	lister := &stubLister{items: []item{{ID: "1"}, {ID: "2"}}}
	s := New[item](lister, Options{})
	require.NoError(t, s.FetchAll(context.Background(), nil))

	boom := errors.New("connection refused")
	lister.err = boom
	err := s.FetchAll(context.Background(), nil)

	require.ErrorIs(t, err, boom)
	st := s.State()
	assert.Equal(t, StatusError, st.Status)
	assert.Equal(t, boom, st.LastError)
	assert.Equal(t, []item{{ID: "1"}, {ID: "2"}}, st.Items)

	lister.err = nil
	require.NoError(t, s.FetchAll(context.Background(), nil))
	assert.NoError(t, s.State().LastError, "a new fetch clears the previous error")
}

func TestStore_FetchStartedMarksLoading(t *testing.T) {
	s := New[item](&stubLister{}, Options{})
	var seen []Status
	unsubscribe := s.Subscribe(func(st State[item]) { seen = append(seen, st.Status) })

	require.NoError(t, s.FetchAll(context.Background(), nil))
	unsubscribe()
	require.NoError(t, s.FetchAll(context.Background(), nil))

	assert.Equal(t, []Status{StatusLoading, StatusIdle}, seen)
}

func TestStore_MutationLifecycleLeavesItems(t *testing.T) {
	s := New[item](&stubLister{}, Options{})
	s.Dispatch(ItemUpserted[item]{Item: item{ID: "1"}})

	st := s.Dispatch(MutationStarted{Op: "delete"})
	assert.Equal(t, StatusLoading, st.Status)

	boom := errors.New("boom")
	st = s.Dispatch(MutationFailed{Op: "delete", Err: boom})
	assert.Equal(t, StatusError, st.Status)
	assert.Equal(t, boom, st.LastError)

	st = s.Dispatch(MutationSucceeded{Op: "delete"})
	assert.Equal(t, StatusIdle, st.Status)
	assert.Equal(t, []item{{ID: "1"}}, st.Items)
}

func TestReduce_LocalPatch(t *testing.T) {
	s := State[item]{Items: []item{{ID: "1", Name: "a"}, {ID: "2", Name: "b"}, {ID: "3", Name: "c"}}}
	before := s.Items

	s = Reduce(s, ItemRemoved{ID: "2"})
	assert.Equal(t, []item{{ID: "1", Name: "a"}, {ID: "3", Name: "c"}}, s.Items)
	assert.Equal(t, item{ID: "2", Name: "b"}, before[1], "reducer never edits the previous slice")

	s = Reduce(s, ItemUpserted[item]{Item: item{ID: "3", Name: "C"}})
	assert.Equal(t, []item{{ID: "1", Name: "a"}, {ID: "3", Name: "C"}}, s.Items)

	s = Reduce(s, ItemUpserted[item]{Item: item{ID: "4", Name: "d"}})
	assert.Equal(t, []item{{ID: "1", Name: "a"}, {ID: "3", Name: "C"}, {ID: "4", Name: "d"}}, s.Items)

	s = Reduce(s, ItemRemoved{ID: "missing"})
	assert.Len(t, s.Items, 3)
}

func TestReduce_IgnoresStaleFetch(t *testing.T) {
	s := Reduce(State[item]{}, FetchStarted{})
	first := s.Generation
	s = Reduce(s, FetchStarted{})

	s = Reduce(s, FetchSucceeded[item]{Generation: first, Items: []item{{ID: "old"}}})
	assert.Empty(t, s.Items)
	assert.Equal(t, StatusLoading, s.Status)

	s = Reduce(s, FetchFailed{Generation: first, Err: errors.New("late")})
	assert.Equal(t, StatusLoading, s.Status)
	assert.NoError(t, s.LastError)
}

func TestStore_StaleFetchDoesNotResurrectDeletedItem(t *testing.T) {
	lister := newGatedLister()
	s := New[item](lister, Options{})
	s.Dispatch(ItemUpserted[item]{Item: item{ID: "1"}})
	s.Dispatch(ItemUpserted[item]{Item: item{ID: "2"}})

	// A fetch issued before the delete is still in flight.
	done := make(chan error, 1)
	go func() { done <- s.FetchAll(context.Background(), nil) }()
	inFlight := <-lister.calls

	// Delete succeeds and is reconciled locally.
	s.Dispatch(MutationStarted{Op: "delete"})
	s.Dispatch(MutationSucceeded{Op: "delete"})
	s.Dispatch(ItemRemoved{ID: "2"})

	// The old response, which still contains the deleted item, lands last.
	inFlight <- []item{{ID: "1"}, {ID: "2"}}
	require.NoError(t, <-done)

	st := s.State()
	assert.Equal(t, []item{{ID: "1"}}, st.Items)
	assert.Equal(t, StatusIdle, st.Status)
}

func TestStore_RefetchSequencedAfterDeleteWins(t *testing.T) {
	lister := newGatedLister()
	s := New[item](lister, Options{})

	staleDone := make(chan error, 1)
	go func() { staleDone <- s.FetchAll(context.Background(), nil) }()
	staleCall := <-lister.calls

	s.Dispatch(MutationStarted{Op: "delete"})
	s.Dispatch(MutationSucceeded{Op: "delete"})

	freshDone := make(chan error, 1)
	go func() { freshDone <- s.FetchAll(context.Background(), nil) }()
	freshCall := <-lister.calls

	// The refetch answers first, then the stale response arrives.
	freshCall <- []item{{ID: "1"}}
	require.NoError(t, <-freshDone)
	staleCall <- []item{{ID: "1"}, {ID: "2"}}
	require.NoError(t, <-staleDone)

	assert.Equal(t, []item{{ID: "1"}}, s.Items())
}

func TestStore_RefreshReusesLastQuery(t *testing.T) {
	lister := &stubLister{}
	s := New[item](lister, Options{})
	q := url.Values{"status": {"active"}}

	require.NoError(t, s.FetchAll(context.Background(), q))
	lister.query = nil
	require.NoError(t, s.Refresh(context.Background()))

	assert.Equal(t, q, lister.query)
	assert.Equal(t, 2, lister.calls)
}

func TestStore_SubscribersSeeTransitionsInOrder(t *testing.T) {
	s := New[item](&stubLister{}, Options{})
	var seen []int
	s.Subscribe(func(st State[item]) { seen = append(seen, len(st.Items)) })

	const writers = 50
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			s.Dispatch(ItemUpserted[item]{Item: item{ID: entity.ID(fmt.Sprintf("%d", i))}})
		}(i)
	}
	wg.Wait()

	require.Len(t, seen, writers)
	for i, n := range seen {
		assert.Equal(t, i+1, n, "delivery %d saw a stale state", i)
	}
}
