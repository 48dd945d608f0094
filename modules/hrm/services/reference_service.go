package services

import (
	"context"
	"io"
	"net/url"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/iota-uz/hradmin/modules/hrm/domain/entities/employmentstatus"
	"github.com/iota-uz/hradmin/modules/hrm/domain/entities/relation"
	"github.com/iota-uz/hradmin/modules/hrm/domain/entities/tribe"
	"github.com/iota-uz/hradmin/pkg/entity"
	"github.com/iota-uz/hradmin/pkg/eventbus"
	"github.com/iota-uz/hradmin/pkg/gateway"
	"github.com/iota-uz/hradmin/pkg/listview"
	"github.com/iota-uz/hradmin/pkg/logging"
	"github.com/iota-uz/hradmin/pkg/mutation"
	"github.com/iota-uz/hradmin/pkg/notify"
	"github.com/iota-uz/hradmin/pkg/spotlight"
	"github.com/iota-uz/hradmin/pkg/store"
)

// Draft is a create/update payload that knows how to trim itself.
type Draft[D any] interface {
	mutation.Draft
	Normalized() D
}

// Config is everything that differs between the reference entity screens.
type Config[T entity.Entity] struct {
	Resource gateway.Resource
	// Singular is the display name used in notifications, e.g. "Tribe".
	Singular string
	Filter   listview.Filter[T]
	Columns  []Column[T]
	// Label is the text spotlight ranks against.
	Label func(T) string
}

type Options struct {
	PageSize int
	Strategy mutation.Strategy
	Notifier notify.Notifier
	Surfaces mutation.Surfaces
	Logger   *logrus.Entry
}

// ReferenceService backs one list screen: the cached collection, the filter/pager state of
// the screen and the create/update/delete flow.
type ReferenceService[T entity.Entity, D Draft[D]] struct {
	cfg         Config[T]
	gateway     gateway.Gateway[T, D]
	store       *store.Store[T]
	coordinator *mutation.Coordinator[T, D]
	publisher   eventbus.EventBus
	log         *logrus.Entry

	mu   sync.Mutex
	view *listview.View[T]
}

type (
	TribeService            = ReferenceService[tribe.Tribe, tribe.Draft]
	RelationService         = ReferenceService[relation.Relation, relation.Draft]
	EmploymentStatusService = ReferenceService[employmentstatus.EmploymentStatus, employmentstatus.Draft]
)

func NewReferenceService[T entity.Entity, D Draft[D]](
	gw gateway.Gateway[T, D],
	cfg Config[T],
	publisher eventbus.EventBus,
	opts Options,
) *ReferenceService[T, D] {
	if opts.Logger == nil {
		opts.Logger = logging.Nop()
	}
	log := opts.Logger.WithField("resource", cfg.Resource.Name)
	s := &ReferenceService[T, D]{
		cfg:       cfg,
		gateway:   gw,
		store:     store.New[T](gw, store.Options{Logger: log}),
		publisher: publisher,
		log:       log,
		view:      listview.NewView(cfg.Filter, opts.PageSize),
	}
	s.coordinator = mutation.New[T, D](gw, s.store, mutation.Options{
		Strategy:       opts.Strategy,
		Messages:       mutation.Messages{Singular: cfg.Singular},
		Surfaces:       opts.Surfaces,
		Notifier:       opts.Notifier,
		AfterReconcile: func(context.Context) { s.clamp() },
		Logger:         log,
	})
	return s
}

func (s *ReferenceService[T, D]) Config() Config[T] {
	return s.cfg
}

func (s *ReferenceService[T, D]) Store() *store.Store[T] {
	return s.store
}

// Load replaces the cached collection with the server's.
func (s *ReferenceService[T, D]) Load(ctx context.Context, query url.Values) error {
	if err := s.store.FetchAll(ctx, query); err != nil {
		return err
	}
	s.log.WithField("count", len(s.store.Items())).Debug("collection loaded")
	s.clamp()
	return nil
}

func (s *ReferenceService[T, D]) Get(ctx context.Context, id entity.ID) (T, error) {
	return s.gateway.Get(ctx, id)
}

func (s *ReferenceService[T, D]) Items() []T {
	return s.store.Items()
}

func (s *ReferenceService[T, D]) Window() listview.Window[T] {
	items := s.store.Items()
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view.Window(items)
}

// Filtered is the whole filtered collection, ignoring the pager.
func (s *ReferenceService[T, D]) Filtered() []T {
	items := s.store.Items()
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view.Filtered(items)
}

func (s *ReferenceService[T, D]) FilterKeys() []string {
	return s.cfg.Filter.Keys()
}

func (s *ReferenceService[T, D]) SetFilter(key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.view.SetPredicate(key, value)
}

func (s *ReferenceService[T, D]) ResetFilters() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.view.ResetFilters()
}

func (s *ReferenceService[T, D]) ChangePage(page int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.view.ChangePage(page)
}

func (s *ReferenceService[T, D]) ChangePageSize(size int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.view.ChangePageSize(size)
}

func (s *ReferenceService[T, D]) Create(ctx context.Context, draft D) mutation.Result[T] {
	res := s.coordinator.SubmitCreate(ctx, draft.Normalized())
	if res.OK() {
		s.publish(ctx, "created", res.Entity)
	}
	return res
}

func (s *ReferenceService[T, D]) Update(ctx context.Context, id entity.ID, draft D) mutation.Result[T] {
	res := s.coordinator.SubmitUpdate(ctx, id, draft.Normalized())
	if res.OK() {
		s.publish(ctx, "updated", res.Entity)
	}
	return res
}

func (s *ReferenceService[T, D]) Delete(ctx context.Context, id entity.ID) mutation.Result[T] {
	res := s.coordinator.SubmitDelete(ctx, id)
	if res.OK() {
		s.publish(ctx, "deleted", id)
	}
	return res
}

// Export writes the filtered collection, not just the current page, as a spreadsheet.
func (s *ReferenceService[T, D]) Export(w io.Writer) error {
	return NewExcelExportService(s.cfg.Resource.Name, s.cfg.Columns).Export(w, s.Filtered())
}

func (s *ReferenceService[T, D]) SpotlightSource(kind string) spotlight.Source {
	return spotlight.FromEntities(kind, s.store.Items, s.cfg.Label)
}

func (s *ReferenceService[T, D]) clamp() {
	items := s.store.Items()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.view.Clamp(items)
}

func (s *ReferenceService[T, D]) publish(ctx context.Context, event string, payload any) {
	if s.publisher == nil {
		return
	}
	s.publisher.Publish(ctx, s.cfg.Resource.Name+"."+event, payload)
}
