package hrm

import (
	"context"
	"net/http"

	"github.com/go-faster/errors"
	"github.com/sirupsen/logrus"

	"github.com/iota-uz/hradmin/modules/hrm/domain/entities/employmentstatus"
	"github.com/iota-uz/hradmin/modules/hrm/domain/entities/relation"
	"github.com/iota-uz/hradmin/modules/hrm/domain/entities/tribe"
	"github.com/iota-uz/hradmin/modules/hrm/services"
	"github.com/iota-uz/hradmin/pkg/configuration"
	"github.com/iota-uz/hradmin/pkg/eventbus"
	"github.com/iota-uz/hradmin/pkg/gateway"
	"github.com/iota-uz/hradmin/pkg/logging"
	"github.com/iota-uz/hradmin/pkg/mutation"
	"github.com/iota-uz/hradmin/pkg/notify"
	"github.com/iota-uz/hradmin/pkg/spotlight"
)

type ModuleOptions struct {
	Config *configuration.Configuration
	// HTTPClient overrides the gateway transport, mainly for tests.
	HTTPClient *http.Client
	// EventBus defaults to a fresh in-process bus.
	EventBus eventbus.EventBus
	// Notifier defaults to publishing on EventBus.
	Notifier notify.Notifier
	Surfaces mutation.Surfaces
	Logger   *logrus.Entry
}

// Module owns one store per reference collection for the lifetime of the application.
type Module struct {
	Tribes             *services.TribeService
	Relations          *services.RelationService
	EmploymentStatuses *services.EmploymentStatusService

	bus       eventbus.EventBus
	spotlight *spotlight.Spotlight
}

func NewModule(opts ModuleOptions) (*Module, error) {
	if opts.Config == nil {
		return nil, errors.New("hrm: configuration is required")
	}
	if opts.Logger == nil {
		opts.Logger = logging.Nop()
	}
	log := opts.Logger.WithField("component", "hrm")
	if opts.EventBus == nil {
		opts.EventBus = eventbus.NewEventPublisher(log)
	}
	if opts.Notifier == nil {
		opts.Notifier = notify.NewBusNotifier(opts.EventBus)
	}

	client, err := gateway.NewClient(gateway.ClientOptions{
		BaseURL:         opts.Config.API.BaseURL,
		Authorization:   opts.Config.API.Authorization(),
		Timeout:         opts.Config.API.Timeout,
		RequestIDHeader: opts.Config.API.RequestIDHeader,
		HTTPClient:      opts.HTTPClient,
		Logger:          log,
	})
	if err != nil {
		return nil, errors.Wrap(err, "hrm: api client")
	}

	svcOpts := services.Options{
		PageSize: opts.Config.List.PageSize,
		Strategy: strategyFor(opts.Config.List.ReconcileStrategy),
		Notifier: opts.Notifier,
		Surfaces: opts.Surfaces,
		Logger:   log,
	}
	m := &Module{
		Tribes: services.NewReferenceService[tribe.Tribe, tribe.Draft](
			gateway.New[tribe.Tribe, tribe.Draft](client, TribesResource),
			TribeConfig(), opts.EventBus, svcOpts,
		),
		Relations: services.NewReferenceService[relation.Relation, relation.Draft](
			gateway.New[relation.Relation, relation.Draft](client, RelationsResource),
			RelationConfig(), opts.EventBus, svcOpts,
		),
		EmploymentStatuses: services.NewReferenceService[employmentstatus.EmploymentStatus, employmentstatus.Draft](
			gateway.New[employmentstatus.EmploymentStatus, employmentstatus.Draft](client, EmploymentStatusesResource),
			EmploymentStatusConfig(), opts.EventBus, svcOpts,
		),
		bus: opts.EventBus,
	}
	m.spotlight = spotlight.New(
		m.Tribes.SpotlightSource("tribe"),
		m.Relations.SpotlightSource("relation"),
		m.EmploymentStatuses.SpotlightSource("employment-status"),
	)
	return m, nil
}

func (m *Module) Name() string {
	return "hrm"
}

func (m *Module) EventBus() eventbus.EventBus {
	return m.bus
}

// LoadAll fetches every collection, stopping at the first failure.
func (m *Module) LoadAll(ctx context.Context) error {
	if err := m.Tribes.Load(ctx, nil); err != nil {
		return errors.Wrap(err, "load tribes")
	}
	if err := m.Relations.Load(ctx, nil); err != nil {
		return errors.Wrap(err, "load relations")
	}
	if err := m.EmploymentStatuses.Load(ctx, nil); err != nil {
		return errors.Wrap(err, "load employment statuses")
	}
	return nil
}

// Find runs a spotlight search over the cached collections.
func (m *Module) Find(query string, limit int) []spotlight.Item {
	return m.spotlight.Find(query, limit)
}

func strategyFor(name string) mutation.Strategy {
	if name == configuration.ReconcileLocal {
		return mutation.ReconcileLocal
	}
	return mutation.ReconcileRefetch
}
