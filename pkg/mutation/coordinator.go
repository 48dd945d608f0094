package mutation

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/iota-uz/hradmin/pkg/entity"
	"github.com/iota-uz/hradmin/pkg/logging"
	"github.com/iota-uz/hradmin/pkg/notify"
	"github.com/iota-uz/hradmin/pkg/serrors"
	"github.com/iota-uz/hradmin/pkg/store"
)

type Phase int

const (
	PhaseIdle Phase = iota
	PhaseSubmitting
	PhaseSuccess
	PhaseFailed
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseSubmitting:
		return "submitting"
	case PhaseSuccess:
		return "success"
	case PhaseFailed:
		return "failed"
	default:
		return "unknown"
	}
}

type Op string

const (
	OpCreate Op = "create"
	OpUpdate Op = "update"
	OpDelete Op = "delete"
)

// Strategy selects how the store is brought back in sync after a successful mutation.
type Strategy int

const (
	// ReconcileRefetch reloads the whole collection.
	ReconcileRefetch Strategy = iota
	// ReconcileLocal patches the cached collection with the server's response.
	ReconcileLocal
)

// Draft is a create/update payload that can validate itself before submission.
type Draft interface {
	Validate() serrors.ValidationErrors
}

// Remote is the subset of the gateway the coordinator calls.
type Remote[T entity.Entity, D Draft] interface {
	Create(ctx context.Context, draft D) (T, error)
	Update(ctx context.Context, id entity.ID, draft D) (T, error)
	Delete(ctx context.Context, id entity.ID) error
}

// Surfaces is the modal/dialog host. Implementations must tolerate closing a surface that
// is not open.
type Surfaces interface {
	CloseForm()
	CloseConfirm()
}

type noSurfaces struct{}

func (noSurfaces) CloseForm()    {}
func (noSurfaces) CloseConfirm() {}

// Messages renders the notification text for one entity type.
type Messages struct {
	// Singular is the human name of the entity, e.g. "Tribe".
	Singular string
}

func (m Messages) success(op Op) notify.Notification {
	return notify.Notification{
		Title:       fmt.Sprintf("%s %sd", m.Singular, op),
		Description: fmt.Sprintf("The %s was %sd successfully.", lower(m.Singular), op),
		Variant:     notify.VariantSuccess,
	}
}

func (m Messages) failure(op Op, err error) notify.Notification {
	return notify.Notification{
		Title:       fmt.Sprintf("Failed to %s %s", op, lower(m.Singular)),
		Description: err.Error(),
		Variant:     notify.VariantDestructive,
	}
}

func (m Messages) invalid(op Op) notify.Notification {
	return notify.Notification{
		Title:       fmt.Sprintf("Failed to %s %s", op, lower(m.Singular)),
		Description: "Please correct the highlighted fields.",
		Variant:     notify.VariantDestructive,
	}
}

// Result is the terminal state of one submission.
type Result[T entity.Entity] struct {
	Op    Op
	Phase Phase
	// Entity is the server's copy after a successful create or update.
	Entity T
	// FieldErrors is set when local validation rejected the draft.
	FieldErrors serrors.ValidationErrors
	// Err is the remote failure, already reported through the notifier.
	Err error
}

func (r Result[T]) OK() bool { return r.Phase == PhaseSuccess }

type Options struct {
	Strategy Strategy
	Messages Messages
	Surfaces Surfaces
	Notifier notify.Notifier
	// OnPhase observes every phase change, e.g. to show a spinner while submitting.
	OnPhase func(op Op, phase Phase)
	// AfterReconcile runs after the store has been reconciled following a success.
	AfterReconcile func(ctx context.Context)
	Logger         *logrus.Entry
}

func (o *Options) setDefaults() {
	if o.Surfaces == nil {
		o.Surfaces = noSurfaces{}
	}
	if o.Logger == nil {
		o.Logger = logging.Nop()
	}
	if o.Notifier == nil {
		o.Notifier = notify.NewLogNotifier(o.Logger)
	}
	if o.Messages.Singular == "" {
		o.Messages.Singular = "Item"
	}
}

// Coordinator sequences create/update/delete calls against the remote gateway and
// reconciles the entity store. Operations are independent; nothing orders concurrent
// submissions against each other.
type Coordinator[T entity.Entity, D Draft] struct {
	remote Remote[T, D]
	store  *store.Store[T]
	opts   Options
}

func New[T entity.Entity, D Draft](remote Remote[T, D], st *store.Store[T], opts Options) *Coordinator[T, D] {
	opts.setDefaults()
	return &Coordinator[T, D]{remote: remote, store: st, opts: opts}
}

func (c *Coordinator[T, D]) SubmitCreate(ctx context.Context, draft D) Result[T] {
	return c.submitDraft(ctx, OpCreate, draft, func() (T, error) {
		return c.remote.Create(ctx, draft)
	})
}

func (c *Coordinator[T, D]) SubmitUpdate(ctx context.Context, id entity.ID, draft D) Result[T] {
	return c.submitDraft(ctx, OpUpdate, draft, func() (T, error) {
		return c.remote.Update(ctx, id, draft)
	})
}

func (c *Coordinator[T, D]) submitDraft(ctx context.Context, op Op, draft D, send func() (T, error)) Result[T] {
	res := Result[T]{Op: op, Phase: PhaseIdle}
	c.phase(op, PhaseSubmitting)

	if errs := draft.Validate(); len(errs) > 0 {
		res.Phase = PhaseFailed
		res.FieldErrors = errs
		c.phase(op, PhaseFailed)
		c.opts.Notifier.Notify(ctx, c.opts.Messages.invalid(op))
		return res
	}

	c.store.Dispatch(store.MutationStarted{Op: string(op)})
	saved, err := send()
	if err != nil {
		c.store.Dispatch(store.MutationFailed{Op: string(op), Err: err})
		c.opts.Logger.WithError(err).WithField("op", op).Debug("mutation failed")
		res.Phase = PhaseFailed
		res.Err = err
		c.phase(op, PhaseFailed)
		c.opts.Notifier.Notify(ctx, c.opts.Messages.failure(op, err))
		return res
	}
	c.store.Dispatch(store.MutationSucceeded{Op: string(op)})

	res.Phase = PhaseSuccess
	res.Entity = saved
	c.opts.Surfaces.CloseForm()
	c.opts.Notifier.Notify(ctx, c.opts.Messages.success(op))
	c.reconcile(ctx, func() {
		if saved.EntityID().IsZero() {
			c.refetch(ctx)
			return
		}
		c.store.Dispatch(store.ItemUpserted[T]{Item: saved})
	})
	c.phase(op, PhaseSuccess)
	return res
}

func (c *Coordinator[T, D]) SubmitDelete(ctx context.Context, id entity.ID) Result[T] {
	res := Result[T]{Op: OpDelete, Phase: PhaseIdle}
	c.phase(OpDelete, PhaseSubmitting)
	defer c.opts.Surfaces.CloseConfirm()

	c.store.Dispatch(store.MutationStarted{Op: string(OpDelete)})
	if err := c.remote.Delete(ctx, id); err != nil {
		c.store.Dispatch(store.MutationFailed{Op: string(OpDelete), Err: err})
		c.opts.Logger.WithError(err).WithField("id", id).Debug("delete failed")
		res.Phase = PhaseFailed
		res.Err = err
		c.phase(OpDelete, PhaseFailed)
		c.opts.Notifier.Notify(ctx, c.opts.Messages.failure(OpDelete, err))
		return res
	}
	c.store.Dispatch(store.MutationSucceeded{Op: string(OpDelete)})

	res.Phase = PhaseSuccess
	c.opts.Notifier.Notify(ctx, c.opts.Messages.success(OpDelete))
	c.reconcile(ctx, func() {
		c.store.Dispatch(store.ItemRemoved{ID: id})
	})
	c.phase(OpDelete, PhaseSuccess)
	return res
}

func (c *Coordinator[T, D]) reconcile(ctx context.Context, local func()) {
	switch c.opts.Strategy {
	case ReconcileLocal:
		local()
	default:
		c.refetch(ctx)
	}
	if c.opts.AfterReconcile != nil {
		c.opts.AfterReconcile(ctx)
	}
}

// refetch errors are recorded in the store's state; the mutation itself already succeeded.
func (c *Coordinator[T, D]) refetch(ctx context.Context) {
	if err := c.store.Refresh(ctx); err != nil {
		c.opts.Logger.WithError(err).Debug("refetch after mutation failed")
	}
}

func (c *Coordinator[T, D]) phase(op Op, p Phase) {
	if c.opts.OnPhase != nil {
		c.opts.OnPhase(op, p)
	}
}

func lower(s string) string {
	return cases.Lower(language.Und).String(s)
}
