package eventbus

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/iota-uz/hradmin/pkg/serrors"
)

// Handler receives the payload published on a topic.
type Handler func(ctx context.Context, payload any) error

type EventBus interface {
	Publish(ctx context.Context, topic string, payload any)
	PublishE(ctx context.Context, topic string, payload any) error
	Subscribe(topic string, handler Handler) (unsubscribe func())
	Clear()
	SubscribersCount(topic string) int
}

var ErrNoSubscribers = serrors.NewError("EVENTBUS_NO_SUBSCRIBERS", "no matching subscribers", "")

type subscriber struct {
	id      uint64
	handler Handler
}

type publisherImpl struct {
	log *logrus.Entry

	mu     sync.RWMutex
	nextID uint64
	topics map[string][]subscriber
}

func NewEventPublisher(log *logrus.Entry) EventBus {
	return &publisherImpl{log: log, topics: map[string][]subscriber{}}
}

func (p *publisherImpl) handlers(topic string) []subscriber {
	p.mu.RLock()
	defer p.mu.RUnlock()
	subs := p.topics[topic]
	out := make([]subscriber, len(subs))
	copy(out, subs)
	return out
}

// Publish delivers payload to every subscriber of topic. Handler errors and panics are
// logged, never propagated.
func (p *publisherImpl) Publish(ctx context.Context, topic string, payload any) {
	if err := p.PublishE(ctx, topic, payload); err != nil && p.log != nil {
		if errors.Is(err, ErrNoSubscribers) {
			p.log.WithField("topic", topic).Warn("eventbus.Publish: no matching subscribers")
			return
		}
		p.log.WithField("topic", topic).WithError(err).Error("eventbus.Publish: handler failed")
	}
}

func (p *publisherImpl) PublishE(ctx context.Context, topic string, payload any) error {
	subs := p.handlers(topic)
	if len(subs) == 0 {
		return ErrNoSubscribers
	}
	var errs []error
	for _, sub := range subs {
		if err := invoke(ctx, sub.handler, payload); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func invoke(ctx context.Context, h Handler, payload any) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("eventbus: handler panicked: %v", r)
		}
	}()
	return h(ctx, payload)
}

func (p *publisherImpl) Subscribe(topic string, handler Handler) func() {
	if handler == nil {
		panic("handler must not be nil")
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.nextID++
	id := p.nextID
	p.topics[topic] = append(p.topics[topic], subscriber{id: id, handler: handler})

	return func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		subs := p.topics[topic]
		for i, s := range subs {
			if s.id == id {
				p.topics[topic] = append(subs[:i:i], subs[i+1:]...)
				return
			}
		}
	}
}

func (p *publisherImpl) Clear() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.topics = map[string][]subscriber{}
}

func (p *publisherImpl) SubscribersCount(topic string) int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.topics[topic])
}
