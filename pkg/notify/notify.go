// Package notify defines the toast-style notification surface used to report the outcome
// of user actions.
package notify

import (
	"context"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/iota-uz/hradmin/pkg/eventbus"
)

// Topic is the event bus topic notifications are published on.
const Topic = "notification"

type Variant string

const (
	VariantDefault     Variant = "default"
	VariantSuccess     Variant = "success"
	VariantDestructive Variant = "destructive"
)

type Notification struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Variant     Variant `json:"variant"`
}

type Notifier interface {
	Notify(ctx context.Context, n Notification)
}

type BusNotifier struct {
	bus eventbus.EventBus
}

func NewBusNotifier(bus eventbus.EventBus) *BusNotifier {
	return &BusNotifier{bus: bus}
}

func (b *BusNotifier) Notify(ctx context.Context, n Notification) {
	b.bus.Publish(ctx, Topic, n)
}

type LogNotifier struct {
	log *logrus.Entry
}

func NewLogNotifier(log *logrus.Entry) *LogNotifier {
	return &LogNotifier{log: log}
}

func (l *LogNotifier) Notify(_ context.Context, n Notification) {
	entry := l.log.WithFields(logrus.Fields{"title": n.Title, "variant": n.Variant})
	if n.Variant == VariantDestructive {
		entry.Warn(n.Description)
		return
	}
	entry.Info(n.Description)
}

// WriterHandler returns an event bus handler that prints notifications to w.
func WriterHandler(w io.Writer) eventbus.Handler {
	return func(_ context.Context, payload any) error {
		n, ok := payload.(Notification)
		if !ok {
			return fmt.Errorf("notify: unexpected payload %T", payload)
		}
		prefix := "✓"
		if n.Variant == VariantDestructive {
			prefix = "✗"
		}
		_, err := fmt.Fprintf(w, "%s %s: %s\n", prefix, n.Title, n.Description)
		return err
	}
}
