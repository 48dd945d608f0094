package notify

import (
	"bytes"
	"context"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iota-uz/hradmin/pkg/eventbus"
	"github.com/iota-uz/hradmin/pkg/logging"
)

func TestBusNotifier_DeliversToWriter(t *testing.T) {
	bus := eventbus.NewEventPublisher(logging.Nop())
	out := &bytes.Buffer{}
	bus.Subscribe(Topic, WriterHandler(out))

	NewBusNotifier(bus).Notify(context.Background(), Notification{
		Title:       "Tribe created",
		Description: "ENG was saved",
		Variant:     VariantSuccess,
	})
	NewBusNotifier(bus).Notify(context.Background(), Notification{
		Title:       "Delete failed",
		Description: "not found",
		Variant:     VariantDestructive,
	})

	assert.Equal(t, "✓ Tribe created: ENG was saved\n✗ Delete failed: not found\n", out.String())
}

func TestWriterHandler_RejectsUnknownPayload(t *testing.T) {
	err := WriterHandler(&bytes.Buffer{})(context.Background(), "text")
	require.Error(t, err)
}

func TestLogNotifier(t *testing.T) {
	buf := &bytes.Buffer{}
	log := logrus.New()
	log.SetOutput(buf)
	log.SetLevel(logrus.InfoLevel)

	NewLogNotifier(logrus.NewEntry(log)).Notify(context.Background(), Notification{
		Title: "Relation updated", Description: "saved", Variant: VariantSuccess,
	})

	assert.Contains(t, buf.String(), "Relation updated")
	assert.Contains(t, buf.String(), "level=info")
}
