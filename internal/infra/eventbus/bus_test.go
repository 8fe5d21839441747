//go:build unit

package eventbus_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"autoservice-workflow/internal/domain/event"
	"autoservice-workflow/internal/infra/eventbus"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

func newBus(buffer, workers int) *eventbus.Bus {
	return eventbus.New(slog.New(slog.NewTextHandler(io.Discard, nil)), buffer, workers)
}

func created() event.Event {
	return event.New(event.AppointmentCreated{ServiceCenterID: uuid.New()}, now)
}

func paid() event.Event {
	return event.New(event.PaymentCompleted{AppointmentID: uuid.New(), PaidAt: now}, now)
}

type collector struct {
	mu   sync.Mutex
	seen []event.Type
}

func (c *collector) handle(_ context.Context, evt event.Event) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seen = append(c.seen, evt.Type)
	return nil
}

func (c *collector) types() []event.Type {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]event.Type(nil), c.seen...)
}

func TestBus_RoutesByType(t *testing.T) {
	ctx := context.Background()
	bus := newBus(16, 1)

	all, payments := &collector{}, &collector{}
	bus.Subscribe("all", all.handle)
	bus.Subscribe("payments", payments.handle, event.TypePaymentCompleted)
	bus.Start(ctx)

	bus.Publish(created())
	bus.Publish(paid())
	require.NoError(t, bus.Flush(ctx))

	assert.Equal(t, []event.Type{event.TypeAppointmentCreated, event.TypePaymentCompleted}, all.types())
	assert.Equal(t, []event.Type{event.TypePaymentCompleted}, payments.types())
	assert.Zero(t, bus.Dropped())
	require.NoError(t, bus.Close())
}

func TestBus_FailingSubscriberDoesNotStopOthers(t *testing.T) {
	ctx := context.Background()
	bus := newBus(16, 2)

	c := &collector{}
	bus.Subscribe("broken", func(context.Context, event.Event) error { return errors.New("smtp down") })
	bus.Subscribe("panicky", func(context.Context, event.Event) error { panic("nil map") })
	bus.Subscribe("healthy", c.handle)
	bus.Start(ctx)

	for i := 0; i < 5; i++ {
		bus.Publish(created())
	}
	require.NoError(t, bus.Flush(ctx))
	assert.Len(t, c.types(), 5)
	require.NoError(t, bus.Close())
}

func TestBus_DropsWhenFull(t *testing.T) {
	bus := newBus(2, 1)

	// not started: the queue only fills
	bus.Publish(created())
	bus.Publish(created())
	bus.Publish(created())
	assert.Equal(t, int64(1), bus.Dropped())

	require.NoError(t, bus.Close())
	require.NoError(t, bus.Flush(context.Background()), "closing an unstarted bus discards its queue")
}

func TestBus_PublishAfterClose(t *testing.T) {
	bus := newBus(4, 1)
	bus.Start(context.Background())
	require.NoError(t, bus.Close())

	bus.Publish(created())
	assert.Equal(t, int64(1), bus.Dropped())
	assert.ErrorIs(t, bus.Close(), eventbus.ErrClosed)
}

func TestBus_CloseDrainsQueue(t *testing.T) {
	bus := newBus(32, 1)
	var handled atomic.Int32
	bus.Subscribe("slow", func(context.Context, event.Event) error {
		time.Sleep(time.Millisecond)
		handled.Add(1)
		return nil
	})
	bus.Start(context.Background())

	for i := 0; i < 10; i++ {
		bus.Publish(paid())
	}
	require.NoError(t, bus.Close())
	assert.Equal(t, int32(10), handled.Load())
}

func TestBus_FlushHonoursContext(t *testing.T) {
	bus := newBus(4, 1)
	release := make(chan struct{})
	bus.Subscribe("blocked", func(context.Context, event.Event) error {
		<-release
		return nil
	})
	bus.Start(context.Background())
	bus.Publish(created())

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, bus.Flush(ctx), context.DeadlineExceeded)

	close(release)
	require.NoError(t, bus.Flush(context.Background()))
	require.NoError(t, bus.Close())
}
