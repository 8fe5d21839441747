//go:build unit

package components_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"autoservice-workflow/cmd/bootstrap/components"
	"autoservice-workflow/internal/domain/event"
	"autoservice-workflow/internal/domain/notification"
	"autoservice-workflow/internal/pkg/clock"
	"autoservice-workflow/internal/pkg/config"
	"autoservice-workflow/internal/usecase/commands"
	"autoservice-workflow/internal/usecase/notify"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"
)

// closingChannel records pushes and counts the ones that arrive after its stop hook ran.
type closingChannel struct {
	mu     sync.Mutex
	closed bool
	topics []string
	late   int
}

func (c *closingChannel) Publish(_ context.Context, topic string, _ []byte) error {
	time.Sleep(20 * time.Millisecond)
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		c.late++
		return errors.New("channel closed")
	}
	c.topics = append(c.topics, topic)
	return nil
}

func (c *closingChannel) close() {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()
}

func TestEventingModule_BusDrainsBeforeTransportsClose(t *testing.T) {
	cfg := config.NewTestConfig()
	ch := &closingChannel{}
	var publisher commands.EventPublisher

	app := fxtest.New(t,
		fx.Supply(cfg),
		fx.Provide(
			func() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) },
			func() clock.Clock { return clock.NewMockClock(time.Date(2025, 3, 12, 10, 0, 0, 0, time.UTC)) },
			func() components.PoolOpener {
				return func() (*pgxpool.Pool, error) { return nil, errors.New("memory driver never dials") }
			},
		),
		components.PersistenceModule,
		components.EventingModule,
		fx.Decorate(func(lc fx.Lifecycle, _ notify.Channel) notify.Channel {
			lc.Append(fx.Hook{OnStop: func(context.Context) error {
				ch.close()
				return nil
			}})
			return ch
		}),
		fx.Populate(&publisher),
	)
	app.RequireStart()

	centerID := uuid.New()
	for i := 0; i < 3; i++ {
		publisher.Publish(event.New(event.PaymentCompleted{
			ServiceCenterID: centerID,
			AppointmentID:   uuid.New(),
			ServiceType:     "Oil Change",
			InvoiceID:       uuid.New(),
			TransactionID:   uuid.New(),
			PaidAt:          time.Now(),
		}, time.Now()))
	}
	app.RequireStop()

	ch.mu.Lock()
	defer ch.mu.Unlock()
	assert.Zero(t, ch.late, "every queued event is pushed before the transport stops")
	assert.Equal(t, []string{
		notification.ServiceCenterNotificationTopic(centerID),
		notification.ServiceCenterNotificationTopic(centerID),
		notification.ServiceCenterNotificationTopic(centerID),
	}, ch.topics)
}
