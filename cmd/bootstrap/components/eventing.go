package components

import (
	"context"
	"log/slog"

	"autoservice-workflow/internal/domain/event"
	"autoservice-workflow/internal/infra/delivery"
	"autoservice-workflow/internal/infra/eventbus"
	"autoservice-workflow/internal/pkg/config"
	"autoservice-workflow/internal/pkg/errs"
	"autoservice-workflow/internal/usecase/commands"
	"autoservice-workflow/internal/usecase/notify"

	"go.uber.org/fx"
)

const (
	DeliveryDriverWebsocket = "websocket"
	DeliveryDriverKafka     = "kafka"
	DeliveryDriverLog       = "log"
)

var EventingModule = fx.Module("eventing",
	fx.Provide(
		fx.Annotate(
			NewEventBus,
			fx.As(fx.Self()),
			fx.As(new(commands.EventPublisher)),
		),
		NewHub,
		NewDeliveryChannel,
		notify.NewDispatcher,
	),
)

// NewEventBus is built after the dispatcher and everything it depends on. fx stops hooks in
// reverse order, so the bus drains before the store pool and the delivery transports close.
func NewEventBus(lc fx.Lifecycle, cfg config.Config, d *notify.Dispatcher, logger *slog.Logger) *eventbus.Bus {
	bus := eventbus.New(logger, cfg.EventBus.Buffer, cfg.EventBus.Workers)
	SubscribeDispatcher(bus, d)
	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			bus.Start(context.Background())
			return nil
		},
		OnStop: func(ctx context.Context) error {
			if err := bus.Flush(ctx); err != nil {
				logger.Warn("event bus flush interrupted", "error", err, "dropped", bus.Dropped())
			}
			return bus.Close()
		},
	})
	return bus
}

func NewHub(lc fx.Lifecycle, cfg config.Config, logger *slog.Logger) *delivery.Hub {
	hub := delivery.NewHub(logger, cfg.Delivery.AllowOrigins)
	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			hub.Close()
			return nil
		},
	})
	return hub
}

// NewDeliveryChannel selects the push transport and seals payloads when a secret is set.
func NewDeliveryChannel(lc fx.Lifecycle, cfg config.Config, hub *delivery.Hub, logger *slog.Logger) (notify.Channel, error) {
	var ch delivery.Publisher
	switch cfg.Delivery.Driver {
	case DeliveryDriverWebsocket:
		ch = hub
	case DeliveryDriverKafka:
		kc, err := delivery.NewKafkaChannel(cfg.Delivery.KafkaBrokers, cfg.Delivery.KafkaTopic, logger)
		if err != nil {
			return nil, err
		}
		lc.Append(fx.Hook{
			OnStop: func(_ context.Context) error {
				kc.Close()
				return nil
			},
		})
		ch = kc
	case DeliveryDriverLog:
		ch = delivery.NewLogChannel(logger)
	default:
		return nil, errs.Newf("unknown DELIVERY_DRIVER %q", cfg.Delivery.Driver)
	}

	if cfg.Delivery.Secret == "" {
		return ch, nil
	}
	cipher, err := delivery.NewCipher(cfg.Delivery.Secret)
	if err != nil {
		return nil, err
	}
	logger.Info("delivery payloads are sealed", "driver", cfg.Delivery.Driver)
	return delivery.NewSealedChannel(cipher, ch), nil
}

func SubscribeDispatcher(bus *eventbus.Bus, d *notify.Dispatcher) {
	bus.Subscribe("notification-dispatcher", d.Handle, event.AllTypes()...)
}
