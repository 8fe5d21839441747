package components

import (
	"autoservice-workflow/internal/handler"
	"autoservice-workflow/internal/handler/api"
	"autoservice-workflow/internal/infra/delivery"
	"autoservice-workflow/internal/pkg/config"

	"go.uber.org/fx"
)

var HandlerModule = fx.Module("handler",
	fx.Provide(
		api.NewAppointmentHandler,
		api.NewBillingHandler,
		api.NewNotificationHandler,
		NewHandlers,
	),
	fx.Invoke(handler.NewRouter),
)

func NewHandlers(
	appointments *api.AppointmentHandler,
	billing *api.BillingHandler,
	notifications *api.NotificationHandler,
	hub *delivery.Hub,
	cfg config.Config,
) handler.Handlers {
	h := handler.Handlers{
		Appointments:  appointments,
		Billing:       billing,
		Notifications: notifications,
	}
	if cfg.Delivery.Driver == DeliveryDriverWebsocket {
		h.Realtime = hub
	}
	return h
}
