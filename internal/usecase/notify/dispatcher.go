// Package notify turns committed workflow events into persisted notifications and real-time
// pushes. Delivery is best-effort: a failure here is logged and never reaches the caller of the
// operation that produced the event.
package notify

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"autoservice-workflow/internal/domain/event"
	"autoservice-workflow/internal/domain/notification"
	"autoservice-workflow/internal/pkg/clock"
	"autoservice-workflow/internal/pkg/errs"
	"autoservice-workflow/internal/usecase/shared"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Channel is the real-time delivery transport. Implementations own any confidentiality
// transform of payload.
type Channel interface {
	Publish(ctx context.Context, topic string, payload []byte) error
}

type push struct {
	topic   string
	payload any
}

// MechanicAssignment is the body pushed to the service center when a mechanic is bound to an
// appointment, whether by hand or by an approving transition.
type MechanicAssignment struct {
	Type          notification.Type         `json:"type"`
	Message       string                    `json:"message"`
	AppointmentID uuid.UUID                 `json:"appointmentId"`
	MechanicID    uuid.UUID                 `json:"mechanicId"`
	MechanicName  string                    `json:"mechanicName"`
	AssignedAt    time.Time                 `json:"assignedAt"`
	Appointment   event.AppointmentSnapshot `json:"appointment"`
}

func assignmentPush(a event.AppointmentSnapshot, m event.AssignedMechanic) push {
	return push{
		topic: notification.MechanicAssignmentTopic(a.ServiceCenterID),
		payload: MechanicAssignment{
			Type:          notification.TypeMechanicAssigned,
			Message:       notification.MechanicAssignedMessage(m.MechanicName, a.ServiceType),
			AppointmentID: a.ID,
			MechanicID:    m.MechanicID,
			MechanicName:  m.MechanicName,
			AssignedAt:    m.AssignedAt,
			Appointment:   a,
		},
	}
}

type Dispatcher struct {
	uow     shared.UnitOfWork
	channel Channel
	clock   clock.Clock
	logger  *slog.Logger
	tracer  trace.Tracer
}

func NewDispatcher(uow shared.UnitOfWork, channel Channel, clk clock.Clock, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{
		uow:     uow,
		channel: channel,
		clock:   clk,
		logger:  logger,
		tracer:  otel.Tracer("autoservice-workflow/notify"),
	}
}

// Handle persists the notifications evt calls for in one transaction, then pushes them along
// with the raw event payloads.
func (d *Dispatcher) Handle(ctx context.Context, evt event.Event) error {
	ctx, span := d.tracer.Start(ctx, "DispatchEvent")
	defer span.End()
	span.SetAttributes(
		attribute.String("event.id", evt.ID.String()),
		attribute.String("event.type", string(evt.Type)),
	)

	records, pushes, err := d.plan(evt)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to build notifications")
		return err
	}

	if len(records) > 0 {
		err = d.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
			for _, n := range records {
				if derr := tx.Notifications().Create(ctx, n); derr != nil {
					return derr
				}
			}
			return nil
		})
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "failed to persist notifications")
			return errs.Wrap(err, "persist notifications")
		}
	}

	for _, n := range records {
		pushes = append(pushes, push{topic: n.Topic(), payload: n})
	}

	var pushErr error
	for _, p := range pushes {
		if err := d.send(ctx, p); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "failed to push")
			d.logger.WarnContext(ctx, "notification push failed",
				slog.String("event_id", evt.ID.String()),
				slog.String("topic", p.topic),
				slog.String("error", err.Error()))
			pushErr = err
		}
	}

	span.SetAttributes(
		attribute.Int("notifications.persisted", len(records)),
		attribute.Int("notifications.pushed", len(pushes)),
	)
	return pushErr
}

func (d *Dispatcher) send(ctx context.Context, p push) error {
	body, err := json.Marshal(p.payload)
	if err != nil {
		return errs.Wrapf(err, "marshal payload for %s", p.topic)
	}
	if err := d.channel.Publish(ctx, p.topic, body); err != nil {
		return errs.Wrapf(err, "publish %s", p.topic)
	}
	return nil
}

// plan decides which notifications to persist and which extra topics receive the event body.
func (d *Dispatcher) plan(evt event.Event) ([]*notification.Notification, []push, error) {
	now := d.clock.Now()

	switch p := evt.Payload.(type) {
	case event.AppointmentCreated:
		a := p.Appointment
		n, err := notification.New(notification.RecipientServiceCenter, p.ServiceCenterID,
			notification.TypeAppointmentCreated,
			notification.AppointmentCreatedMessage(a.Customer.Name, a.ServiceType, a.Vehicle.Make, a.Vehicle.Model, a.RequestedDate),
			a.ID, now)
		if err != nil {
			return nil, nil, err
		}
		return []*notification.Notification{n}, []push{
			{topic: notification.NewAppointmentTopic(p.ServiceCenterID), payload: p},
			{topic: notification.NewAppointmentTopic(a.CustomerID), payload: p},
		}, nil

	case event.StatusUpdated:
		n, err := notification.New(notification.RecipientCustomer, p.Appointment.CustomerID,
			p.NotificationType, p.Message, p.AppointmentID, now)
		if err != nil {
			return nil, nil, err
		}
		pushes := []push{{topic: notification.StatusUpdateTopic(p.Appointment.ServiceCenterID), payload: p}}
		for _, m := range p.AssignedMechanics {
			pushes = append(pushes, assignmentPush(p.Appointment, m))
		}
		return []*notification.Notification{n}, pushes, nil

	case event.InvoiceCreated:
		n, err := notification.New(notification.RecipientCustomer, p.Appointment.CustomerID,
			notification.TypeInvoiceGenerated,
			notification.InvoiceGeneratedMessage(p.Invoice.DueDate),
			p.Appointment.ID, now)
		if err != nil {
			return nil, nil, err
		}
		return []*notification.Notification{n}, []push{
			{topic: notification.NewInvoiceTopic(p.Appointment.CustomerID), payload: p},
		}, nil

	case event.PaymentCompleted:
		n, err := notification.New(notification.RecipientServiceCenter, p.ServiceCenterID,
			notification.TypePaymentCompleted,
			notification.PaymentCompletedMessage(p.ServiceType, p.PaidAt),
			p.AppointmentID, now)
		if err != nil {
			return nil, nil, err
		}
		return []*notification.Notification{n}, nil, nil

	case event.MechanicAssigned:
		return nil, []push{assignmentPush(p.Appointment, event.AssignedMechanic{
			MechanicID:   p.MechanicID,
			MechanicName: p.MechanicName,
			AssignedAt:   p.AssignedAt,
		})}, nil

	case event.DecisionEscalated:
		a := p.Appointment
		n, err := notification.New(notification.RecipientServiceCenter, a.ServiceCenterID,
			notification.TypeDecisionSLABreached,
			notification.DecisionSLABreachedMessage(a.ServiceType, a.RequestedDate, p.Waited),
			a.ID, now)
		if err != nil {
			return nil, nil, err
		}
		return []*notification.Notification{n}, nil, nil

	case event.PaymentReminderIssued:
		// persisted by the sweep together with the invoice update
		return nil, []push{{topic: p.Notification.Topic(), payload: p.Notification}}, nil

	default:
		d.logger.Warn("no notification route for event", slog.String("event_type", string(evt.Type)))
		return nil, nil, nil
	}
}
