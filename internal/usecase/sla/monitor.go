// Package sla runs the periodic sweep over invoices and undecided appointments. The sweep goes
// through the same unit of work and coordinator as interactive callers.
package sla

import (
	"context"
	"log/slog"
	"time"

	"autoservice-workflow/internal/domain/appointment"
	"autoservice-workflow/internal/domain/event"
	"autoservice-workflow/internal/domain/invoice"
	"autoservice-workflow/internal/domain/notification"
	"autoservice-workflow/internal/pkg/clock"
	"autoservice-workflow/internal/pkg/errs"
	"autoservice-workflow/internal/usecase/commands"
	"autoservice-workflow/internal/usecase/shared"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const defaultStaleBatchSize = 100

var errNoLongerStale = errs.Mark(errs.New("appointment is no longer awaiting a decision"), errs.ErrConflict)

type Report struct {
	RemindersSent         int
	InvoicesOverdue       int
	AppointmentsEscalated int
	Failures              int
}

type Options struct {
	StaleDecisionAfter time.Duration
	Location           *time.Location
	// StaleBatchSize bounds each scan for undecided appointments.
	StaleBatchSize int
}

type Monitor struct {
	uow       shared.UnitOfWork
	workflow  commands.WorkflowCommands
	publisher commands.EventPublisher
	clock     clock.Clock
	opts      Options
	logger    *slog.Logger
	tracer    trace.Tracer
}

func NewMonitor(
	uow shared.UnitOfWork,
	workflow commands.WorkflowCommands,
	publisher commands.EventPublisher,
	clk clock.Clock,
	opts Options,
	logger *slog.Logger,
) *Monitor {
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.StaleBatchSize <= 0 {
		opts.StaleBatchSize = defaultStaleBatchSize
	}
	return &Monitor{
		uow:       uow,
		workflow:  workflow,
		publisher: publisher,
		clock:     clk,
		opts:      opts,
		logger:    logger,
		tracer:    otel.Tracer("autoservice-workflow/sla"),
	}
}

// Sweep runs one pass. Individual invoice or appointment failures are counted and logged; the
// returned error is reserved for failures that stop the pass.
func (m *Monitor) Sweep(ctx context.Context) (Report, error) {
	ctx, span := m.tracer.Start(ctx, "SLASweep")
	defer span.End()

	var report Report
	now := m.clock.Now()

	for _, bucket := range invoice.ReminderBuckets {
		if err := m.remind(ctx, bucket, now, &report); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "reminder pass failed")
			return report, err
		}
	}
	if err := m.escalate(ctx, now, &report); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "escalation pass failed")
		return report, err
	}

	span.SetAttributes(
		attribute.Int("sla.reminders", report.RemindersSent),
		attribute.Int("sla.overdue", report.InvoicesOverdue),
		attribute.Int("sla.escalated", report.AppointmentsEscalated),
		attribute.Int("sla.failures", report.Failures),
	)
	m.logger.InfoContext(ctx, "sla sweep finished",
		slog.Int("reminders", report.RemindersSent),
		slog.Int("overdue", report.InvoicesOverdue),
		slog.Int("escalated", report.AppointmentsEscalated),
		slog.Int("failures", report.Failures))
	return report, nil
}

func (m *Monitor) remind(ctx context.Context, bucket invoice.ReminderBucket, now time.Time, report *Report) error {
	from, to := bucket.Window(now, m.opts.Location)

	var due []invoice.Invoice
	err := m.uow.WithinReadOnly(ctx, func(ctx context.Context, tx shared.Tx) error {
		rows, err := tx.Invoices().ListDueBetween(ctx, invoice.StatusSent, from, to)
		due = rows
		return err
	})
	if err != nil {
		return errs.Wrapf(err, "list invoices for %s", bucket.Kind)
	}

	for _, inv := range due {
		sent, overdue, err := m.remindOne(ctx, bucket, inv.ID, now)
		if err != nil {
			report.Failures++
			m.logger.ErrorContext(ctx, "payment reminder failed",
				slog.String("invoice_id", inv.ID.String()),
				slog.String("kind", string(bucket.Kind)),
				slog.String("error", err.Error()))
			continue
		}
		if sent {
			report.RemindersSent++
		}
		if overdue {
			report.InvoicesOverdue++
		}
	}
	return nil
}

// remindOne re-reads the invoice under lock so a concurrent payment or a second sweep cannot
// produce a duplicate reminder.
func (m *Monitor) remindOne(ctx context.Context, bucket invoice.ReminderBucket, invoiceID uuid.UUID, now time.Time) (bool, bool, error) {
	var (
		evt     *event.Event
		overdue bool
	)
	err := m.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		evt, overdue = nil, false

		inv, err := tx.Invoices().GetForUpdate(ctx, invoiceID)
		if err != nil {
			return err
		}
		if inv.Status != invoice.StatusSent {
			return nil
		}
		recorded, err := tx.Invoices().RecordReminder(ctx, inv.ID, bucket.Kind, now)
		if err != nil {
			return err
		}
		if !recorded {
			return nil
		}

		appt, err := tx.Appointments().Get(ctx, inv.AppointmentID)
		if err != nil {
			return err
		}

		typ := notification.TypePaymentPending
		if bucket.MarkOverdue {
			typ = notification.TypePaymentOverdue
			if inv.MarkOverdue() {
				if err = tx.Invoices().UpdateStatus(ctx, inv); err != nil {
					return err
				}
				overdue = true
			}
		}

		n, err := notification.New(notification.RecipientCustomer, appt.CustomerID(), typ,
			notification.PaymentReminderMessage(string(bucket.Kind), inv.TotalAmount.String()),
			appt.ID(), now)
		if err != nil {
			return err
		}
		if err = tx.Notifications().Create(ctx, n); err != nil {
			return err
		}

		e := event.New(event.PaymentReminderIssued{
			Notification: *n,
			InvoiceID:    inv.ID,
			Kind:         string(bucket.Kind),
		}, now)
		evt = &e
		return nil
	})
	if err != nil {
		return false, false, err
	}
	if evt == nil {
		return false, false, nil
	}
	m.publisher.Publish(*evt)
	return true, overdue, nil
}

// escalate rejects undecided appointments page by page. Ids that were skipped or failed are
// excluded from the following scans so they cannot hide later rows.
func (m *Monitor) escalate(ctx context.Context, now time.Time, report *Report) error {
	var seen []uuid.UUID
	for {
		var stale []uuid.UUID
		err := m.uow.WithinReadOnly(ctx, func(ctx context.Context, tx shared.Tx) error {
			ids, err := tx.Appointments().ListStalePending(ctx, now.Add(-m.opts.StaleDecisionAfter), seen, m.opts.StaleBatchSize)
			stale = ids
			return err
		})
		if err != nil {
			return errs.Wrap(err, "list stale appointments")
		}
		if len(stale) == 0 {
			return nil
		}
		seen = append(seen, stale...)

		for _, id := range stale {
			if err := ctx.Err(); err != nil {
				return err
			}
			m.escalateOne(ctx, id, now, report)
		}
	}
}

func (m *Monitor) escalateOne(ctx context.Context, id uuid.UUID, now time.Time, report *Report) {
	appt, err := m.workflow.ApplyTransition(ctx, id, commands.TransitionRequest{
		Status: appointment.StatusRejected,
		Precondition: func(a *appointment.Appointment) error {
			if !a.IsStaleDecision(now, m.opts.StaleDecisionAfter) {
				return errNoLongerStale
			}
			return nil
		},
	})
	if err != nil {
		if errs.Is(err, errNoLongerStale) || errs.Is(err, errs.ErrInvalidTransition) {
			// decided between the scan and the lock
			return
		}
		report.Failures++
		m.logger.ErrorContext(ctx, "stale decision escalation failed",
			slog.String("appointment_id", id.String()),
			slog.String("error", err.Error()))
		return
	}

	report.AppointmentsEscalated++
	m.publisher.Publish(event.New(event.DecisionEscalated{
		Appointment: event.AppointmentSnapshot{
			ID:              appt.ID(),
			CustomerID:      appt.CustomerID(),
			VehicleID:       appt.VehicleID(),
			ServiceCenterID: appt.ServiceCenterID(),
			ServiceType:     appt.ServiceType(),
			Status:          string(appt.Status()),
			Urgency:         string(appt.Urgency()),
			RequestedDate:   appt.RequestedDate(),
			SLADeadline:     appt.SLADeadline(),
			IsAccidental:    appt.IsAccidental(),
			Photos:          appt.Photos(),
		},
		Waited: now.Sub(appt.RequestedDate()),
	}, now))
}
