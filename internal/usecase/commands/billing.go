package commands

import (
	"context"
	"log/slog"
	"time"

	"autoservice-workflow/internal/domain/event"
	"autoservice-workflow/internal/domain/invoice"
	"autoservice-workflow/internal/pkg/clock"
	"autoservice-workflow/internal/pkg/errs"
	"autoservice-workflow/internal/usecase/shared"

	"github.com/google/uuid"
)

type RecordPaymentRequest struct {
	AppointmentID uuid.UUID
	InvoiceID     uuid.UUID
	AmountCents   int64
	Method        string
}

type BillingCommands interface {
	CreateInvoice(ctx context.Context, appointmentID uuid.UUID, totalCents int64) (*invoice.Invoice, error)
	RecordPayment(ctx context.Context, req RecordPaymentRequest) (*invoice.Payment, error)
}

type billingUseCaseImpl struct {
	uow       shared.UnitOfWork
	publisher EventPublisher
	clock     clock.Clock
	dueIn     time.Duration
	logger    *slog.Logger
}

func NewBillingUseCase(uow shared.UnitOfWork, publisher EventPublisher, clk clock.Clock, dueIn time.Duration, logger *slog.Logger) BillingCommands {
	return &billingUseCaseImpl{
		uow:       uow,
		publisher: publisher,
		clock:     clk,
		dueIn:     dueIn,
		logger:    logger,
	}
}

// CreateInvoice allocates the next invoice sequence and writes the invoice in the same unit of
// work. The appointment row lock serializes competing invoices for one appointment; the unique
// index on appointment_id backs it up.
func (uc *billingUseCaseImpl) CreateInvoice(ctx context.Context, appointmentID uuid.UUID, totalCents int64) (*invoice.Invoice, error) {
	total, err := invoice.NewMoney(totalCents)
	if err != nil {
		return nil, err
	}

	var (
		created *invoice.Invoice
		events  []event.Event
	)
	err = uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		events = nil

		appt, derr := tx.Appointments().GetForUpdate(ctx, appointmentID)
		if derr != nil {
			return derr
		}

		existing, derr := tx.Invoices().GetByAppointment(ctx, appointmentID)
		switch {
		case derr == nil && existing != nil:
			return invoice.ErrAlreadyInvoiced
		case derr != nil && !errs.Is(derr, errs.ErrNotFound):
			return derr
		}

		seq, derr := tx.Invoices().NextSequence(ctx)
		if derr != nil {
			return derr
		}
		now := uc.clock.Now()
		inv, derr := invoice.NewInvoice(appointmentID, seq, total, now, uc.dueIn)
		if derr != nil {
			return derr
		}
		if derr = tx.Invoices().Create(ctx, inv); derr != nil {
			if errs.Is(derr, errs.ErrConflict) {
				return invoice.ErrAlreadyInvoiced
			}
			return derr
		}

		snap, derr := buildSnapshot(ctx, tx.Reads(), appt)
		if derr != nil {
			return derr
		}
		cards, derr := tx.Reads().JobCardsByAppointment(ctx, appointmentID)
		if derr != nil {
			return derr
		}
		events = append(events, event.New(event.InvoiceCreated{
			Appointment: snap,
			JobCards:    jobCardSnapshots(cards),
			Invoice:     invoiceSnapshot(inv),
		}, now))
		created = inv
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.logger.InfoContext(ctx, "invoice created",
		slog.String("appointment_id", appointmentID.String()),
		slog.String("invoice_number", created.Number))
	publishAll(uc.publisher, events)
	return created, nil
}

func (uc *billingUseCaseImpl) RecordPayment(ctx context.Context, req RecordPaymentRequest) (*invoice.Payment, error) {
	method, err := invoice.ParseMethod(req.Method)
	if err != nil {
		return nil, err
	}
	amount, err := invoice.NewMoney(req.AmountCents)
	if err != nil {
		return nil, err
	}

	var (
		payment *invoice.Payment
		events  []event.Event
	)
	err = uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		events = nil

		appt, derr := tx.Appointments().Get(ctx, req.AppointmentID)
		if derr != nil {
			return derr
		}
		inv, derr := tx.Invoices().GetForUpdate(ctx, req.InvoiceID)
		if derr != nil {
			return derr
		}
		if inv.AppointmentID != appt.ID() {
			return invoice.ErrInvoiceMismatch
		}

		now := uc.clock.Now()
		p, derr := invoice.Settle(inv, amount, method, now)
		if derr != nil {
			return derr
		}
		if derr = tx.Payments().Create(ctx, p); derr != nil {
			return derr
		}
		if derr = tx.Invoices().UpdateStatus(ctx, inv); derr != nil {
			return derr
		}

		events = append(events, event.New(event.PaymentCompleted{
			ServiceCenterID: appt.ServiceCenterID(),
			AppointmentID:   appt.ID(),
			ServiceType:     appt.ServiceType(),
			InvoiceID:       inv.ID,
			TransactionID:   p.TransactionID,
			PaidAt:          now,
		}, now))
		payment = p
		return nil
	})
	if err != nil {
		return nil, err
	}

	publishAll(uc.publisher, events)
	return payment, nil
}
